package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/mslanden/marketpress/pkg/models/domain"
	storemodels "github.com/mslanden/marketpress/pkg/models/store"
	"github.com/mslanden/marketpress/pkg/services/config"
	"github.com/mslanden/marketpress/pkg/services/marketdata"
	"github.com/mslanden/marketpress/pkg/store/duckdb/market"
	syncstore "github.com/mslanden/marketpress/pkg/store/duckdb/sync"
	"github.com/rs/zerolog"
)

// defaultBackfillMonths is how far back a fresh sync starts.
const defaultBackfillMonths = 12

// FeedFactory builds the market-data client for one region's feed.
type FeedFactory func(profile domain.RegionProfile) marketdata.Provider

type Controller interface {
	Start(ctx context.Context, region domain.Region) error
	Cancel(ctx context.Context, region domain.Region) error
}

type runnerDescriptor struct {
	cancelFunc context.CancelFunc
	runner     *Runner
}

// DefaultController owns one feed sync per region. Start is rejected for a
// region already running; Cancel waits for the runner to wind down. Runners
// live on the base context given at construction, not the caller's, so a
// sync started from a request outlives the request.
type DefaultController struct {
	base      context.Context
	db        *sql.DB
	regions   config.Registry
	syncStore syncstore.Store
	market    market.Store
	feeds     FeedFactory
	now       func() time.Time

	mu      sync.Mutex
	runners map[string]runnerDescriptor
}

func NewController(
	base context.Context,
	db *sql.DB,
	regions config.Registry,
	syncStore syncstore.Store,
	marketStore market.Store,
	feeds FeedFactory,
) *DefaultController {
	return &DefaultController{
		base:      base,
		db:        db,
		regions:   regions,
		syncStore: syncStore,
		market:    marketStore,
		feeds:     feeds,
		now:       time.Now,
		runners:   make(map[string]runnerDescriptor),
	}
}

// Init resumes every persisted sync, typically at server startup.
func (ctrl *DefaultController) Init(ctx context.Context) error {
	syncs, err := ctrl.syncStore.ListSyncs(ctx)
	if err != nil {
		return err
	}

	for _, s := range syncs {
		if err := ctrl.startRunner(ctx, s); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("region", s.Region).Msg("failed to resume feed sync")
		}
	}
	return nil
}

func (ctrl *DefaultController) Start(ctx context.Context, region domain.Region) error {
	if _, err := ctrl.regions.GetProfile(ctx, region); err != nil {
		return err
	}

	cursorMonth, cursorYear := backfillCursor(ctrl.now(), defaultBackfillMonths)
	s, err := ctrl.syncStore.CreateSync(ctx, string(region), storemodels.RegionSync{
		LastMonth: cursorMonth,
		LastYear:  cursorYear,
	})
	if err != nil {
		return err
	}

	return ctrl.startRunner(ctx, s)
}

func (ctrl *DefaultController) Cancel(_ context.Context, region domain.Region) error {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	desc, ok := ctrl.runners[string(region)]
	if !ok {
		return fmt.Errorf("feed sync not running for %s", region)
	}
	desc.cancelFunc()
	<-desc.runner.Done()

	delete(ctrl.runners, string(region))
	return nil
}

func (ctrl *DefaultController) startRunner(ctx context.Context, s *storemodels.RegionSync) error {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	if _, running := ctrl.runners[s.Region]; running {
		return fmt.Errorf("feed sync already running for %s", s.Region)
	}

	profile, err := ctrl.regions.GetProfile(ctx, domain.Region(s.Region))
	if err != nil {
		return err
	}
	if profile.FeedURL == "" {
		return fmt.Errorf("region %s has no feed_url configured", s.Region)
	}

	runCtx, cancel := context.WithCancel(ctrl.base)
	runner := NewRunner(s, ctrl.db, ctrl.syncStore, ctrl.feeds(profile), ctrl.market)
	ctrl.runners[s.Region] = runnerDescriptor{
		cancelFunc: cancel,
		runner:     runner,
	}

	go runner.Run(runCtx)
	return nil
}

// backfillCursor is the cursor value for a fresh sync: months back from now,
// so the runner's first batch is the month after it.
func backfillCursor(now time.Time, months int) (int, int) {
	t := now.AddDate(0, -months, 0)
	return int(t.Month()), t.Year()
}
