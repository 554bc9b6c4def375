package ingest

import (
	"context"
	"database/sql"
	"time"

	"github.com/mslanden/marketpress/pkg/adapters"
	"github.com/mslanden/marketpress/pkg/models/domain"
	storemodels "github.com/mslanden/marketpress/pkg/models/store"
	"github.com/mslanden/marketpress/pkg/services/marketdata"
	"github.com/mslanden/marketpress/pkg/store/duckdb"
	"github.com/mslanden/marketpress/pkg/store/duckdb/market"
	syncstore "github.com/mslanden/marketpress/pkg/store/duckdb/sync"
	"github.com/rs/zerolog"
)

type RunnerConfig struct {
	// SleepInterval is the back-off after a failed batch and the poll
	// interval once the cursor has caught up with the current month.
	SleepInterval time.Duration
}

type RunnerProgress struct {
	Region          string
	LastMonth       int
	LastYear        int
	IngestedMonths  int
	LastProcessedAt time.Time
}

// Runner walks one region's feed month by month from the sync cursor up to
// the current month, writing each batch and the cursor advance in a single
// transaction.
type Runner struct {
	sync      *storemodels.RegionSync
	db        *sql.DB
	syncStore syncstore.Store
	feed      marketdata.Provider
	market    market.Store
	done      chan struct{}
	progress  chan RunnerProgress
	config    RunnerConfig
	now       func() time.Time
}

func NewRunner(
	sync *storemodels.RegionSync,
	db *sql.DB,
	syncStore syncstore.Store,
	feed marketdata.Provider,
	marketStore market.Store,
) *Runner {
	return &Runner{
		sync:      sync,
		db:        db,
		syncStore: syncStore,
		feed:      feed,
		market:    marketStore,
		done:      make(chan struct{}),
		progress:  make(chan RunnerProgress, 100),
		config: RunnerConfig{
			SleepInterval: 10 * time.Second,
		},
		now: time.Now,
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) Progress() <-chan RunnerProgress {
	return r.progress
}

func (r *Runner) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("region", r.sync.Region).Logger()
	defer close(r.done)
	defer close(r.progress)

	region := domain.Region(r.sync.Region)
	month, year := r.sync.LastMonth, r.sync.LastYear
	ingested := 0

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("feed sync stopped")
			return
		default:
		}

		nextMonth, nextYear := nextPeriod(month, year)
		if afterCurrentMonth(nextMonth, nextYear, r.now()) {
			if !r.sleep(ctx) {
				return
			}
			continue
		}
		period := domain.Period{Month: nextMonth, Year: nextYear}

		if err := r.ingestMonth(ctx, region, period); err != nil {
			logger.Error().Err(err).Int("month", nextMonth).Int("year", nextYear).Msg("feed batch failed")
			if !r.sleep(ctx) {
				return
			}
			continue
		}

		month, year = nextMonth, nextYear
		ingested++
		r.publishProgress(RunnerProgress{
			Region:          r.sync.Region,
			LastMonth:       month,
			LastYear:        year,
			IngestedMonths:  ingested,
			LastProcessedAt: r.now(),
		})
	}
}

func (r *Runner) ingestMonth(ctx context.Context, region domain.Region, period domain.Period) error {
	listings, err := r.feed.GetListings(ctx, region, period)
	if err != nil {
		return err
	}
	prices, err := r.feed.GetPricePerArea(ctx, region, period, 1)
	if err != nil {
		return err
	}
	days, err := r.feed.GetDaysOnMarket(ctx, region, period, 1)
	if err != nil {
		return err
	}

	listingRecords := make([]storemodels.ListingRecord, 0, len(listings))
	for _, l := range listings {
		listingRecords = append(listingRecords, adapters.MapDomainListingToStore(l, region, period))
	}

	var pricePoint *domain.PricePoint
	if len(prices) > 0 {
		pricePoint = &prices[len(prices)-1]
	}
	var marketPoint *domain.MarketPoint
	if len(days) > 0 {
		marketPoint = &days[len(days)-1]
	}

	var metricRecords []storemodels.MetricRecord
	if pricePoint != nil || marketPoint != nil {
		metricRecords = append(metricRecords, adapters.MapDomainPointsToMetricRecord(region, period, pricePoint, marketPoint))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	txCtx := duckdb.WithTransaction(ctx, tx)

	if err := r.market.AddListings(txCtx, listingRecords); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := r.market.AddMonthlyMetrics(txCtx, metricRecords); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := r.syncStore.UpdateSync(txCtx, string(region), period.Month, period.Year); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// publishProgress never blocks; if no one is draining the channel the
// oldest updates are simply lost.
func (r *Runner) publishProgress(p RunnerProgress) {
	select {
	case r.progress <- p:
	default:
	}
}

func (r *Runner) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(r.config.SleepInterval):
		return true
	}
}

func nextPeriod(month, year int) (int, int) {
	if month >= 12 {
		return 1, year + 1
	}
	return month + 1, year
}

func afterCurrentMonth(month, year int, now time.Time) bool {
	if year != now.Year() {
		return year > now.Year()
	}
	return month > int(now.Month())
}
