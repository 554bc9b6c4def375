package export

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mslanden/marketpress/pkg/models/domain"
	"github.com/mslanden/marketpress/pkg/services/marketdata"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// AggregateOptions carries the operator-supplied inputs of one export.
type AggregateOptions struct {
	Narrative *domain.Narrative
	Overrides domain.Overrides
}

// Aggregator collects the report inputs from the market-data provider into
// one ReportRequest. A failed or empty fetch is a normal, renderable state
// (the report shows a placeholder for that section), never an error.
type Aggregator struct {
	provider marketdata.Provider
	months   int
}

func NewAggregator(provider marketdata.Provider, trendMonths int) (*Aggregator, error) {
	if provider == nil {
		return nil, fmt.Errorf("market data provider is nil")
	}
	if trendMonths <= 0 {
		trendMonths = DefaultConfig().Render.TrendMonths
	}
	return &Aggregator{provider: provider, months: trendMonths}, nil
}

func (a *Aggregator) Aggregate(
	ctx context.Context,
	region domain.Region,
	period domain.Period,
	opts AggregateOptions,
) (domain.ReportRequest, error) {
	logger := zerolog.Ctx(ctx)

	req := domain.ReportRequest{
		Region:    region,
		Period:    period,
		Overrides: opts.Overrides,
	}

	// The fetches have no ordering dependency; issue them together and
	// wait for all. Each failure becomes an empty section on its own.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		prices, err := a.provider.GetPricePerArea(gctx, region, period, a.months)
		if err != nil {
			logger.Warn().Err(err).Str("region", string(region)).Msg("price series unavailable")
			return nil
		}
		req.Metrics.PricePerArea = prices
		return nil
	})

	g.Go(func() error {
		days, err := a.provider.GetDaysOnMarket(gctx, region, period, a.months)
		if err != nil {
			logger.Warn().Err(err).Str("region", string(region)).Msg("days-on-market series unavailable")
			return nil
		}
		req.Metrics.DaysOnMarket = days
		return nil
	})

	g.Go(func() error {
		listings, err := a.provider.GetListings(gctx, region, period)
		if err != nil {
			logger.Warn().Err(err).Str("region", string(region)).Msg("listings unavailable")
			return nil
		}
		req.Listings = listings
		return nil
	})

	// Only context cancellation can surface here; data failures were
	// absorbed above.
	if err := g.Wait(); err != nil {
		return domain.ReportRequest{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.ReportRequest{}, err
	}

	if opts.Narrative != nil {
		req.Narrative = *opts.Narrative
	}
	if req.Narrative.Analysis == "" {
		req.Narrative.Analysis = synthesizeAnalysis(req)
	}
	if req.Narrative.Summary == "" {
		req.Narrative.Summary = synthesizeSummary(req)
	}

	return req, nil
}

// synthesizeAnalysis derives a market-analysis sentence from whatever data
// was retrieved, so the report never ships with a blank section.
func synthesizeAnalysis(req domain.ReportRequest) string {
	counts := domain.CountByStatus(req.Listings)
	label := PeriodLabel(req.Period.Month, req.Period.Year)

	var parts []string
	if n := len(req.Listings); n > 0 {
		parts = append(parts, fmt.Sprintf("The %s market recorded %d listings in %s: %d active, %d pending and %d closed.",
			string(req.Region), n, label, counts.Active, counts.Pending, counts.Closed))
	}
	if latest, ok := latestPricePoint(req.Metrics.PricePerArea); ok {
		parts = append(parts, fmt.Sprintf("Price per square foot stood at $%.0f with an average sale price of $%.0f.",
			latest.Value, latest.AveragePrice))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("No market activity was recorded for %s in %s.", string(req.Region), label)
	}
	return strings.Join(parts, " ")
}

func synthesizeSummary(req domain.ReportRequest) string {
	if median, ok := medianListingPrice(req.Listings); ok {
		return fmt.Sprintf("Median listing price for the period was $%.0f across %d properties.",
			median, len(req.Listings))
	}
	if latest, ok := latestPricePoint(req.Metrics.PricePerArea); ok {
		return fmt.Sprintf("Latest recorded average sale price was $%.0f.", latest.AveragePrice)
	}
	return "Market data for this period is still being collected."
}

func latestPricePoint(points []domain.PricePoint) (domain.PricePoint, bool) {
	if len(points) == 0 {
		return domain.PricePoint{}, false
	}
	return points[len(points)-1], true
}

func medianListingPrice(listings []domain.Listing) (float64, bool) {
	if len(listings) == 0 {
		return 0, false
	}
	prices := make([]float64, len(listings))
	for i, l := range listings {
		prices[i] = l.Price
	}
	sort.Float64s(prices)

	mid := len(prices) / 2
	if len(prices)%2 == 0 {
		return (prices[mid-1] + prices[mid]) / 2, true
	}
	return prices[mid], true
}
