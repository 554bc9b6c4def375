package marketdata

import (
	"context"
	"fmt"

	"github.com/mslanden/marketpress/pkg/adapters"
	"github.com/mslanden/marketpress/pkg/models/domain"
	"github.com/mslanden/marketpress/pkg/store/duckdb/market"
)

// Provider supplies the report inputs for a region and period. The exporter
// only reads; implementations own the transport/storage details.
type Provider interface {
	// GetPricePerArea returns up to months chronological price points
	// ending at period.
	GetPricePerArea(ctx context.Context, region domain.Region, period domain.Period, months int) ([]domain.PricePoint, error)
	GetDaysOnMarket(ctx context.Context, region domain.Region, period domain.Period, months int) ([]domain.MarketPoint, error)
	GetListings(ctx context.Context, region domain.Region, period domain.Period) ([]domain.Listing, error)
}

type storeProvider struct {
	store market.Store
}

// NewStoreProvider serves market data from the local DuckDB store.
func NewStoreProvider(store market.Store) (Provider, error) {
	if store == nil {
		return nil, fmt.Errorf("market store is nil")
	}
	return &storeProvider{store: store}, nil
}

func (p *storeProvider) GetPricePerArea(
	ctx context.Context,
	region domain.Region,
	period domain.Period,
	months int,
) ([]domain.PricePoint, error) {
	records, err := p.store.GetMetricSeries(ctx, string(region), period.Month, period.Year, months)
	if err != nil {
		return nil, fmt.Errorf("failed to load price series: %w", err)
	}

	points := make([]domain.PricePoint, 0, len(records))
	for _, r := range records {
		if r.PricePerSqft == 0 && r.AveragePrice == 0 {
			continue
		}
		points = append(points, adapters.MapMetricRecordToPricePoint(r))
	}
	return points, nil
}

func (p *storeProvider) GetDaysOnMarket(
	ctx context.Context,
	region domain.Region,
	period domain.Period,
	months int,
) ([]domain.MarketPoint, error) {
	records, err := p.store.GetMetricSeries(ctx, string(region), period.Month, period.Year, months)
	if err != nil {
		return nil, fmt.Errorf("failed to load market series: %w", err)
	}

	points := make([]domain.MarketPoint, 0, len(records))
	for _, r := range records {
		if r.AverageDaysOnMkt == 0 && r.MedianDaysOnMkt == 0 {
			continue
		}
		points = append(points, adapters.MapMetricRecordToMarketPoint(r))
	}
	return points, nil
}

func (p *storeProvider) GetListings(
	ctx context.Context,
	region domain.Region,
	period domain.Period,
) ([]domain.Listing, error) {
	records, err := p.store.GetListings(ctx, string(region), period.Month, period.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}

	listings := make([]domain.Listing, 0, len(records))
	for _, r := range records {
		listings = append(listings, adapters.MapStoreListingToDomain(r))
	}
	return listings, nil
}
