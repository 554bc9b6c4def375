package adapters

import (
	"github.com/mslanden/marketpress/pkg/models/domain"
	"github.com/mslanden/marketpress/pkg/models/store"
)

func MapStoreListingToDomain(rec store.ListingRecord) domain.Listing {
	return domain.Listing{
		ID:           rec.ID,
		Status:       domain.ListingStatus(rec.Status),
		Price:        rec.Price,
		Address:      rec.Address,
		Beds:         rec.Beds,
		Baths:        rec.Baths,
		Area:         rec.Area,
		DaysOnMarket: rec.DaysOnMarket,
		YearBuilt:    rec.YearBuilt,
	}
}

func MapDomainListingToStore(l domain.Listing, region domain.Region, period domain.Period) store.ListingRecord {
	return store.ListingRecord{
		ID:           l.ID,
		Region:       string(region),
		Month:        period.Month,
		Year:         period.Year,
		Status:       string(l.Status),
		Price:        l.Price,
		Address:      l.Address,
		Beds:         l.Beds,
		Baths:        l.Baths,
		Area:         l.Area,
		DaysOnMarket: l.DaysOnMarket,
		YearBuilt:    l.YearBuilt,
	}
}

// MapDomainPointsToMetricRecord merges one month's price and days-on-market
// points into the single metrics row the store keeps per region/month.
func MapDomainPointsToMetricRecord(
	region domain.Region,
	period domain.Period,
	price *domain.PricePoint,
	market *domain.MarketPoint,
) store.MetricRecord {
	rec := store.MetricRecord{
		Region: string(region),
		Month:  period.Month,
		Year:   period.Year,
	}
	if price != nil {
		rec.PricePerSqft = price.Value
		rec.AveragePrice = price.AveragePrice
		rec.TotalSales = price.TotalSales
		rec.MedianDaysOnMarket = price.MedianDaysOnMarket
	}
	if market != nil {
		rec.AverageDaysOnMkt = market.AverageDays
		rec.MedianDaysOnMkt = market.MedianDays
	}
	return rec
}

func MapMetricRecordToPricePoint(rec store.MetricRecord) domain.PricePoint {
	return domain.PricePoint{
		Month:              rec.Month,
		Year:               rec.Year,
		Value:              rec.PricePerSqft,
		AveragePrice:       rec.AveragePrice,
		TotalSales:         rec.TotalSales,
		MedianDaysOnMarket: rec.MedianDaysOnMarket,
	}
}

func MapMetricRecordToMarketPoint(rec store.MetricRecord) domain.MarketPoint {
	return domain.MarketPoint{
		Month:       rec.Month,
		Year:        rec.Year,
		AverageDays: rec.AverageDaysOnMkt,
		MedianDays:  rec.MedianDaysOnMkt,
	}
}
