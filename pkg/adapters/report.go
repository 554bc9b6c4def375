package adapters

import (
	"github.com/mslanden/marketpress/pkg/models/api"
	"github.com/mslanden/marketpress/pkg/models/domain"
)

func MapReportRequestToPreview(req domain.ReportRequest, charts map[string]domain.ChartSpec) api.ReportPreview {
	preview := api.ReportPreview{
		Region:   string(req.Region),
		Month:    req.Period.Month,
		Year:     req.Period.Year,
		Analysis: req.Narrative.Analysis,
		Summary:  req.Narrative.Summary,
		Charts:   make(map[string]api.Chart, len(charts)),
	}

	for _, p := range req.Metrics.PricePerArea {
		preview.Metrics.PricePerArea = append(preview.Metrics.PricePerArea, api.PricePoint{
			Month:              p.Month,
			Year:               p.Year,
			Value:              p.Value,
			AveragePrice:       p.AveragePrice,
			TotalSales:         p.TotalSales,
			MedianDaysOnMarket: p.MedianDaysOnMarket,
		})
	}
	for _, m := range req.Metrics.DaysOnMarket {
		preview.Metrics.DaysOnMarket = append(preview.Metrics.DaysOnMarket, api.MarketPoint{
			Month:       m.Month,
			Year:        m.Year,
			AverageDays: m.AverageDays,
			MedianDays:  m.MedianDays,
		})
	}
	for _, l := range req.Listings {
		preview.Listings = append(preview.Listings, MapDomainListingToApi(l))
	}
	for name, spec := range charts {
		preview.Charts[name] = api.Chart{
			Kind:   spec.Kind.String(),
			Title:  spec.Title,
			Labels: spec.Labels,
			Series: spec.Series,
		}
	}

	counts := domain.CountByStatus(req.Listings)
	preview.Statuses = map[string]int{
		"active":  counts.Active,
		"pending": counts.Pending,
		"closed":  counts.Closed,
		"other":   counts.Other,
	}

	return preview
}

func MapDomainListingToApi(l domain.Listing) api.Listing {
	return api.Listing{
		ID:           l.ID,
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

func MapApiOverridesToDomain(overrides []api.Override) domain.Overrides {
	if len(overrides) == 0 {
		return nil
	}
	out := make(domain.Overrides, len(overrides))
	for _, o := range overrides {
		out[domain.OverrideKey{Series: o.Series, Row: o.Row, Field: o.Field}] = o.Value
	}
	return out
}

func MapRegionProfileToApi(p domain.RegionProfile) api.RegionProfile {
	return api.RegionProfile{
		Key:         string(p.Key),
		DisplayName: p.DisplayName,
	}
}
