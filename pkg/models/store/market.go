package store

import "time"

// ListingRecord is one row of the listings table.
type ListingRecord struct {
	ID           string
	Region       string
	Month        int
	Year         int
	Status       string
	Price        float64
	Address      string
	Beds         int
	Baths        float64
	Area         float64
	DaysOnMarket int
	YearBuilt    int
}

// MetricRecord is one row of the monthly_metrics table, one per
// region/month/year.
type MetricRecord struct {
	Region             string
	Month              int
	Year               int
	PricePerSqft       float64
	AveragePrice       float64
	TotalSales         int
	MedianDaysOnMarket int
	AverageDaysOnMkt   float64
	MedianDaysOnMkt    float64
}

// RegionSync tracks how far a region's feed has been ingested. The cursor is
// the last fully ingested month.
type RegionSync struct {
	Region    string
	LastMonth int
	LastYear  int
	UpdatedAt time.Time
}
