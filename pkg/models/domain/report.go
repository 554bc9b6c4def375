package domain

// Region identifies a supported geographic service area.
type Region string

// Period identifies the reporting window.
type Period struct {
	Month int // 1-12
	Year  int
}

// Narrative holds the free-text sections of a report. Either field may be
// operator-supplied; blank fields are synthesized from the metrics.
type Narrative struct {
	Analysis string
	Summary  string
}

// PricePoint is one month of price-per-area data.
type PricePoint struct {
	Month              int
	Year               int
	Value              float64 // price per sqft
	AveragePrice       float64
	TotalSales         int
	MedianDaysOnMarket int
}

// MarketPoint is one month of days-on-market data.
type MarketPoint struct {
	Month       int
	Year        int
	AverageDays float64
	MedianDays  float64
}

// ListingStatus is the sale state of a listing record.
type ListingStatus string

const (
	StatusActive  ListingStatus = "active"
	StatusPending ListingStatus = "pending"
	StatusClosed  ListingStatus = "closed"
)

// Listing is one property record in the reporting window.
type Listing struct {
	ID           string
	Status       ListingStatus
	Price        float64
	Address      string
	Beds         int
	Baths        float64
	Area         float64 // sqft
	DaysOnMarket int
	YearBuilt    int
}

// Metrics groups the time-series inputs of a report. The two series cover
// the same window but are independently sized.
type Metrics struct {
	PricePerArea []PricePoint
	DaysOnMarket []MarketPoint
}

// Series names accepted in OverrideKey.
const (
	SeriesPricePerArea = "pricePerArea"
	SeriesDaysOnMarket = "daysOnMarket"
)

// OverrideKey addresses a single table cell for an operator correction.
type OverrideKey struct {
	Series string
	Row    int
	Field  string
}

// Overrides is a sparse set of cell replacements, applied at render time.
// Source metrics are never mutated.
type Overrides map[OverrideKey]float64

// ReportRequest is the aggregated input to one export. The exporter treats
// it as read-only: every stage works on copies.
type ReportRequest struct {
	Region    Region
	Period    Period
	Narrative Narrative
	Metrics   Metrics
	Listings  []Listing
	Overrides Overrides
}

// StatusCounts tallies listings by sale state.
type StatusCounts struct {
	Active  int
	Pending int
	Closed  int
	Other   int
}

func CountByStatus(listings []Listing) StatusCounts {
	var c StatusCounts
	for _, l := range listings {
		switch l.Status {
		case StatusActive:
			c.Active++
		case StatusPending:
			c.Pending++
		case StatusClosed:
			c.Closed++
		default:
			c.Other++
		}
	}
	return c
}
