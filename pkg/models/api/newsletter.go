package api

// ExportRequest is the optional POST body of an export call. All fields are
// operator overrides; absent fields fall back to aggregated data.
type ExportRequest struct {
	Analysis  string     `json:"analysis,omitempty"`
	Summary   string     `json:"summary,omitempty"`
	Overrides []Override `json:"overrides,omitempty"`
}

// Override replaces one table cell value for display.
type Override struct {
	Series string  `json:"series"`
	Row    int     `json:"row"`
	Field  string  `json:"field"`
	Value  float64 `json:"value"`
}

// RegionProfile is the public view of a configured service area.
type RegionProfile struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
}

// ReportPreview is the JSON preview of an aggregated report, consumed by the
// admin UI before an export is triggered.
type ReportPreview struct {
	Region   string           `json:"region"`
	Month    int              `json:"month"`
	Year     int              `json:"year"`
	Analysis string           `json:"analysis"`
	Summary  string           `json:"summary"`
	Metrics  PreviewMetrics   `json:"metrics"`
	Listings []Listing        `json:"listings"`
	Charts   map[string]Chart `json:"charts"`
	Statuses map[string]int   `json:"statuses"`
}

type PreviewMetrics struct {
	PricePerArea []PricePoint  `json:"price_per_area"`
	DaysOnMarket []MarketPoint `json:"days_on_market"`
}

type PricePoint struct {
	Month              int     `json:"month"`
	Year               int     `json:"year"`
	Value              float64 `json:"value"`
	AveragePrice       float64 `json:"average_price"`
	TotalSales         int     `json:"total_sales"`
	MedianDaysOnMarket int     `json:"median_days_on_market"`
}

type MarketPoint struct {
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	AverageDays float64 `json:"average_days"`
	MedianDays  float64 `json:"median_days"`
}

type Listing struct {
	ID           string  `json:"id"`
	Status       string  `json:"status"`
	Price        float64 `json:"price"`
	Address      string  `json:"address"`
	Beds         int     `json:"beds"`
	Baths        float64 `json:"baths"`
	Area         float64 `json:"area"`
	DaysOnMarket int     `json:"days_on_market"`
	YearBuilt    int     `json:"year_built"`
}

type Chart struct {
	Kind   string    `json:"kind"`
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Series []float64 `json:"series"`
}
