package domain

import "fmt"

// ChartKind is the closed set of renderable chart shapes.
type ChartKind int

const (
	ChartLine ChartKind = iota
	ChartBar
	ChartDoughnut
)

func (k ChartKind) String() string {
	switch k {
	case ChartLine:
		return "line"
	case ChartBar:
		return "bar"
	case ChartDoughnut:
		return "doughnut"
	default:
		return fmt.Sprintf("ChartKind(%d)", int(k))
	}
}

// ChartSpec is one renderable chart. Labels and Series are always the same
// length and never empty; the materializer omits a chart slot rather than
// emit an empty spec.
type ChartSpec struct {
	Kind   ChartKind
	Title  string
	Labels []string
	Series []float64
	// ValueSuffix decorates tick/segment labels ("" for plain numbers,
	// " days" for day counts). Currency charts set Currency instead.
	ValueSuffix string
	Currency    bool
}

// Chart slot names produced by the materializer.
const (
	ChartPricePerArea    = "price_per_area_trend"
	ChartMedianSoldPrice = "median_sold_price_trend"
	ChartDaysOnMarket    = "days_on_market_trend"
	ChartStatusBreakdown = "status_breakdown"
	ChartPriceRange      = "price_range_distribution"
	ChartMarketTemp      = "market_temperature"
)
