package export

import (
	"fmt"

	"github.com/mslanden/marketpress/pkg/models/domain"
)

// monthAbbrev is a fixed month-name table; labels must not depend on the
// host locale.
var monthAbbrev = [13]string{
	"", "Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// PeriodLabel renders a month/year pair as e.g. "Jan 2024".
func PeriodLabel(month, year int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%d-%d", month, year)
	}
	return fmt.Sprintf("%s %d", monthAbbrev[month], year)
}

// MonthName returns the full month name used in filenames.
func MonthName(month int) string {
	names := [13]string{
		"", "January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	if month < 1 || month > 12 {
		return fmt.Sprintf("Month%d", month)
	}
	return names[month]
}

// FormatCurrency renders a value with a leading $; values above $1000 used
// as axis ticks are abbreviated with a k suffix.
func FormatCurrency(v float64, tick bool) string {
	if tick && v > 1000 {
		return fmt.Sprintf("$%.0fk", v/1000)
	}
	if v == float64(int64(v)) {
		return fmt.Sprintf("$%.0f", v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// FormatDays renders a day count with its unit suffix.
func FormatDays(v float64) string {
	return fmt.Sprintf("%.0f days", v)
}

// hasData is the single presence predicate for a chart's backing series. A
// slot whose series fails it is absent from the output, never emitted as a
// zero-filled chart.
func hasData(series []float64) bool {
	return len(series) > 0
}

// Materializer turns an aggregated report into renderable chart specs.
type Materializer struct {
	temp TemperatureConfig
}

func NewMaterializer(temp TemperatureConfig) *Materializer {
	return &Materializer{temp: temp}
}

// Materialize derives the fixed chart slots from the report data. Slots with
// no backing data are omitted entirely.
func (m *Materializer) Materialize(req domain.ReportRequest) map[string]domain.ChartSpec {
	charts := make(map[string]domain.ChartSpec)

	if spec, ok := m.priceTrend(req.Metrics.PricePerArea); ok {
		charts[domain.ChartPricePerArea] = spec
	}
	if spec, ok := m.soldPriceTrend(req.Metrics.PricePerArea); ok {
		charts[domain.ChartMedianSoldPrice] = spec
	}
	if spec, ok := m.daysOnMarketTrend(req.Metrics.DaysOnMarket); ok {
		charts[domain.ChartDaysOnMarket] = spec
	}
	if spec, ok := m.statusBreakdown(req.Listings); ok {
		charts[domain.ChartStatusBreakdown] = spec
	}
	if spec, ok := m.priceRange(req.Listings); ok {
		charts[domain.ChartPriceRange] = spec
	}
	if spec, ok := m.marketTemperature(req.Listings); ok {
		charts[domain.ChartMarketTemp] = spec
	}

	return charts
}

func (m *Materializer) priceTrend(points []domain.PricePoint) (domain.ChartSpec, bool) {
	labels := make([]string, 0, len(points))
	series := make([]float64, 0, len(points))
	for _, p := range points {
		labels = append(labels, PeriodLabel(p.Month, p.Year))
		series = append(series, p.Value)
	}
	if !hasData(series) {
		return domain.ChartSpec{}, false
	}
	return domain.ChartSpec{
		Kind:     domain.ChartLine,
		Title:    "Price per Sq Ft",
		Labels:   labels,
		Series:   series,
		Currency: true,
	}, true
}

func (m *Materializer) soldPriceTrend(points []domain.PricePoint) (domain.ChartSpec, bool) {
	labels := make([]string, 0, len(points))
	series := make([]float64, 0, len(points))
	for _, p := range points {
		if p.AveragePrice == 0 {
			continue
		}
		labels = append(labels, PeriodLabel(p.Month, p.Year))
		series = append(series, p.AveragePrice)
	}
	if !hasData(series) {
		return domain.ChartSpec{}, false
	}
	return domain.ChartSpec{
		Kind:     domain.ChartLine,
		Title:    "Average Sold Price",
		Labels:   labels,
		Series:   series,
		Currency: true,
	}, true
}

func (m *Materializer) daysOnMarketTrend(points []domain.MarketPoint) (domain.ChartSpec, bool) {
	labels := make([]string, 0, len(points))
	series := make([]float64, 0, len(points))
	for _, p := range points {
		labels = append(labels, PeriodLabel(p.Month, p.Year))
		series = append(series, p.AverageDays)
	}
	if !hasData(series) {
		return domain.ChartSpec{}, false
	}
	return domain.ChartSpec{
		Kind:        domain.ChartBar,
		Title:       "Days on Market",
		Labels:      labels,
		Series:      series,
		ValueSuffix: " days",
	}, true
}

func (m *Materializer) statusBreakdown(listings []domain.Listing) (domain.ChartSpec, bool) {
	counts := domain.CountByStatus(listings)

	var labels []string
	var series []float64
	for _, entry := range []struct {
		label string
		count int
	}{
		{"Active", counts.Active},
		{"Pending", counts.Pending},
		{"Closed", counts.Closed},
		{"Other", counts.Other},
	} {
		if entry.count == 0 {
			continue
		}
		labels = append(labels, entry.label)
		series = append(series, float64(entry.count))
	}
	if !hasData(series) {
		return domain.ChartSpec{}, false
	}
	return domain.ChartSpec{
		Kind:   domain.ChartDoughnut,
		Title:  "Listings by Status",
		Labels: labels,
		Series: series,
	}, true
}

// priceRange buckets listing prices into fixed bands.
func (m *Materializer) priceRange(listings []domain.Listing) (domain.ChartSpec, bool) {
	if len(listings) == 0 {
		return domain.ChartSpec{}, false
	}

	bounds := []float64{250000, 500000, 750000, 1000000}
	labels := []string{"Under $250k", "$250k-$500k", "$500k-$750k", "$750k-$1M", "Over $1M"}
	buckets := make([]float64, len(labels))

	for _, l := range listings {
		idx := len(bounds)
		for i, bound := range bounds {
			if l.Price < bound {
				idx = i
				break
			}
		}
		buckets[idx]++
	}

	return domain.ChartSpec{
		Kind:   domain.ChartBar,
		Title:  "Price Range Distribution",
		Labels: labels,
		Series: buckets,
	}, true
}

// marketTemperature derives the seller/balanced/buyer split from the ratio
// of active listings to pending+closed in the same batch. The tiers are
// preset triples; seller share never increases as the ratio grows.
func (m *Materializer) marketTemperature(listings []domain.Listing) (domain.ChartSpec, bool) {
	counts := domain.CountByStatus(listings)
	if counts.Active+counts.Pending+counts.Closed == 0 {
		return domain.ChartSpec{}, false
	}

	bands := m.temperatureBands(counts)
	return domain.ChartSpec{
		Kind:        domain.ChartDoughnut,
		Title:       "Market Temperature",
		Labels:      []string{"Seller's Market", "Balanced", "Buyer's Market"},
		Series:      []float64{float64(bands[0]), float64(bands[1]), float64(bands[2])},
		ValueSuffix: "%",
	}, true
}

func (m *Materializer) temperatureBands(counts domain.StatusCounts) [3]int {
	sold := counts.Pending + counts.Closed
	if sold == 0 {
		// Pure inventory with nothing moving reads as a buyer's market.
		return m.temp.Buyer
	}

	ratio := float64(counts.Active) / float64(sold)
	switch {
	case ratio < m.temp.SellerMax:
		return m.temp.Seller
	case ratio > m.temp.BuyerMin:
		return m.temp.Buyer
	default:
		return m.temp.Balanced
	}
}
