package export

import (
	"fmt"
	"testing"

	"github.com/mslanden/marketpress/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaterializer() *Materializer {
	return NewMaterializer(DefaultConfig().Temperature)
}

func TestPeriodLabel(t *testing.T) {
	tests := []struct {
		month, year int
		want        string
	}{
		{1, 2024, "Jan 2024"},
		{12, 2023, "Dec 2023"},
		{6, 1999, "Jun 1999"},
		{13, 2024, "13-2024"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PeriodLabel(tt.month, tt.year))
	}
}

func TestPeriodLabel_Deterministic(t *testing.T) {
	first := PeriodLabel(1, 2024)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, PeriodLabel(1, 2024))
	}
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$450", FormatCurrency(450, false))
	assert.Equal(t, "$425000", FormatCurrency(425000, false))
	assert.Equal(t, "$425k", FormatCurrency(425000, true))
	assert.Equal(t, "$950", FormatCurrency(950, true))
	assert.Equal(t, "$236.50", FormatCurrency(236.5, false))
}

func TestFormatDays(t *testing.T) {
	assert.Equal(t, "42 days", FormatDays(42))
}

func TestMaterialize_OmitsEmptySlots(t *testing.T) {
	m := newTestMaterializer()

	t.Run("fully empty request yields no charts", func(t *testing.T) {
		charts := m.Materialize(domain.ReportRequest{})
		assert.Empty(t, charts)
	})

	t.Run("price data without listings omits listing charts", func(t *testing.T) {
		req := domain.ReportRequest{
			Metrics: domain.Metrics{
				PricePerArea: []domain.PricePoint{{Month: 1, Year: 2024, Value: 230, AveragePrice: 410000}},
			},
		}
		charts := m.Materialize(req)

		assert.Contains(t, charts, domain.ChartPricePerArea)
		assert.Contains(t, charts, domain.ChartMedianSoldPrice)
		assert.NotContains(t, charts, domain.ChartDaysOnMarket)
		assert.NotContains(t, charts, domain.ChartStatusBreakdown)
		assert.NotContains(t, charts, domain.ChartPriceRange)
		assert.NotContains(t, charts, domain.ChartMarketTemp)
	})

	t.Run("zero average prices omit the sold price trend", func(t *testing.T) {
		req := domain.ReportRequest{
			Metrics: domain.Metrics{
				PricePerArea: []domain.PricePoint{{Month: 1, Year: 2024, Value: 230}},
			},
		}
		charts := m.Materialize(req)

		assert.Contains(t, charts, domain.ChartPricePerArea)
		assert.NotContains(t, charts, domain.ChartMedianSoldPrice)
	})
}

func TestMaterialize_ChartShapes(t *testing.T) {
	m := newTestMaterializer()
	req := domain.ReportRequest{
		Metrics: domain.Metrics{
			PricePerArea: []domain.PricePoint{
				{Month: 1, Year: 2024, Value: 228, AveragePrice: 401000},
				{Month: 2, Year: 2024, Value: 231, AveragePrice: 398000},
				{Month: 3, Year: 2024, Value: 236, AveragePrice: 412500},
			},
			DaysOnMarket: []domain.MarketPoint{
				{Month: 2, Year: 2024, AverageDays: 47},
				{Month: 3, Year: 2024, AverageDays: 42},
			},
		},
		Listings: []domain.Listing{
			{ID: "1", Status: domain.StatusActive, Price: 425000},
			{ID: "2", Status: domain.StatusClosed, Price: 1250000},
		},
	}

	charts := m.Materialize(req)

	price := charts[domain.ChartPricePerArea]
	require.Len(t, price.Labels, 3)
	require.Len(t, price.Series, 3)
	assert.Equal(t, domain.ChartLine, price.Kind)
	assert.Equal(t, []string{"Jan 2024", "Feb 2024", "Mar 2024"}, price.Labels)
	assert.True(t, price.Currency)

	dom := charts[domain.ChartDaysOnMarket]
	assert.Equal(t, domain.ChartBar, dom.Kind)
	assert.Equal(t, " days", dom.ValueSuffix)
	assert.Equal(t, []float64{47, 42}, dom.Series)

	status := charts[domain.ChartStatusBreakdown]
	assert.Equal(t, domain.ChartDoughnut, status.Kind)
	assert.Equal(t, []string{"Active", "Closed"}, status.Labels)
	assert.Equal(t, []float64{1, 1}, status.Series)

	ranges := charts[domain.ChartPriceRange]
	assert.Equal(t, []float64{0, 1, 0, 0, 1}, ranges.Series)
}

func TestMarketTemperature_Tiers(t *testing.T) {
	m := newTestMaterializer()
	cfg := DefaultConfig().Temperature

	tests := []struct {
		name    string
		active  int
		pending int
		closed  int
		want    [3]int
	}{
		{"seller tier below ratio 2", 3, 1, 1, cfg.Seller},
		{"balanced tier between thresholds", 6, 1, 1, cfg.Balanced},
		{"buyer tier above ratio 5", 11, 1, 1, cfg.Buyer},
		{"no sales with inventory is a buyer market", 4, 0, 0, cfg.Buyer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.temperatureBands(domain.StatusCounts{
				Active:  tt.active,
				Pending: tt.pending,
				Closed:  tt.closed,
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarketTemperature_SellerShareMonotone(t *testing.T) {
	m := newTestMaterializer()

	// With pending+closed fixed, growing inventory must never raise the
	// seller share.
	prev := 101
	for active := 0; active <= 30; active++ {
		bands := m.temperatureBands(domain.StatusCounts{Active: active, Pending: 2, Closed: 2})
		assert.LessOrEqual(t, bands[0], prev,
			fmt.Sprintf("seller share increased at active=%d", active))
		assert.Equal(t, 100, bands[0]+bands[1]+bands[2])
		prev = bands[0]
	}
}

func TestMaterialize_ReportScenario(t *testing.T) {
	// Region anza, March 2024: three price points, no days-on-market
	// series, five listings (3 active / 1 pending / 1 closed).
	m := newTestMaterializer()
	req := domain.ReportRequest{
		Region: "anza",
		Period: domain.Period{Month: 3, Year: 2024},
		Metrics: domain.Metrics{
			PricePerArea: []domain.PricePoint{
				{Month: 1, Year: 2024, Value: 228},
				{Month: 2, Year: 2024, Value: 231},
				{Month: 3, Year: 2024, Value: 236},
			},
		},
		Listings: []domain.Listing{
			{ID: "1", Status: domain.StatusActive, Price: 400000},
			{ID: "2", Status: domain.StatusActive, Price: 450000},
			{ID: "3", Status: domain.StatusActive, Price: 500000},
			{ID: "4", Status: domain.StatusPending, Price: 380000},
			{ID: "5", Status: domain.StatusClosed, Price: 390000},
		},
	}

	charts := m.Materialize(req)

	assert.Contains(t, charts, domain.ChartPricePerArea)
	assert.NotContains(t, charts, domain.ChartDaysOnMarket)

	// ratio = 3 active / (1 pending + 1 closed) = 1.5 < 2: seller tier.
	temp := charts[domain.ChartMarketTemp]
	cfg := DefaultConfig().Temperature
	assert.Equal(t, float64(cfg.Seller[0]), temp.Series[0])

	counts := domain.CountByStatus(req.Listings)
	assert.Equal(t, 3, counts.Active)
	assert.Equal(t, 1, counts.Closed)
}
