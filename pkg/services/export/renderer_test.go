package export

import (
	"context"
	"testing"

	"github.com/mslanden/marketpress/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReportRequest() domain.ReportRequest {
	return domain.ReportRequest{
		Region: "anza",
		Period: domain.Period{Month: 3, Year: 2024},
		Narrative: domain.Narrative{
			Analysis: "Inventory tightened through the quarter.",
			Summary:  "Prices held steady.",
		},
		Metrics: domain.Metrics{
			PricePerArea: []domain.PricePoint{
				{Month: 1, Year: 2024, Value: 228, AveragePrice: 401000, TotalSales: 4, MedianDaysOnMarket: 51},
				{Month: 2, Year: 2024, Value: 231, AveragePrice: 405500, TotalSales: 6, MedianDaysOnMarket: 47},
				{Month: 3, Year: 2024, Value: 236, AveragePrice: 412500, TotalSales: 5, MedianDaysOnMarket: 44},
			},
			DaysOnMarket: []domain.MarketPoint{
				{Month: 2, Year: 2024, AverageDays: 49, MedianDays: 45},
				{Month: 3, Year: 2024, AverageDays: 44, MedianDays: 41},
			},
		},
		Listings: []domain.Listing{
			{ID: "1", Status: domain.StatusActive, Price: 425000, Address: "41200 Terwilliger Rd", Beds: 3, Baths: 2, Area: 1820},
			{ID: "2", Status: domain.StatusPending, Price: 389000, Address: "58010 Burnt Valley Rd", Beds: 2, Baths: 1, Area: 1200},
			{ID: "3", Status: domain.StatusClosed, Price: 405000, Address: "39655 Bautista Rd", Beds: 3, Baths: 2, Area: 1650},
		},
	}
}

func TestRender_RasterGeometry(t *testing.T) {
	cfg := DefaultConfig()
	renderer := NewRenderer(cfg.Render, cfg.Palette)

	req := testReportRequest()
	mat := NewMaterializer(cfg.Temperature)
	charts := mat.Materialize(req)

	img, err := renderer.Render(context.Background(), req, charts, RenderInput{DisplayName: "Anza"})
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, cfg.Render.Width*cfg.Render.Scale, bounds.Dx())
	// The report always carries at least a header, two narratives and a
	// footer, so the capture is meaningfully tall.
	assert.Greater(t, bounds.Dy(), bounds.Dx())
}

func TestRender_EmptyReportStillCaptures(t *testing.T) {
	cfg := DefaultConfig()
	renderer := NewRenderer(cfg.Render, cfg.Palette)

	req := domain.ReportRequest{
		Region:    "anza",
		Period:    domain.Period{Month: 3, Year: 2024},
		Narrative: domain.Narrative{Analysis: "No activity.", Summary: "No activity."},
	}
	mat := NewMaterializer(cfg.Temperature)
	charts := mat.Materialize(req)
	require.Empty(t, charts)

	img, err := renderer.Render(context.Background(), req, charts, RenderInput{})
	require.NoError(t, err)
	assert.Equal(t, cfg.Render.Width*cfg.Render.Scale, img.Bounds().Dx())
}

func TestRender_CancelledContext(t *testing.T) {
	cfg := DefaultConfig()
	renderer := NewRenderer(cfg.Render, cfg.Palette)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := renderer.Render(ctx, testReportRequest(), nil, RenderInput{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOverrideValue(t *testing.T) {
	o := domain.Overrides{
		{Series: domain.SeriesPricePerArea, Row: 1, Field: "averagePrice"}: 399000,
	}

	t.Run("matching key replaces the source", func(t *testing.T) {
		got := overrideValue(o, domain.SeriesPricePerArea, 1, "averagePrice", 405500)
		assert.Equal(t, 399000.0, got)
	})

	t.Run("other rows keep the source", func(t *testing.T) {
		got := overrideValue(o, domain.SeriesPricePerArea, 0, "averagePrice", 401000)
		assert.Equal(t, 401000.0, got)
	})

	t.Run("nil overrides keep the source", func(t *testing.T) {
		got := overrideValue(nil, domain.SeriesPricePerArea, 1, "averagePrice", 405500)
		assert.Equal(t, 405500.0, got)
	})
}

func TestBuildPriceTable_AppliesOverrides(t *testing.T) {
	req := testReportRequest()
	req.Overrides = domain.Overrides{
		{Series: domain.SeriesPricePerArea, Row: 1, Field: "averagePrice"}: 399000,
	}

	table := buildPriceTable(req)
	require.Len(t, table.rows, 3)

	// Row 1 shows the corrected figure, the untouched rows keep the feed
	// values.
	assert.Equal(t, "$399000", table.rows[1][2])
	assert.Equal(t, "$401000", table.rows[0][2])
	assert.Equal(t, "$412500", table.rows[2][2])
}

func TestBuildMarketTable_AppliesOverrides(t *testing.T) {
	req := testReportRequest()
	req.Overrides = domain.Overrides{
		{Series: domain.SeriesDaysOnMarket, Row: 0, Field: "averageDays"}: 60,
	}

	table := buildMarketTable(req)
	require.Len(t, table.rows, 2)
	assert.Equal(t, "60 days", table.rows[0][1])
	assert.Equal(t, "44 days", table.rows[1][1])
}

func TestChartKindHandled_Exhaustive(t *testing.T) {
	kinds := []domain.ChartKind{domain.ChartLine, domain.ChartBar, domain.ChartDoughnut}
	for _, kind := range kinds {
		assert.True(t, chartKindHandled(kind), "unhandled chart kind %s", kind)
	}
	assert.False(t, chartKindHandled(domain.ChartKind(99)))
}

func TestBuildTree_PlaceholderSections(t *testing.T) {
	req := domain.ReportRequest{
		Region:    "anza",
		Period:    domain.Period{Month: 3, Year: 2024},
		Narrative: domain.Narrative{Analysis: "Quiet month.", Summary: "Quiet month."},
	}
	blocks := buildTree(req, nil, nil, "Anza")

	placeholders := 0
	for _, b := range blocks {
		if _, ok := b.(*placeholderBlock); ok {
			placeholders++
		}
	}
	// Price metrics, days on market and listings each fall back to a
	// placeholder when empty.
	assert.Equal(t, 3, placeholders)
}
