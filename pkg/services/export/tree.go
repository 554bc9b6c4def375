package export

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/mslanden/marketpress/pkg/models/domain"
)

// Layout constants, in nominal pixels. The tree is laid out once at a fixed
// width; the print page width is what the output must match, not the
// viewer's screen.
const (
	blockPadding   = 24.0
	sectionGap     = 18.0
	headerHeight   = 120.0
	bodyFontSize   = 13.0
	titleFontSize  = 30.0
	sectionFont    = 18.0
	smallFontSize  = 10.0
	tableRowHeight = 26.0
	chartHeight    = 220.0
	lineSpacing    = 1.45
)

// block is one laid-out element of the render tree. Heights are fixed at
// measure time so the full tree height is known before capture.
type block interface {
	measure(rc *renderContext) float64
	draw(rc *renderContext, y float64)
}

// renderContext carries the drawing surface and shared style state through a
// single render pass. It is owned by exactly one export.
type renderContext struct {
	dc      *gg.Context
	width   float64
	palette []string
}

func (rc *renderContext) setFont(size float64, bold bool) {
	face := fontFace(size, bold)
	rc.dc.SetFontFace(face)
}

func (rc *renderContext) color(i int) string {
	if len(rc.palette) == 0 {
		return "#8B5A2B"
	}
	return rc.palette[i%len(rc.palette)]
}

// headerBlock renders the report masthead: logo, region name, period.
type headerBlock struct {
	title  string
	period string
	logo   *ImageAsset
}

func (b *headerBlock) measure(_ *renderContext) float64 {
	return headerHeight
}

func (b *headerBlock) draw(rc *renderContext, y float64) {
	dc := rc.dc

	dc.SetHexColor("#2C1810")
	dc.DrawRectangle(0, y, rc.width, headerHeight)
	dc.Fill()

	logoSize := 64.0
	logoX := blockPadding
	logoY := y + (headerHeight-logoSize)/2
	if b.logo != nil && b.logo.Img != nil {
		drawImageFit(dc, b.logo.Img, logoX, logoY, logoSize, logoSize)
	} else if b.logo != nil {
		// Broken or timed-out logo: placeholder outline, never a hole.
		dc.SetHexColor("#5A4632")
		dc.DrawRectangle(logoX, logoY, logoSize, logoSize)
		dc.Stroke()
	}

	textX := logoX + logoSize + blockPadding
	rc.setFont(titleFontSize, true)
	dc.SetHexColor("#F5EFE6")
	dc.DrawString(b.title, textX, y+headerHeight/2-4)

	rc.setFont(sectionFont, false)
	dc.SetHexColor("#C19A6B")
	dc.DrawString(b.period, textX, y+headerHeight/2+26)
}

// narrativeBlock renders a titled free-text section with word wrap.
type narrativeBlock struct {
	title string
	text  string
}

func (b *narrativeBlock) measure(rc *renderContext) float64 {
	rc.setFont(bodyFontSize, false)
	lines := rc.dc.WordWrap(b.text, rc.width-2*blockPadding)
	textHeight := float64(len(lines)) * bodyFontSize * lineSpacing
	return sectionGap + sectionFont + 12 + textHeight + sectionGap
}

func (b *narrativeBlock) draw(rc *renderContext, y float64) {
	dc := rc.dc

	rc.setFont(sectionFont, true)
	dc.SetHexColor("#2C1810")
	dc.DrawString(b.title, blockPadding, y+sectionGap+sectionFont)

	rc.setFont(bodyFontSize, false)
	dc.SetHexColor("#3D3D3D")
	dc.DrawStringWrapped(b.text, blockPadding, y+sectionGap+sectionFont+12,
		0, 0, rc.width-2*blockPadding, lineSpacing, gg.AlignLeft)
}

// tableBlock renders a fixed-column table. Cell values already have any
// operator overrides applied.
type tableBlock struct {
	title   string
	columns []string
	rows    [][]string
}

func (b *tableBlock) measure(_ *renderContext) float64 {
	// title row + header row + data rows
	return sectionGap + sectionFont + 12 + tableRowHeight*float64(len(b.rows)+1) + sectionGap
}

func (b *tableBlock) draw(rc *renderContext, y float64) {
	dc := rc.dc

	rc.setFont(sectionFont, true)
	dc.SetHexColor("#2C1810")
	dc.DrawString(b.title, blockPadding, y+sectionGap+sectionFont)

	tableTop := y + sectionGap + sectionFont + 12
	tableWidth := rc.width - 2*blockPadding
	colWidth := tableWidth / float64(len(b.columns))

	dc.SetHexColor("#2C1810")
	dc.DrawRectangle(blockPadding, tableTop, tableWidth, tableRowHeight)
	dc.Fill()

	rc.setFont(bodyFontSize, true)
	dc.SetHexColor("#F5EFE6")
	for i, col := range b.columns {
		dc.DrawString(col, blockPadding+float64(i)*colWidth+8, tableTop+tableRowHeight-8)
	}

	rc.setFont(bodyFontSize, false)
	for r, row := range b.rows {
		rowTop := tableTop + tableRowHeight*float64(r+1)
		if r%2 == 1 {
			dc.SetHexColor("#F0EAE0")
			dc.DrawRectangle(blockPadding, rowTop, tableWidth, tableRowHeight)
			dc.Fill()
		}
		dc.SetHexColor("#3D3D3D")
		for i, cell := range row {
			if i >= len(b.columns) {
				break
			}
			dc.DrawString(cell, blockPadding+float64(i)*colWidth+8, rowTop+tableRowHeight-8)
		}
	}
}

// chartBlock renders one materialized chart spec.
type chartBlock struct {
	spec domain.ChartSpec
}

func (b *chartBlock) measure(_ *renderContext) float64 {
	return sectionGap + sectionFont + 12 + chartHeight + sectionGap
}

func (b *chartBlock) draw(rc *renderContext, y float64) {
	dc := rc.dc

	rc.setFont(sectionFont, true)
	dc.SetHexColor("#2C1810")
	dc.DrawString(b.spec.Title, blockPadding, y+sectionGap+sectionFont)

	area := chartArea{
		x: blockPadding,
		y: y + sectionGap + sectionFont + 12,
		w: rc.width - 2*blockPadding,
		h: chartHeight,
	}
	drawChart(rc, b.spec, area)
}

// placeholderBlock stands in for a section whose data is unavailable.
type placeholderBlock struct {
	title string
}

func (b *placeholderBlock) measure(_ *renderContext) float64 {
	return sectionGap + sectionFont + 12 + 60 + sectionGap
}

func (b *placeholderBlock) draw(rc *renderContext, y float64) {
	dc := rc.dc

	rc.setFont(sectionFont, true)
	dc.SetHexColor("#2C1810")
	dc.DrawString(b.title, blockPadding, y+sectionGap+sectionFont)

	boxTop := y + sectionGap + sectionFont + 12
	dc.SetHexColor("#F0EAE0")
	dc.DrawRectangle(blockPadding, boxTop, rc.width-2*blockPadding, 60)
	dc.Fill()

	rc.setFont(bodyFontSize, false)
	dc.SetHexColor("#8A7F72")
	dc.DrawStringAnchored("No data available for this period", rc.width/2, boxTop+30, 0.5, 0.35)
}

// footerBlock closes the report with the brokerage attribution line.
type footerBlock struct {
	text string
}

func (b *footerBlock) measure(_ *renderContext) float64 {
	return 48
}

func (b *footerBlock) draw(rc *renderContext, y float64) {
	dc := rc.dc
	dc.SetHexColor("#2C1810")
	dc.DrawRectangle(0, y, rc.width, 48)
	dc.Fill()

	rc.setFont(smallFontSize, false)
	dc.SetHexColor("#C19A6B")
	dc.DrawStringAnchored(b.text, rc.width/2, y+24, 0.5, 0.35)
}

// drawImageFit scales img uniformly to fit the target box, centred.
func drawImageFit(dc *gg.Context, img image.Image, x, y, w, h float64) {
	bounds := img.Bounds()
	iw, ih := float64(bounds.Dx()), float64(bounds.Dy())
	if iw <= 0 || ih <= 0 {
		return
	}

	scale := w / iw
	if s := h / ih; s < scale {
		scale = s
	}

	dc.Push()
	dc.Translate(x+(w-iw*scale)/2, y+(h-ih*scale)/2)
	dc.Scale(scale, scale)
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

// overrideValue resolves one table cell: the operator override wins over the
// source value.
func overrideValue(o domain.Overrides, series string, row int, field string, source float64) float64 {
	if o == nil {
		return source
	}
	if v, ok := o[domain.OverrideKey{Series: series, Row: row, Field: field}]; ok {
		return v
	}
	return source
}

// buildTree lays out the full report as an ordered block list. Chart slots
// missing from the map render nothing; metric sections missing their data
// render an explicit placeholder.
func buildTree(req domain.ReportRequest, charts map[string]domain.ChartSpec, logo *ImageAsset, displayName string) []block {
	title := displayName
	if title == "" {
		title = string(req.Region)
	}

	blocks := []block{
		&headerBlock{
			title:  title + " Market Report",
			period: PeriodLabel(req.Period.Month, req.Period.Year),
			logo:   logo,
		},
		&narrativeBlock{title: "Market Analysis", text: req.Narrative.Analysis},
	}

	if spec, ok := charts[domain.ChartPricePerArea]; ok {
		blocks = append(blocks, &chartBlock{spec: spec})
	}
	if spec, ok := charts[domain.ChartMedianSoldPrice]; ok {
		blocks = append(blocks, &chartBlock{spec: spec})
	}

	if len(req.Metrics.PricePerArea) > 0 {
		blocks = append(blocks, buildPriceTable(req))
	} else {
		blocks = append(blocks, &placeholderBlock{title: "Monthly Metrics"})
	}

	if spec, ok := charts[domain.ChartDaysOnMarket]; ok {
		blocks = append(blocks, &chartBlock{spec: spec})
		blocks = append(blocks, buildMarketTable(req))
	} else {
		blocks = append(blocks, &placeholderBlock{title: "Days on Market"})
	}

	if len(req.Listings) > 0 {
		blocks = append(blocks, buildActivityTable(req))
	}
	if spec, ok := charts[domain.ChartStatusBreakdown]; ok {
		blocks = append(blocks, &chartBlock{spec: spec})
	}
	if spec, ok := charts[domain.ChartPriceRange]; ok {
		blocks = append(blocks, &chartBlock{spec: spec})
	}
	if spec, ok := charts[domain.ChartMarketTemp]; ok {
		blocks = append(blocks, &chartBlock{spec: spec})
	}
	if len(req.Listings) > 0 {
		blocks = append(blocks, buildListingsTable(req))
	} else {
		blocks = append(blocks, &placeholderBlock{title: "Listings"})
	}

	blocks = append(blocks,
		&narrativeBlock{title: "Summary", text: req.Narrative.Summary},
		&footerBlock{text: fmt.Sprintf("%s Market Newsletter - %s", title, PeriodLabel(req.Period.Month, req.Period.Year))},
	)

	return blocks
}

func buildPriceTable(req domain.ReportRequest) *tableBlock {
	rows := make([][]string, 0, len(req.Metrics.PricePerArea))
	for i, p := range req.Metrics.PricePerArea {
		rows = append(rows, []string{
			PeriodLabel(p.Month, p.Year),
			FormatCurrency(overrideValue(req.Overrides, domain.SeriesPricePerArea, i, "value", p.Value), false),
			FormatCurrency(overrideValue(req.Overrides, domain.SeriesPricePerArea, i, "averagePrice", p.AveragePrice), false),
			fmt.Sprintf("%.0f", overrideValue(req.Overrides, domain.SeriesPricePerArea, i, "totalSales", float64(p.TotalSales))),
			FormatDays(overrideValue(req.Overrides, domain.SeriesPricePerArea, i, "medianDaysOnMarket", float64(p.MedianDaysOnMarket))),
		})
	}
	return &tableBlock{
		title:   "Monthly Metrics",
		columns: []string{"Month", "$/Sq Ft", "Avg Price", "Sales", "Median DOM"},
		rows:    rows,
	}
}

func buildMarketTable(req domain.ReportRequest) *tableBlock {
	rows := make([][]string, 0, len(req.Metrics.DaysOnMarket))
	for i, p := range req.Metrics.DaysOnMarket {
		rows = append(rows, []string{
			PeriodLabel(p.Month, p.Year),
			FormatDays(overrideValue(req.Overrides, domain.SeriesDaysOnMarket, i, "averageDays", p.AverageDays)),
			FormatDays(overrideValue(req.Overrides, domain.SeriesDaysOnMarket, i, "medianDays", p.MedianDays)),
		})
	}
	return &tableBlock{
		title:   "Days on Market Detail",
		columns: []string{"Month", "Average", "Median"},
		rows:    rows,
	}
}

func buildActivityTable(req domain.ReportRequest) *tableBlock {
	counts := domain.CountByStatus(req.Listings)
	rows := [][]string{
		{"Active Listings", fmt.Sprintf("%d", counts.Active)},
		{"Pending Sales", fmt.Sprintf("%d", counts.Pending)},
		{"Closed Sales", fmt.Sprintf("%d", counts.Closed)},
	}
	if counts.Other > 0 {
		rows = append(rows, []string{"Other", fmt.Sprintf("%d", counts.Other)})
	}
	if median, ok := medianListingPrice(req.Listings); ok {
		rows = append(rows, []string{"Median List Price", FormatCurrency(median, false)})
	}
	return &tableBlock{
		title:   "Market Activity",
		columns: []string{"Measure", "Count"},
		rows:    rows,
	}
}

func buildListingsTable(req domain.ReportRequest) *tableBlock {
	rows := make([][]string, 0, len(req.Listings))
	for _, l := range req.Listings {
		rows = append(rows, []string{
			l.Address,
			string(l.Status),
			FormatCurrency(l.Price, false),
			fmt.Sprintf("%d/%.1f", l.Beds, l.Baths),
			fmt.Sprintf("%.0f", l.Area),
			fmt.Sprintf("%d", l.DaysOnMarket),
		})
	}
	return &tableBlock{
		title:   "Listings",
		columns: []string{"Address", "Status", "Price", "Bd/Ba", "Sq Ft", "DOM"},
		rows:    rows,
	}
}
