package export

import (
	"fmt"
	"math"

	"github.com/mslanden/marketpress/pkg/models/domain"
)

type chartArea struct {
	x, y, w, h float64
}

// drawChart dispatches on the chart kind. The switch is exhaustive over the
// ChartKind enum; chartKindHandled keeps it honest under test.
func drawChart(rc *renderContext, spec domain.ChartSpec, area chartArea) {
	switch spec.Kind {
	case domain.ChartLine:
		drawLineChart(rc, spec, area)
	case domain.ChartBar:
		drawBarChart(rc, spec, area)
	case domain.ChartDoughnut:
		drawDoughnutChart(rc, spec, area)
	}
}

// chartKindHandled mirrors the dispatch above so a test can assert every
// enum variant has a renderer.
func chartKindHandled(kind domain.ChartKind) bool {
	switch kind {
	case domain.ChartLine, domain.ChartBar, domain.ChartDoughnut:
		return true
	default:
		return false
	}
}

func tickLabel(spec domain.ChartSpec, v float64) string {
	if spec.Currency {
		return FormatCurrency(v, true)
	}
	if spec.ValueSuffix != "" {
		return fmt.Sprintf("%.0f%s", v, spec.ValueSuffix)
	}
	return fmt.Sprintf("%.0f", v)
}

func seriesRange(series []float64) (min, max float64) {
	min, max = series[0], series[0]
	for _, v := range series[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min > 0 {
		min = 0
	}
	if max == min {
		max = min + 1
	}
	return min, max
}

const (
	axisInsetLeft   = 64.0
	axisInsetBottom = 28.0
	tickCount       = 4
)

func drawAxes(rc *renderContext, spec domain.ChartSpec, area chartArea, min, max float64) (plot chartArea) {
	dc := rc.dc

	plot = chartArea{
		x: area.x + axisInsetLeft,
		y: area.y,
		w: area.w - axisInsetLeft,
		h: area.h - axisInsetBottom,
	}

	rc.setFont(smallFontSize, false)
	for i := 0; i <= tickCount; i++ {
		frac := float64(i) / tickCount
		v := min + (max-min)*frac
		ty := plot.y + plot.h*(1-frac)

		dc.SetHexColor("#DCDCDC")
		dc.DrawLine(plot.x, ty, plot.x+plot.w, ty)
		dc.Stroke()

		dc.SetHexColor("#8A7F72")
		dc.DrawStringAnchored(tickLabel(spec, v), plot.x-8, ty, 1, 0.35)
	}

	step := labelStep(len(spec.Labels))
	for i, label := range spec.Labels {
		if i%step != 0 {
			continue
		}
		cx := plot.x + plot.w*(float64(i)+0.5)/float64(len(spec.Labels))
		dc.SetHexColor("#8A7F72")
		dc.DrawStringAnchored(label, cx, plot.y+plot.h+14, 0.5, 0.35)
	}

	return plot
}

// labelStep thins x-axis labels so long series stay legible.
func labelStep(n int) int {
	if n <= 8 {
		return 1
	}
	return (n + 7) / 8
}

func drawLineChart(rc *renderContext, spec domain.ChartSpec, area chartArea) {
	dc := rc.dc
	min, max := seriesRange(spec.Series)
	plot := drawAxes(rc, spec, area, min, max)

	n := len(spec.Series)
	pointX := func(i int) float64 {
		return plot.x + plot.w*(float64(i)+0.5)/float64(n)
	}
	pointY := func(v float64) float64 {
		return plot.y + plot.h*(1-(v-min)/(max-min))
	}

	dc.SetHexColor(rc.color(0))
	dc.SetLineWidth(2.5)
	for i, v := range spec.Series {
		if i == 0 {
			dc.MoveTo(pointX(i), pointY(v))
		} else {
			dc.LineTo(pointX(i), pointY(v))
		}
	}
	dc.Stroke()

	for i, v := range spec.Series {
		dc.DrawCircle(pointX(i), pointY(v), 4)
		dc.Fill()
	}
	dc.SetLineWidth(1)
}

func drawBarChart(rc *renderContext, spec domain.ChartSpec, area chartArea) {
	dc := rc.dc
	min, max := seriesRange(spec.Series)
	plot := drawAxes(rc, spec, area, min, max)

	n := len(spec.Series)
	slot := plot.w / float64(n)
	barWidth := slot * 0.6

	dc.SetHexColor(rc.color(1))
	for i, v := range spec.Series {
		barHeight := plot.h * (v - min) / (max - min)
		bx := plot.x + slot*float64(i) + (slot-barWidth)/2
		dc.DrawRectangle(bx, plot.y+plot.h-barHeight, barWidth, barHeight)
		dc.Fill()
	}
}

func drawDoughnutChart(rc *renderContext, spec domain.ChartSpec, area chartArea) {
	dc := rc.dc

	var total float64
	for _, v := range spec.Series {
		total += v
	}
	if total <= 0 {
		return
	}

	cx := area.x + area.w*0.35
	cy := area.y + area.h/2
	outer := math.Min(area.w*0.3, area.h*0.45)
	inner := outer * 0.55

	angle := -math.Pi / 2
	for i, v := range spec.Series {
		sweep := 2 * math.Pi * v / total
		dc.SetHexColor(rc.color(i))
		dc.DrawArc(cx, cy, outer, angle, angle+sweep)
		dc.LineTo(cx+inner*math.Cos(angle+sweep), cy+inner*math.Sin(angle+sweep))
		dc.DrawArc(cx, cy, inner, angle+sweep, angle)
		dc.ClosePath()
		dc.Fill()
		angle += sweep
	}

	// Legend to the right of the ring.
	rc.setFont(bodyFontSize, false)
	legendX := area.x + area.w*0.62
	legendY := area.y + area.h/2 - float64(len(spec.Labels))*11
	for i, label := range spec.Labels {
		ly := legendY + float64(i)*22
		dc.SetHexColor(rc.color(i))
		dc.DrawRectangle(legendX, ly, 12, 12)
		dc.Fill()

		dc.SetHexColor("#3D3D3D")
		var text string
		if spec.ValueSuffix == "%" {
			text = fmt.Sprintf("%s (%.0f%%)", label, spec.Series[i])
		} else {
			text = fmt.Sprintf("%s (%.0f)", label, spec.Series[i])
		}
		dc.DrawString(text, legendX+18, ly+11)
	}
}
