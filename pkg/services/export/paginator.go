package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/go-pdf/fpdf"
	"github.com/mslanden/marketpress/pkg/models/domain"
)

// PageCount is the number of pages a raster of scaledHeight occupies when
// each page exposes contentHeight of it.
func PageCount(scaledHeight, contentHeight float64) int {
	return int(math.Ceil(scaledHeight / contentHeight))
}

// BandOffset is where page i's visible band starts in the scaled raster.
func BandOffset(i int, contentHeight float64) float64 {
	return float64(i) * contentHeight
}

// Paginator slices the report raster into page-height bands and assembles
// the output document. Each page is a clipped window onto the one scaled
// raster; content crossing a page boundary is cut, not reflowed.
type Paginator struct {
	format domain.PageFormat
}

func NewPaginator(format domain.PageFormat) *Paginator {
	return &Paginator{format: format}
}

// Paginate packages the raster into the finished document. It fails with
// ErrPaginationFailed on a degenerate raster or page format; no partial
// document is ever produced.
func (p *Paginator) Paginate(raster image.Image, region domain.Region, period domain.Period) (domain.Document, error) {
	if raster == nil {
		return domain.Document{}, fmt.Errorf("%w: nil raster", ErrPaginationFailed)
	}

	bounds := raster.Bounds()
	rasterW, rasterH := float64(bounds.Dx()), float64(bounds.Dy())
	if rasterW <= 0 || rasterH <= 0 {
		return domain.Document{}, fmt.Errorf("%w: raster is %dx%d", ErrPaginationFailed, bounds.Dx(), bounds.Dy())
	}

	contentW := p.format.ContentWidth()
	contentH := p.format.ContentHeight()
	if contentW <= 0 || contentH <= 0 {
		return domain.Document{}, fmt.Errorf("%w: page format leaves no content area", ErrPaginationFailed)
	}

	// Uniform scale to the content width; height follows from the aspect
	// ratio.
	scaledH := rasterH * contentW / rasterW
	pages := PageCount(scaledH, contentH)

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, raster); err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", ErrPaginationFailed, err)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: p.format.WidthMM, Ht: p.format.HeightMM},
	})
	pdf.SetMargins(p.format.MarginMM, p.format.MarginMM, p.format.MarginMM)
	pdf.SetAutoPageBreak(false, 0)
	// Pin the embedded timestamps so identical inputs produce identical
	// bytes.
	stamp := time.Date(period.Year, time.Month(period.Month), 1, 0, 0, 0, 0, time.UTC)
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)

	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("report", opts, &encoded)

	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.ClipRect(p.format.MarginMM, p.format.MarginMM, contentW, contentH, false)
		// Same scaled image on every page, shifted up by i bands.
		pdf.ImageOptions("report",
			p.format.MarginMM,
			p.format.MarginMM-BandOffset(i, contentH),
			contentW, scaledH, false, opts, 0, "")
		pdf.ClipEnd()
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", ErrPaginationFailed, err)
	}

	return domain.Document{
		Filename: Filename(region, period),
		Bytes:    out.Bytes(),
		Pages:    pages,
	}, nil
}

// Filename derives the deterministic output name, so repeat exports for the
// same region and period overwrite instead of piling up in a downloads
// folder.
func Filename(region domain.Region, period domain.Period) string {
	return fmt.Sprintf("%s-Newsletter-%s-%d.pdf",
		titleCase(string(region)), MonthName(period.Month), period.Year)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
