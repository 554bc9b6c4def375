package export

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/mslanden/marketpress/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Renderer lays the report out off-screen and captures it into one tall
// raster. Each call builds a fresh tree and surface; nothing is shared
// between concurrent exports.
type Renderer struct {
	cfg    RenderConfig
	loader *AssetLoader
	// palette is the fixed chart color table.
	palette []string
}

func NewRenderer(cfg RenderConfig, palette []string) *Renderer {
	return &Renderer{
		cfg:     cfg,
		loader:  NewAssetLoader(cfg.ImageTimeout),
		palette: palette,
	}
}

// RenderInput carries the non-data inputs of one render: branding assets
// from the region profile.
type RenderInput struct {
	DisplayName string
	LogoURL     string
}

// Render produces the report raster at the configured oversampling scale.
// It returns ErrCaptureFailed (wrapped) when the capture cannot complete;
// that aborts the whole export.
func (r *Renderer) Render(
	ctx context.Context,
	req domain.ReportRequest,
	charts map[string]domain.ChartSpec,
	input RenderInput,
) (img image.Image, err error) {
	// A drawing failure surfaces as a panic deep in the rasterizer;
	// convert it into the fatal capture error instead of taking down the
	// caller.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrCaptureFailed, rec)
		}
	}()

	var logo *ImageAsset
	if input.LogoURL != "" {
		assets := r.loader.LoadAll(ctx, []string{input.LogoURL})
		logo = &assets[0]
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blocks := buildTree(req, charts, logo, input.DisplayName)

	// Measure pass: fonts need a context, geometry does not.
	measureCtx := &renderContext{
		dc:      gg.NewContext(1, 1),
		width:   float64(r.cfg.Width),
		palette: r.palette,
	}

	heights := make([]float64, len(blocks))
	total := 0.0
	for i, b := range blocks {
		heights[i] = b.measure(measureCtx)
		total += heights[i]
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: empty render tree", ErrCaptureFailed)
	}

	scale := float64(r.cfg.Scale)
	dc := gg.NewContext(r.cfg.Width*r.cfg.Scale, int(math.Ceil(total*scale)))
	dc.Scale(scale, scale)
	dc.SetHexColor("#FFFFFF")
	dc.Clear()

	rc := &renderContext{
		dc:      dc,
		width:   float64(r.cfg.Width),
		palette: r.palette,
	}

	y := 0.0
	for i, b := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.draw(rc, y)
		y += heights[i]
	}

	zerolog.Ctx(ctx).Debug().
		Int("blocks", len(blocks)).
		Int("width_px", dc.Width()).
		Int("height_px", dc.Height()).
		Msg("report raster captured")

	return dc.Image(), nil
}
