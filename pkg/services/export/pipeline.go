package export

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mslanden/marketpress/pkg/models/domain"
	"github.com/mslanden/marketpress/pkg/services/config"
	"github.com/mslanden/marketpress/pkg/services/marketdata"
	"github.com/rs/zerolog"
)

// Exporter runs the full newsletter pipeline: aggregate, materialize,
// render, paginate. Every call is an independent single-shot run over its
// own inputs; two concurrent exports share nothing mutable. There is no
// top-level timeout here, the caller owns the context deadline.
type Exporter struct {
	cfg     Config
	regions config.Registry

	aggregator   *Aggregator
	materializer *Materializer
	renderer     *Renderer
	paginator    *Paginator
}

func NewExporter(cfg Config, provider marketdata.Provider, regions config.Registry) (*Exporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if regions == nil {
		return nil, fmt.Errorf("region registry is nil")
	}

	aggregator, err := NewAggregator(provider, cfg.Render.TrendMonths)
	if err != nil {
		return nil, err
	}

	return &Exporter{
		cfg:          cfg,
		regions:      regions,
		aggregator:   aggregator,
		materializer: NewMaterializer(cfg.Temperature),
		renderer:     NewRenderer(cfg.Render, cfg.Palette),
		paginator:    NewPaginator(cfg.Page),
	}, nil
}

// Export produces the finished newsletter document for one region and
// period. Missing market data renders placeholders; render and pagination
// failures abort the export with a single error.
func (e *Exporter) Export(
	ctx context.Context,
	region domain.Region,
	period domain.Period,
	opts AggregateOptions,
) (domain.Document, error) {
	jobID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().
		Str("job_id", jobID).
		Str("region", string(region)).
		Int("month", period.Month).
		Int("year", period.Year).
		Logger()
	ctx = logger.WithContext(ctx)

	profile, err := e.regions.GetProfile(ctx, region)
	if err != nil {
		return domain.Document{}, fmt.Errorf("unknown region %q: %w", region, err)
	}

	req, err := e.aggregator.Aggregate(ctx, region, period, opts)
	if err != nil {
		return domain.Document{}, fmt.Errorf("aggregation failed: %w", err)
	}

	charts := e.materializer.Materialize(req)
	logger.Info().Int("charts", len(charts)).Int("listings", len(req.Listings)).Msg("report materialized")

	raster, err := e.renderer.Render(ctx, req, charts, RenderInput{
		DisplayName: profile.DisplayName,
		LogoURL:     profile.LogoURL,
	})
	if err != nil {
		return domain.Document{}, fmt.Errorf("render failed: %w", err)
	}

	doc, err := e.paginator.Paginate(raster, region, period)
	if err != nil {
		return domain.Document{}, fmt.Errorf("pagination failed: %w", err)
	}

	logger.Info().
		Int("pages", doc.Pages).
		Int("bytes", len(doc.Bytes)).
		Str("filename", doc.Filename).
		Msg("newsletter exported")

	return doc, nil
}

// Preview aggregates and materializes without rendering, for the admin UI.
func (e *Exporter) Preview(
	ctx context.Context,
	region domain.Region,
	period domain.Period,
	opts AggregateOptions,
) (domain.ReportRequest, map[string]domain.ChartSpec, error) {
	if _, err := e.regions.GetProfile(ctx, region); err != nil {
		return domain.ReportRequest{}, nil, fmt.Errorf("unknown region %q: %w", region, err)
	}

	req, err := e.aggregator.Aggregate(ctx, region, period, opts)
	if err != nil {
		return domain.ReportRequest{}, nil, fmt.Errorf("aggregation failed: %w", err)
	}
	return req, e.materializer.Materialize(req), nil
}
