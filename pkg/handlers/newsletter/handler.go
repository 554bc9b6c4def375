package newsletter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mslanden/marketpress/pkg/adapters"
	"github.com/mslanden/marketpress/pkg/models/api"
	"github.com/mslanden/marketpress/pkg/models/domain"
	"github.com/mslanden/marketpress/pkg/services/config"
	"github.com/mslanden/marketpress/pkg/services/export"
	"github.com/mslanden/marketpress/pkg/store/archive"
	"github.com/rs/zerolog"
)

// Service is the exporter surface the handler consumes.
type Service interface {
	Export(ctx context.Context, region domain.Region, period domain.Period, opts export.AggregateOptions) (domain.Document, error)
	Preview(ctx context.Context, region domain.Region, period domain.Period, opts export.AggregateOptions) (domain.ReportRequest, map[string]domain.ChartSpec, error)
}

type Handler struct {
	service  Service
	regions  config.Registry
	archiver archive.Uploader // nil disables archiving
}

func NewHandler(service Service, regions config.Registry, archiver archive.Uploader) *Handler {
	return &Handler{
		service:  service,
		regions:  regions,
		archiver: archiver,
	}
}

func (h *Handler) ListRegions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	profiles, err := h.regions.GetRegions(ctx)
	if err != nil {
		http.Error(w, "failed to load regions", http.StatusInternalServerError)
		return
	}

	response := make([]api.RegionProfile, 0, len(profiles))
	for _, p := range profiles {
		response = append(response, adapters.MapRegionProfileToApi(p))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode regions")
	}
}

func (h *Handler) GetReportPreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	region, period, ok := h.exportParams(w, r)
	if !ok {
		return
	}

	req, charts, err := h.service.Preview(ctx, region, period, export.AggregateOptions{})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(adapters.MapReportRequestToPreview(req, charts)); err != nil {
		logger.Error().Err(err).Str("region", string(region)).Msg("failed to encode report preview")
	}
}

func (h *Handler) ExportNewsletter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	region, period, ok := h.exportParams(w, r)
	if !ok {
		return
	}

	opts, err := decodeExportBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := h.service.Export(ctx, region, period, opts)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if h.archiver != nil {
		if location, err := h.archiver.Put(ctx, doc.Filename, doc.Bytes); err != nil {
			logger.Warn().Err(err).Str("filename", doc.Filename).Msg("newsletter archive failed")
		} else {
			w.Header().Set("X-Archive-Location", location)
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Bytes)))
	if _, err := w.Write(doc.Bytes); err != nil {
		logger.Error().Err(err).Str("filename", doc.Filename).Msg("failed to write newsletter response")
	}
}

func (h *Handler) exportParams(w http.ResponseWriter, r *http.Request) (domain.Region, domain.Period, bool) {
	region := domain.Region(chi.URLParam(r, "region"))

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		http.Error(w, "month must be 1-12", http.StatusBadRequest)
		return "", domain.Period{}, false
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1900 {
		http.Error(w, "year is required", http.StatusBadRequest)
		return "", domain.Period{}, false
	}

	return region, domain.Period{Month: month, Year: year}, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	if errors.Is(err, config.ErrRegionNotFound) {
		http.Error(w, "unknown region", http.StatusNotFound)
		return
	}

	logger.Error().Err(err).Msg("newsletter export failed")
	http.Error(w, "newsletter export failed", http.StatusInternalServerError)
}

func decodeExportBody(r *http.Request) (export.AggregateOptions, error) {
	var opts export.AggregateOptions
	if r.Body == nil || r.ContentLength == 0 {
		return opts, nil
	}

	var body api.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return opts, fmt.Errorf("invalid request body: %w", err)
	}

	if body.Analysis != "" || body.Summary != "" {
		opts.Narrative = &domain.Narrative{Analysis: body.Analysis, Summary: body.Summary}
	}
	opts.Overrides = adapters.MapApiOverridesToDomain(body.Overrides)
	return opts, nil
}
