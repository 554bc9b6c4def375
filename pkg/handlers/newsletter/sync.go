package newsletter

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mslanden/marketpress/pkg/models/domain"
	"github.com/mslanden/marketpress/pkg/services/config"
	"github.com/mslanden/marketpress/pkg/services/ingest"
	"github.com/rs/zerolog"
)

// SyncHandler exposes start/cancel of the per-region feed sync. A nil
// controller disables the endpoints.
type SyncHandler struct {
	syncs ingest.Controller
}

func NewSyncHandler(syncs ingest.Controller) *SyncHandler {
	return &SyncHandler{syncs: syncs}
}

func (h *SyncHandler) Start(w http.ResponseWriter, r *http.Request) {
	if h.syncs == nil {
		http.Error(w, "feed sync disabled", http.StatusServiceUnavailable)
		return
	}

	region := domain.Region(chi.URLParam(r, "region"))
	if err := h.syncs.Start(r.Context(), region); err != nil {
		h.writeSyncError(w, r, region, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *SyncHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h.syncs == nil {
		http.Error(w, "feed sync disabled", http.StatusServiceUnavailable)
		return
	}

	region := domain.Region(chi.URLParam(r, "region"))
	if err := h.syncs.Cancel(r.Context(), region); err != nil {
		h.writeSyncError(w, r, region, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SyncHandler) writeSyncError(w http.ResponseWriter, r *http.Request, region domain.Region, err error) {
	if errors.Is(err, config.ErrRegionNotFound) {
		http.Error(w, "unknown region", http.StatusNotFound)
		return
	}

	zerolog.Ctx(r.Context()).Error().Err(err).Str("region", string(region)).Msg("feed sync request failed")
	http.Error(w, err.Error(), http.StatusConflict)
}
