package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mslanden/marketpress/pkg/services/config"
	"github.com/mslanden/marketpress/pkg/services/ingest"
	"github.com/mslanden/marketpress/pkg/store/archive"

	handlers "github.com/mslanden/marketpress/pkg/handlers/newsletter"

	marketpressmiddleware "github.com/mslanden/marketpress/pkg/server/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Exporter handlers.Service
	Regions  config.Registry
	Archiver archive.Uploader
	Syncs    ingest.Controller
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	nlHandler := handlers.NewHandler(
		config.Dependencies.Exporter,
		config.Dependencies.Regions,
		config.Dependencies.Archiver,
	)
	syncHandler := handlers.NewSyncHandler(config.Dependencies.Syncs)

	router := chi.NewRouter()

	router.Use(marketpressmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/regions", nlHandler.ListRegions)
		r.Get("/regions/{region}/report", nlHandler.GetReportPreview)
		r.Post("/regions/{region}/newsletter", nlHandler.ExportNewsletter)
		r.Post("/regions/{region}/sync", syncHandler.Start)
		r.Delete("/regions/{region}/sync", syncHandler.Cancel)
	})

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
