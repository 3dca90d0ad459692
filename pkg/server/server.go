package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/de-tools/page-atlas/pkg/handlers/reports"
	"github.com/de-tools/page-atlas/pkg/models/domain"
	pageatlasmiddleware "github.com/de-tools/page-atlas/pkg/server/middleware"
	"github.com/de-tools/page-atlas/pkg/services/bulk"
	"github.com/de-tools/page-atlas/pkg/services/inspect"
	reportstore "github.com/de-tools/page-atlas/pkg/store/sqlite/report"
)

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Reports      reportstore.Store
	Inspector    *inspect.Inspector
	Orchestrator *bulk.Orchestrator
	Registry     bulk.Registry
	FetchOptions domain.HTTPOptions
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	handler := reports.NewHandler(
		config.Dependencies.Reports,
		config.Dependencies.Inspector,
		config.Dependencies.Orchestrator,
		config.Dependencies.Registry,
		config.Dependencies.FetchOptions,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(pageatlasmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/reports", handler.ListReports)
		r.Get("/reports/{id}", handler.GetReport)
		r.Get("/reports/{id}/remarks", handler.ListRemarks)
		r.Post("/inspections", handler.InspectURL)
		r.Get("/sweeps", handler.ListClasses)
		r.Post("/sweeps/{class}", handler.StartSweep)
	})

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: timeout,
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
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
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
