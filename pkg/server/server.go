package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/covid-atlas/pkg/handlers/dashboard"
	covidatlasmiddleware "github.com/de-tools/covid-atlas/pkg/server/middleware"
	"github.com/de-tools/covid-atlas/pkg/services/dashboard"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	Explorer dashboard.Explorer
	Logger   zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	handler := handlers.NewHandler(config.Dependencies.Explorer)

	router := chi.NewRouter()
	router.Use(covidatlasmiddleware.Logger(&config.Dependencies.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/countries", handler.ListCountries)
		r.Get("/summary/global", handler.GlobalSummary)
		r.Get("/compare", handler.Compare)
		r.Get("/countries/{country}/metrics/{metric}/series", handler.GetSeries)
		r.Get("/countries/{country}/metrics/{metric}/chart.png", handler.GetChart)
		r.Get("/countries/{country}/metrics/{metric}/forecast", handler.GetForecast)
		r.Get("/countries/{country}/metrics/{metric}/forecast/export", handler.ExportForecastCSV)
	})

	return router
}

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)

	timeout := config.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &WebAPI{
		router:          router,
		logger:          &config.Dependencies.Logger,
		shutdownTimeout: timeout,
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
