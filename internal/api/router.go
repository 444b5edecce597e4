// Package api serves the basket and survey analyses over HTTP.
package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PUSHPAK-96/cartwise/internal/pipeline"
	"github.com/PUSHPAK-96/cartwise/internal/survey"
)

// Options configures a Server.
type Options struct {
	Analyzer  *pipeline.Analyzer
	Sentiment *survey.Analyzer
	Store     DatasetStore
	// Registry receives the API metrics; nil creates a private registry.
	Registry *prometheus.Registry
	Defaults pipeline.Params
	Version  string
	// CORSOrigins lists browser origins allowed to call the API.
	CORSOrigins []string
	// RateLimit is requests per minute per client IP; zero means unlimited.
	RateLimit int
}

// Server holds the handlers' dependencies.
type Server struct {
	analyzer  *pipeline.Analyzer
	sentiment *survey.Analyzer
	store     DatasetStore
	metrics   *Metrics
	registry  *prometheus.Registry
	defaults  pipeline.Params
	version   string
	origins   []string
	rateLimit int
}

// NewServer builds a server, filling unset options with defaults.
func NewServer(opts Options) (*Server, error) {
	if opts.Analyzer == nil {
		opts.Analyzer = pipeline.NewAnalyzer(nil)
	}
	if opts.Sentiment == nil {
		opts.Sentiment = survey.NewAnalyzer()
	}
	if opts.Defaults == (pipeline.Params{}) {
		p, err := pipeline.Preset(pipeline.DefaultPreset)
		if err != nil {
			return nil, err
		}
		opts.Defaults = p
	}
	if err := opts.Defaults.Validate(); err != nil {
		return nil, fmt.Errorf("invalid default parameters: %w", err)
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
		opts.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return &Server{
		analyzer:  opts.Analyzer,
		sentiment: opts.Sentiment,
		store:     opts.Store,
		metrics:   NewMetrics(opts.Registry),
		registry:  opts.Registry,
		defaults:  opts.Defaults,
		version:   opts.Version,
		origins:   opts.CORSOrigins,
		rateLimit: opts.RateLimit,
	}, nil
}

// Router wires middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestID)
	r.Use(Instrument(s.metrics))
	r.Use(CORS(s.origins))

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimit(s.rateLimit))
		r.Get("/health", s.Health)
		r.Get("/presets", s.Presets)
		r.Get("/datasets", s.Datasets)
		r.Post("/rules", s.Rules)
		r.Post("/recommendations", s.Recommendations)
		r.Post("/network", s.Network)
		r.Post("/survey", s.Survey)
	})

	return r
}

// Timeouts bound the HTTP server's connection phases.
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Idle     time.Duration
	Shutdown time.Duration
}

// ListenAndServe serves until ctx is canceled, then drains in-flight
// requests. A non-nil tlsConfig serves HTTPS.
func (s *Server) ListenAndServe(ctx context.Context, addr string, t Timeouts, tlsConfig *tls.Config) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		TLSConfig:         tlsConfig,
		ReadTimeout:       t.Read,
		ReadHeaderTimeout: t.Read,
		WriteTimeout:      t.Write,
		IdleTimeout:       t.Idle,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", addr, "tls", tlsConfig != nil)
		if tlsConfig != nil {
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), t.Shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
