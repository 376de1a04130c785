// Package server serves scenario previews over HTTP.
//
// A client posts a scenario, the server plays it on a fresh engine and keeps
// the frames in memory for a while:
//
//	POST /api/v1/runs                  play a scenario, returns {id, frames, delay_ms}
//	GET  /api/v1/runs/{id}/frames/{n}  frame n (1-based) as SVG
//	GET  /runs/{id}                    HTML player for the run
//	GET  /healthz                      build info
//	GET  /metrics                      Prometheus metrics
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/framegraph/pkg/pipeline"
)

// Defaults for Config.
const (
	DefaultAddr    = ":8080"
	DefaultMaxRuns = 64
	DefaultTTL     = time.Hour
	DefaultMaxBody = 1 << 20
	DefaultTimeout = 30 * time.Second
)

// Config configures a Server. Zero fields take the defaults above.
type Config struct {
	Addr    string
	MaxRuns int
	TTL     time.Duration
	MaxBody int64
	Timeout time.Duration // per-run play budget

	// Layout selects the engine for posted scenarios unless the request
	// asks for another one.
	Layout string

	Logger   *log.Logger
	Gatherer prometheus.Gatherer // served on /metrics; nil uses the default registry
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxRuns <= 0 {
		c.MaxRuns = DefaultMaxRuns
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.MaxBody <= 0 {
		c.MaxBody = DefaultMaxBody
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Layout == "" {
		c.Layout = pipeline.DefaultLayout
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	if c.Gatherer == nil {
		c.Gatherer = prometheus.DefaultGatherer
	}
}

// Server plays posted scenarios and serves their frames.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	runs   *store
	logger *log.Logger
}

// New creates a server that plays scenarios with runner.
func New(runner *pipeline.Runner, cfg Config) *Server {
	cfg.setDefaults()
	return &Server{
		cfg:    cfg,
		runner: runner,
		runs:   newStore(cfg.MaxRuns, cfg.TTL),
		logger: cfg.Logger,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/runs/{id}", s.player)

	r.Route("/api/v1/runs", func(r chi.Router) {
		r.Post("/", s.createRun)
		r.Get("/{id}", s.getRun)
		r.Get("/{id}/frames/{n}", s.getFrame)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down")
		return srv.Shutdown(shutdown)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
