// Package server exposes the draw pipeline over HTTP.
//
// Routes:
//
//	POST /v1/draws       draw an assignment (body: pipeline.Options)
//	GET  /v1/draws/{id}  fetch a stored draw report
//	POST /v1/checks      validate an assignment (body: pipeline.CheckRequest)
//	GET  /healthz        liveness and build information
//	GET  /metrics        Prometheus metrics, when configured
//
// Errors are returned as {"code": "...", "message": "..."}.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/giftring/pkg/pipeline"
)

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = "localhost:8080"

// maxBodyBytes bounds request bodies. A roster of MaxParticipants entries
// with long exclusion lists stays well below it.
const maxBodyBytes = 4 << 20

// Config configures a Server.
type Config struct {
	Addr   string
	Runner *pipeline.Runner
	Logger *log.Logger

	// Metrics serves /metrics. Nil leaves the route out.
	Metrics http.Handler

	ShutdownTimeout time.Duration
}

// Server is the giftring HTTP API.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	router  chi.Router
	metrics http.Handler
	addr    string
	grace   time.Duration
}

// New creates a server. Runner is required.
func New(cfg Config) (*Server, error) {
	if cfg.Runner == nil {
		return nil, errors.New("server: runner is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = cfg.Runner.Logger
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		runner:  cfg.Runner,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		addr:    cfg.Addr,
		grace:   cfg.ShutdownTimeout,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/draws", s.handleDraw)
		r.Get("/draws/{id}", s.handleGetDraw)
		r.Post("/checks", s.handleCheck)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
