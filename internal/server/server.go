// Package server implements the items HTTP API the board talks to.
//
// Routes:
//
//	GET    /items    every item in creation order
//	POST   /items    {text, listId} creates an item and returns it with its id
//	PUT    /items    {id, listId?, text?} changes the supplied fields
//	DELETE /items    {id} removes an item
//	GET    /healthz  storage reachability
//	GET    /metrics  prometheus metrics (when enabled)
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/five82/kanban/internal/storage"
)

// Options tunes a Server.
type Options struct {
	// AllowedLists restricts the list ids items may carry. Empty accepts any.
	AllowedLists []string
	// Registry receives the request metrics. Nil disables /metrics.
	Registry *prometheus.Registry

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server serves the items API on top of a storage.Repository.
type Server struct {
	repo    storage.Repository
	logger  *zap.Logger
	tracer  trace.Tracer
	allowed map[string]bool
	metrics *metrics
	opts    Options
	handler http.Handler
}

// New builds a Server. The repository is not closed by the server.
func New(repo storage.Repository, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		repo:   repo,
		logger: logger,
		tracer: otel.Tracer("kanban/server"),
		opts:   opts,
	}
	if len(opts.AllowedLists) > 0 {
		s.allowed = make(map[string]bool, len(opts.AllowedLists))
		for _, id := range opts.AllowedLists {
			s.allowed[id] = true
		}
	}
	if opts.Registry != nil {
		s.metrics = newMetrics(opts.Registry)
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /items", s.handleList)
	mux.HandleFunc("POST /items", s.handleCreate)
	mux.HandleFunc("PUT /items", s.handleUpdate)
	mux.HandleFunc("DELETE /items", s.handleDelete)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.opts.Registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{}))
	}

	var h http.Handler = mux
	if s.metrics != nil {
		h = s.metrics.middleware(h)
	}
	h = loggingMiddleware(s.logger, h)
	h = recoveryMiddleware(s.logger, h)
	return h
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down gracefully")
	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("shutdown timeout exceeded, forcing close", zap.Error(err))
		_ = srv.Close()
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped gracefully")
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(ctx, ln)
}
