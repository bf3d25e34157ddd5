package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"mercator-hq/egress/pkg/config"
	"mercator-hq/egress/pkg/proxy/middleware"
	"mercator-hq/egress/pkg/security/auth"
	"mercator-hq/egress/pkg/telemetry/health"
	"mercator-hq/egress/pkg/telemetry/metrics"
	"mercator-hq/egress/pkg/telemetry/tracing"
)

// Dependencies are the components the server mounts.
type Dependencies struct {
	// Boundary serves the proxy endpoint. Required.
	Boundary http.Handler

	// Regions serves the region listing. Optional.
	Regions http.Handler

	// Auth gates Boundary and Regions. Required.
	Auth *auth.BearerMiddleware

	// Checker backs /health and /ready. Optional.
	Checker *health.Checker

	// Metrics exposes the Prometheus endpoint when enabled. Optional.
	Metrics *metrics.Collector

	// Tracer starts the boundary server span. Optional.
	Tracer *tracing.Tracer

	// Logger receives access and lifecycle lines. Defaults to slog.Default().
	Logger *slog.Logger

	Version   string
	Commit    string
	BuildTime string
}

// Server is the egress proxy HTTP server.
type Server struct {
	config        *config.ProxyConfig
	metricsConfig *config.MetricsConfig
	deps          Dependencies
	logger        *slog.Logger
	httpServer    *http.Server
	shutdownChan  chan struct{}
	shutdownOnce  sync.Once
	mu            sync.RWMutex
	isRunning     bool
}

// NewServer creates a new proxy server.
func NewServer(cfg *config.Config, deps Dependencies) (*Server, error) {
	if deps.Boundary == nil {
		return nil, fmt.Errorf("boundary handler is required")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("authorization gate is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Tracer == nil {
		deps.Tracer = tracing.Noop()
	}

	return &Server{
		config:        &cfg.Proxy,
		metricsConfig: &cfg.Telemetry.Metrics,
		deps:          deps,
		logger:        logger,
		shutdownChan:  make(chan struct{}),
	}, nil
}

// Start starts the HTTP server and blocks until ctx is cancelled, a
// termination signal arrives, Stop is called, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting egress proxy", "address", s.config.ListenAddress)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Stop asks a running Start to shut down.
func (s *Server) Stop() {
	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// Shutdown marks the server as draining so /ready fails, then waits up to
// the shutdown timeout for in-flight requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running := s.isRunning
		httpServer := s.httpServer
		s.mu.RUnlock()
		if !running {
			return
		}

		if s.deps.Checker != nil {
			s.deps.Checker.SetDraining()
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("egress proxy stopped")
	})

	return shutdownErr
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/", s.deps.Auth.Handle(s.deps.Boundary))
	if s.deps.Regions != nil {
		mux.Handle("/regions", s.deps.Auth.Handle(s.deps.Regions))
	}

	if s.deps.Checker != nil {
		health.Register(mux, s.deps.Checker, s.deps.Version, s.deps.Commit, s.deps.BuildTime)
	}

	if s.deps.Metrics != nil && s.metricsConfig.IsEnabled() {
		mux.Handle(s.metricsConfig.Path, s.deps.Metrics.Handler())
	}

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(s.logger)(handler)
	handler = tracing.HTTPMiddleware(s.deps.Tracer)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
