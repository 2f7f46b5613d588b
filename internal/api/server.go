package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/RomanHreits/devices-api/internal/device"
	"github.com/RomanHreits/devices-api/internal/infrastructure/config"
	"github.com/RomanHreits/devices-api/internal/infrastructure/database"
	"github.com/RomanHreits/devices-api/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config  config.ServerConfig
	Metrics config.MetricsConfig
	Logger  *logging.Logger
	Service *device.Service
	DB      *database.DB // optional: enables database reachability in /healthz
	Version string
}

// Server is the HTTP API server for the device catalogue.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg     config.ServerConfig
	logger  *logging.Logger
	service *device.Service
	db      *database.DB
	metrics *Metrics
	version string
	server  *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Service == nil {
		return nil, fmt.Errorf("device service is required")
	}

	s := &Server{
		cfg:     deps.Config,
		logger:  deps.Logger,
		service: deps.Service,
		db:      deps.DB,
		version: deps.Version,
	}
	if deps.Metrics.Enabled {
		s.metrics = NewMetrics()
	}

	return s, nil
}

// Handler builds and returns the configured router. Exposed for tests that
// drive the server through httptest without a listener.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		IdleTimeout:       s.cfg.GetIdleTimeout(),
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
