package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"mercator-hq/courier/pkg/carrier"
	"mercator-hq/courier/pkg/config"
	"mercator-hq/courier/pkg/security/tls"
	"mercator-hq/courier/pkg/telemetry/health"
	"mercator-hq/courier/pkg/telemetry/logging"
	"mercator-hq/courier/pkg/telemetry/metrics"
	"mercator-hq/courier/pkg/telemetry/tracing"
)

// BuildInfo identifies the running binary on GET /version.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Options holds the components the server routes requests to.
type Options struct {
	// Config is the loaded process configuration. Required.
	Config *config.Config

	// Logger is the request logger. Required.
	Logger *logging.Logger

	// Client forwards requests to the carrier. Required.
	Client *carrier.Client

	// Health backs /health and /ready. Required.
	Health *health.Checker

	// Collector records HTTP metrics and serves the metrics endpoint.
	// Nil disables both.
	Collector *metrics.Collector

	// Tracer opens a server span per request. Nil disables tracing.
	Tracer *tracing.Tracer

	// Certificates serves the TLS key pair. Required when TLS is enabled.
	Certificates *tls.CertificateReloader

	// Build is reported by GET /version.
	Build BuildInfo
}

// Server is the courier HTTP server.
type Server struct {
	opts       Options
	handler    http.Handler
	httpServer *http.Server

	mu        sync.RWMutex
	isRunning bool
	addr      net.Addr
}

// NewServer validates opts and builds the routing table.
func NewServer(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("server: logger is required")
	}
	if opts.Client == nil {
		return nil, errors.New("server: carrier client is required")
	}
	if opts.Health == nil {
		return nil, errors.New("server: health checker is required")
	}
	if opts.Config.Security.TLS.Enabled && opts.Certificates == nil {
		return nil, errors.New("server: TLS is enabled but no certificates were loaded")
	}

	s := &Server{opts: opts}
	s.handler = s.setupRoutes()
	return s, nil
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Config.Proxy.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Config.Proxy.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		ln.Close()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.addr = ln.Addr()

	proxyCfg := s.opts.Config.Proxy
	s.httpServer = &http.Server{
		Handler:        s.handler,
		ReadTimeout:    proxyCfg.ReadTimeout,
		WriteTimeout:   proxyCfg.WriteTimeout,
		IdleTimeout:    proxyCfg.IdleTimeout,
		MaxHeaderBytes: proxyCfg.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(s.opts.Logger.Slog().Handler(), slog.LevelError),
	}
	tlsEnabled := s.opts.Config.Security.TLS.Enabled
	if tlsEnabled {
		s.httpServer.TLSConfig = tls.ServerConfig(s.opts.Certificates)
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("starting courier proxy",
			"address", ln.Addr().String(),
			"tls_enabled", tlsEnabled,
			"carrier", s.opts.Config.Carrier.BaseURL,
		)

		var err error
		if tlsEnabled {
			// Certificates come from TLSConfig.GetCertificate.
			err = httpServer.ServeTLS(ln, "", "")
		} else {
			err = httpServer.Serve(ln)
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.opts.Logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		s.setStopped()
		if ok {
			return err
		}
		return nil
	}
}

// Shutdown stops accepting connections and waits for in-flight requests,
// up to the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	running := s.isRunning
	httpServer := s.httpServer
	s.mu.RUnlock()
	if !running || httpServer == nil {
		return nil
	}

	timeout := s.opts.Config.Proxy.ShutdownTimeout
	s.opts.Logger.Info("initiating graceful shutdown", "timeout", timeout.String())

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var shutdownErr error
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.opts.Logger.Error("error during server shutdown", "error", err)
		shutdownErr = fmt.Errorf("server shutdown error: %w", err)
	}

	s.setStopped()
	s.opts.Logger.Info("courier proxy stopped")
	return shutdownErr
}

func (s *Server) setStopped() {
	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the bound listener address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}
