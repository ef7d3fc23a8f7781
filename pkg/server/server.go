// Package server runs the HTTP listener that exposes metrics and health
// endpoints while the configuration is being watched.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// Config controls the listener.
type Config struct {
	// Address is the host:port to listen on. Port 0 picks a free port.
	Address string

	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// ShutdownTimeout bounds the graceful shutdown when the serving
	// context is cancelled.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns timeouts suited to scrape and probe traffic.
func DefaultConfig(address string) Config {
	return Config{
		Address:           address,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}

// Server serves a handler with panic recovery and request logging.
type Server struct {
	config     Config
	logger     *slog.Logger
	httpServer *http.Server

	mu        sync.RWMutex
	listener  net.Listener
	isRunning bool

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a server for handler. Nothing is bound until Listen or Start.
func New(cfg Config, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	logger = logger.With("component", "server")

	s := &Server{
		config: cfg,
		logger: logger,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           RecoveryMiddleware(logger, LoggingMiddleware(logger, handler)),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
	return s
}

// Listen binds the address, so that a port conflict is reported before the
// caller commits to serving.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Address
}

// Start serves until ctx is cancelled or Shutdown is called, then shuts
// down gracefully. It binds the address first if Listen was not called.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return errors.New("server is already running")
	}
	s.isRunning = true
	ln := s.listener
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		if ok {
			s.setStopped()
			return err
		}
		// Serve returned after Shutdown from another goroutine.
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully stops the server within ShutdownTimeout. Further calls
// return the first result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			s.shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		// A listener bound by Listen but never served is not owned by
		// httpServer yet.
		s.mu.Lock()
		if s.listener != nil && !s.isRunning {
			_ = s.listener.Close()
		}
		s.mu.Unlock()

		s.setStopped()
		s.logger.Info("server stopped")
	})
	return s.shutdownErr
}

func (s *Server) setStopped() {
	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()
}

// IsRunning returns true while the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
