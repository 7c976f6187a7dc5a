// SPDX-License-Identifier: MPL-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Start starts the preview server and blocks until either:
//   - The server is ready to accept requests (returns nil)
//   - The server fails to start (returns error)
//   - The context is cancelled (returns context error)
//   - The startup timeout is exceeded (returns error)
//
// After Start() returns nil, use Err() to monitor for runtime errors.
func (s *Server) Start(ctx context.Context) error {
	if err := s.transitionToStarting(ctx); err != nil {
		return err
	}

	startupCtx, startupCancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer startupCancel()

	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", s.cfg.Addr)
	if err != nil {
		s.transitionToFailed(fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err))
		return s.LastError()
	}

	s.srvMu.Lock()
	s.addr = listener.Addr().String()
	s.srv = &http.Server{
		Handler:      s.mux(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.srvMu.Unlock()

	s.wg.Add(1)
	go s.serve(listener)

	select {
	case <-s.StartedChannel():
		s.logger.Info("preview server started", "address", s.addr, "app", s.cfg.AppName)
		return nil

	case err := <-s.Err():
		s.transitionToFailed(err)
		return err

	case <-startupCtx.Done():
		s.transitionToFailed(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
		return s.LastError()
	}
}

// Stop gracefully stops the preview server and closes all live sessions.
// Safe to call multiple times; subsequent calls are no-ops.
func (s *Server) Stop() error {
	if !s.transitionToStopping() {
		// Already stopped, stopping, created, or failed
		s.waitForShutdown()
		return nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error
	s.srvMu.Lock()
	if s.srv != nil {
		shutdownErr = s.srv.Shutdown(shutdownCtx)
		if shutdownErr != nil && !errors.Is(shutdownErr, http.ErrServerClosed) {
			s.logger.Error("shutdown error", "error", shutdownErr)
		} else {
			shutdownErr = nil
		}
	}
	s.srvMu.Unlock()

	s.waitForShutdown()
	s.closeSessions()

	s.transitionToStopped()
	s.logger.Info("preview server stopped")

	return shutdownErr
}

// serve runs the HTTP server and reports unexpected errors.
func (s *Server) serve(listener net.Listener) {
	defer s.wg.Done()

	// Transition: Starting -> Running (signals readiness)
	s.transitionToRunning()

	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()

	err := srv.Serve(listener)
	if err != nil {
		// Ignore expected shutdown errors
		if errors.Is(err, http.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
			return
		}
		s.sendError(fmt.Errorf("serve error: %w", err))
	}
}

// Address returns the server's bound address (host:port).
// Returns empty string until the server has started.
func (s *Server) Address() string {
	select {
	case <-s.StartedChannel():
		s.srvMu.Lock()
		defer s.srvMu.Unlock()
		return s.addr
	default:
		return ""
	}
}

// URL returns the server's base URL, or empty string until started.
func (s *Server) URL() string {
	addr := s.Address()
	if addr == "" {
		return ""
	}
	return "http://" + addr
}
