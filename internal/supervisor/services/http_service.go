// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServiceConfig configures HTTPServerService.
type HTTPServiceConfig struct {
	// Addr is only used in log lines; the server owns its listener.
	Addr string

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration
}

// HTTPServerService runs the query API server under suture. Cancelling the
// context drains in-flight queries within ShutdownTimeout.
type HTTPServerService struct {
	server HTTPServer
	config HTTPServiceConfig
	logger zerolog.Logger
}

// NewHTTPServerService wraps server.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPServerService(server HTTPServer, cfg HTTPServiceConfig, logger zerolog.Logger) *HTTPServerService {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server: server,
		config: cfg,
		logger: logger.With().Str("service", "http-server").Str("addr", cfg.Addr).Logger(),
	}
}

// Serve implements suture.Service. A listener failure is returned so the
// supervisor restarts the service; a cancelled context returns ctx.Err().
func (h *HTTPServerService) Serve(ctx context.Context) error {
	stopped := make(chan error, 1)
	go func() {
		err := h.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		stopped <- err
	}()
	h.logger.Info().Msg("query api listening")

	select {
	case err := <-stopped:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		h.logger.Info().Msg("query api closed")
		return nil

	case <-ctx.Done():
	}

	// ctx is already cancelled, so shutdown needs its own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), h.config.ShutdownTimeout)
	defer cancel()

	start := time.Now()
	if err := h.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	<-stopped
	h.logger.Info().Dur("duration", time.Since(start)).Msg("query api drained")
	return ctx.Err()
}

// String returns the service name for logging.
func (h *HTTPServerService) String() string {
	return "http-server"
}
