// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultWarmInterval is used when a TableWarmer is given no interval.
const DefaultWarmInterval = 30 * time.Second

// TableBuilder rebuilds a stale similarity table, reporting whether it did.
type TableBuilder interface {
	WarmTable(ctx context.Context) (bool, error)
}

// TableWarmerConfig holds settings for the table warmer.
type TableWarmerConfig struct {
	// Interval is how often the table is checked for staleness.
	Interval time.Duration

	// WarmOnStart checks the table immediately instead of waiting one interval.
	WarmOnStart bool
}

// TableWarmer keeps the item similarity table in step with the loaded
// snapshot so the first item-based request after a Load does not pay for
// the build.
type TableWarmer struct {
	builder TableBuilder
	config  TableWarmerConfig
	logger  zerolog.Logger
	name    string
}

// NewTableWarmer creates a warmer over builder.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTableWarmer(builder TableBuilder, cfg TableWarmerConfig, logger zerolog.Logger) *TableWarmer {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultWarmInterval
	}
	return &TableWarmer{
		builder: builder,
		config:  cfg,
		logger:  logger.With().Str("service", "table-warmer").Logger(),
		name:    "table-warmer",
	}
}

// Serve implements suture.Service.
func (w *TableWarmer) Serve(ctx context.Context) error {
	w.logger.Debug().
		Bool("warm_on_start", w.config.WarmOnStart).
		Dur("interval", w.config.Interval).
		Msg("table warmer starting")

	if w.config.WarmOnStart {
		w.warm(ctx)
	}

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug().Msg("table warmer shutting down")
			return ctx.Err()
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

// warm runs one staleness check. Build failures are logged and retried on
// the next tick.
func (w *TableWarmer) warm(ctx context.Context) {
	start := time.Now()
	built, err := w.builder.WarmTable(ctx)
	switch {
	case err != nil && ctx.Err() != nil:
		// Shutting down; Serve returns on the next select.
	case err != nil:
		w.logger.Warn().Err(err).Msg("similarity table warm-up failed")
	case built:
		w.logger.Info().Dur("duration", time.Since(start)).Msg("similarity table warmed")
	}
}

// String returns the service name for logging.
func (w *TableWarmer) String() string {
	return w.name
}
