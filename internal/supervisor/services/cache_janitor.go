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

// DefaultCleanupInterval is used when a CacheJanitor is given no interval.
const DefaultCleanupInterval = time.Minute

// CacheCleaner drops expired cache entries and reports how many went.
type CacheCleaner interface {
	CleanupCache() int
}

// CacheJanitor periodically evicts expired ranked lists from the engine cache.
type CacheJanitor struct {
	cache    CacheCleaner
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCacheJanitor creates a janitor that sweeps cache every interval.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheJanitor(cache CacheCleaner, interval time.Duration, logger zerolog.Logger) *CacheJanitor {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &CacheJanitor{
		cache:    cache,
		interval: interval,
		logger:   logger.With().Str("service", "cache-janitor").Logger(),
		name:     "cache-janitor",
	}
}

// Serve implements suture.Service.
func (j *CacheJanitor) Serve(ctx context.Context) error {
	j.logger.Debug().Dur("interval", j.interval).Msg("cache janitor starting")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Debug().Msg("cache janitor shutting down")
			return ctx.Err()
		case <-ticker.C:
			if removed := j.cache.CleanupCache(); removed > 0 {
				j.logger.Debug().Int("removed", removed).Msg("expired ranked lists evicted")
			}
		}
	}
}

// String returns the service name for logging.
func (j *CacheJanitor) String() string {
	return j.name
}
