// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package config

import (
	"time"

	"github.com/tomtom215/prefsim/internal/logging"
	"github.com/tomtom215/prefsim/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Recommend   RecommendConfig   `koanf:"recommend"`
	Maintenance MaintenanceConfig `koanf:"maintenance"`
	API         APIConfig         `koanf:"api"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// Metric is the similarity metric used for matching and user-based
	// recommendations: euclidean, pearson or tanimoto.
	Metric string `koanf:"metric" validate:"required,metric"`

	// ItemMetric is the metric used to build the item similarity table.
	ItemMetric string `koanf:"item_metric" validate:"required,metric"`

	// Matches is the neighbour count used when a caller passes n <= 0.
	Matches int `koanf:"matches" validate:"gte=1,lte=10000"`

	// SimilarItems is the number of neighbours kept per item in the
	// precomputed similarity table.
	SimilarItems int `koanf:"similar_items" validate:"gte=1,lte=10000"`

	// NumWorkers bounds precompute parallelism (0 = runtime.NumCPU()).
	NumWorkers int `koanf:"num_workers" validate:"gte=0,lte=1024"`

	// ProgressEvery throttles precompute progress logs to one per N items
	// (0 = recommend.DefaultProgressEvery).
	ProgressEvery int `koanf:"progress_every" validate:"gte=0"`

	// CacheSize is the ranked-list cache capacity (0 disables caching).
	CacheSize int `koanf:"cache_size" validate:"gte=0"`

	// CacheTTL is how long a cached ranked list stays valid.
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gte=0"`

	// PrecomputeTimeout bounds one similarity table build (0 = no limit).
	PrecomputeTimeout time.Duration `koanf:"precompute_timeout" validate:"gte=0"`

	// BreakerFailures is the number of consecutive failed table builds that
	// opens the build circuit breaker (0 disables the breaker).
	BreakerFailures uint32 `koanf:"breaker_failures" validate:"lte=1000"`

	// BreakerCooldown is how long an open breaker rejects builds before a
	// single trial build is allowed.
	BreakerCooldown time.Duration `koanf:"breaker_cooldown" validate:"gte=0"`
}

// MaintenanceConfig controls the supervised background services that keep
// the engine's cache and similarity table fresh.
type MaintenanceConfig struct {
	// CacheCleanupInterval is how often expired ranked lists are dropped
	// (0 disables the janitor).
	CacheCleanupInterval time.Duration `koanf:"cache_cleanup_interval" validate:"gte=0"`

	// WarmInterval is how often the table warmer checks for a stale table
	// (0 disables the warmer).
	WarmInterval time.Duration `koanf:"warm_interval" validate:"gte=0"`

	// WarmOnStart builds the table as soon as the warmer starts.
	WarmOnStart bool `koanf:"warm_on_start"`

	// ShutdownTimeout bounds how long the supervisor waits for services to stop.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

// APIConfig holds settings for the HTTP query API.
type APIConfig struct {
	// Enabled starts the HTTP server under the supervisor tree.
	Enabled bool `koanf:"enabled"`

	// Addr is the listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// CORSOrigins lists allowed origins (empty blocks cross-origin requests).
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitRequests is the per-IP request budget per RateLimitWindow.
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// RequestTimeout bounds a single query, including a table build it triggers.
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gte=0"`

	// MaxSnapshotBytes caps the body of a snapshot upload.
	MaxSnapshotBytes int64 `koanf:"max_snapshot_bytes" validate:"gte=1"`

	// ShutdownTimeout is how long in-flight requests get on shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`

	// ProgressInterval is how often the websocket feed samples build
	// progress. Zero turns the feed off.
	ProgressInterval time.Duration `koanf:"progress_interval" validate:"gte=0"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"required,loglevel"`
	Format string `koanf:"format" validate:"required,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// ParsedMetric returns the configured metric as a recommend.Metric.
func (c RecommendConfig) ParsedMetric() (recommend.Metric, error) {
	return recommend.ParseMetric(c.Metric)
}

// PrecomputeConfig returns the similarity table build settings.
// The logger is left zero; callers attach their own.
func (c RecommendConfig) PrecomputeConfig() (recommend.PrecomputeConfig, error) {
	metric, err := recommend.ParseMetric(c.ItemMetric)
	if err != nil {
		return recommend.PrecomputeConfig{}, err
	}
	return recommend.PrecomputeConfig{
		N:             c.SimilarItems,
		Metric:        metric,
		NumWorkers:    c.NumWorkers,
		ProgressEvery: c.ProgressEvery,
	}, nil
}

// LoggingOptions converts the configuration into logging.Config.
func (c LoggingConfig) LoggingOptions() logging.Config {
	opts := logging.DefaultConfig()
	opts.Level = c.Level
	opts.Format = c.Format
	opts.Caller = c.Caller
	return opts
}
