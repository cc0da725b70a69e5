// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

/*
Package config loads and validates prefsim configuration.

Configuration is layered with koanf v2. Later layers override earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, config.yaml, config.yml,
    /etc/prefsim/config.yaml or /etc/prefsim/config.yml
 3. Environment variables

# Environment Variables

Recommendation engine (RecommendConfig):
  - RECOMMEND_METRIC: euclidean, pearson or tanimoto (default: pearson)
  - RECOMMEND_ITEM_METRIC: metric for the item similarity table (default: euclidean)
  - RECOMMEND_MATCHES: default neighbour count (default: 5)
  - RECOMMEND_SIMILAR_ITEMS: neighbours kept per item (default: 10)
  - RECOMMEND_WORKERS: precompute goroutines, 0 = NumCPU (default: 0)
  - RECOMMEND_PROGRESS_EVERY: items between progress logs (default: 100)
  - RECOMMEND_CACHE_SIZE: ranked-list cache entries, 0 disables (default: 1024)
  - RECOMMEND_CACHE_TTL: cache entry lifetime (default: 5m)
  - RECOMMEND_PRECOMPUTE_TIMEOUT: similarity table build limit, 0 = none (default: 10m)
  - RECOMMEND_BREAKER_FAILURES: failed builds that open the breaker, 0 disables (default: 3)
  - RECOMMEND_BREAKER_COOLDOWN: how long an open breaker rejects builds (default: 1m)

Background maintenance (MaintenanceConfig):
  - MAINTENANCE_CACHE_CLEANUP_INTERVAL: expired cache sweep, 0 disables (default: 1m)
  - MAINTENANCE_WARM_INTERVAL: stale table check, 0 disables (default: 30s)
  - MAINTENANCE_WARM_ON_START: build the table when the warmer starts (default: true)
  - MAINTENANCE_SHUTDOWN_TIMEOUT: supervisor stop timeout (default: 10s)

HTTP API (APIConfig):
  - API_ENABLED: serve the query API (default: false)
  - API_ADDR: listen address (default: :8080)
  - API_CORS_ORIGINS: comma-separated allowed origins (default: none)
  - API_RATE_LIMIT_REQUESTS: requests per window per IP (default: 600)
  - API_RATE_LIMIT_WINDOW: rate limit window (default: 1m)
  - API_RATE_LIMIT_DISABLED: turn off rate limiting (default: false)
  - API_REQUEST_TIMEOUT: per-query deadline, 0 = none (default: 30s)
  - API_MAX_SNAPSHOT_BYTES: largest accepted snapshot body (default: 64MiB)
  - API_SHUTDOWN_TIMEOUT: graceful HTTP shutdown limit (default: 10s)

Logging (LoggingConfig):
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: include caller file:line (default: false)

Unmapped environment variables are ignored. Slice values such as
api.cors_origins may be given as one comma-separated string in either YAML
or the environment.

WatchConfigFile watches the loaded file; cmd/server uses it to apply a changed
logging.level without a restart.

# Validation

Field constraints are declared with validator/v10 tags and checked through
internal/validation, so errors name the koanf key ("recommend.matches must be
greater than or equal to 1"). Cross-field rules live in config_validate.go.

# Example

	cfg, err := config.Load()
	if err != nil {
	    return err
	}
	logging.Init(cfg.Logging.LoggingOptions())
	eng, err := engine.New(cfg.Recommend, logging.WithComponent("engine"))
*/
package config
