// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/prefsim/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/prefsim/config.yaml",
	"/etc/prefsim/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Recommend: RecommendConfig{
			Metric:            "pearson",
			ItemMetric:        "euclidean",
			Matches:           recommend.DefaultMatches,
			SimilarItems:      recommend.DefaultSimilarItems,
			NumWorkers:        0, // 0 = use runtime.NumCPU()
			ProgressEvery:     recommend.DefaultProgressEvery,
			CacheSize:         1024,
			CacheTTL:          5 * time.Minute,
			PrecomputeTimeout: 10 * time.Minute,
			BreakerFailures:   3,
			BreakerCooldown:   time.Minute,
		},
		Maintenance: MaintenanceConfig{
			CacheCleanupInterval: time.Minute,
			WarmInterval:         30 * time.Second,
			WarmOnStart:          true,
			ShutdownTimeout:      10 * time.Second,
		},
		API: APIConfig{
			Enabled:           false,
			Addr:              ":8080",
			CORSOrigins:       []string{},
			RateLimitRequests: 600,
			RateLimitWindow:   time.Minute,
			RequestTimeout:    30 * time.Second,
			MaxSnapshotBytes:  64 << 20,
			ShutdownTimeout:   10 * time.Second,
			ProgressInterval:  time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile loads configuration from defaults, the given YAML file and the
// environment, skipping config file discovery.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// RECOMMEND_METRIC -> recommend.metric
	// LOG_LEVEL -> logging.level
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration without reading any source.
func Default() *Config {
	return defaultConfig()
}

// File returns the config file Load would read, or "" when none exists.
func File() string {
	return findConfigFile()
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists config paths that may arrive as comma-separated
// strings from the environment.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields splits comma-separated string values at the known slice
// paths. Values that are already slices (from YAML) are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		str, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(str, ",")
		values := make([]string, 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Recommendation engine
	"recommend_metric":             "recommend.metric",
	"recommend_item_metric":        "recommend.item_metric",
	"recommend_matches":            "recommend.matches",
	"recommend_similar_items":      "recommend.similar_items",
	"recommend_workers":            "recommend.num_workers",
	"recommend_progress_every":     "recommend.progress_every",
	"recommend_cache_size":         "recommend.cache_size",
	"recommend_cache_ttl":          "recommend.cache_ttl",
	"recommend_precompute_timeout": "recommend.precompute_timeout",
	"recommend_breaker_failures":   "recommend.breaker_failures",
	"recommend_breaker_cooldown":   "recommend.breaker_cooldown",

	// Maintenance services
	"maintenance_cache_cleanup_interval": "maintenance.cache_cleanup_interval",
	"maintenance_warm_interval":          "maintenance.warm_interval",
	"maintenance_warm_on_start":          "maintenance.warm_on_start",
	"maintenance_shutdown_timeout":       "maintenance.shutdown_timeout",

	// HTTP API
	"api_enabled":             "api.enabled",
	"api_addr":                "api.addr",
	"api_cors_origins":        "api.cors_origins",
	"api_rate_limit_requests": "api.rate_limit_requests",
	"api_rate_limit_window":   "api.rate_limit_window",
	"api_rate_limit_disabled": "api.rate_limit_disabled",
	"api_request_timeout":     "api.request_timeout",
	"api_max_snapshot_bytes":  "api.max_snapshot_bytes",
	"api_shutdown_timeout":    "api.shutdown_timeout",
	"api_progress_interval":   "api.progress_interval",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - RECOMMEND_METRIC -> recommend.metric
//   - RECOMMEND_WORKERS -> recommend.num_workers
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables
	// cannot pollute the config.
	return ""
}

// WatchConfigFile calls callback whenever the file at path changes.
// The caller is responsible for reloading and swapping configuration safely.
//
//	err := config.WatchConfigFile(path, func() {
//	    cfg, err := config.LoadFile(path)
//	    ...
//	})
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
