// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package config

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/tomtom215/prefsim/internal/logging"
	"github.com/tomtom215/prefsim/internal/recommend"
	"github.com/tomtom215/prefsim/internal/validation"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// registerValidators installs the config specific validation tags.
func registerValidators() error {
	registerOnce.Do(func() {
		registerErr = errors.Join(
			validation.RegisterStringValidator("metric", func(s string) bool {
				_, err := recommend.ParseMetric(s)
				return err == nil
			}, "%s must be one of: euclidean, pearson, tanimoto"),
			validation.RegisterStringValidator("loglevel", logging.ValidLevel,
				"%s must be one of: trace, debug, info, warn, error, fatal, panic, disabled"),
		)
	})
	return registerErr
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := registerValidators(); err != nil {
		return err
	}

	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	return errors.Join(c.validateCache(), c.validateAPI())
}

// validateCache rejects an enabled cache whose entries could never be served
// and an enabled breaker that would never close again.
func (c *Config) validateCache() error {
	if c.Recommend.CacheSize > 0 && c.Recommend.CacheTTL == 0 {
		return fmt.Errorf("recommend.cache_ttl must be positive when recommend.cache_size is %d", c.Recommend.CacheSize)
	}
	if c.Recommend.BreakerFailures > 0 && c.Recommend.BreakerCooldown == 0 {
		return fmt.Errorf("recommend.breaker_cooldown must be positive when recommend.breaker_failures is %d", c.Recommend.BreakerFailures)
	}
	return nil
}

// validateAPI rejects a wildcard origin mixed with explicit ones.
func (c *Config) validateAPI() error {
	if len(c.API.CORSOrigins) > 1 && slices.Contains(c.API.CORSOrigins, "*") {
		return errors.New("api.cors_origins: \"*\" must be the only origin when present")
	}
	return nil
}
