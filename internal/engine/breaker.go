// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package engine

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/prefsim/internal/config"
	"github.com/tomtom215/prefsim/internal/recommend"
)

// ErrTableUnavailable is returned while repeated similarity table build
// failures hold the build breaker open.
var ErrTableUnavailable = errors.New("similarity table unavailable")

// BreakerDisabled is reported by BreakerState when no breaker is configured.
const BreakerDisabled = "disabled"

type tableBreaker = gobreaker.CircuitBreaker[recommend.SimilarityTable[string]]

// newTableBreaker returns nil when cfg.BreakerFailures is 0.
// Builds run detached from the requests waiting on them, so only precompute
// errors and PrecomputeTimeout overruns count as failures.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newTableBreaker(cfg config.RecommendConfig, logger zerolog.Logger) *tableBreaker {
	if cfg.BreakerFailures == 0 {
		return nil
	}
	threshold := cfg.BreakerFailures

	return gobreaker.NewCircuitBreaker[recommend.SimilarityTable[string]](gobreaker.Settings{
		Name:        "similarity-table",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("table build breaker state changed")
		},
	})
}

// guardedBuild runs build through the breaker when one is configured.
func (e *Engine) guardedBuild(build func() (recommend.SimilarityTable[string], error)) (recommend.SimilarityTable[string], error) {
	if e.breaker == nil {
		return build()
	}
	table, err := e.breaker.Execute(build)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ErrTableUnavailable, err)
	}
	return table, err
}

// BreakerState returns the table build breaker state: closed, open,
// half-open, or BreakerDisabled.
func (e *Engine) BreakerState() string {
	if e.breaker == nil {
		return BreakerDisabled
	}
	return e.breaker.State().String()
}
