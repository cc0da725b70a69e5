// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package engine

import (
	"slices"

	"github.com/tomtom215/prefsim/internal/metrics"
	"github.com/tomtom215/prefsim/internal/recommend"
)

// cacheKey identifies one ranked list of one snapshot.
type cacheKey struct {
	fingerprint string
	op          string
	metric      recommend.Metric
	id          string
	n           int
}

// cached returns a copy of the stored list for key.
func (e *Engine) cached(key cacheKey) (recommend.RankedList[string], bool) {
	if e.results == nil {
		return nil, false
	}

	list, ok := e.results.Get(key)
	metrics.RecordCacheLookup(ok)
	if !ok {
		return nil, false
	}
	return slices.Clone(list), true
}

// store keeps a private copy of list so callers may modify what they receive.
func (e *Engine) store(key cacheKey, list recommend.RankedList[string]) {
	if e.results == nil {
		return
	}
	e.results.Add(key, slices.Clone(list))
}

// CleanupCache drops expired ranked lists and returns how many were removed.
func (e *Engine) CleanupCache() int {
	if e.results == nil {
		return 0
	}
	return e.results.CleanupExpired()
}
