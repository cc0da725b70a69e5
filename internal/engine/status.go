// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package engine

import "time"

// Status describes the engine's current snapshot and table.
type Status struct {
	Loaded      bool      `json:"loaded"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Entities    int       `json:"entities"`
	LoadedAt    time.Time `json:"loaded_at,omitempty"`

	Metric     string `json:"metric"`
	ItemMetric string `json:"item_metric"`

	// TableReady is true when the stored table matches the snapshot.
	TableReady     bool          `json:"table_ready"`
	TableItems     int           `json:"table_items"`
	TableBuiltAt   time.Time     `json:"table_built_at,omitempty"`
	TableDuration  time.Duration `json:"table_duration_ns"`
	BuildDone      int           `json:"build_done"`
	BuildTotal     int           `json:"build_total"`
	BreakerState   string        `json:"breaker_state"`
	CacheEntries   int           `json:"cache_entries"`
	CacheHits      int64         `json:"cache_hits"`
	CacheMisses    int64         `json:"cache_misses"`
	RequestsServed int64         `json:"requests_served"`
	RequestsFailed int64         `json:"requests_failed"`
}

// Status returns a point-in-time view of the engine.
func (e *Engine) Status() Status {
	s := Status{
		Metric:         e.metric.String(),
		ItemMetric:     e.precompute.Metric.String(),
		BreakerState:   e.BreakerState(),
		RequestsServed: e.requestCount.Load(),
		RequestsFailed: e.errorCount.Load(),
	}
	s.BuildDone, s.BuildTotal = e.BuildProgress()

	e.mu.RLock()
	if e.snap != nil {
		s.Loaded = true
		s.Fingerprint = e.snap.fingerprint
		s.Entities = len(e.snap.prefs)
		s.LoadedAt = e.snap.loadedAt
		s.TableReady = e.table != nil && e.tableFingerprint == e.snap.fingerprint
	}
	if e.table != nil {
		s.TableItems = len(e.table)
		s.TableBuiltAt = e.tableBuiltAt
		s.TableDuration = e.tableDuration
	}
	e.mu.RUnlock()

	if e.results != nil {
		s.CacheHits, s.CacheMisses, s.CacheEntries = e.results.Stats()
	}

	return s
}
