// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request status label values.
const (
	StatusOK            = "ok"
	StatusUnknownEntity = "unknown_entity"
	StatusInvalid       = "invalid"
	StatusCanceled      = "canceled"
	StatusError         = "error"
)

var (
	// Recommendation Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prefsim_recommend_requests_total",
			Help: "Total number of match and recommendation requests",
		},
		[]string{"operation", "metric", "status"}, // operation: "top_matches", "user_based", "item_based"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prefsim_recommend_duration_seconds",
			Help:    "Duration of match and recommendation requests in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation"},
	)

	RecommendResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prefsim_recommend_results",
			Help:    "Number of ranked entries returned per request",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
		},
		[]string{"operation"},
	)

	// Similarity Table Metrics
	SimilarityTableBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prefsim_similarity_table_builds_total",
			Help: "Total number of item similarity table builds",
		},
		[]string{"status"},
	)

	SimilarityTableBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prefsim_similarity_table_build_duration_seconds",
			Help:    "Duration of item similarity table builds in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms .. ~4.4min
		},
	)

	SimilarityTableEntities = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prefsim_similarity_table_entities",
			Help: "Number of items in the current similarity table",
		},
	)

	// Snapshot Metrics
	SnapshotEntities = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prefsim_snapshot_entities",
			Help: "Number of entities in the loaded preference matrix",
		},
	)

	SnapshotLoads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prefsim_snapshot_loads_total",
			Help: "Total number of preference matrix snapshots loaded",
		},
	)

	// Result Cache Metrics
	ResultCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prefsim_result_cache_hits_total",
			Help: "Total number of ranked-list cache hits",
		},
	)

	ResultCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prefsim_result_cache_misses_total",
			Help: "Total number of ranked-list cache misses",
		},
	)
)

// RecordRequest records a match or recommendation request.
// results is only observed for successful requests.
func RecordRequest(operation, metric, status string, duration time.Duration, results int) {
	RecommendRequestsTotal.WithLabelValues(operation, metric, status).Inc()
	RecommendDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if status == StatusOK {
		RecommendResults.WithLabelValues(operation).Observe(float64(results))
	}
}

// RecordSimilarityTableBuild records an item similarity table build.
func RecordSimilarityTableBuild(duration time.Duration, entities int, err error) {
	SimilarityTableBuildDuration.Observe(duration.Seconds())
	if err != nil {
		SimilarityTableBuilds.WithLabelValues(StatusError).Inc()
		return
	}
	SimilarityTableBuilds.WithLabelValues(StatusOK).Inc()
	SimilarityTableEntities.Set(float64(entities))
}

// RecordSnapshotLoad records installation of a new preference matrix.
func RecordSnapshotLoad(entities int) {
	SnapshotLoads.Inc()
	SnapshotEntities.Set(float64(entities))
}

// RecordCacheLookup records a ranked-list cache lookup.
func RecordCacheLookup(hit bool) {
	if hit {
		ResultCacheHits.Inc()
		return
	}
	ResultCacheMisses.Inc()
}
