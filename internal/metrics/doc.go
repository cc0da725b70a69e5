// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

/*
Package metrics provides Prometheus collectors for the recommendation engine.

Collectors are registered with the default registry through promauto, so an
application exposes them by serving promhttp.Handler().

# Available Metrics

Requests:
  - prefsim_recommend_requests_total{operation,metric,status}
  - prefsim_recommend_duration_seconds{operation}
  - prefsim_recommend_results{operation}

Similarity table:
  - prefsim_similarity_table_builds_total{status}
  - prefsim_similarity_table_build_duration_seconds
  - prefsim_similarity_table_entities

Snapshots and cache:
  - prefsim_snapshot_loads_total
  - prefsim_snapshot_entities
  - prefsim_result_cache_hits_total
  - prefsim_result_cache_misses_total
*/
package metrics
