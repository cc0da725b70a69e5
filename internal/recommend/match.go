// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package recommend

import (
	"cmp"
	"fmt"
)

// DefaultMatches is the conventional n for TopMatches.
const DefaultMatches = 5

// TopMatches returns the n entities most similar to entity under metric,
// excluding entity itself. Ties are ordered by identifier descending.
//
// An entity absent from prefs yields ErrUnknownEntity rather than an empty
// list, so "unknown" is never confused with "no similar entities".
func TopMatches[E, I cmp.Ordered](prefs Matrix[E, I], entity E, n int, metric Metric) (RankedList[E], error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	if !metric.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMetric, int(metric))
	}
	row, ok := prefs[entity]
	if !ok {
		return nil, unknownEntity(entity)
	}
	return topMatches(prefs, entity, row, n, metric), nil
}

// topMatches assumes entity, n and metric were already validated.
func topMatches[E, I cmp.Ordered](prefs Matrix[E, I], entity E, row map[I]float64, n int, metric Metric) RankedList[E] {
	scores := make([]Scored[E], 0, len(prefs))
	for other, otherRow := range prefs {
		if other == entity {
			continue
		}
		scores = append(scores, Scored[E]{
			Score: similarity(metric, row, otherRow),
			ID:    other,
		})
	}

	ranked := rank(scores)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
