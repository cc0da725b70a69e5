// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package recommend

import (
	"cmp"
	"fmt"
)

// Recommendations ranks the items person has not rated by a similarity
// weighted average of every other entity's ratings.
//
// For candidate item i:
//
//	score(i) = sum_{o: sim(p,o) > 0} sim(p,o) * r(o,i) / sum_{o: sim(p,o) > 0} sim(p,o)
//
// Entities with non-positive similarity contribute nothing. An item rated
// exactly 0 by person is treated as unrated. Every returned score therefore
// has a strictly positive denominator.
func Recommendations[E, I cmp.Ordered](prefs Matrix[E, I], person E, metric Metric) (RankedList[I], error) {
	if !metric.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMetric, int(metric))
	}
	mine, ok := prefs[person]
	if !ok {
		return nil, unknownEntity(person)
	}

	totals := make(map[I]float64)
	simSums := make(map[I]float64)

	// Sorted order keeps the floating-point accumulation deterministic.
	for _, other := range prefs.Entities() {
		if other == person {
			continue
		}
		theirs := prefs[other]
		sim := similarity(metric, mine, theirs)
		if sim <= 0 {
			continue
		}

		for item, rating := range theirs {
			if r, rated := mine[item]; rated && r != 0 {
				continue
			}
			totals[item] += rating * sim
			simSums[item] += sim
		}
	}

	return weightedAverage(totals, simSums), nil
}
