// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package recommend

import (
	"cmp"
	"slices"
)

// Scored pairs an identifier with its score.
type Scored[K cmp.Ordered] struct {
	// Score is a similarity or predicted rating. Higher is better.
	Score float64 `json:"score"`

	// ID is the entity or item identifier.
	ID K `json:"id"`
}

// RankedList is ordered by Score descending, then ID descending.
type RankedList[K cmp.Ordered] []Scored[K]

// IDs returns the identifiers in rank order.
func (r RankedList[K]) IDs() []K {
	ids := make([]K, len(r))
	for i, s := range r {
		ids[i] = s.ID
	}
	return ids
}

// rankOrder sorts by score descending and breaks ties by identifier
// descending. This is the order produced by sorting (score, id) pairs
// ascending and reversing the result.
func rankOrder[K cmp.Ordered](a, b Scored[K]) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

// rank sorts scores in place and returns them as a RankedList.
func rank[K cmp.Ordered](scores []Scored[K]) RankedList[K] {
	slices.SortFunc(scores, rankOrder[K])
	return RankedList[K](scores)
}

// weightedAverage turns accumulated totals and weights into a ranked list.
// Every key in totals must have a strictly positive weight.
func weightedAverage[K cmp.Ordered](totals, weights map[K]float64) RankedList[K] {
	scores := make([]Scored[K], 0, len(totals))
	for id, total := range totals {
		scores = append(scores, Scored[K]{Score: total / weights[id], ID: id})
	}
	return rank(scores)
}
