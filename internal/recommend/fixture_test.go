// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package recommend

import (
	"math"
	"testing"
)

const tolerance = 1e-9

// critics is the movie-critic toy dataset. Each call returns a fresh copy.
func critics() Matrix[string, string] {
	return Matrix[string, string]{
		"Lisa Rose": {
			"Lady in the Water": 2.5, "Snakes on a Plane": 3.5, "Just My Luck": 3.0,
			"Superman Returns": 3.5, "You, Me and Dupree": 2.5, "The Night Listener": 3.0,
		},
		"Gene Seymour": {
			"Lady in the Water": 3.0, "Snakes on a Plane": 3.5, "Just My Luck": 1.5,
			"Superman Returns": 5.0, "You, Me and Dupree": 3.5, "The Night Listener": 3.0,
		},
		"Michael Phillips": {
			"Lady in the Water": 2.5, "Snakes on a Plane": 3.0,
			"Superman Returns": 3.0, "The Night Listener": 4.0,
		},
		"Claudia Puig": {
			"Snakes on a Plane": 3.5, "Just My Luck": 3.0, "Superman Returns": 4.0,
			"You, Me and Dupree": 2.5, "The Night Listener": 4.5,
		},
		"Mick LaSalle": {
			"Lady in the Water": 3.0, "Snakes on a Plane": 4.0, "Just My Luck": 2.0,
			"Superman Returns": 3.0, "You, Me and Dupree": 2.0, "The Night Listener": 3.0,
		},
		"Jack Matthews": {
			"Lady in the Water": 3.0, "Snakes on a Plane": 4.0, "Superman Returns": 5.0,
			"You, Me and Dupree": 3.5, "The Night Listener": 3.0,
		},
		"Toby": {
			"Snakes on a Plane": 4.5, "Superman Returns": 4.0, "You, Me and Dupree": 1.0,
		},
		"Michele": {
			"Lady in the Water": 4.0, "Snakes on a Plane": 3.5,
		},
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

// assertRanked checks that list is non-increasing in score with ties in
// descending identifier order.
func assertRanked[K string | int](t *testing.T, list RankedList[K]) {
	t.Helper()
	for i := 1; i < len(list); i++ {
		prev, cur := list[i-1], list[i]
		if cur.Score > prev.Score {
			t.Errorf("list[%d].Score = %v > list[%d].Score = %v", i, cur.Score, i-1, prev.Score)
		}
		if cur.Score == prev.Score && cur.ID > prev.ID {
			t.Errorf("tie at %v: %v ranked after %v, want descending identifier", cur.Score, cur.ID, prev.ID)
		}
	}
}
