// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package dataset

import "github.com/tomtom215/prefsim/internal/recommend"

// Critics returns a fresh copy of the movie critics sample: eight critics
// rating up to six films on a 1 to 5 scale. Callers may modify the result.
func Critics() recommend.Matrix[string, string] {
	return recommend.Matrix[string, string]{
		"Lisa Rose": {
			"Lady in the Water":  2.5,
			"Snakes on a Plane":  3.5,
			"Just My Luck":       3.0,
			"Superman Returns":   3.5,
			"You, Me and Dupree": 2.5,
			"The Night Listener": 3.0,
		},
		"Gene Seymour": {
			"Lady in the Water":  3.0,
			"Snakes on a Plane":  3.5,
			"Just My Luck":       1.5,
			"Superman Returns":   5.0,
			"You, Me and Dupree": 3.5,
			"The Night Listener": 3.0,
		},
		"Michael Phillips": {
			"Lady in the Water":  2.5,
			"Snakes on a Plane":  3.0,
			"Superman Returns":   3.0,
			"The Night Listener": 4.0,
		},
		"Claudia Puig": {
			"Snakes on a Plane":  3.5,
			"Just My Luck":       3.0,
			"Superman Returns":   4.0,
			"You, Me and Dupree": 2.5,
			"The Night Listener": 4.5,
		},
		"Mick LaSalle": {
			"Lady in the Water":  3.0,
			"Snakes on a Plane":  4.0,
			"Just My Luck":       2.0,
			"Superman Returns":   3.0,
			"You, Me and Dupree": 2.0,
			"The Night Listener": 3.0,
		},
		"Jack Matthews": {
			"Lady in the Water":  3.0,
			"Snakes on a Plane":  4.0,
			"Superman Returns":   5.0,
			"You, Me and Dupree": 3.5,
			"The Night Listener": 3.0,
		},
		"Toby": {
			"Snakes on a Plane":  4.5,
			"Superman Returns":   4.0,
			"You, Me and Dupree": 1.0,
		},
		"Michele": {
			"Lady in the Water": 4.0,
			"Snakes on a Plane": 3.5,
		},
	}
}
