// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package dataset

import (
	"strconv"

	"github.com/tomtom215/prefsim/internal/recommend"
)

// MovieLens file names.
const (
	MovieLensMoviesFile  = "movies.txt"
	MovieLensRatingsFile = "ratings.txt"
)

// Movies reads movies.txt rows of the form id,title[,...] into id→title.
func (l *Loader) Movies() (map[string]string, LoadStats, error) {
	movies := make(map[string]string)
	stats, err := l.readCSV(MovieLensMoviesFile, false, func(f []string) string {
		if len(f) < 2 || f[0] == "" {
			return "expected id,title"
		}
		movies[f[0]] = f[1]
		return ""
	})
	if err != nil {
		return nil, stats, err
	}
	return movies, stats, nil
}

// Ratings reads ratings.txt rows of the form user,movie,rating[,timestamp]
// into user → movie title → rating. Ratings for movies missing from titles
// are skipped.
func (l *Loader) Ratings(titles map[string]string) (recommend.Matrix[string, string], LoadStats, error) {
	prefs := make(recommend.Matrix[string, string])
	stats, err := l.readCSV(MovieLensRatingsFile, false, func(f []string) string {
		if len(f) < 3 || f[0] == "" {
			return "expected user,movie,rating"
		}
		title, ok := titles[f[1]]
		if !ok {
			return "unknown movie id"
		}
		rating, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			return "invalid rating"
		}
		row, ok := prefs[f[0]]
		if !ok {
			row = make(map[string]float64)
			prefs[f[0]] = row
		}
		row[title] = rating
		return ""
	})
	if err != nil {
		return nil, stats, err
	}
	return prefs, stats, nil
}

// MovieLens loads movies.txt and ratings.txt and returns the user → title
// rating matrix.
func (l *Loader) MovieLens() (recommend.Matrix[string, string], error) {
	titles, _, err := l.Movies()
	if err != nil {
		return nil, err
	}
	prefs, _, err := l.Ratings(titles)
	if err != nil {
		return nil, err
	}
	return prefs, prefs.Validate()
}
