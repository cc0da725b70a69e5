// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package dataset

import (
	"strconv"
	"strings"

	"github.com/tomtom215/prefsim/internal/recommend"
)

// Audioscrobbler file names.
const (
	ArtistDataFile     = "artist_data.txt"
	ArtistAliasFile    = "artist_alias.txt"
	UserArtistDataFile = "user_artist_data.txt"
)

// Artists reads tab separated id, name rows into id→name.
func (l *Loader) Artists() (map[string]string, LoadStats, error) {
	artists := make(map[string]string)
	stats, err := l.readLines(ArtistDataFile, false, splitTab, func(f []string) string {
		if len(f) < 2 || f[0] == "" {
			return "expected id<TAB>name"
		}
		artists[f[0]] = f[1]
		return ""
	})
	if err != nil {
		return nil, stats, err
	}
	return artists, stats, nil
}

// ArtistAliases reads tab separated bad id, good id rows into bad→good.
func (l *Loader) ArtistAliases() (map[string]string, LoadStats, error) {
	aliases := make(map[string]string)
	stats, err := l.readLines(ArtistAliasFile, false, splitTab, func(f []string) string {
		if len(f) < 2 || f[0] == "" || f[1] == "" {
			return "expected bad_id<TAB>good_id"
		}
		aliases[f[0]] = f[1]
		return ""
	})
	if err != nil {
		return nil, stats, err
	}
	return aliases, stats, nil
}

// UserPlays reads whitespace separated user, artist, plays rows from name
// into user → artist label → play count. Artist ids go through resolver,
// which may be nil to keep raw ids.
func (l *Loader) UserPlays(name string, resolver *AliasResolver) (recommend.Matrix[string, string], LoadStats, error) {
	plays := make(recommend.Matrix[string, string])
	stats, err := l.readLines(name, false, strings.Fields, func(f []string) string {
		if len(f) < 3 {
			return "expected user artist plays"
		}
		count, err := strconv.Atoi(f[2])
		if err != nil {
			return "invalid play count"
		}
		row, ok := plays[f[0]]
		if !ok {
			row = make(map[string]float64)
			plays[f[0]] = row
		}
		row[resolver.Resolve(f[1])] = float64(count)
		return ""
	})
	if err != nil {
		return nil, stats, err
	}
	return plays, stats, nil
}

// Audioscrobbler loads the artist, alias and play count files and returns
// the user → artist play matrix.
func (l *Loader) Audioscrobbler() (recommend.Matrix[string, string], error) {
	artists, _, err := l.Artists()
	if err != nil {
		return nil, err
	}
	aliases, _, err := l.ArtistAliases()
	if err != nil {
		return nil, err
	}
	plays, _, err := l.UserPlays(UserArtistDataFile, NewAliasResolver(artists, aliases))
	if err != nil {
		return nil, err
	}
	return plays, nil
}
