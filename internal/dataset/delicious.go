// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package dataset

import (
	"slices"
	"strconv"

	"github.com/tomtom215/prefsim/internal/recommend"
)

// Delicious file names.
const (
	DeliciousTagsFile         = "tags.csv"
	DeliciousBookmarksFile    = "bookmarks.csv"
	DeliciousBookmarkTagsFile = "bookmark_tags.csv"
	DeliciousUserTaggedFile   = "user_taggedbookmarks-timestamps.csv"
)

// Tagged maps user → bookmark url → tag.
type Tagged map[string]map[string]string

// Delicious holds the social bookmarking sample.
type Delicious struct {
	// Tags maps tag id → tag.
	Tags map[string]string

	// Bookmarks maps bookmark id → url.
	Bookmarks map[string]string

	// Pairs maps url → tag → weight.
	Pairs recommend.Matrix[string, string]

	// Tagged maps user → url → tag.
	Tagged Tagged
}

// isHeader reports whether a row of tags.csv or bookmarks.csv is the column header.
func isHeader(f []string) bool {
	return len(f) > 0 && f[0] == "id"
}

// Tags reads tags.csv rows of the form id,value into id→tag.
func (l *Loader) Tags() (map[string]string, LoadStats, error) {
	tags := make(map[string]string)
	stats, err := l.readCSV(DeliciousTagsFile, false, func(f []string) string {
		if isHeader(f) {
			return ""
		}
		if len(f) < 2 || f[0] == "" {
			return "expected id,tag"
		}
		tags[f[0]] = f[1]
		return ""
	})
	if err != nil {
		return nil, stats, err
	}
	return tags, stats, nil
}

// Bookmarks reads bookmarks.csv rows of the form id,md5,title,url into id→url.
func (l *Loader) Bookmarks() (map[string]string, LoadStats, error) {
	bookmarks := make(map[string]string)
	stats, err := l.readCSV(DeliciousBookmarksFile, false, func(f []string) string {
		if isHeader(f) {
			return ""
		}
		if len(f) < 4 || f[0] == "" || f[3] == "" {
			return "expected id,md5,title,url"
		}
		bookmarks[f[0]] = f[3]
		return ""
	})
	if err != nil {
		return nil, stats, err
	}
	return bookmarks, stats, nil
}

// BookmarkTags reads bookmark_tags.csv (with header) rows of the form
// bookmark,tag,weight into url → tag → weight.
func (l *Loader) BookmarkTags(tags, bookmarks map[string]string) (recommend.Matrix[string, string], LoadStats, error) {
	pairs := make(recommend.Matrix[string, string])
	stats, err := l.readCSV(DeliciousBookmarkTagsFile, true, func(f []string) string {
		if len(f) < 3 {
			return "expected bookmark,tag,weight"
		}
		url, ok := bookmarks[f[0]]
		if !ok {
			return "unknown bookmark id"
		}
		tag, ok := tags[f[1]]
		if !ok {
			return "unknown tag id"
		}
		weight, err := strconv.Atoi(f[2])
		if err != nil {
			return "invalid weight"
		}
		row, ok := pairs[url]
		if !ok {
			row = make(map[string]float64)
			pairs[url] = row
		}
		row[tag] = float64(weight)
		return ""
	})
	if err != nil {
		return nil, stats, err
	}
	return pairs, stats, nil
}

// UserTagged reads user_taggedbookmarks-timestamps.csv (with header) rows of
// the form user,bookmark,tag[,...] into user → url → tag.
func (l *Loader) UserTagged(tags, bookmarks map[string]string) (Tagged, LoadStats, error) {
	tagged := make(Tagged)
	stats, err := l.readCSV(DeliciousUserTaggedFile, true, func(f []string) string {
		if len(f) < 3 || f[0] == "" {
			return "expected user,bookmark,tag"
		}
		url, ok := bookmarks[f[1]]
		if !ok {
			return "unknown bookmark id"
		}
		tag, ok := tags[f[2]]
		if !ok {
			return "unknown tag id"
		}
		row, ok := tagged[f[0]]
		if !ok {
			row = make(map[string]string)
			tagged[f[0]] = row
		}
		row[url] = tag
		return ""
	})
	if err != nil {
		return nil, stats, err
	}
	return tagged, stats, nil
}

// Delicious loads all four Delicious files.
func (l *Loader) Delicious() (*Delicious, error) {
	tags, _, err := l.Tags()
	if err != nil {
		return nil, err
	}
	bookmarks, _, err := l.Bookmarks()
	if err != nil {
		return nil, err
	}
	pairs, _, err := l.BookmarkTags(tags, bookmarks)
	if err != nil {
		return nil, err
	}
	tagged, _, err := l.UserTagged(tags, bookmarks)
	if err != nil {
		return nil, err
	}
	return &Delicious{Tags: tags, Bookmarks: bookmarks, Pairs: pairs, Tagged: tagged}, nil
}

// UsersForTag returns, sorted, the users who tagged at least one url that
// carries tag in pairs.
func UsersForTag(tag string, pairs recommend.Matrix[string, string], tagged Tagged) []string {
	var urls []string
	for url, row := range pairs {
		if _, ok := row[tag]; ok {
			urls = append(urls, url)
		}
	}

	var users []string
	for user, posts := range tagged {
		for _, url := range urls {
			if _, ok := posts[url]; ok {
				users = append(users, user)
				break
			}
		}
	}
	slices.Sort(users)
	return users
}

// FillItems builds a dense user → url matrix over every url any of users
// tagged: 1.0 where the user tagged it, 0.0 otherwise.
func FillItems(users []string, tagged Tagged) recommend.Matrix[string, string] {
	all := make(map[string]struct{})
	for _, user := range users {
		for url := range tagged[user] {
			all[url] = struct{}{}
		}
	}

	prefs := make(recommend.Matrix[string, string], len(users))
	for _, user := range users {
		row := make(map[string]float64, len(all))
		for url := range all {
			row[url] = 0.0
		}
		for url := range tagged[user] {
			row[url] = 1.0
		}
		prefs[user] = row
	}
	return prefs
}
