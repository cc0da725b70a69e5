// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

// Package dataset provides sample preference data and loaders for the
// MovieLens, Audioscrobbler and Delicious dumps.
//
// Loaders read from an fs.FS, so the same code serves a directory on disk
// (os.DirFS) and in-memory fixtures (fstest.MapFS). Rows that are short,
// unparseable or reference unknown ids are skipped, counted in LoadStats and
// logged at debug level; one summary line per file is logged at info (or warn
// when rows were skipped).
//
// A file that is missing on disk is looked up again with a .gz, .zst or .lz4
// suffix and decompressed while it is read.
//
//	l := dataset.NewLoader(os.DirFS("data/movielens"), logger)
//	prefs, err := l.MovieLens()
package dataset
