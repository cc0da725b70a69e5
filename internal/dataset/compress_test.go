// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package dataset

import (
	"bytes"
	"io"
	"testing"
	"testing/fstest"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	compressMovies  = "1,Toy Story (1995),Animation\n2,Heat (1995),Action\n"
	compressRatings = "u1,1,4,0\nu1,2,3,0\nu2,2,5,0\n"
)

func gzipped(t *testing.T, s string) *fstest.MapFile {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := io.WriteString(w, s)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &fstest.MapFile{Data: buf.Bytes()}
}

func zstded(t *testing.T, s string) *fstest.MapFile {
	t.Helper()
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = io.WriteString(w, s)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &fstest.MapFile{Data: buf.Bytes()}
}

func lz4ed(t *testing.T, s string) *fstest.MapFile {
	t.Helper()
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := io.WriteString(w, s)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &fstest.MapFile{Data: buf.Bytes()}
}

func TestLoader_CompressedFiles(t *testing.T) {
	tests := []struct {
		name   string
		suffix string
		pack   func(*testing.T, string) *fstest.MapFile
	}{
		{"gzip", ".gz", gzipped},
		{"zstd", ".zst", zstded},
		{"lz4", ".lz4", lz4ed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{
				MovieLensMoviesFile + tt.suffix:  tt.pack(t, compressMovies),
				MovieLensRatingsFile + tt.suffix: tt.pack(t, compressRatings),
			}
			l := NewLoader(fsys, zerolog.Nop())

			titles, stats, err := l.Movies()
			require.NoError(t, err)
			assert.Equal(t, MovieLensMoviesFile+tt.suffix, stats.File)
			assert.Equal(t, "Heat (1995)", titles["2"])

			prefs, stats, err := l.Ratings(titles)
			require.NoError(t, err)
			assert.Equal(t, 3, stats.Loaded)
			assert.Equal(t, 5.0, prefs["u2"]["Heat (1995)"])
		})
	}
}

func TestLoader_PlainFilePreferred(t *testing.T) {
	fsys := fstest.MapFS{
		MovieLensMoviesFile:         file("1,Plain,Drama\n"),
		MovieLensMoviesFile + ".gz": gzipped(t, "1,Packed,Drama\n"),
	}
	l := NewLoader(fsys, zerolog.Nop())

	titles, stats, err := l.Movies()
	require.NoError(t, err)
	assert.Equal(t, MovieLensMoviesFile, stats.File)
	assert.Equal(t, "Plain", titles["1"])
}

func TestLoader_CorruptCompressedFile(t *testing.T) {
	fsys := fstest.MapFS{
		MovieLensMoviesFile + ".gz": file("not gzip"),
	}
	l := NewLoader(fsys, zerolog.Nop())

	_, _, err := l.Movies()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}
