// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package dataset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// compressedSuffixes are tried in order when a plain file is missing.
var compressedSuffixes = []string{".gz", ".zst", ".lz4"}

// open returns a reader for name. If name does not exist, a compressed copy
// (name.gz, name.zst or name.lz4) is opened and decompressed instead. The
// returned string is the file actually read.
func (l *Loader) open(name string) (io.ReadCloser, string, error) {
	f, err := l.fsys.Open(name)
	if err == nil {
		rc, err := decompress(name, f)
		return rc, name, err
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, name, fmt.Errorf("open %s: %w", name, err)
	}

	for _, suffix := range compressedSuffixes {
		candidate := name + suffix
		cf, cerr := l.fsys.Open(candidate)
		if errors.Is(cerr, fs.ErrNotExist) {
			continue
		}
		if cerr != nil {
			return nil, candidate, fmt.Errorf("open %s: %w", candidate, cerr)
		}
		rc, derr := decompress(candidate, cf)
		return rc, candidate, derr
	}

	return nil, name, fmt.Errorf("open %s: %w", name, err)
}

// decompress wraps f according to the extension of name.
func decompress(name string, f fs.File) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip %s: %w", name, err)
		}
		return &stackedReader{Reader: zr, closers: []func() error{zr.Close, f.Close}}, nil

	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd %s: %w", name, err)
		}
		return &stackedReader{Reader: zr, closers: []func() error{
			func() error { zr.Close(); return nil },
			f.Close,
		}}, nil

	case strings.HasSuffix(name, ".lz4"):
		return &stackedReader{Reader: lz4.NewReader(f), closers: []func() error{f.Close}}, nil

	default:
		return f, nil
	}
}

// stackedReader closes a decoder and its underlying file together.
type stackedReader struct {
	io.Reader
	closers []func() error
}

func (s *stackedReader) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
