// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// LoadStats summarizes one file read.
type LoadStats struct {
	File     string        `json:"file"`
	Rows     int           `json:"rows"`
	Loaded   int           `json:"loaded"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}

// Loader reads sample datasets from a file system.
// Malformed rows are skipped and counted rather than failing the load.
// Each file may also be stored gzip, zstd or lz4 compressed under the same
// name plus .gz, .zst or .lz4.
type Loader struct {
	fsys   fs.FS
	logger zerolog.Logger
}

// NewLoader creates a loader reading from fsys, usually os.DirFS(dir).
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(fsys fs.FS, logger zerolog.Logger) *Loader {
	return &Loader{
		fsys:   fsys,
		logger: logger.With().Str("component", "dataset").Logger(),
	}
}

// rowFunc handles one parsed row and reports why it was rejected, if it was.
type rowFunc func(fields []string) (skipReason string)

// readLines splits each non-empty line of name with split and passes the
// trimmed fields to fn.
func (l *Loader) readLines(name string, header bool, split func(string) []string, fn rowFunc) (LoadStats, error) {
	start := time.Now()
	stats := LoadStats{File: name}

	f, file, err := l.open(name)
	if err != nil {
		return stats, err
	}
	defer f.Close()
	stats.File = file

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		if header && line == 1 {
			continue
		}
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		stats.Rows++
		fields := split(text)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if reason := fn(fields); reason != "" {
			stats.Skipped++
			l.logger.Debug().Str("file", stats.File).Int("line", line).Str("reason", reason).Msg("skipped row")
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read %s: %w", name, err)
	}

	return l.finish(stats, start), nil
}

// readCSV parses name as comma separated values with optional quoting.
func (l *Loader) readCSV(name string, header bool, fn rowFunc) (LoadStats, error) {
	start := time.Now()
	stats := LoadStats{File: name}

	f, file, err := l.open(name)
	if err != nil {
		return stats, err
	}
	defer f.Close()
	stats.File = file

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	first := true
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			stats.Rows++
			stats.Skipped++
			l.logger.Debug().Str("file", stats.File).Int("line", parseErr.Line).Err(err).Msg("skipped row")
			first = false
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("read %s: %w", name, err)
		}

		if first {
			first = false
			if header {
				continue
			}
		}

		stats.Rows++
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if reason := fn(rec); reason != "" {
			line, _ := r.FieldPos(0)
			stats.Skipped++
			l.logger.Debug().Str("file", stats.File).Int("line", line).Str("reason", reason).Msg("skipped row")
		}
	}

	return l.finish(stats, start), nil
}

func (l *Loader) finish(stats LoadStats, start time.Time) LoadStats {
	stats.Loaded = stats.Rows - stats.Skipped
	stats.Duration = time.Since(start)

	event := l.logger.Info()
	if stats.Skipped > 0 {
		event = l.logger.Warn()
	}
	event.
		Str("file", stats.File).
		Int("rows", stats.Rows).
		Int("loaded", stats.Loaded).
		Int("skipped", stats.Skipped).
		Dur("duration", stats.Duration).
		Msg("dataset file loaded")

	return stats
}

func splitTab(s string) []string {
	return strings.Split(s, "\t")
}
