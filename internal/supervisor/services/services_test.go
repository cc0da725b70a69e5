// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type mockCache struct {
	mu      sync.Mutex
	calls   int
	removed int
}

func (m *mockCache) CleanupCache() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.removed
}

func (m *mockCache) getCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockBuilder struct {
	mu    sync.Mutex
	calls int
	built bool
	err   error
}

func (m *mockBuilder) WarmTable(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return m.built, m.err
}

func (m *mockBuilder) getCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestCacheJanitor_String(t *testing.T) {
	j := NewCacheJanitor(&mockCache{}, time.Second, zerolog.Nop())
	if got := j.String(); got != "cache-janitor" {
		t.Errorf("String() = %q, want %q", got, "cache-janitor")
	}
}

func TestCacheJanitor_DefaultInterval(t *testing.T) {
	j := NewCacheJanitor(&mockCache{}, 0, zerolog.Nop())
	if j.interval != DefaultCleanupInterval {
		t.Errorf("interval = %v, want %v", j.interval, DefaultCleanupInterval)
	}
}

func TestCacheJanitor_Sweeps(t *testing.T) {
	cache := &mockCache{removed: 2}
	j := NewCacheJanitor(cache, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := j.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() error = %v, want context.DeadlineExceeded", err)
	}
	if got := cache.getCalls(); got < 2 {
		t.Errorf("CleanupCache() called %d times, want at least 2", got)
	}
}

func TestTableWarmer_String(t *testing.T) {
	w := NewTableWarmer(&mockBuilder{}, TableWarmerConfig{}, zerolog.Nop())
	if got := w.String(); got != "table-warmer" {
		t.Errorf("String() = %q, want %q", got, "table-warmer")
	}
	if w.config.Interval != DefaultWarmInterval {
		t.Errorf("Interval = %v, want %v", w.config.Interval, DefaultWarmInterval)
	}
}

func TestTableWarmer_WarmOnStart(t *testing.T) {
	tests := []struct {
		name        string
		warmOnStart bool
		wantCalls   int
	}{
		{"enabled", true, 1},
		{"disabled", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := &mockBuilder{built: true}
			w := NewTableWarmer(builder, TableWarmerConfig{
				Interval:    time.Hour,
				WarmOnStart: tt.warmOnStart,
			}, zerolog.Nop())

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			_ = w.Serve(ctx)

			if got := builder.getCalls(); got != tt.wantCalls {
				t.Errorf("WarmTable() called %d times, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestTableWarmer_Periodic(t *testing.T) {
	builder := &mockBuilder{}
	w := NewTableWarmer(builder, TableWarmerConfig{Interval: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = w.Serve(ctx)

	if got := builder.getCalls(); got < 2 {
		t.Errorf("WarmTable() called %d times, want at least 2", got)
	}
}

func TestTableWarmer_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	builder := &mockBuilder{err: errors.New("precompute exploded")}
	w := NewTableWarmer(builder, TableWarmerConfig{
		Interval:    time.Hour,
		WarmOnStart: true,
	}, zerolog.New(&buf))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// A failed build does not stop the service.
	err := w.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() error = %v, want context.DeadlineExceeded", err)
	}
	if !strings.Contains(buf.String(), "precompute exploded") {
		t.Errorf("expected failure to be logged, got: %s", buf.String())
	}
}
