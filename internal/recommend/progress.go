// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package recommend

import "sync"

// ProgressReporter observes a long-running precompute.
// Report may be called concurrently from several workers.
type ProgressReporter interface {
	Report(done, total int)
}

// ProgressFunc adapts a function to ProgressReporter.
type ProgressFunc func(done, total int)

// Report calls f(done, total).
func (f ProgressFunc) Report(done, total int) {
	f(done, total)
}

// InMemoryProgress keeps the highest progress seen.
// This is useful for testing or for polling from another goroutine.
type InMemoryProgress struct {
	mu    sync.Mutex
	done  int
	total int
	calls int
}

// NewInMemoryProgress creates a new in-memory progress tracker.
func NewInMemoryProgress() *InMemoryProgress {
	return &InMemoryProgress{}
}

// Report records progress. Out-of-order reports never move it backwards.
func (p *InMemoryProgress) Report(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	p.total = total
	if done > p.done {
		p.done = done
	}
}

// Load returns the latest done/total pair and the number of reports.
func (p *InMemoryProgress) Load() (done, total, calls int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done, p.total, p.calls
}
