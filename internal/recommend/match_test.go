// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package recommend

import (
	"errors"
	"slices"
	"testing"
)

func TestTopMatches_Pearson(t *testing.T) {
	got, err := TopMatches(critics(), "Toby", 3, Pearson)
	if err != nil {
		t.Fatalf("TopMatches() error = %v", err)
	}

	want := RankedList[string]{
		{Score: 0.9912407071619299, ID: "Lisa Rose"},
		{Score: 0.9244734516419049, ID: "Mick LaSalle"},
		{Score: 0.8934051474415647, ID: "Claudia Puig"},
	}
	if len(got) != len(want) {
		t.Fatalf("TopMatches() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || !approxEqual(got[i].Score, want[i].Score) {
			t.Errorf("TopMatches()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTopMatches_TieBreakDescendingID(t *testing.T) {
	got, err := TopMatches(critics(), "Toby", 7, Euclidean)
	if err != nil {
		t.Fatalf("TopMatches() error = %v", err)
	}

	wantOrder := []string{
		"Michele",
		"Mick LaSalle",
		"Michael Phillips",
		"Claudia Puig",
		"Lisa Rose",
		"Jack Matthews",
		"Gene Seymour",
	}
	if !slices.Equal(got.IDs(), wantOrder) {
		t.Errorf("TopMatches() order = %v, want %v", got.IDs(), wantOrder)
	}
	if got[2].Score != got[3].Score {
		t.Errorf("expected a tie between %s and %s, got %v and %v",
			got[2].ID, got[3].ID, got[2].Score, got[3].Score)
	}
	assertRanked(t, got)
}

func TestTopMatches_Tanimoto(t *testing.T) {
	got, err := TopMatches(critics(), "Lisa Rose", 8, Tanimoto)
	if err != nil {
		t.Fatalf("TopMatches() error = %v", err)
	}

	// Gene Seymour and Mick LaSalle both rated all six movies.
	if got[0].ID != "Mick LaSalle" || got[1].ID != "Gene Seymour" {
		t.Errorf("top two = %v, want [Mick LaSalle Gene Seymour]", got.IDs()[:2])
	}
	assertRanked(t, got)
}

func TestTopMatches_ExcludesSelfAndCapsAtN(t *testing.T) {
	prefs := critics()

	tests := []struct {
		name    string
		n       int
		wantLen int
	}{
		{"default n", DefaultMatches, 5},
		{"n of one", 1, 1},
		{"n larger than population", 100, len(prefs) - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TopMatches(prefs, "Lisa Rose", tt.n, Pearson)
			if err != nil {
				t.Fatalf("TopMatches() error = %v", err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
			if slices.Contains(got.IDs(), "Lisa Rose") {
				t.Error("TopMatches() included the target entity")
			}
			assertRanked(t, got)
		})
	}
}

func TestTopMatches_Errors(t *testing.T) {
	prefs := critics()

	tests := []struct {
		name    string
		entity  string
		n       int
		metric  Metric
		wantErr error
	}{
		{"unknown entity", "Nobody", 5, Pearson, ErrUnknownEntity},
		{"zero limit", "Toby", 0, Pearson, ErrInvalidLimit},
		{"negative limit", "Toby", -2, Pearson, ErrInvalidLimit},
		{"invalid metric", "Toby", 5, Metric(9), ErrUnknownMetric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TopMatches(prefs, tt.entity, tt.n, tt.metric)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("TopMatches() error = %v, want %v", err, tt.wantErr)
			}
			if got != nil {
				t.Errorf("TopMatches() = %v, want nil on error", got)
			}
		})
	}
}

func TestTopMatches_IntegerIdentifiers(t *testing.T) {
	prefs := Matrix[int, int]{
		1: {100: 5, 101: 3},
		2: {100: 5, 101: 3},
		3: {100: 5, 101: 3},
		4: {100: 1, 101: 1},
	}

	got, err := TopMatches(prefs, 1, 3, Euclidean)
	if err != nil {
		t.Fatalf("TopMatches() error = %v", err)
	}
	if want := []int{3, 2, 4}; !slices.Equal(got.IDs(), want) {
		t.Errorf("TopMatches() order = %v, want %v", got.IDs(), want)
	}
}
