// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package dataset

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/tomtom215/prefsim/internal/recommend"
)

// LoadJSON decodes a nested object {"entity": {"item": rating}} and validates it.
func LoadJSON(r io.Reader) (recommend.Matrix[string, string], error) {
	var prefs recommend.Matrix[string, string]
	dec := json.NewDecoder(r)
	if err := dec.Decode(&prefs); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	if prefs == nil {
		prefs = recommend.Matrix[string, string]{}
	}
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	return prefs, nil
}
