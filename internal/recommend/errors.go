// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEntity is returned when an operation references an entity
	// that has no row in the matrix.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrUnknownMetric is returned for a Metric outside the supported set.
	ErrUnknownMetric = errors.New("unknown similarity metric")

	// ErrInvalidLimit is returned when a top-N limit is not positive.
	ErrInvalidLimit = errors.New("limit must be positive")

	// ErrInvalidRating is returned by Matrix.Validate for NaN or infinite ratings.
	ErrInvalidRating = errors.New("invalid rating")
)

func unknownEntity(entity any) error {
	return fmt.Errorf("%w: %v", ErrUnknownEntity, entity)
}
