// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package recommend

import (
	"cmp"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"slices"
)

// Matrix is a sparse preference matrix: entity -> item -> rating.
//
// A missing (entity, item) entry means "no opinion" and is distinct from a
// rating of zero. Whether an entity is a user or an item depends only on
// which view (direct or transposed) it appears in.
//
// Functions in this package treat a Matrix as read-only.
type Matrix[E, I cmp.Ordered] map[E]map[I]float64

// Has reports whether the entity has a row in the matrix.
func (m Matrix[E, I]) Has(entity E) bool {
	_, ok := m[entity]
	return ok
}

// Entities returns all entity identifiers in ascending order.
func (m Matrix[E, I]) Entities() []E {
	ids := make([]E, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Transform returns the transposed matrix (item -> entity -> rating).
// The result is a new matrix; m is not modified.
func (m Matrix[E, I]) Transform() Matrix[I, E] {
	result := make(Matrix[I, E])
	for entity, row := range m {
		for item, rating := range row {
			col, ok := result[item]
			if !ok {
				col = make(map[E]float64)
				result[item] = col
			}
			col[entity] = rating
		}
	}
	return result
}

// Validate checks that every row is non-nil and every rating is finite.
func (m Matrix[E, I]) Validate() error {
	for entity, row := range m {
		if row == nil {
			return fmt.Errorf("%w: entity %v has a nil row", ErrInvalidRating, entity)
		}
		for item, rating := range row {
			if math.IsNaN(rating) || math.IsInf(rating, 0) {
				return fmt.Errorf("%w: %v/%v = %v", ErrInvalidRating, entity, item, rating)
			}
		}
	}
	return nil
}

// Fingerprint returns a hex SHA-256 digest of the matrix content.
// Two matrices with the same triples produce the same fingerprint
// regardless of map iteration order.
func (m Matrix[E, I]) Fingerprint() string {
	h := sha256.New()
	var buf [8]byte

	for _, entity := range m.Entities() {
		row := m[entity]
		items := make([]I, 0, len(row))
		for item := range row {
			items = append(items, item)
		}
		slices.Sort(items)

		fmt.Fprintf(h, "%v\x00", entity)
		for _, item := range items {
			fmt.Fprintf(h, "%v\x00", item)
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(row[item]))
			h.Write(buf[:])
		}
		h.Write([]byte{0xff})
	}

	return hex.EncodeToString(h.Sum(nil))
}

// sharedItems returns the items rated by both a and b, sorted ascending so
// that accumulations are deterministic.
func sharedItems[I cmp.Ordered](a, b map[I]float64) []I {
	shared := make([]I, 0, min(len(a), len(b)))
	for item := range a {
		if _, ok := b[item]; ok {
			shared = append(shared, item)
		}
	}
	slices.Sort(shared)
	return shared
}
