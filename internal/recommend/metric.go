// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package recommend

import (
	"cmp"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Metric selects a similarity function. Higher scores always mean
// "more similar" for ranking purposes.
type Metric int

const (
	// Euclidean is 1/(1+d) where d is the Euclidean distance over shared
	// items. Range (0, 1], or 0 with no shared items.
	Euclidean Metric = iota
	// Pearson is the Pearson correlation over shared items. Range [-1, 1].
	Pearson
	// Tanimoto is the Jaccard coefficient of the two rated-item sets.
	// Range [0, 1].
	Tanimoto
)

// String returns the metric's configuration name.
func (m Metric) String() string {
	switch m {
	case Euclidean:
		return "euclidean"
	case Pearson:
		return "pearson"
	case Tanimoto:
		return "tanimoto"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the supported metrics.
func (m Metric) Valid() bool {
	return m >= Euclidean && m <= Tanimoto
}

// ParseMetric converts a configuration name to a Metric.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "euclidean", "distance":
		return Euclidean, nil
	case "pearson":
		return Pearson, nil
	case "tanimoto", "jaccard":
		return Tanimoto, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
}

// Similarity scores entities a and b of prefs under metric.
func Similarity[E, I cmp.Ordered](prefs Matrix[E, I], metric Metric, a, b E) (float64, error) {
	if !metric.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownMetric, int(metric))
	}
	rowA, ok := prefs[a]
	if !ok {
		return 0, unknownEntity(a)
	}
	rowB, ok := prefs[b]
	if !ok {
		return 0, unknownEntity(b)
	}
	return similarity(metric, rowA, rowB), nil
}

// similarity dispatches to the metric implementation. metric must be valid.
func similarity[I cmp.Ordered](metric Metric, a, b map[I]float64) float64 {
	switch metric {
	case Pearson:
		return pearson(a, b)
	case Tanimoto:
		return tanimoto(a, b)
	default:
		return euclidean(a, b)
	}
}

// sharedVectors returns the ratings of a and b over their shared items,
// aligned by position.
func sharedVectors[I cmp.Ordered](a, b map[I]float64) (x, y []float64) {
	shared := sharedItems(a, b)
	x = make([]float64, len(shared))
	y = make([]float64, len(shared))
	for i, item := range shared {
		x[i] = a[item]
		y[i] = b[item]
	}
	return x, y
}

func euclidean[I cmp.Ordered](a, b map[I]float64) float64 {
	x, y := sharedVectors(a, b)
	if len(x) == 0 {
		return 0
	}

	diff := floats.SubTo(make([]float64, len(x)), x, y)
	sumSquares := floats.Dot(diff, diff)

	return 1 / (1 + math.Sqrt(sumSquares))
}

func pearson[I cmp.Ordered](a, b map[I]float64) float64 {
	x, y := sharedVectors(a, b)
	n := float64(len(x))
	if n == 0 {
		return 0
	}

	sum1 := floats.Sum(x)
	sum2 := floats.Sum(y)
	sum1Sq := floats.Dot(x, x)
	sum2Sq := floats.Dot(y, y)
	pSum := floats.Dot(x, y)

	num := pSum - sum1*sum2/n
	den := math.Sqrt((sum1Sq - sum1*sum1/n) * (sum2Sq - sum2*sum2/n))
	// Rounding can push a zero-variance term slightly negative, giving NaN.
	if den == 0 || math.IsNaN(den) {
		return 0
	}
	return num / den
}

// tanimoto counts items unique to each side separately, so it is symmetric
// in its arguments.
func tanimoto[I cmp.Ordered](a, b map[I]float64) float64 {
	var shared, onlyA, onlyB int
	for item := range a {
		if _, ok := b[item]; ok {
			shared++
		} else {
			onlyA++
		}
	}
	if shared == 0 {
		return 0
	}
	onlyB = len(b) - shared

	return float64(shared) / float64(shared+onlyA+onlyB)
}
