// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package recommend

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// DefaultSimilarItems is the neighbourhood size kept per item.
	DefaultSimilarItems = 10

	// DefaultSimilarUsers is the neighbourhood size kept per user.
	DefaultSimilarUsers = 5

	// DefaultProgressEvery is how many entities pass between progress log lines.
	DefaultProgressEvery = 100
)

// SimilarityTable maps each entity to its ranked most-similar neighbours.
//
// A table is derived from one matrix snapshot. It is not updated when the
// matrix changes; callers must rebuild it.
type SimilarityTable[K cmp.Ordered] map[K]RankedList[K]

// PrecomputeConfig controls CalculateSimilarEntities.
type PrecomputeConfig struct {
	// N is the number of neighbours kept per entity.
	N int

	// Metric is the similarity used. The zero value is Euclidean.
	Metric Metric

	// NumWorkers is the number of goroutines comparing entities.
	// Zero means runtime.NumCPU().
	NumWorkers int

	// ProgressEvery controls how often a progress line is logged.
	ProgressEvery int

	// Progress, if set, receives a report after every entity.
	Progress ProgressReporter

	// Logger receives progress and completion lines.
	Logger zerolog.Logger
}

// DefaultPrecomputeConfig returns the item-similarity defaults.
func DefaultPrecomputeConfig() PrecomputeConfig {
	return PrecomputeConfig{
		N:             DefaultSimilarItems,
		Metric:        Euclidean,
		NumWorkers:    runtime.NumCPU(),
		ProgressEvery: DefaultProgressEvery,
		Logger:        zerolog.Nop(),
	}
}

func (c PrecomputeConfig) withDefaults(n int) PrecomputeConfig {
	if c.N <= 0 {
		c.N = n
	}
	if c.NumWorkers <= 0 {
		c.NumWorkers = runtime.NumCPU()
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = DefaultProgressEvery
	}
	return c
}

// TransformPrefs returns the item-centric view of prefs.
func TransformPrefs[E, I cmp.Ordered](prefs Matrix[E, I]) Matrix[I, E] {
	return prefs.Transform()
}

// CalculateSimilarItems builds the item-item table used by RecommendedItems.
// It transposes prefs and keeps the cfg.N (default 10) most similar items
// for every item.
func CalculateSimilarItems[E, I cmp.Ordered](ctx context.Context, prefs Matrix[E, I], cfg PrecomputeConfig) (SimilarityTable[I], error) {
	return CalculateSimilarEntities(ctx, prefs.Transform(), cfg.withDefaults(DefaultSimilarItems))
}

// CalculateSimilarUsers keeps the cfg.N (default 5) most similar entities
// for every entity of prefs.
func CalculateSimilarUsers[E, I cmp.Ordered](ctx context.Context, prefs Matrix[E, I], cfg PrecomputeConfig) (SimilarityTable[E], error) {
	return CalculateSimilarEntities(ctx, prefs, cfg.withDefaults(DefaultSimilarUsers))
}

// CalculateSimilarEntities runs TopMatches for every entity of prefs.
//
// This is the O(entities^2) step. Entities are split into contiguous chunks,
// one per worker; each worker reads the shared matrix and writes only its own
// result slots. Cancellation is checked before every entity and the context
// error is returned.
func CalculateSimilarEntities[E, I cmp.Ordered](ctx context.Context, prefs Matrix[E, I], cfg PrecomputeConfig) (SimilarityTable[E], error) {
	cfg = cfg.withDefaults(DefaultSimilarItems)
	if !cfg.Metric.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMetric, int(cfg.Metric))
	}

	start := time.Now()
	entities := prefs.Entities()
	total := len(entities)
	lists := make([]RankedList[E], total)

	logger := cfg.Logger.With().
		Str("metric", cfg.Metric.String()).
		Int("entities", total).
		Int("n", cfg.N).
		Logger()
	logger.Debug().Int("workers", cfg.NumWorkers).Msg("similarity precompute started")

	var done atomic.Int64
	progressLog := rate.Sometimes{Every: cfg.ProgressEvery}

	g, gctx := errgroup.WithContext(ctx)
	chunkSize := (total + cfg.NumWorkers - 1) / cfg.NumWorkers

	for w := 0; w < cfg.NumWorkers; w++ {
		from := w * chunkSize
		to := min(from+chunkSize, total)
		if from >= to {
			break
		}

		g.Go(func() error {
			for idx := from; idx < to; idx++ {
				if err := gctx.Err(); err != nil {
					return err
				}

				entity := entities[idx]
				lists[idx] = topMatches(prefs, entity, prefs[entity], cfg.N, cfg.Metric)

				n := int(done.Add(1))
				if cfg.Progress != nil {
					cfg.Progress.Report(n, total)
				}
				progressLog.Do(func() {
					logger.Info().Int("done", n).Msg("similarity precompute progress")
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Warn().Err(err).Int64("done", done.Load()).Msg("similarity precompute aborted")
		return nil, err
	}

	table := make(SimilarityTable[E], total)
	for idx, entity := range entities {
		table[entity] = lists[idx]
	}

	logger.Info().
		Dur("duration", time.Since(start)).
		Msg("similarity precompute complete")

	return table, nil
}

// RecommendedItems ranks the items person has not rated using only
// person's own ratings and a precomputed item-item table.
//
// For candidate item c:
//
//	score(c) = sum_{i rated by p} sim(i,c) * r(p,i) / sum_{i rated by p} sim(i,c)
//
// where sim(i,c) comes from table[i]. Neighbours with non-positive similarity
// are ignored, so every denominator is strictly positive. Rated items that
// have no table entry contribute nothing.
//
// The table must have been built from the same matrix snapshot as prefs;
// a stale table is not detected.
func RecommendedItems[E, I cmp.Ordered](prefs Matrix[E, I], table SimilarityTable[I], person E) (RankedList[I], error) {
	ratings, ok := prefs[person]
	if !ok {
		return nil, unknownEntity(person)
	}

	rated := make([]I, 0, len(ratings))
	for item := range ratings {
		rated = append(rated, item)
	}
	slices.Sort(rated)

	scores := make(map[I]float64)
	totalSim := make(map[I]float64)

	for _, item := range rated {
		rating := ratings[item]
		for _, neighbour := range table[item] {
			if _, seen := ratings[neighbour.ID]; seen {
				continue
			}
			if neighbour.Score <= 0 {
				continue
			}
			scores[neighbour.ID] += neighbour.Score * rating
			totalSim[neighbour.ID] += neighbour.Score
		}
	}

	return weightedAverage(scores, totalSim), nil
}
