// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/prefsim/internal/cache"
	"github.com/tomtom215/prefsim/internal/config"
	"github.com/tomtom215/prefsim/internal/logging"
	"github.com/tomtom215/prefsim/internal/metrics"
	"github.com/tomtom215/prefsim/internal/recommend"
)

// ErrNoSnapshot is returned by every query issued before the first Load.
var ErrNoSnapshot = errors.New("no preference snapshot loaded")

// Operation names used in logs and metric labels.
const (
	OpTopMatches = "top_matches"
	OpUserBased  = "user_based"
	OpItemBased  = "item_based"
	OpSimilarity = "similarity"
)

// Engine serves recommendations over one immutable preference snapshot.
// Load swaps the whole snapshot; the item similarity table is built lazily
// and rebuilt whenever the snapshot fingerprint changes.
// It is safe for concurrent use.
type Engine struct {
	cfg        config.RecommendConfig
	metric     recommend.Metric
	precompute recommend.PrecomputeConfig
	logger     zerolog.Logger

	// results is nil when caching is disabled.
	results *cache.LRU[cacheKey, recommend.RankedList[string]]

	mu               sync.RWMutex
	snap             *snapshot
	table            recommend.SimilarityTable[string]
	tableFingerprint string
	tableBuiltAt     time.Time
	tableDuration    time.Duration

	// builds shares one table build per snapshot fingerprint.
	builds   singleflight.Group
	build    tableBuilder
	progress atomic.Pointer[recommend.InMemoryProgress]
	breaker  *tableBreaker

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// tableBuilder computes the item similarity table for one matrix.
type tableBuilder func(context.Context, recommend.Matrix[string, string], recommend.PrecomputeConfig) (recommend.SimilarityTable[string], error)

// snapshot is one installed preference matrix. It is never mutated.
type snapshot struct {
	prefs       recommend.Matrix[string, string]
	fingerprint string
	loadedAt    time.Time
}

// New creates an engine from validated recommendation settings.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg config.RecommendConfig, logger zerolog.Logger) (*Engine, error) {
	metric, err := cfg.ParsedMetric()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	precompute, err := cfg.PrecomputeConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Matches <= 0 {
		return nil, fmt.Errorf("invalid config: %w: matches=%d", recommend.ErrInvalidLimit, cfg.Matches)
	}

	e := &Engine{
		cfg:        cfg,
		metric:     metric,
		precompute: precompute,
		logger:     logger.With().Str("component", "engine").Logger(),
	}
	e.precompute.Logger = e.logger.With().Str("stage", "precompute").Logger()
	e.breaker = newTableBreaker(cfg, e.logger)
	e.build = recommend.CalculateSimilarItems[string, string]

	if cfg.CacheSize > 0 {
		e.results = cache.NewLRU[cacheKey, recommend.RankedList[string]](cfg.CacheSize, cfg.CacheTTL)
	}

	return e, nil
}

// Load validates prefs and installs a private copy as the current snapshot.
// Loading content equal to the current snapshot keeps the similarity table.
func (e *Engine) Load(prefs recommend.Matrix[string, string]) error {
	if err := prefs.Validate(); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	snap := &snapshot{
		prefs:       cloneMatrix(prefs),
		fingerprint: prefs.Fingerprint(),
		loadedAt:    time.Now(),
	}

	e.mu.Lock()
	previous := ""
	if e.snap != nil {
		previous = e.snap.fingerprint
	}
	e.snap = snap
	e.mu.Unlock()

	if previous != snap.fingerprint && e.results != nil {
		e.results.Purge()
	}

	metrics.RecordSnapshotLoad(len(snap.prefs))
	e.logger.Info().
		Str("fingerprint", shortFingerprint(snap.fingerprint)).
		Int("entities", len(snap.prefs)).
		Bool("changed", previous != snap.fingerprint).
		Msg("snapshot loaded")

	return nil
}

// Fingerprint returns the fingerprint of the current snapshot, or "" before Load.
func (e *Engine) Fingerprint() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.snap == nil {
		return ""
	}
	return e.snap.fingerprint
}

// TopMatches ranks the entities most similar to entity under the configured
// metric. n <= 0 selects the configured default.
func (e *Engine) TopMatches(ctx context.Context, entity string, n int) (recommend.RankedList[string], error) {
	if n <= 0 {
		n = e.cfg.Matches
	}
	key := cacheKey{op: OpTopMatches, metric: e.metric, id: entity, n: n}

	return e.serve(ctx, OpTopMatches, e.metric, key, func(_ context.Context, snap *snapshot) (recommend.RankedList[string], error) {
		return recommend.TopMatches(snap.prefs, entity, n, e.metric)
	})
}

// Recommend ranks the items person has not rated using every other entity
// as a similarity-weighted neighbour.
func (e *Engine) Recommend(ctx context.Context, person string) (recommend.RankedList[string], error) {
	key := cacheKey{op: OpUserBased, metric: e.metric, id: person}

	return e.serve(ctx, OpUserBased, e.metric, key, func(_ context.Context, snap *snapshot) (recommend.RankedList[string], error) {
		return recommend.Recommendations(snap.prefs, person, e.metric)
	})
}

// RecommendItems ranks the items person has not rated using the item
// similarity table, building it first if the snapshot has none.
func (e *Engine) RecommendItems(ctx context.Context, person string) (recommend.RankedList[string], error) {
	key := cacheKey{op: OpItemBased, metric: e.precompute.Metric, id: person}

	return e.serve(ctx, OpItemBased, e.precompute.Metric, key, func(ctx context.Context, snap *snapshot) (recommend.RankedList[string], error) {
		if !snap.prefs.Has(person) {
			return nil, fmt.Errorf("%w: %s", recommend.ErrUnknownEntity, person)
		}
		table, err := e.tableFor(ctx, snap)
		if err != nil {
			return nil, err
		}
		return recommend.RecommendedItems(snap.prefs, table, person)
	})
}

// Similarity scores two entities under the configured metric.
func (e *Engine) Similarity(ctx context.Context, a, b string) (float64, error) {
	start := time.Now()
	_, requestID := logging.EnsureRequestID(ctx)
	e.requestCount.Add(1)

	snap, err := e.current()
	var score float64
	if err == nil {
		score, err = recommend.Similarity(snap.prefs, e.metric, a, b)
	}

	e.finish(requestID, OpSimilarity, e.metric, start, 1, err)
	return score, err
}

// SimilarityTable returns the item similarity table for the current
// snapshot, building it if needed. The returned table must not be modified.
func (e *Engine) SimilarityTable(ctx context.Context) (recommend.SimilarityTable[string], error) {
	snap, err := e.current()
	if err != nil {
		return nil, err
	}
	return e.tableFor(ctx, snap)
}

// WarmTable builds the similarity table for the current snapshot if the
// stored one is missing or stale. It reports whether a build ran; with no
// snapshot loaded it does nothing.
func (e *Engine) WarmTable(ctx context.Context) (bool, error) {
	snap, err := e.current()
	if errors.Is(err, ErrNoSnapshot) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, ok := e.tableMatching(snap.fingerprint); ok {
		return false, nil
	}
	if _, err := e.tableFor(ctx, snap); err != nil {
		return false, err
	}
	return true, nil
}

// BuildProgress reports progress of the most recent similarity table build.
func (e *Engine) BuildProgress() (done, total int) {
	p := e.progress.Load()
	if p == nil {
		return 0, 0
	}
	done, total, _ = p.Load()
	return done, total
}

// serve runs one cached, logged and measured query against the current snapshot.
func (e *Engine) serve(
	ctx context.Context,
	op string,
	metric recommend.Metric,
	key cacheKey,
	run func(context.Context, *snapshot) (recommend.RankedList[string], error),
) (recommend.RankedList[string], error) {
	start := time.Now()
	ctx, requestID := logging.EnsureRequestID(ctx)
	e.requestCount.Add(1)

	snap, err := e.current()
	if err != nil {
		e.finish(requestID, op, metric, start, 0, err)
		return nil, err
	}
	key.fingerprint = snap.fingerprint

	if list, ok := e.cached(key); ok {
		e.finish(requestID, op, metric, start, len(list), nil)
		return list, nil
	}

	list, err := run(ctx, snap)
	if err == nil {
		e.store(key, list)
	}

	e.finish(requestID, op, metric, start, len(list), err)
	return list, err
}

// finish logs a completed request and records its metrics.
func (e *Engine) finish(requestID, op string, metric recommend.Metric, start time.Time, results int, err error) {
	duration := time.Since(start)
	status := statusOf(err)
	metrics.RecordRequest(op, metric.String(), status, duration, results)

	logger := e.logger.With().
		Str("request_id", requestID).
		Str("operation", op).
		Str("metric", metric.String()).
		Logger()

	switch status {
	case metrics.StatusOK:
		logger.Debug().Int("results", results).Dur("duration", duration).Msg("request complete")
	case metrics.StatusUnknownEntity, metrics.StatusInvalid:
		logger.Debug().Err(err).Msg("request rejected")
	default:
		e.errorCount.Add(1)
		logger.Warn().Err(err).Dur("duration", duration).Msg("request failed")
	}
}

// current returns the installed snapshot.
func (e *Engine) current() (*snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.snap == nil {
		return nil, ErrNoSnapshot
	}
	return e.snap, nil
}

// tableFor returns the similarity table matching snap, building it when the
// stored table belongs to a different fingerprint.
//
// Callers asking for the same snapshot share one build. The build does not
// inherit ctx cancellation and is bounded only by PrecomputeTimeout: a caller
// whose ctx ends stops waiting and gets ctx.Err() while the build carries on
// for the next caller.
func (e *Engine) tableFor(ctx context.Context, snap *snapshot) (recommend.SimilarityTable[string], error) {
	if table, ok := e.tableMatching(snap.fingerprint); ok {
		return table, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build similarity table: %w", err)
	}

	buildCtx := context.WithoutCancel(ctx)
	done := e.builds.DoChan(snap.fingerprint, func() (any, error) {
		return e.buildTable(buildCtx, snap)
	})

	select {
	case res := <-done:
		if res.Err != nil {
			return nil, fmt.Errorf("build similarity table: %w", res.Err)
		}
		table, _ := res.Val.(recommend.SimilarityTable[string])
		return table, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("build similarity table: %w", ctx.Err())
	}
}

// buildTable runs one table build for snap and installs the result.
func (e *Engine) buildTable(ctx context.Context, snap *snapshot) (recommend.SimilarityTable[string], error) {
	// A previous flight may have finished between the caller's check and now.
	if table, ok := e.tableMatching(snap.fingerprint); ok {
		return table, nil
	}

	if e.cfg.PrecomputeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.PrecomputeTimeout)
		defer cancel()
	}

	progress := recommend.NewInMemoryProgress()
	e.progress.Store(progress)

	pc := e.precompute
	pc.Progress = progress

	start := time.Now()
	table, err := e.guardedBuild(func() (recommend.SimilarityTable[string], error) {
		table, err := e.build(ctx, snap.prefs, pc)
		metrics.RecordSimilarityTableBuild(time.Since(start), len(table), err)
		return table, err
	})
	duration := time.Since(start)
	if err != nil {
		e.logger.Warn().
			Err(err).
			Str("fingerprint", shortFingerprint(snap.fingerprint)).
			Dur("duration", duration).
			Msg("similarity table build failed")
		return nil, err
	}

	e.mu.Lock()
	// A build for an older snapshot must not replace a table that already
	// matches the current one.
	if e.snap == nil || e.tableFingerprint != e.snap.fingerprint || e.snap.fingerprint == snap.fingerprint {
		e.table = table
		e.tableFingerprint = snap.fingerprint
		e.tableBuiltAt = time.Now()
		e.tableDuration = duration
	}
	e.mu.Unlock()

	e.logger.Info().
		Str("fingerprint", shortFingerprint(snap.fingerprint)).
		Int("items", len(table)).
		Dur("duration", duration).
		Msg("similarity table ready")

	return table, nil
}

func (e *Engine) tableMatching(fingerprint string) (recommend.SimilarityTable[string], bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.table != nil && e.tableFingerprint == fingerprint {
		return e.table, true
	}
	return nil, false
}

// statusOf maps an operation error to its metric status label.
func statusOf(err error) string {
	switch {
	case err == nil:
		return metrics.StatusOK
	case errors.Is(err, recommend.ErrUnknownEntity):
		return metrics.StatusUnknownEntity
	case errors.Is(err, recommend.ErrInvalidLimit),
		errors.Is(err, recommend.ErrUnknownMetric),
		errors.Is(err, recommend.ErrInvalidRating),
		errors.Is(err, ErrNoSnapshot):
		return metrics.StatusInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.StatusCanceled
	default:
		return metrics.StatusError
	}
}

// cloneMatrix deep-copies prefs so later caller writes cannot reach a snapshot.
func cloneMatrix(prefs recommend.Matrix[string, string]) recommend.Matrix[string, string] {
	out := make(recommend.Matrix[string, string], len(prefs))
	for entity, row := range prefs {
		copied := make(map[string]float64, len(row))
		for item, r := range row {
			copied[item] = r
		}
		out[entity] = copied
	}
	return out
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
