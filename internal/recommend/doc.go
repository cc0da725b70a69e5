// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

// Package recommend implements memory-based collaborative filtering over a
// sparse preference matrix.
//
// # Architecture
//
// The package is a set of pure functions over a read-only Matrix:
//
//   - Similarity: Euclidean, Pearson and Tanimoto scores over shared items
//   - TopMatches: the N most similar entities to a target
//   - Recommendations: user-based weighted average over every other entity
//   - CalculateSimilarItems / RecommendedItems: item-based recommendation
//     from a precomputed SimilarityTable
//
// The transposed matrix (item -> entity -> rating) is itself a Matrix, so
// the same metric and match code serves both the user-based and item-based
// paths.
//
// # Ranking
//
// Every RankedList is ordered by score descending. Equal scores are ordered
// by identifier descending, which keeps output deterministic.
//
// # Usage
//
//	prefs := dataset.Critics()
//
//	matches, err := recommend.TopMatches(prefs, "Toby", 3, recommend.Pearson)
//
//	recs, err := recommend.Recommendations(prefs, "Toby", recommend.Pearson)
//
//	table, err := recommend.CalculateSimilarItems(ctx, prefs, recommend.DefaultPrecomputeConfig())
//	recs, err = recommend.RecommendedItems(prefs, table, "Toby")
//
// # Thread Safety
//
// Nothing in this package mutates a Matrix, so concurrent reads are safe as
// long as callers do not mutate the matrix while a call is running.
// CalculateSimilarEntities shards work across goroutines and honours context
// cancellation; it is the only long-running operation.
package recommend
