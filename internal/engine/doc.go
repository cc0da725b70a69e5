// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

/*
Package engine serves recommendations over a loaded preference snapshot.

An Engine owns one immutable copy of a preference matrix at a time. Load
validates and installs a new snapshot in a single swap; queries already in
flight keep reading the snapshot they started with.

# Similarity Table

Item-based recommendations need the item-item similarity table. The engine
builds it on first use, bounded by RecommendConfig.PrecomputeTimeout, and
remembers the snapshot fingerprint it was built from. Concurrent callers
share one build per fingerprint through singleflight. The build is detached
from the callers' contexts: a caller whose deadline passes gets its context
error back while the build runs on for the others. A later Load with
different content makes the table stale and the next item-based query
rebuilds it. Loading identical content keeps it.

When RecommendConfig.BreakerFailures consecutive builds fail, a circuit
breaker opens and item-based queries return ErrTableUnavailable without
starting a build until RecommendConfig.BreakerCooldown has passed.
Only precompute errors and PrecomputeTimeout overruns count, never a
caller's cancellation or deadline.

# Caching

Ranked lists are cached in a TTL LRU keyed by snapshot fingerprint,
operation, metric and identifier, so a new snapshot never serves old
results. Callers receive copies and may modify them.

# Observability

Every query gets a request ID (reused from the context when present), a
zerolog line and Prometheus request metrics. Table builds record their own
duration and size.

	eng, err := engine.New(cfg.Recommend, logging.WithComponent("prefsim"))
	if err != nil {
	    return err
	}
	if err := eng.Load(dataset.Critics()); err != nil {
	    return err
	}
	recs, err := eng.RecommendItems(ctx, "Toby")
*/
package engine
