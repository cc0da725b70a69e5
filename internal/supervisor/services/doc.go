// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

// Package services provides suture services that maintain a recommendation
// engine in the background.
//
// CacheJanitor sweeps expired ranked lists out of the result cache.
// TableWarmer rebuilds the item similarity table once a new snapshot makes
// the stored one stale. HTTPServerService runs an *http.Server and shuts it
// down gracefully on cancellation. ProgressHubService runs the websocket
// hub and ProgressPublisher samples engine status into it.
//
// The engine services depend on small interfaces (CacheCleaner,
// TableBuilder, StatusSource) satisfied by *engine.Engine. All services return ctx.Err()
// when their context is cancelled.
package services
