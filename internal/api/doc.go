// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

/*
Package api serves the engine over HTTP with a chi router.

# Endpoints

	GET  /api/v1/health/live
	GET  /api/v1/health/ready                      503 until a snapshot is loaded
	GET  /api/v1/ws/progress                       websocket build progress feed
	GET  /api/v1/status                            engine.Status
	PUT  /api/v1/snapshot                          JSON {"entity": {"item": rating}}
	GET  /api/v1/similarity?a=&b=                  configured metric
	GET  /api/v1/entities/{entity}/matches?n=      top matches (n=0 uses the default)
	GET  /api/v1/entities/{entity}/recommendations?mode=user|item
	GET  /api/v1/items/{item}/similar?n=           row of the item similarity table
	GET  /metrics                                  Prometheus

Every JSON body is an APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 0}}
	{"success": false, "error": {"code": "UNKNOWN_ENTITY", "message": "..."}, "meta": {...}}

Unknown entities map to 404, a missing snapshot or an open table build
breaker to 503, invalid input to 400 and a query that overruns
RequestTimeout to 504.

# Middleware

Requests get an X-Request-ID (taken from the request when present) that is
passed to the engine through the context, so engine log lines and the
response share one ID. CORS uses go-chi/cors and per-IP limits use
go-chi/httprate; health, metrics and the progress feed are not rate
limited.

# Progress Feed

The websocket endpoint is live when WithProgressHub is given a hub. A new
connection first receives a status message carrying engine.Status, then
whatever the hub broadcasts. Browser connections must come from a
configured CORS origin. Without a hub the endpoint answers 503
FEED_UNAVAILABLE.
*/
package api
