// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

// Package websocket serves the similarity table build progress feed.
//
// A Hub owns the set of connected clients. Its Run loop handles
// registration, unregistration and broadcasts, and closes every client
// when its context ends, so it runs as a supervised service. Each Client
// has a write pump that encodes queued messages with goccy/go-json and
// sends keep-alive pings, and a read pump that discards inbound frames
// until the peer goes away.
//
// Messages are JSON objects with a type and a data field:
//
//	{"type":"status","data":{...engine status...}}
//	{"type":"build_progress","data":{"fingerprint":"9f2c","done":12,"total":40}}
//	{"type":"table_ready","data":{"fingerprint":"9f2c","items":40,"duration_ms":85}}
//
// A slow subscriber whose queue fills is disconnected rather than stalling
// the hub.
package websocket
