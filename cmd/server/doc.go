// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

// Command server runs the prefsim engine under its supervisor tree.
//
// Configuration comes from config.yaml (or CONFIG_PATH) and environment
// variables; see package config. With API_ENABLED=true the HTTP API listens
// on API_ADDR and snapshots are loaded with PUT /api/v1/snapshot. SIGINT or
// SIGTERM shuts the tree down gracefully.
package main
