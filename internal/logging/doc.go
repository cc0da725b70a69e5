// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

// Package logging provides centralized zerolog-based structured logging.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("metric", "pearson").Msg("engine ready")
//
//	// With request ID
//	ctx, _ = logging.EnsureRequestID(ctx)
//	logging.Ctx(ctx).Debug().Msg("recommendation requested")
//
// # Configuration
//
// Levels: trace, debug, info, warn, error, fatal, panic, disabled.
// Formats: json (default) or console.
//
// Components should accept a zerolog.Logger and derive a child with a
// "component" field rather than writing to the global logger directly.
//
// # slog
//
// NewSlogLogger adapts a zerolog.Logger to *slog.Logger for libraries that
// only speak log/slog (the suture event hook). Groups become dotted keys.
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
