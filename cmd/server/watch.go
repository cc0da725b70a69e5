// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/prefsim/internal/config"
	"github.com/tomtom215/prefsim/internal/logging"
)

// watchLogLevel reapplies logging.level whenever the config file changes.
// Other settings take effect on restart.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func watchLogLevel(logger zerolog.Logger) {
	path := config.File()
	if path == "" {
		return
	}

	err := config.WatchConfigFile(path, func() {
		cfg, err := config.LoadFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("ignoring invalid config change")
			return
		}
		logging.SetLevelName(cfg.Logging.Level)
		logger.Info().Str("level", cfg.Logging.Level).Msg("log level reloaded")
	})
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("config file watch unavailable")
	}
}
