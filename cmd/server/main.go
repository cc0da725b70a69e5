// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/prefsim/internal/config"
	"github.com/tomtom215/prefsim/internal/engine"
	"github.com/tomtom215/prefsim/internal/logging"
	"github.com/tomtom215/prefsim/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}

	logging.Init(cfg.Logging.LoggingOptions())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()

	if err != nil {
		logging.Error().Err(err).Msg("prefsim stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.Logger()

	eng, err := engine.New(cfg.Recommend, logger)
	if err != nil {
		return err
	}

	logger.Info().
		Str("metric", cfg.Recommend.Metric).
		Str("item_metric", cfg.Recommend.ItemMetric).
		Bool("api_enabled", cfg.API.Enabled).
		Str("api_addr", cfg.API.Addr).
		Msg("starting prefsim")

	watchLogLevel(logger)

	tree := supervisor.NewEngineTree(eng, cfg, logger)
	errCh := tree.ServeBackground(ctx)

	runErr := <-errCh
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logger.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
	}

	logger.Info().Msg("prefsim stopped")
	return runErr
}
