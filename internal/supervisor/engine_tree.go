// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package supervisor

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/prefsim/internal/api"
	"github.com/tomtom215/prefsim/internal/config"
	"github.com/tomtom215/prefsim/internal/engine"
	"github.com/tomtom215/prefsim/internal/supervisor/services"
	ws "github.com/tomtom215/prefsim/internal/websocket"
)

// NewEngineTree returns a tree running the services cfg enables for eng:
// the cache janitor and table warmer (a zero interval leaves one out) and,
// when cfg.API.Enabled, the HTTP API with its websocket progress feed.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngineTree(eng *engine.Engine, cfg *config.Config, logger zerolog.Logger) *Tree {
	m := cfg.Maintenance
	tree := NewTree(logger, TreeConfig{ShutdownTimeout: m.ShutdownTimeout})

	if m.CacheCleanupInterval > 0 {
		tree.AddMaintenanceService(services.NewCacheJanitor(eng, m.CacheCleanupInterval, logger))
	}
	if m.WarmInterval > 0 {
		tree.AddMaintenanceService(services.NewTableWarmer(eng, services.TableWarmerConfig{
			Interval:    m.WarmInterval,
			WarmOnStart: m.WarmOnStart,
		}, logger))
	}

	if cfg.API.Enabled {
		var hub *ws.Hub
		if cfg.API.ProgressInterval > 0 {
			hub = ws.NewHub(logger)
			tree.AddAPIService(services.NewProgressHubService(hub))
			tree.AddAPIService(services.NewProgressPublisher(eng, hub, cfg.API.ProgressInterval, logger))
		}
		tree.AddAPIService(services.NewHTTPServerService(newHTTPServer(eng, hub, cfg.API, logger), services.HTTPServiceConfig{
			Addr:            cfg.API.Addr,
			ShutdownTimeout: cfg.API.ShutdownTimeout,
		}, logger))
	}

	logger.Debug().
		Dur("cache_cleanup_interval", m.CacheCleanupInterval).
		Dur("warm_interval", m.WarmInterval).
		Bool("api_enabled", cfg.API.Enabled).
		Dur("progress_interval", cfg.API.ProgressInterval).
		Str("api_addr", cfg.API.Addr).
		Msg("supervisor tree configured")

	return tree
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newHTTPServer(eng *engine.Engine, hub *ws.Hub, cfg config.APIConfig, logger zerolog.Logger) *http.Server {
	handler := api.NewHandler(eng, cfg)
	if hub != nil {
		handler.WithProgressHub(hub)
	}
	mw := api.NewMiddleware(api.MiddlewareConfigFrom(cfg))

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewRouter(handler, mw, logger),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
