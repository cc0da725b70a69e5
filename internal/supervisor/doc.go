// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

/*
Package supervisor runs the engine's background upkeep and HTTP API under a
suture v4 supervisor tree.

	prefsim
	├── maintenance
	│   ├── cache-janitor   (services.CacheJanitor)
	│   └── table-warmer    (services.TableWarmer)
	└── api                 (when api.enabled)
	    ├── progress-hub        (services.ProgressHubService, when api.progress_interval > 0)
	    ├── progress-publisher  (services.ProgressPublisher)
	    └── http-server         (services.HTTPServerService)

Crashed services are restarted with suture's backoff. Supervisor events go
through sutureslog into the zerolog logger via logging.NewSlogLogger.

# Usage

	cfg, err := config.Load()
	if err != nil {
	    return err
	}
	eng, err := engine.New(cfg.Recommend, logging.Logger())
	if err != nil {
	    return err
	}

	tree := supervisor.NewEngineTree(eng, cfg, logging.Logger())
	errCh := tree.ServeBackground(ctx)

	_ = eng.Load(prefs) // the warmer rebuilds the table in the background

	<-ctx.Done()
	<-errCh

On shutdown, UnstoppedServiceReport lists services that overran
ShutdownTimeout.
*/
package supervisor
