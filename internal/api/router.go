// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter mounts the handler's endpoints and /metrics.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRouter(h *Handler, mw *Middleware, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogging(logger.With().Str("component", "api").Logger()))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health/live", h.Live)
		r.Get("/health/ready", h.Ready)
		r.Get("/ws/progress", h.Progress)

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit())

			r.Get("/status", h.Status)
			r.Put("/snapshot", h.LoadSnapshot)
			r.Get("/similarity", h.Similarity)
			r.Get("/entities/{entity}/matches", h.Matches)
			r.Get("/entities/{entity}/recommendations", h.Recommendations)
			r.Get("/items/{item}/similar", h.SimilarItems)
		})
	})

	return r
}
