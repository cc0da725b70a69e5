// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/prefsim/internal/logging"
	ws "github.com/tomtom215/prefsim/internal/websocket"
)

// CodeFeedUnavailable is returned when the progress feed is turned off.
const CodeFeedUnavailable = "FEED_UNAVAILABLE"

// WithProgressHub enables GET /api/v1/ws/progress on hub.
func (h *Handler) WithProgressHub(hub *ws.Hub) *Handler {
	h.hub = hub
	return h
}

// Progress handles GET /api/v1/ws/progress. The connection receives the
// current status, then build_progress and table_ready messages.
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.hub == nil {
		respondError(w, r, start, http.StatusServiceUnavailable, &APIError{
			Code:    CodeFeedUnavailable,
			Message: "progress feed is disabled",
		}, nil)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      h.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("progress feed upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn)
	client.Queue(ws.Message{Type: ws.MessageTypeStatus, Data: h.engine.Status()})
	if !h.hub.Register(r.Context(), client) {
		_ = conn.Close()
		return
	}
	client.Start()
}

// checkOrigin admits requests without an Origin header (non-browser
// clients) and browser requests from a configured CORS origin.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(h.config.CORSOrigins, "*") || slices.Contains(h.config.CORSOrigins, origin) {
		return true
	}
	logging.Ctx(r.Context()).Warn().Str("origin", origin).Msg("progress feed rejected origin")
	return false
}
