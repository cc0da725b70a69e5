// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package websocket

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// Message types sent to progress subscribers.
const (
	MessageTypeStatus        = "status"
	MessageTypeBuildProgress = "build_progress"
	MessageTypeTableReady    = "table_ready"
)

// broadcastBuffer bounds queued broadcasts. A full buffer drops the message.
const broadcastBuffer = 64

// Message is one frame on the progress feed.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// BuildProgressData is the payload of a build_progress message.
type BuildProgressData struct {
	Fingerprint string `json:"fingerprint"`
	Done        int    `json:"done"`
	Total       int    `json:"total"`
}

// TableReadyData is the payload of a table_ready message.
type TableReadyData struct {
	Fingerprint string `json:"fingerprint"`
	Items       int    `json:"items"`
	DurationMs  int64  `json:"duration_ms"`
}

// Hub tracks connected clients and fans broadcasts out to them.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     zerolog.Logger
}

// NewHub creates a hub. Run must be started before clients register.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With().Str("component", "progress-hub").Logger(),
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// closes every client. Lifecycle events are drained before broadcasts so a
// client registered ahead of a message receives it.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case c := <-h.register:
			h.add(c)
			continue
		case c := <-h.unregister:
			h.remove(c)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// Register hands c to the hub. It returns false if ctx ends first.
func (h *Hub) Register(ctx context.Context, c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-ctx.Done():
		return false
	}
}

// Broadcast queues a message for every client. Nothing is queued when no
// client is connected.
func (h *Hub) Broadcast(msgType string, data any) {
	if h.ClientCount() == 0 {
		return
	}
	select {
	case h.broadcast <- Message{Type: msgType, Data: data}:
	default:
		h.logger.Warn().Str("message_type", msgType).Msg("progress broadcast buffer full, dropping message")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug().Uint64("client_id", c.id).Int("clients", n).Msg("progress subscriber connected")
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		h.drop(c)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug().Uint64("client_id", c.id).Int("clients", n).Msg("progress subscriber disconnected")
}

// drop forgets c and closes its queue. Callers hold h.mu.
func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	close(c.gone)
}

// sorted returns clients in connection order. Callers hold h.mu.
func (h *Hub) sorted() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	slices.SortFunc(clients, func(a, b *Client) int { return cmp.Compare(a.id, b.id) })
	return clients
}

// fanOut delivers msg in connection order. A client whose queue is full is
// dropped.
func (h *Hub) fanOut(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.sorted() {
		select {
		case c.send <- msg:
		default:
			h.drop(c)
			h.logger.Warn().Uint64("client_id", c.id).Msg("progress subscriber too slow, disconnecting")
		}
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	n := len(h.clients)
	for _, c := range h.sorted() {
		h.drop(c)
	}
	h.mu.Unlock()

	h.logger.Info().
		Str("reason", context.Cause(ctx).Error()).
		Int("clients_closed", n).
		Msg("progress hub stopped")
}
