// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// startHub runs a hub until the test ends and returns a server that
// registers every websocket connection with it after queueing greeting.
func startHub(t *testing.T, greeting *Message) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.Run(ctx) }()
	t.Cleanup(cancel)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewClient(hub, conn)
		if greeting != nil {
			c.Queue(*greeting)
		}
		if !hub.Register(r.Context(), c) {
			_ = conn.Close()
			return
		}
		c.Start()
	}))
	t.Cleanup(server.Close)

	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var msg struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return msg.Type, msg.Data
}

func TestHub_GreetingThenBroadcast(t *testing.T) {
	hub, server := startHub(t, &Message{Type: MessageTypeStatus, Data: map[string]bool{"loaded": true}})
	conn := dial(t, server)
	waitForClients(t, hub, 1)

	if typ, _ := readMessage(t, conn); typ != MessageTypeStatus {
		t.Fatalf("first message type = %q, want %q", typ, MessageTypeStatus)
	}

	hub.Broadcast(MessageTypeBuildProgress, BuildProgressData{Fingerprint: "abc", Done: 2, Total: 5})

	typ, data := readMessage(t, conn)
	if typ != MessageTypeBuildProgress {
		t.Fatalf("message type = %q, want %q", typ, MessageTypeBuildProgress)
	}
	var got BuildProgressData
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode progress: %v", err)
	}
	if got != (BuildProgressData{Fingerprint: "abc", Done: 2, Total: 5}) {
		t.Errorf("progress = %+v", got)
	}
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub, server := startHub(t, nil)
	a := dial(t, server)
	b := dial(t, server)
	waitForClients(t, hub, 2)

	hub.Broadcast(MessageTypeTableReady, TableReadyData{Fingerprint: "f", Items: 3})

	for _, conn := range []*websocket.Conn{a, b} {
		if typ, _ := readMessage(t, conn); typ != MessageTypeTableReady {
			t.Errorf("message type = %q, want %q", typ, MessageTypeTableReady)
		}
	}
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	for range broadcastBuffer * 2 {
		hub.Broadcast(MessageTypeStatus, nil)
	}
	if n := len(hub.broadcast); n != 0 {
		t.Errorf("queued broadcasts = %d, want 0 with no subscribers", n)
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub, server := startHub(t, nil)
	conn := dial(t, server)
	waitForClients(t, hub, 1)

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()

	waitForClients(t, hub, 0)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewClient(hub, conn)
		if hub.Register(r.Context(), c) {
			c.Start()
		}
	}))
	defer server.Close()

	conn := dial(t, server)
	waitForClients(t, hub, 1)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("ReadMessage() error = %v, want going-away close", err)
	}
	if n := hub.ClientCount(); n != 0 {
		t.Errorf("ClientCount() = %d after shutdown, want 0", n)
	}
}

func TestHub_RegisterHonoursContext(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if hub.Register(ctx, &Client{send: make(chan Message, 1), gone: make(chan struct{})}) {
		t.Error("Register() = true without a running hub")
	}
}

func TestClient_QueueFull(t *testing.T) {
	c := &Client{send: make(chan Message, 1), gone: make(chan struct{})}
	if !c.Queue(Message{Type: MessageTypeStatus}) {
		t.Fatal("first Queue() = false")
	}
	if c.Queue(Message{Type: MessageTypeStatus}) {
		t.Error("Queue() on a full queue = true")
	}
}
