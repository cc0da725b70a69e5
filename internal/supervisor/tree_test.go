// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package supervisor

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/prefsim/internal/config"
	"github.com/tomtom215/prefsim/internal/dataset"
	"github.com/tomtom215/prefsim/internal/engine"
	ws "github.com/tomtom215/prefsim/internal/websocket"
)

// flakyService fails on its first run and then blocks until cancelled.
type flakyService struct {
	runs atomic.Int32
}

func (s *flakyService) Serve(ctx context.Context) error {
	if s.runs.Add(1) == 1 {
		return errors.New("first run fails")
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestTreeConfig_Defaults(t *testing.T) {
	tree := NewTree(zerolog.Nop(), TreeConfig{})

	want := DefaultTreeConfig()
	if tree.config != want {
		t.Errorf("config = %+v, want %+v", tree.config, want)
	}
	if tree.root == nil || tree.maintenance == nil || tree.api == nil {
		t.Error("supervisors should not be nil")
	}
}

func TestTree_RestartsFailedService(t *testing.T) {
	tree := NewTree(zerolog.Nop(), TreeConfig{
		FailureBackoff:  10 * time.Millisecond,
		ShutdownTimeout: time.Second,
	})
	svc := &flakyService{}
	tree.AddMaintenanceService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(2 * time.Second)
	for svc.runs.Load() < 2 {
		select {
		case <-deadline:
			cancel()
			t.Fatalf("service ran %d times, want a restart", svc.runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop")
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport() error = %v", err)
	}
	if len(report) != 0 {
		t.Errorf("unstopped services = %v, want none", report)
	}
}

func TestEngineTree_WarmsTable(t *testing.T) {
	cfg := config.Default()
	eng, err := engine.New(cfg.Recommend, zerolog.Nop())
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	if err := eng.Load(dataset.Critics()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg.Maintenance = config.MaintenanceConfig{
		CacheCleanupInterval: 10 * time.Millisecond,
		WarmInterval:         10 * time.Millisecond,
		WarmOnStart:          true,
		ShutdownTimeout:      time.Second,
	}
	tree := NewEngineTree(eng, cfg, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	defer func() {
		cancel()
		<-errCh
	}()

	waitFor(t, func() bool { return eng.Status().TableReady })

	// A new snapshot makes the table stale until the warmer catches up.
	changed := dataset.Critics()
	changed["Toby"]["Snakes on a Plane"] = 1.0
	if err := eng.Load(changed); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	waitFor(t, func() bool { return eng.Status().TableReady })
}

func TestEngineTree_MaintenanceDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Maintenance = config.MaintenanceConfig{ShutdownTimeout: time.Second}

	eng, err := engine.New(cfg.Recommend, zerolog.Nop())
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	if err := eng.Load(dataset.Critics()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tree := NewEngineTree(eng, cfg, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	<-tree.ServeBackground(ctx)

	if eng.Status().TableReady {
		t.Error("table should not be built when the warmer is disabled")
	}
}

func TestEngineTree_ServesAPI(t *testing.T) {
	addr := freeAddr(t)

	cfg := config.Default()
	cfg.Maintenance.WarmInterval = 0
	cfg.API.Enabled = true
	cfg.API.Addr = addr
	cfg.API.ShutdownTimeout = time.Second

	eng, err := engine.New(cfg.Recommend, zerolog.Nop())
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}

	tree := NewEngineTree(eng, cfg, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	defer func() {
		cancel()
		<-errCh
	}()

	url := "http://" + addr + "/api/v1/health/live"
	waitFor(t, func() bool {
		resp, err := http.Get(url) //nolint:gosec // test URL
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	})
}

func TestEngineTree_ProgressFeed(t *testing.T) {
	addr := freeAddr(t)

	cfg := config.Default()
	cfg.Maintenance.WarmInterval = 10 * time.Millisecond
	cfg.API.Enabled = true
	cfg.API.Addr = addr
	cfg.API.ShutdownTimeout = time.Second
	cfg.API.ProgressInterval = 10 * time.Millisecond

	eng, err := engine.New(cfg.Recommend, zerolog.Nop())
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}

	tree := NewEngineTree(eng, cfg, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	defer func() {
		cancel()
		<-errCh
	}()

	var conn *websocket.Conn
	waitFor(t, func() bool {
		c, resp, err := websocket.DefaultDialer.Dial("ws://"+addr+"/api/v1/ws/progress", nil)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		conn = c
		return err == nil
	})
	defer conn.Close()

	// The greeting arrives after the subscriber is registered.
	if typ := readFeedType(t, conn); typ != ws.MessageTypeStatus {
		t.Fatalf("first message type = %q, want %q", typ, ws.MessageTypeStatus)
	}

	if err := eng.Load(dataset.Critics()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for {
		typ := readFeedType(t, conn)
		if typ == ws.MessageTypeTableReady {
			break
		}
		if typ != ws.MessageTypeBuildProgress {
			t.Fatalf("unexpected message type %q", typ)
		}
	}
}

func readFeedType(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}
	var msg ws.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return msg.Type
}

// freeAddr reserves a loopback port and releases it for the server to take.
func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
