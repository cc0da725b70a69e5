// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/prefsim/internal/engine"
	ws "github.com/tomtom215/prefsim/internal/websocket"
)

// DefaultProgressInterval is used when a ProgressPublisher is given no
// interval.
const DefaultProgressInterval = time.Second

// ContextHub is the run loop of a websocket hub.
type ContextHub interface {
	Run(ctx context.Context) error
}

// ProgressHubService runs the progress feed's hub.
type ProgressHubService struct {
	hub  ContextHub
	name string
}

// NewProgressHubService wraps hub as a supervised service.
func NewProgressHubService(hub ContextHub) *ProgressHubService {
	return &ProgressHubService{hub: hub, name: "progress-hub"}
}

// Serve implements suture.Service.
func (s *ProgressHubService) Serve(ctx context.Context) error {
	return s.hub.Run(ctx)
}

// String returns the service name for logging.
func (s *ProgressHubService) String() string {
	return s.name
}

// StatusSource reports engine status.
type StatusSource interface {
	Status() engine.Status
}

// Broadcaster fans a message out to feed subscribers.
type Broadcaster interface {
	Broadcast(msgType string, data any)
}

// ProgressPublisher samples engine status and broadcasts build progress
// while a table is building and table_ready once per snapshot.
type ProgressPublisher struct {
	source   StatusSource
	out      Broadcaster
	interval time.Duration
	logger   zerolog.Logger
	name     string

	readyFingerprint string
	lastDone         int
	lastTotal        int
}

// NewProgressPublisher creates a publisher from source to out.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewProgressPublisher(source StatusSource, out Broadcaster, interval time.Duration, logger zerolog.Logger) *ProgressPublisher {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	return &ProgressPublisher{
		source:   source,
		out:      out,
		interval: interval,
		logger:   logger.With().Str("service", "progress-publisher").Logger(),
		name:     "progress-publisher",
	}
}

// Serve implements suture.Service.
func (p *ProgressPublisher) Serve(ctx context.Context) error {
	p.logger.Debug().Dur("interval", p.interval).Msg("progress publisher starting")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.publish(p.source.Status())
		}
	}
}

// publish broadcasts what changed since the previous sample.
func (p *ProgressPublisher) publish(s engine.Status) {
	if !s.Loaded {
		return
	}

	if s.TableReady {
		if s.Fingerprint != p.readyFingerprint {
			p.readyFingerprint = s.Fingerprint
			p.out.Broadcast(ws.MessageTypeTableReady, ws.TableReadyData{
				Fingerprint: s.Fingerprint,
				Items:       s.TableItems,
				DurationMs:  s.TableDuration.Milliseconds(),
			})
		}
		return
	}

	// A finished count belongs to an earlier snapshot's build.
	if s.BuildTotal == 0 || s.BuildDone >= s.BuildTotal {
		return
	}
	if s.BuildDone == p.lastDone && s.BuildTotal == p.lastTotal {
		return
	}
	p.lastDone, p.lastTotal = s.BuildDone, s.BuildTotal
	p.out.Broadcast(ws.MessageTypeBuildProgress, ws.BuildProgressData{
		Fingerprint: s.Fingerprint,
		Done:        s.BuildDone,
		Total:       s.BuildTotal,
	})
}

// String returns the service name for logging.
func (p *ProgressPublisher) String() string {
	return p.name
}
