// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/prefsim/internal/config"
	"github.com/tomtom215/prefsim/internal/dataset"
	"github.com/tomtom215/prefsim/internal/engine"
	"github.com/tomtom215/prefsim/internal/recommend"
	"github.com/tomtom215/prefsim/internal/validation"
	ws "github.com/tomtom215/prefsim/internal/websocket"
)

// Recommender is the engine surface served over HTTP. *engine.Engine
// implements it.
type Recommender interface {
	Load(prefs recommend.Matrix[string, string]) error
	TopMatches(ctx context.Context, entity string, n int) (recommend.RankedList[string], error)
	Recommend(ctx context.Context, person string) (recommend.RankedList[string], error)
	RecommendItems(ctx context.Context, person string) (recommend.RankedList[string], error)
	Similarity(ctx context.Context, a, b string) (float64, error)
	SimilarityTable(ctx context.Context) (recommend.SimilarityTable[string], error)
	Status() engine.Status
}

// Handler serves the query endpoints.
type Handler struct {
	engine Recommender
	config config.APIConfig
	hub    *ws.Hub
}

// NewHandler creates a handler over eng.
func NewHandler(eng Recommender, cfg config.APIConfig) *Handler {
	return &Handler{engine: eng, config: cfg}
}

// Recommendation modes accepted by the recommendations endpoint.
const (
	ModeUser = "user"
	ModeItem = "item"
)

type limitQuery struct {
	N int `koanf:"n" validate:"gte=0,lte=10000"`
}

type recommendQuery struct {
	Mode string `koanf:"mode" validate:"oneof=user item"`
}

type similarityQuery struct {
	A string `koanf:"a" validate:"required"`
	B string `koanf:"b" validate:"required"`
}

// RankedResult is the payload for ranked list endpoints.
type RankedResult struct {
	ID      string                       `json:"id"`
	Mode    string                       `json:"mode,omitempty"`
	Results recommend.RankedList[string] `json:"results"`
	Count   int                          `json:"count"`
}

// SimilarityResult is the payload for the similarity endpoint.
type SimilarityResult struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	Metric string  `json:"metric"`
	Score  float64 `json:"score"`
}

// Live handles GET /api/v1/health/live.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, time.Now(), map[string]string{"status": "ok"})
}

// Ready handles GET /api/v1/health/ready. It fails until a snapshot is loaded.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.engine.Status().Loaded {
		respondEngineError(w, r, start, engine.ErrNoSnapshot)
		return
	}
	respondJSON(w, r, start, map[string]string{"status": "ready"})
}

// Status handles GET /api/v1/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, time.Now(), h.engine.Status())
}

// LoadSnapshot handles PUT /api/v1/snapshot. The body is a JSON object of
// entity -> item -> rating that replaces the current snapshot.
func (h *Handler) LoadSnapshot(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.MaxSnapshotBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		respondError(w, r, start, status, &APIError{
			Code:    CodeInvalidSnapshot,
			Message: err.Error(),
		}, nil)
		return
	}

	prefs, err := dataset.LoadJSON(bytes.NewReader(body))
	if err != nil {
		respondError(w, r, start, http.StatusBadRequest, &APIError{
			Code:    CodeInvalidSnapshot,
			Message: err.Error(),
		}, nil)
		return
	}

	if err := h.engine.Load(prefs); err != nil {
		respondEngineError(w, r, start, err)
		return
	}
	respondJSON(w, r, start, h.engine.Status())
}

// Matches handles GET /api/v1/entities/{entity}/matches?n=.
func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entity := chi.URLParam(r, "entity")

	q, ok := h.limit(w, r, start)
	if !ok {
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	list, err := h.engine.TopMatches(ctx, entity, q.N)
	if err != nil {
		respondEngineError(w, r, start, err)
		return
	}
	respondJSON(w, r, start, RankedResult{ID: entity, Results: list, Count: len(list)})
}

// Recommendations handles GET /api/v1/entities/{entity}/recommendations?mode=.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	person := chi.URLParam(r, "entity")

	q := recommendQuery{Mode: r.URL.Query().Get("mode")}
	if q.Mode == "" {
		q.Mode = ModeUser
	}
	if !h.valid(w, r, start, &q) {
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	var (
		list recommend.RankedList[string]
		err  error
	)
	if q.Mode == ModeItem {
		list, err = h.engine.RecommendItems(ctx, person)
	} else {
		list, err = h.engine.Recommend(ctx, person)
	}
	if err != nil {
		respondEngineError(w, r, start, err)
		return
	}
	respondJSON(w, r, start, RankedResult{ID: person, Mode: q.Mode, Results: list, Count: len(list)})
}

// SimilarItems handles GET /api/v1/items/{item}/similar?n=. It reads the
// precomputed item similarity table.
func (h *Handler) SimilarItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	item := chi.URLParam(r, "item")

	q, ok := h.limit(w, r, start)
	if !ok {
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	table, err := h.engine.SimilarityTable(ctx)
	if err != nil {
		respondEngineError(w, r, start, err)
		return
	}

	neighbours, found := table[item]
	if !found {
		respondEngineError(w, r, start, fmt.Errorf("%w: %q", recommend.ErrUnknownEntity, item))
		return
	}
	if q.N > 0 && q.N < len(neighbours) {
		neighbours = neighbours[:q.N]
	}
	respondJSON(w, r, start, RankedResult{ID: item, Results: neighbours, Count: len(neighbours)})
}

// Similarity handles GET /api/v1/similarity?a=&b=.
func (h *Handler) Similarity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := similarityQuery{A: r.URL.Query().Get("a"), B: r.URL.Query().Get("b")}
	if !h.valid(w, r, start, &q) {
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	score, err := h.engine.Similarity(ctx, q.A, q.B)
	if err != nil {
		respondEngineError(w, r, start, err)
		return
	}
	respondJSON(w, r, start, SimilarityResult{
		A:      q.A,
		B:      q.B,
		Metric: h.engine.Status().Metric,
		Score:  score,
	})
}

// limit parses and validates the optional n query parameter.
func (h *Handler) limit(w http.ResponseWriter, r *http.Request, start time.Time) (limitQuery, bool) {
	var q limitQuery
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, start, http.StatusBadRequest, &APIError{
				Code:    CodeValidation,
				Message: "n must be an integer",
			}, nil)
			return q, false
		}
		q.N = n
	}
	return q, h.valid(w, r, start, &q)
}

// valid runs struct validation and writes a 400 on failure.
func (h *Handler) valid(w http.ResponseWriter, r *http.Request, start time.Time, q any) bool {
	err := validation.ValidateStruct(q)
	if err == nil {
		return true
	}

	apiErr := &APIError{Code: CodeValidation, Message: err.Error()}
	var sve *validation.StructValidationError
	if errors.As(err, &sve) {
		fields := make([]map[string]string, 0, len(sve.Errors()))
		for _, fe := range sve.Errors() {
			fields = append(fields, map[string]string{"field": fe.Path(), "message": fe.Error()})
		}
		apiErr.Details = fields
	}
	respondError(w, r, start, http.StatusBadRequest, apiErr, nil)
	return false
}

func (h *Handler) queryContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.config.RequestTimeout > 0 {
		return context.WithTimeout(r.Context(), h.config.RequestTimeout)
	}
	return context.WithCancel(r.Context())
}
