// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/prefsim/internal/engine"
	"github.com/tomtom215/prefsim/internal/logging"
	"github.com/tomtom215/prefsim/internal/recommend"
)

// Error codes returned in APIError.Code.
const (
	CodeUnknownEntity    = "UNKNOWN_ENTITY"
	CodeNoSnapshot       = "NO_SNAPSHOT"
	CodeInvalidSnapshot  = "INVALID_SNAPSHOT"
	CodeValidation       = "VALIDATION_ERROR"
	CodeTimeout          = "TIMEOUT"
	CodeTableUnavailable = "TABLE_UNAVAILABLE"
	CodeNotFound         = "NOT_FOUND"
	CodeInternal         = "INTERNAL_ERROR"
)

// APIResponse is the envelope for every response body.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    APIMeta   `json:"meta"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// APIMeta carries tracing data.
type APIMeta struct {
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"duration_ms"`
}

// respondJSON writes a success envelope around data.
func respondJSON(w http.ResponseWriter, r *http.Request, start time.Time, data any) {
	write(w, r, http.StatusOK, &APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta(r.Context(), start),
	})
}

// respondError writes an error envelope. Server-side failures are logged.
func respondError(w http.ResponseWriter, r *http.Request, start time.Time, status int, apiErr *APIError, err error) {
	if status >= http.StatusInternalServerError && err != nil {
		logging.Ctx(r.Context()).Error().
			Err(err).
			Str("code", apiErr.Code).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	write(w, r, status, &APIResponse{
		Error: apiErr,
		Meta:  meta(r.Context(), start),
	})
}

// respondEngineError maps an engine or core error onto a status and code.
func respondEngineError(w http.ResponseWriter, r *http.Request, start time.Time, err error) {
	status, code := classify(err)
	respondError(w, r, start, status, &APIError{Code: code, Message: err.Error()}, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, recommend.ErrUnknownEntity):
		return http.StatusNotFound, CodeUnknownEntity
	case errors.Is(err, engine.ErrNoSnapshot):
		return http.StatusServiceUnavailable, CodeNoSnapshot
	case errors.Is(err, engine.ErrTableUnavailable):
		return http.StatusServiceUnavailable, CodeTableUnavailable
	case errors.Is(err, recommend.ErrInvalidRating):
		return http.StatusBadRequest, CodeInvalidSnapshot
	case errors.Is(err, recommend.ErrInvalidLimit):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTimeout
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func meta(ctx context.Context, start time.Time) APIMeta {
	return APIMeta{
		RequestID:  logging.RequestIDFromContext(ctx),
		Timestamp:  time.Now().UTC(),
		DurationMs: time.Since(start).Milliseconds(),
	}
}

func write(w http.ResponseWriter, r *http.Request, status int, resp *APIResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("failed to write response")
	}
}
