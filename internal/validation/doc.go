// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide so struct metadata is
// parsed once. Field names in error messages come from koanf tags, which
// makes a failed configuration report the key the operator actually set:
//
//	type RecommendConfig struct {
//	    Matches int    `koanf:"matches" validate:"gte=1"`
//	    Metric  string `koanf:"metric" validate:"required,metric"`
//	}
//
//	if err := validation.ValidateStruct(&cfg); err != nil {
//	    // "recommend.matches must be greater than or equal to 1"
//	}
//
// Domain specific tags are registered with RegisterStringValidator:
//
//	validation.RegisterStringValidator("metric", recommend.IsMetric,
//	    "%s must be a known similarity metric")
//
// # Error Types
//
// ValidateStruct returns a *StructValidationError holding one
// ValidationError per failing field. Each exposes Field, Path, Tag,
// Param and Value.
package validation
