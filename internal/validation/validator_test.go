// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package validation

import (
	"errors"
	"strings"
	"testing"
)

type innerConfig struct {
	Mode    string `koanf:"mode" validate:"required,oneof=fast slow"`
	Workers int    `koanf:"workers" validate:"gte=0,lte=64"`
	Color   string `koanf:"color" validate:"omitempty,testcolor"`
}

type outerConfig struct {
	Name  string      `koanf:"name" validate:"required,min=2"`
	Limit int         `koanf:"limit" validate:"min=1,max=1000"`
	Inner innerConfig `koanf:"inner"`
	Plain int         `validate:"gt=0"`
}

func init() {
	err := RegisterStringValidator("testcolor", func(s string) bool {
		return s == "red" || s == "blue"
	}, "%s must be red or blue")
	if err != nil {
		panic(err)
	}
}

func validOuter() outerConfig {
	return outerConfig{
		Name:  "prefsim",
		Limit: 10,
		Inner: innerConfig{Mode: "fast", Workers: 4},
		Plain: 1,
	}
}

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*outerConfig)
	}{
		{"defaults", func(*outerConfig) {}},
		{"boundary workers", func(c *outerConfig) { c.Inner.Workers = 64 }},
		{"custom tag passes", func(c *outerConfig) { c.Inner.Color = "blue" }},
		{"maximum limit", func(c *outerConfig) { c.Limit = 1000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validOuter()
			tt.modify(&cfg)
			if err := ValidateStruct(&cfg); err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*outerConfig)
		wantPath    string
		wantTag     string
		wantMessage string
	}{
		{
			name:        "missing name",
			modify:      func(c *outerConfig) { c.Name = "" },
			wantPath:    "name",
			wantTag:     "required",
			wantMessage: "name is required",
		},
		{
			name:        "short name",
			modify:      func(c *outerConfig) { c.Name = "p" },
			wantPath:    "name",
			wantTag:     "min",
			wantMessage: "name must be at least 2 characters",
		},
		{
			name:        "limit too high",
			modify:      func(c *outerConfig) { c.Limit = 1001 },
			wantPath:    "limit",
			wantTag:     "max",
			wantMessage: "limit must be at most 1000",
		},
		{
			name:        "nested oneof",
			modify:      func(c *outerConfig) { c.Inner.Mode = "medium" },
			wantPath:    "inner.mode",
			wantTag:     "oneof",
			wantMessage: "inner.mode must be one of: fast slow",
		},
		{
			name:        "nested lte",
			modify:      func(c *outerConfig) { c.Inner.Workers = 65 },
			wantPath:    "inner.workers",
			wantTag:     "lte",
			wantMessage: "inner.workers must be less than or equal to 64",
		},
		{
			name:        "custom tag fails",
			modify:      func(c *outerConfig) { c.Inner.Color = "green" },
			wantPath:    "inner.color",
			wantTag:     "testcolor",
			wantMessage: "inner.color must be red or blue",
		},
		{
			name:        "field without koanf tag",
			modify:      func(c *outerConfig) { c.Plain = 0 },
			wantPath:    "Plain",
			wantTag:     "gt",
			wantMessage: "Plain must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validOuter()
			tt.modify(&cfg)

			err := ValidateStruct(&cfg)
			if err == nil {
				t.Fatal("ValidateStruct() returned nil, want error")
			}

			var verr *StructValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error type = %T, want *StructValidationError", err)
			}
			if len(verr.Errors()) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(verr.Errors()), err)
			}

			fe := verr.Errors()[0]
			if fe.Path() != tt.wantPath {
				t.Errorf("Path() = %q, want %q", fe.Path(), tt.wantPath)
			}
			if fe.Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", fe.Tag(), tt.wantTag)
			}
			if fe.Error() != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", fe.Error(), tt.wantMessage)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	cfg := validOuter()
	cfg.Name = ""
	cfg.Inner.Workers = -1

	err := ValidateStruct(&cfg)
	var verr *StructValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want *StructValidationError", err)
	}
	if len(verr.Errors()) != 2 {
		t.Fatalf("got %d errors, want 2", len(verr.Errors()))
	}

	msg := err.Error()
	if !strings.Contains(msg, "name is required") || !strings.Contains(msg, "inner.workers") {
		t.Errorf("combined message missing a field: %q", msg)
	}
	if !strings.Contains(msg, "; ") {
		t.Errorf("combined message should join errors with '; ': %q", msg)
	}
}

func TestValidateStruct_Param(t *testing.T) {
	cfg := validOuter()
	cfg.Limit = 0

	var verr *StructValidationError
	if !errors.As(ValidateStruct(&cfg), &verr) {
		t.Fatal("expected *StructValidationError")
	}
	fe := verr.Errors()[0]
	if fe.Param() != "1" {
		t.Errorf("Param() = %q, want 1", fe.Param())
	}
	if fe.Value() != 0 {
		t.Errorf("Value() = %v, want 0", fe.Value())
	}
	if fe.Field() != "limit" {
		t.Errorf("Field() = %q, want limit", fe.Field())
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	err := ValidateStruct(42)
	var verr *StructValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want *StructValidationError", err)
	}
	if verr.Errors()[0].Field() != "unknown" {
		t.Errorf("Field() = %q, want unknown", verr.Errors()[0].Field())
	}
}

func TestStructValidationError_Empty(t *testing.T) {
	verr := &StructValidationError{}
	if verr.Error() != "validation failed" {
		t.Errorf("Error() = %q, want %q", verr.Error(), "validation failed")
	}
}
