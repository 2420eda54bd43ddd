// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package validator

import (
	"fmt"
	"time"

	"github.com/NVIDIA/layoutcheck/pkg/errors"
	"github.com/NVIDIA/layoutcheck/pkg/header"
)

// Reason classifies why a run failed.
type Reason string

const (
	// ReasonContentMismatch means a present line failed its layout.
	ReasonContentMismatch Reason = "content_mismatch"

	// ReasonRowShortfall means the input ended before a layout's rows were read.
	ReasonRowShortfall Reason = "row_shortfall"

	// ReasonUnknownValidator means a layout kind or field type is not registered.
	ReasonUnknownValidator Reason = "unknown_validator"

	// ReasonTrailingContent means lines remain after the last layout (strict mode).
	ReasonTrailingContent Reason = "trailing_content"

	// ReasonInvalidRecipe means the recipe could not be loaded or evaluated.
	ReasonInvalidRecipe Reason = "invalid_recipe"

	// ReasonInputError means the input could not be opened or read (batch mode).
	ReasonInputError Reason = "input_error"
)

// Verdict is the outcome of validating one input against one recipe.
// Only the first failure is reported.
type Verdict struct {
	header.Header `json:",inline" yaml:",inline"`

	// RunID identifies this run in logs and metrics.
	RunID string `json:"runId" yaml:"runId"`

	RecipeSource string `json:"recipeSource,omitempty" yaml:"recipeSource,omitempty"`
	InputSource  string `json:"inputSource,omitempty" yaml:"inputSource,omitempty"`

	Success bool   `json:"success" yaml:"success"`
	Reason  Reason `json:"reason,omitempty" yaml:"reason,omitempty"`

	// FailedAtRow is the 1-based line number, counted from the start of the
	// input, of the failing line. For a shortfall it is the first missing line.
	FailedAtRow int `json:"failedAtRow,omitempty" yaml:"failedAtRow,omitempty"`

	// LayoutIndex is the 0-based position of the failing layout in the recipe.
	// It is only meaningful when Success is false.
	LayoutIndex int `json:"layoutIndex" yaml:"layoutIndex"`

	ExpectedKind string `json:"expectedKind,omitempty" yaml:"expectedKind,omitempty"`
	ExpectedName string `json:"expectedName,omitempty" yaml:"expectedName,omitempty"`

	// ExpectedRowCount and ObservedRowCount describe the failing layout: how many
	// rows it requires and how many were read for it before the failure.
	ExpectedRowCount int `json:"expectedRowCount,omitempty" yaml:"expectedRowCount,omitempty"`
	ObservedRowCount int `json:"observedRowCount,omitempty" yaml:"observedRowCount,omitempty"`

	// Message is the human-readable failure description.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// Error carries the underlying configuration or I/O error, if any.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	Summary Summary `json:"summary" yaml:"summary"`
}

// Summary contains run statistics.
type Summary struct {
	// Layouts is the number of layouts in the recipe.
	Layouts int `json:"layouts" yaml:"layouts"`

	// Rows is the number of input lines consumed.
	Rows int `json:"rows" yaml:"rows"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Err returns nil for a successful verdict and otherwise a StructuredError
// whose code matches the failure reason.
func (v *Verdict) Err() error {
	if v == nil || v.Success {
		return nil
	}

	code := errors.ErrCodeInternal
	switch v.Reason {
	case ReasonContentMismatch, ReasonTrailingContent:
		code = errors.ErrCodeContentMismatch
	case ReasonRowShortfall:
		code = errors.ErrCodeRowShortfall
	case ReasonUnknownValidator:
		code = errors.ErrCodeUnknownValidator
	case ReasonInvalidRecipe:
		code = errors.ErrCodeInvalidRecipe
	case ReasonInputError:
		code = errors.ErrCodeNotFound
	}

	msg := v.Message
	if msg == "" {
		msg = string(v.Reason)
	}
	return errors.NewWithContext(code, msg, map[string]any{
		"runId":       v.RunID,
		"failedAtRow": v.FailedAtRow,
		"layout":      v.LayoutIndex,
	})
}

func mismatchMessage(line int, kind, name string) string {
	return fmt.Sprintf("Invalid entry at line: %d, expecting kind of: %s, Name: %s", line, kind, name)
}

func shortfallMessage(expected, found int) string {
	return fmt.Sprintf("Invalid content, expecting %d rows. Found %d rows", expected, found)
}

func trailingMessage(line, expected int) string {
	return fmt.Sprintf("Unexpected content at line: %d, recipe describes %d rows", line, expected)
}
