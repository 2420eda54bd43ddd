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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/layoutcheck/pkg/defaults"
	"github.com/NVIDIA/layoutcheck/pkg/errors"
	"github.com/NVIDIA/layoutcheck/pkg/field"
	"github.com/NVIDIA/layoutcheck/pkg/header"
	"github.com/NVIDIA/layoutcheck/pkg/layout"
	"github.com/NVIDIA/layoutcheck/pkg/recipe"
	"github.com/NVIDIA/layoutcheck/pkg/source"
)

const (
	// APIVersion is the API version for verdicts and batch results.
	APIVersion = recipe.APIVersion
)

// LineSource yields input lines in order. ok is false once the input is
// exhausted; err reports a read failure.
type LineSource interface {
	Next() (line string, ok bool, err error)
}

// Validator walks a recipe over an input, one layout after another.
// A Validator holds no per-run state and may be shared between goroutines.
type Validator struct {
	// Version is the validator version (typically the CLI version).
	Version string

	// Strict fails runs that leave lines after the last layout.
	Strict bool

	// Kubeconfig is used to read recipes from ConfigMaps in batch mode.
	Kubeconfig string

	loadOpts []recipe.LoadOption
	layouts  layout.Resolver
	fields   field.Resolver
}

// Option is a functional option for configuring Validator instances.
type Option func(*Validator)

// WithVersion returns an Option that sets the Validator version string.
func WithVersion(version string) Option {
	return func(v *Validator) {
		v.Version = version
	}
}

// WithStrict returns an Option that rejects trailing lines after the last layout.
func WithStrict(strict bool) Option {
	return func(v *Validator) {
		v.Strict = strict
	}
}

// WithKubeconfig returns an Option that sets the kubeconfig for ConfigMap recipes.
func WithKubeconfig(path string) Option {
	return func(v *Validator) {
		v.Kubeconfig = path
	}
}

// WithLoadOptions passes registry options to recipe loads in batch mode.
func WithLoadOptions(opts ...recipe.LoadOption) Option {
	return func(v *Validator) {
		v.loadOpts = append(v.loadOpts, opts...)
	}
}

// WithLayoutRegistry replaces the built-in layout kinds.
func WithLayoutRegistry(r layout.Resolver) Option {
	return func(v *Validator) {
		v.layouts = r
	}
}

// WithFieldRegistry replaces the built-in field types.
func WithFieldRegistry(r field.Resolver) Option {
	return func(v *Validator) {
		v.fields = r
	}
}

// New creates a new Validator with the provided options.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	if v.layouts == nil {
		v.layouts = layout.NewRegistry()
	}
	if v.fields == nil {
		v.fields = field.NewRegistry()
	}
	return v
}

// ValidateFile opens the input at uri (path, "-" or HTTP(S) URL), validates it
// and closes it on every path.
func (v *Validator) ValidateFile(ctx context.Context, rec *recipe.Recipe, uri string) (*Verdict, error) {
	src, err := source.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			slog.Warn("failed to close input", "input", uri, "error", closeErr)
		}
	}()

	verdict, err := v.Validate(ctx, rec, src)
	if err != nil {
		return nil, err
	}
	verdict.InputSource = uri
	return verdict, nil
}

// Validate walks rec over src and returns the verdict.
//
// Every layout consumes exactly NumberOfRows lines. The walk stops at the
// first failure: a mismatching line, an input that ends early, or a kind or
// type that is not registered. All of these are reported in the Verdict.
// An error is returned only for nil arguments, read failures of src and
// context cancellation.
func (v *Validator) Validate(ctx context.Context, rec *recipe.Recipe, src LineSource) (*Verdict, error) {
	start := time.Now()

	if rec == nil {
		return nil, fmt.Errorf("recipe cannot be nil")
	}
	if src == nil {
		return nil, fmt.Errorf("line source cannot be nil")
	}
	if err := rec.CheckVersion(v.Version); err != nil {
		return nil, err
	}

	verdict := &Verdict{RunID: uuid.NewString()}
	verdict.Init(header.KindVerdict, APIVersion, v.Version)
	verdict.Summary.Layouts = len(rec.Layouts)

	log := slog.With("runId", verdict.RunID)
	progress := rate.Sometimes{Interval: defaults.ProgressLogInterval}

	row := 0
	finish := func() (*Verdict, error) {
		verdict.Summary.Rows = row
		verdict.Summary.Duration = time.Since(start)
		observe(verdict)

		log.Debug("validation completed",
			"success", verdict.Success,
			"reason", verdict.Reason,
			"failedAtRow", verdict.FailedAtRow,
			"rows", row,
			"duration", verdict.Summary.Duration)
		return verdict, nil
	}

	for li := range rec.Layouts {
		l := &rec.Layouts[li]
		consumed := 0

		for remaining := l.NumberOfRows; remaining > 0; remaining-- {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			line, present, err := src.Next()
			if err != nil {
				return nil, fmt.Errorf("failed to read input: %w", err)
			}
			if present {
				row++
				consumed++
			}

			outcome, err := layout.Check(line, present, l, v.layouts, v.fields)
			if err != nil {
				at := row
				if !present {
					at = row + 1
				}
				verdict.fail(configReason(err), at, li, l)
				verdict.ObservedRowCount = consumed
				verdict.Message = err.Error()
				verdict.Error = err.Error()
				log.Debug("layout could not be evaluated", "layout", l.Label(), "error", err)
				return finish()
			}

			switch outcome {
			case layout.OutcomeMissing:
				verdict.fail(ReasonRowShortfall, row+1, li, l)
				verdict.ObservedRowCount = consumed
				verdict.Message = shortfallMessage(l.NumberOfRows, consumed)
				return finish()
			case layout.OutcomeMismatch:
				verdict.fail(ReasonContentMismatch, row, li, l)
				verdict.ObservedRowCount = consumed
				verdict.Message = mismatchMessage(row, l.Kind, l.Name)
				return finish()
			case layout.OutcomeValid:
			}

			progress.Do(func() {
				log.Debug("validation progress", "row", row, "layout", l.Label())
			})
		}
	}

	if v.Strict {
		_, present, err := src.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		if present {
			verdict.Success = false
			verdict.Reason = ReasonTrailingContent
			verdict.FailedAtRow = row + 1
			verdict.LayoutIndex = len(rec.Layouts)
			verdict.Message = trailingMessage(row+1, row)
			return finish()
		}
	}

	verdict.Success = true
	return finish()
}

func (v *Verdict) fail(reason Reason, at, index int, l *recipe.Layout) {
	v.Success = false
	v.Reason = reason
	v.FailedAtRow = at
	v.LayoutIndex = index
	v.ExpectedKind = l.Kind
	v.ExpectedName = l.Name
	v.ExpectedRowCount = l.NumberOfRows
}

func configReason(err error) Reason {
	if errors.IsCode(err, errors.ErrCodeUnknownValidator) {
		return ReasonUnknownValidator
	}
	return ReasonInvalidRecipe
}
