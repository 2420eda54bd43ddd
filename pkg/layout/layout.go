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

package layout

import (
	"log/slog"

	"github.com/NVIDIA/layoutcheck/pkg/errors"
	"github.com/NVIDIA/layoutcheck/pkg/field"
	"github.com/NVIDIA/layoutcheck/pkg/recipe"
	"github.com/NVIDIA/layoutcheck/pkg/registry"
)

// Registered layout kind names.
const (
	KindFixed     = "fixed"
	KindDelimited = "delimited"
)

// Validator checks one record line against a layout.
//
// It returns false on the first specification that fails; later specifications
// are not evaluated. An error means the layout could not be evaluated at all,
// for example an unregistered field type or an invalid split pattern.
type Validator interface {
	Validate(line string, l *recipe.Layout, fields field.Resolver) (bool, error)
}

// Resolver finds the Validator for a layout kind name.
type Resolver interface {
	Resolve(name string) (Validator, error)
}

// NewRegistry returns a layout kind registry holding the built-in strategies.
func NewRegistry() *registry.Registry[Validator] {
	r := registry.New[Validator]("layout kind")
	r.MustRegister(KindFixed, FixedValidator{}, "ssistestengine.FixedLayoutValidator")
	r.MustRegister(KindDelimited, DelimitedValidator{}, "regex", "csv", "ssistestengine.RegexLayoutValidator")
	return r
}

// Outcome classifies one row.
type Outcome int

const (
	// OutcomeMismatch means the line is present and failed a specification.
	OutcomeMismatch Outcome = iota
	// OutcomeValid means the line is present and passed every specification.
	OutcomeValid
	// OutcomeMissing means the input ended before this row.
	OutcomeMissing
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "valid"
	case OutcomeMissing:
		return "missing"
	default:
		return "mismatch"
	}
}

// Check classifies one row of layout l. present is false when the input is
// exhausted. The kind and every spec type are resolved before the line is
// looked at, so an unregistered name is reported even when the input ran out.
func Check(line string, present bool, l *recipe.Layout, layouts Resolver, fields field.Resolver) (Outcome, error) {
	if l == nil {
		return OutcomeMismatch, errors.New(errors.ErrCodeInvalidRecipe, "layout is nil")
	}

	v, err := layouts.Resolve(l.Kind)
	if err != nil {
		return OutcomeMismatch, err
	}

	if !present {
		for i := range l.Specs {
			if _, err := fields.Resolve(l.Specs[i].Type); err != nil {
				return OutcomeMismatch, err
			}
		}
		return OutcomeMissing, nil
	}

	ok, err := v.Validate(line, l, fields)
	if err != nil {
		return OutcomeMismatch, err
	}
	if !ok {
		return OutcomeMismatch, nil
	}
	return OutcomeValid, nil
}

func requireSpecs(l *recipe.Layout) error {
	if len(l.Specs) == 0 {
		return errors.NewWithContext(errors.ErrCodeInvalidRecipe, "layout has no specs",
			map[string]any{"kind": l.Kind, "name": l.Name})
	}
	return nil
}

func logFailure(l *recipe.Layout, index int, spec *recipe.Specification, text string) {
	slog.Debug("field specification failed",
		"layout", l.Label(),
		"spec", index,
		"type", spec.Type,
		"mode", spec.Mode().String(),
		"text", text)
}
