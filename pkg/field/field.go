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

package field

import (
	"strings"

	"github.com/NVIDIA/layoutcheck/pkg/errors"
	"github.com/NVIDIA/layoutcheck/pkg/recipe"
	"github.com/NVIDIA/layoutcheck/pkg/registry"
)

// Registered field type names.
const (
	TypeString   = "string"
	TypeDateTime = recipe.TypeDateTime
)

// Evaluator checks one field specification against text starting at offset.
//
// It returns whether the field is valid and the offset the next specification
// on the same record starts from. Implementations advance the offset by the
// width they examined whether or not the check passed.
type Evaluator interface {
	Evaluate(text string, offset int, spec *recipe.Specification) (valid bool, next int)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(text string, offset int, spec *recipe.Specification) (bool, int)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(text string, offset int, spec *recipe.Specification) (bool, int) {
	return f(text, offset, spec)
}

// Resolver finds the Evaluator for a field type name.
type Resolver interface {
	Resolve(name string) (Evaluator, error)
}

// NewRegistry returns a field type registry holding the built-in evaluators.
func NewRegistry() *registry.Registry[Evaluator] {
	r := registry.New[Evaluator]("field type")
	r.MustRegister(TypeString, StringEvaluator{}, "ssistestengine.StringValidator")
	r.MustRegister(TypeDateTime, DateTimeEvaluator{}, "ssistestengine.DateTimeValidator")
	return r
}

// Evaluate resolves spec.Type and evaluates the field. An unregistered type
// returns an ErrCodeUnknownValidator error and leaves the offset unchanged.
func Evaluate(fields Resolver, text string, offset int, spec *recipe.Specification) (bool, int, error) {
	if spec == nil {
		return false, offset, errors.New(errors.ErrCodeInvalidRecipe, "field specification is nil")
	}
	ev, err := fields.Resolve(spec.Type)
	if err != nil {
		return false, offset, err
	}
	valid, next := ev.Evaluate(text, offset, spec)
	return valid, next, nil
}

// StringEvaluator implements the literal, fixed-length and free-text modes.
type StringEvaluator struct{}

// Evaluate checks text according to spec.Mode:
//   - literal: the Value appears exactly at offset; advances by len(Value)
//   - fixed length: Length characters exist from offset; advances by Length
//   - free text: text is not blank; does not advance
func (StringEvaluator) Evaluate(text string, offset int, spec *recipe.Specification) (bool, int) {
	switch spec.Mode() {
	case recipe.ModeLiteral:
		want := *spec.Value
		n := runeLen(want)
		got, ok := window(text, offset, n)
		return ok && got == want, offset + n
	case recipe.ModeFixedLength:
		_, ok := window(text, offset, spec.Length)
		return ok, offset + spec.Length
	default:
		return strings.TrimSpace(text) != "", offset
	}
}

// DateTimeEvaluator checks that the len(Format) characters at offset are
// exactly a valid date/time in the custom pattern Format.
type DateTimeEvaluator struct{}

// Evaluate advances by len(Format) whether or not the text matches. A spec
// without a format is invalid and does not advance.
func (DateTimeEvaluator) Evaluate(text string, offset int, spec *recipe.Specification) (bool, int) {
	if spec.Format == "" {
		return false, offset
	}

	n := runeLen(spec.Format)
	next := offset + n

	got, ok := window(text, offset, n)
	if !ok {
		return false, next
	}

	p, err := compileDatePattern(spec.Format)
	if err != nil {
		return false, next
	}
	return p.Match(got), next
}

// window returns the n characters of s starting at character offset, or false
// when s is too short. Widths count code points.
func window(s string, offset, n int) (string, bool) {
	if offset < 0 || n < 0 {
		return "", false
	}
	rs := []rune(s)
	if offset+n > len(rs) {
		return "", false
	}
	return string(rs[offset : offset+n]), true
}

func runeLen(s string) int {
	return len([]rune(s))
}
