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

package recipe

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/NVIDIA/layoutcheck/pkg/header"
)

// APIVersion is the document version written into recipe and verdict headers.
const APIVersion = "layoutcheck.nvidia.com/v1alpha1"

// Recipe is the ordered list of record layouts a file must follow, top to bottom.
type Recipe struct {
	header.Header `json:",inline" yaml:",inline"`

	Layouts []Layout `json:"layouts" yaml:"layouts" validate:"dive"`
}

// Layout is one contiguous block of rows sharing a kind, name and field specs.
type Layout struct {
	// Kind selects the column-splitting strategy, e.g. "fixed" or "delimited".
	Kind string `json:"kind" yaml:"kind" validate:"required"`

	// Name is reported in failure messages.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// NumberOfRows is how many consecutive lines this layout consumes.
	NumberOfRows int `json:"numberOfRows" yaml:"numberOfRows" validate:"min=0"`

	Specs   []Specification `json:"specs,omitempty" yaml:"specs,omitempty" validate:"dive"`
	Configs Configs         `json:"configs,omitempty" yaml:"configs,omitempty" validate:"dive"`
}

// Label renders the layout for logs and messages.
func (l *Layout) Label() string {
	if l.Name == "" {
		return l.Kind
	}
	return l.Kind + "/" + l.Name
}

// Mode is the evaluation mode of a Specification.
type Mode int

const (
	// ModeFreeText requires a non-blank field.
	ModeFreeText Mode = iota
	// ModeFixedLength requires Length characters to exist at the cursor.
	ModeFixedLength
	// ModeLiteral requires Value to appear exactly at the cursor.
	ModeLiteral
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeLiteral:
		return "literal"
	case ModeFixedLength:
		return "fixed-length"
	default:
		return "free-text"
	}
}

// Specification is the rule one field must satisfy.
type Specification struct {
	// Type selects the field evaluator, e.g. "string" or "datetime".
	Type string `json:"type" yaml:"type" validate:"required"`

	// Value, when set, is the exact literal expected. An empty literal is a
	// legitimate value and differs from unset.
	Value *string `json:"value,omitempty" yaml:"value,omitempty"`

	// Format is the date/time pattern for datetime fields.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Length is the fixed width in characters; zero means unset.
	Length int `json:"length,omitempty" yaml:"length,omitempty" validate:"min=0"`
}

// Mode returns the active mode: literal wins over fixed length, which wins
// over free text.
func (s *Specification) Mode() Mode {
	switch {
	case s.Value != nil:
		return ModeLiteral
	case s.Length != 0:
		return ModeFixedLength
	default:
		return ModeFreeText
	}
}

// Literal is a convenience for building specifications in code.
func Literal(v string) *string {
	return &v
}

// KeyValue is one strategy parameter of a layout.
type KeyValue struct {
	Key   string `json:"key" yaml:"key" validate:"required"`
	Value string `json:"value" yaml:"value"`
}

// Configs holds layout parameters. Keys are case-insensitive and unique.
type Configs []KeyValue

// Get returns the value for key, matching keys case-insensitively.
func (c Configs) Get(key string) (string, bool) {
	want := foldKey(key)
	for _, kv := range c {
		if foldKey(kv.Key) == want {
			return kv.Value, true
		}
	}
	return "", false
}

// Map returns the configs keyed by folded key.
func (c Configs) Map() map[string]string {
	m := make(map[string]string, len(c))
	for _, kv := range c {
		m[foldKey(kv.Key)] = kv.Value
	}
	return m
}

func foldKey(k string) string {
	return cases.Fold().String(strings.TrimSpace(k))
}
