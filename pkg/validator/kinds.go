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
	"errors"
)

// Kind is one registered layout kind or field type.
type Kind struct {
	Name    string   `json:"name" yaml:"name"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// Kinds lists the names a recipe may use.
type Kinds struct {
	Layouts []Kind `json:"layouts" yaml:"layouts"`
	Fields  []Kind `json:"fields" yaml:"fields"`
}

// enumerable is implemented by registries that can list their entries.
type enumerable interface {
	Names() []string
	Aliases(name string) []string
}

// Kinds returns the layout kinds and field types this Validator resolves.
// Custom resolvers that cannot enumerate their names contribute nothing.
func (v *Validator) Kinds() Kinds {
	return Kinds{
		Layouts: kindsOf(v.layouts),
		Fields:  kindsOf(v.fields),
	}
}

func kindsOf(r any) []Kind {
	e, ok := r.(enumerable)
	if !ok {
		return []Kind{}
	}
	names := e.Names()
	kinds := make([]Kind, 0, len(names))
	for _, n := range names {
		kinds = append(kinds, Kind{Name: n, Aliases: e.Aliases(n)})
	}
	return kinds
}

// Ready fails when a registry is missing or enumerably empty. It backs the
// server readiness probe.
func (v *Validator) Ready(_ context.Context) error {
	if v.layouts == nil || v.fields == nil {
		return errors.New("validator registries are not configured")
	}
	k := v.Kinds()
	if _, ok := v.layouts.(enumerable); ok && len(k.Layouts) == 0 {
		return errors.New("no layout kinds registered")
	}
	if _, ok := v.fields.(enumerable); ok && len(k.Fields) == 0 {
		return errors.New("no field types registered")
	}
	return nil
}
