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

	"github.com/NVIDIA/layoutcheck/pkg/recipe"
)

// Issue is one problem Lint found in a recipe.
type Issue struct {
	// Layout is the 0-based layout position, or -1 for recipe-wide problems.
	Layout int `json:"layout" yaml:"layout"`

	// Spec is the 0-based spec position within the layout, or -1.
	Spec int `json:"spec" yaml:"spec"`

	Message string `json:"message" yaml:"message"`
}

// String renders the issue with its position.
func (i Issue) String() string {
	switch {
	case i.Layout < 0:
		return i.Message
	case i.Spec < 0:
		return fmt.Sprintf("layouts[%d]: %s", i.Layout, i.Message)
	default:
		return fmt.Sprintf("layouts[%d].specs[%d]: %s", i.Layout, i.Spec, i.Message)
	}
}

// Lint checks rec without any input: its structure, and that every layout kind
// and field type resolves in this Validator's registries. It reports every
// problem rather than the first one.
func (v *Validator) Lint(rec *recipe.Recipe) []Issue {
	if rec == nil {
		return []Issue{{Layout: -1, Spec: -1, Message: "recipe cannot be nil"}}
	}

	var issues []Issue
	if err := rec.Validate(); err != nil {
		issues = append(issues, Issue{Layout: -1, Spec: -1, Message: err.Error()})
	} else if err := rec.CheckVersion(v.Version); err != nil {
		issues = append(issues, Issue{Layout: -1, Spec: -1, Message: err.Error()})
	}

	for li := range rec.Layouts {
		l := &rec.Layouts[li]
		if l.Kind != "" {
			if _, err := v.layouts.Resolve(l.Kind); err != nil {
				issues = append(issues, Issue{Layout: li, Spec: -1, Message: err.Error()})
			}
		}
		for si := range l.Specs {
			t := l.Specs[si].Type
			if t == "" {
				continue
			}
			if _, err := v.fields.Resolve(t); err != nil {
				issues = append(issues, Issue{Layout: li, Spec: si, Message: err.Error()})
			}
		}
	}
	return issues
}
