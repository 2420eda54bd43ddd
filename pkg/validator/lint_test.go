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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/layoutcheck/pkg/recipe"
)

func TestLint(t *testing.T) {
	tests := []struct {
		name   string
		recipe *recipe.Recipe
		want   []string
	}{
		{
			name:   "clean recipe",
			recipe: multiRecipe(),
		},
		{
			name:   "nil recipe",
			recipe: nil,
			want:   []string{"recipe cannot be nil"},
		},
		{
			name: "unknown kind and type are both reported",
			recipe: &recipe.Recipe{Layouts: []recipe.Layout{
				{Kind: "xml", NumberOfRows: 1, Specs: []recipe.Specification{{Type: "string"}}},
				{Kind: "fixed", NumberOfRows: 1, Specs: []recipe.Specification{{Type: "string"}, {Type: "money"}}},
			}},
			want: []string{"layouts[0]: ", "layouts[1].specs[1]: "},
		},
		{
			name: "legacy names resolve",
			recipe: &recipe.Recipe{Layouts: []recipe.Layout{{
				Kind:         "SSISTestEngine.FixedLayoutValidator",
				NumberOfRows: 1,
				Specs:        []recipe.Specification{{Type: "ssistestengine.stringvalidator"}},
			}}},
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := v.Lint(tt.recipe)
			require.Len(t, issues, len(tt.want), "issues: %v", issues)
			for i, prefix := range tt.want {
				assert.Contains(t, issues[i].String(), prefix)
			}
		})
	}
}

func TestLint_StructuralProblem(t *testing.T) {
	rec := &recipe.Recipe{Layouts: []recipe.Layout{
		{Kind: "fixed", NumberOfRows: 2},
	}}

	issues := New().Lint(rec)
	require.NotEmpty(t, issues)
	assert.Equal(t, -1, issues[0].Layout)
	assert.Equal(t, issues[0].Message, issues[0].String())
}

func TestLint_MinVersion(t *testing.T) {
	rec := &recipe.Recipe{Layouts: []recipe.Layout{
		{Kind: "fixed", NumberOfRows: 1, Specs: []recipe.Specification{{Type: "string"}}},
	}}
	rec.Metadata = map[string]string{recipe.MetadataMinVersion: "2.0"}

	issues := New(WithVersion("1.9.0")).Lint(rec)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "requires layoutcheck 2.0")

	assert.Empty(t, New(WithVersion("2.0.1")).Lint(rec))
}

func TestIssue_String(t *testing.T) {
	assert.Equal(t, "boom", Issue{Layout: -1, Spec: -1, Message: "boom"}.String())
	assert.Equal(t, "layouts[2]: boom", Issue{Layout: 2, Spec: -1, Message: "boom"}.String())
	assert.Equal(t, "layouts[2].specs[0]: boom", Issue{Layout: 2, Spec: 0, Message: "boom"}.String())
}
