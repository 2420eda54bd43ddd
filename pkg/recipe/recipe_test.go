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
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/layoutcheck/pkg/errors"
	"github.com/NVIDIA/layoutcheck/pkg/header"
	"github.com/NVIDIA/layoutcheck/pkg/oci"
)

const sequenceYAML = `
- Kind: fixed
  Name: header
  NumberOfRows: 1
  Specs:
    - Type: string
      Value: HDR
    - Type: datetime
      Format: yyyyMMdd
- kind: delimited
  name: detail
  numberofrows: 2
  configs:
    - key: Delimiter
      value: "|"
  specs:
    - type: string
      length: 3
    - type: string
`

func TestRecipe_UnmarshalYAML_Sequence(t *testing.T) {
	var r Recipe
	require.NoError(t, yaml.Unmarshal([]byte(sequenceYAML), &r))
	require.Len(t, r.Layouts, 2)

	hdr := r.Layouts[0]
	assert.Equal(t, "fixed", hdr.Kind)
	assert.Equal(t, "header", hdr.Name)
	assert.Equal(t, 1, hdr.NumberOfRows)
	require.Len(t, hdr.Specs, 2)
	require.NotNil(t, hdr.Specs[0].Value)
	assert.Equal(t, "HDR", *hdr.Specs[0].Value)
	assert.Equal(t, "yyyyMMdd", hdr.Specs[1].Format)

	dtl := r.Layouts[1]
	assert.Equal(t, 2, dtl.NumberOfRows)
	v, ok := dtl.Configs.Get("DELIMITER")
	assert.True(t, ok)
	assert.Equal(t, "|", v)
	assert.Equal(t, 3, dtl.Specs[0].Length)
	assert.Nil(t, dtl.Specs[1].Value)

	assert.Equal(t, 3, r.ExpectedRows())
	assert.NoError(t, r.Validate())
}

func TestRecipe_UnmarshalYAML_Mapping(t *testing.T) {
	doc := `
kind: Recipe
apiVersion: layoutcheck.nvidia.com/v1alpha1
metadata:
  Owner: billing
layouts:
  - kind: fixed
    numberOfRows: 1
    specs:
      - type: string
        value: ""
`
	var r Recipe
	require.NoError(t, yaml.Unmarshal([]byte(doc), &r))
	assert.Equal(t, header.KindRecipe, r.Kind)
	assert.Equal(t, APIVersion, r.APIVersion)
	assert.Equal(t, "billing", r.Metadata["Owner"], "metadata keys are not normalized")
	require.Len(t, r.Layouts, 1)
	require.NotNil(t, r.Layouts[0].Specs[0].Value, "explicit empty literal must stay set")
	assert.Equal(t, "", *r.Layouts[0].Specs[0].Value)
}

func TestRecipe_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		layouts int
		wantErr bool
	}{
		{
			name:    "bare array with pascal case",
			doc:     `[{"Kind":"fixed","NumberOfRows":1,"Specs":[{"Type":"string","Value":"HDR"}]}]`,
			layouts: 1,
		},
		{
			name:    "mapping",
			doc:     `{"kind":"Recipe","layouts":[{"kind":"fixed","numberOfRows":0},{"kind":"csv","numberOfRows":0}]}`,
			layouts: 2,
		},
		{name: "empty", doc: "  ", wantErr: true},
		{name: "malformed", doc: `[{"kind":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Recipe
			err := json.Unmarshal([]byte(tt.doc), &r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, r.Layouts, tt.layouts)
		})
	}
}

func TestSpecification_Mode(t *testing.T) {
	tests := []struct {
		name string
		spec Specification
		want Mode
	}{
		{name: "value wins over length", spec: Specification{Type: "string", Value: Literal("AB"), Length: 5}, want: ModeLiteral},
		{name: "empty value is still literal", spec: Specification{Type: "string", Value: Literal("")}, want: ModeLiteral},
		{name: "length", spec: Specification{Type: "string", Length: 3}, want: ModeFixedLength},
		{name: "neither", spec: Specification{Type: "string"}, want: ModeFreeText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.Mode())
		})
	}
	assert.Equal(t, "literal", ModeLiteral.String())
	assert.Equal(t, "fixed-length", ModeFixedLength.String())
	assert.Equal(t, "free-text", ModeFreeText.String())
}

func TestConfigs(t *testing.T) {
	c := Configs{{Key: "Regex", Value: `[^|]+`}, {Key: "Delimiter", Value: "|"}}

	v, ok := c.Get("regex")
	assert.True(t, ok)
	assert.Equal(t, `[^|]+`, v)

	_, ok = c.Get("quote")
	assert.False(t, ok)

	assert.Equal(t, map[string]string{"regex": `[^|]+`, "delimiter": "|"}, c.Map())
}

func TestLayout_Label(t *testing.T) {
	assert.Equal(t, "fixed", (&Layout{Kind: "fixed"}).Label())
	assert.Equal(t, "fixed/header", (&Layout{Kind: "fixed", Name: "header"}).Label())
}

func TestRecipe_Validate(t *testing.T) {
	valid := func() Layout {
		return Layout{Kind: "fixed", NumberOfRows: 1, Specs: []Specification{{Type: "string", Value: Literal("HDR")}}}
	}

	tests := []struct {
		name    string
		recipe  *Recipe
		wantErr string
	}{
		{name: "nil recipe", recipe: nil, wantErr: "recipe cannot be nil"},
		{name: "no layouts", recipe: &Recipe{}, wantErr: "no layouts"},
		{name: "valid", recipe: &Recipe{Layouts: []Layout{valid()}}},
		{
			name:   "zero rows without specs",
			recipe: &Recipe{Layouts: []Layout{{Kind: "fixed"}}},
		},
		{
			name:    "missing kind",
			recipe:  &Recipe{Layouts: []Layout{{NumberOfRows: 1, Specs: valid().Specs}}},
			wantErr: "layouts[0].kind is required",
		},
		{
			name:    "negative rows",
			recipe:  &Recipe{Layouts: []Layout{{Kind: "fixed", NumberOfRows: -1}}},
			wantErr: "layouts[0].numberOfRows must be >= 0",
		},
		{
			name:    "rows without specs",
			recipe:  &Recipe{Layouts: []Layout{valid(), {Kind: "fixed", NumberOfRows: 2, Specs: []Specification{}}}},
			wantErr: "layouts[1].specs must not be empty",
		},
		{
			name: "datetime without format",
			recipe: &Recipe{Layouts: []Layout{{Kind: "fixed", NumberOfRows: 1, Specs: []Specification{
				{Type: "DateTime"},
			}}}},
			wantErr: "layouts[0].specs[0].format is required",
		},
		{
			name: "missing type",
			recipe: &Recipe{Layouts: []Layout{{Kind: "fixed", NumberOfRows: 1, Specs: []Specification{
				{Length: 2},
			}}}},
			wantErr: "layouts[0].specs[0].type is required",
		},
		{
			name: "negative length",
			recipe: &Recipe{Layouts: []Layout{{Kind: "fixed", NumberOfRows: 1, Specs: []Specification{
				{Type: "string", Length: -3},
			}}}},
			wantErr: "layouts[0].specs[0].length must be >= 0",
		},
		{
			name: "duplicate config keys",
			recipe: &Recipe{Layouts: []Layout{{
				Kind:         "delimited",
				NumberOfRows: 1,
				Specs:        valid().Specs,
				Configs:      Configs{{Key: "regex", Value: "a"}, {Key: "REGEX", Value: "b"}},
			}}},
			wantErr: `duplicate key "REGEX"`,
		},
		{
			name: "empty config key",
			recipe: &Recipe{Layouts: []Layout{{
				Kind:         "delimited",
				NumberOfRows: 1,
				Specs:        valid().Specs,
				Configs:      Configs{{Value: "b"}},
			}}},
			wantErr: "layouts[0].configs[0].key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.recipe.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRecipe))
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(sequenceYAML), 0o600))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"kind":"fixed","numberOfRows":1}]`), 0o600))

	ctx := context.Background()

	rec, err := Load(ctx, good, "")
	require.NoError(t, err)
	assert.Len(t, rec.Layouts, 2)

	invalid := testutil.ToFloat64(recipeLoadErrors.WithLabelValues(sourceFile, "invalid"))
	_, err = Load(ctx, bad, "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRecipe))
	assert.Equal(t, invalid+1, testutil.ToFloat64(recipeLoadErrors.WithLabelValues(sourceFile, "invalid")))

	_, err = Load(ctx, filepath.Join(dir, "missing.yaml"), "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRecipe))

	_, err = Load(ctx, "", "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))

	// Fetch decodes without structural checks
	raw, err := Fetch(ctx, bad, "")
	require.NoError(t, err)
	assert.Len(t, raw.Layouts, 1)
}

func TestLoad_OCIReference(t *testing.T) {
	ctx := context.Background()

	_, err := Load(ctx, "oci://ghcr.io/Not/Valid:v1", "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRecipe))
	assert.True(t, oci.IsReference("oci://ghcr.io/Not/Valid:v1"))
}

func TestDecodeArtifact(t *testing.T) {
	tests := []struct {
		name    string
		art     *oci.Artifact
		layouts int
		wantErr bool
	}{
		{
			name:    "yaml layer",
			art:     &oci.Artifact{MediaType: oci.MediaTypeRecipeYAML, Data: []byte(sequenceYAML)},
			layouts: 2,
		},
		{
			name:    "json layer",
			art:     &oci.Artifact{MediaType: oci.MediaTypeRecipeJSON, Data: []byte(`[{"kind":"fixed","numberOfRows":0}]`)},
			layouts: 1,
		},
		{
			name:    "malformed",
			art:     &oci.Artifact{MediaType: oci.MediaTypeRecipeJSON, Data: []byte(`{`)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := decodeArtifact(tt.art)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, rec.Layouts, tt.layouts)
		})
	}
}

func TestRecipe_CheckVersion(t *testing.T) {
	withMin := func(v string) *Recipe {
		r := &Recipe{Layouts: []Layout{{Kind: "fixed"}}}
		if v != "" {
			r.Metadata = map[string]string{MetadataMinVersion: v}
		}
		return r
	}

	tests := []struct {
		name    string
		min     string
		tool    string
		wantErr bool
	}{
		{"no constraint", "", "v0.1.0", false},
		{"satisfied", "0.3", "v0.3.2", false},
		{"newer major", "0.3", "1.0.0", false},
		{"too old", "0.4", "v0.3.9", true},
		{"dev build allowed", "9.9", "dev", false},
		{"malformed constraint", "latest", "v1.0.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := withMin(tt.min).CheckVersion(tt.tool)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRecipe))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRecipe_Validate_MinVersion(t *testing.T) {
	rec := &Recipe{Layouts: []Layout{{Kind: "fixed"}}}
	rec.Metadata = map[string]string{MetadataMinVersion: "one.two"}

	err := rec.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRecipe))

	rec.Metadata[MetadataMinVersion] = "v0.2"
	assert.NoError(t, rec.Validate())
}

func TestSourceOf(t *testing.T) {
	tests := map[string]string{
		"recipes/orders.yaml":                   sourceFile,
		"-":                                     sourceFile,
		"https://example.com/orders.yaml":       sourceHTTP,
		"http://example.com/orders.yaml":        sourceHTTP,
		"cm://checks/orders":                    sourceConfigMap,
		"oci://registry.example.com/orders:1.0": sourceOCI,
	}
	for uri, want := range tests {
		assert.Equal(t, want, sourceOf(uri), uri)
	}
}
