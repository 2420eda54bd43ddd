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

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/layoutcheck/pkg/header"
	"github.com/NVIDIA/layoutcheck/pkg/oci"
	"github.com/NVIDIA/layoutcheck/pkg/recipe"
	"github.com/NVIDIA/layoutcheck/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{"yaml", "yaml", serializer.FormatYAML, false},
		{"json", "json", serializer.FormatJSON, false},
		{"table", "table", serializer.FormatTable, false},
		{"case and space insensitive", " JSON ", serializer.FormatJSON, false},
		{"xml", "xml", "", true},
		{"csv", "csv", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: tt.format,
					},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if (err != nil) != tt.wantErr {
						t.Errorf("parseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if !tt.wantErr && got != tt.wantFormat {
						t.Errorf("parseOutputFormat() = %v, want %v", got, tt.wantFormat)
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), []string{"test"}); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New("boom"), exitError},
		{context.Canceled, exitCanceled},
		{fmt.Errorf("validation of %q could not complete: %w", "in.txt", context.Canceled), exitCanceled},
	}

	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseAnnotations(t *testing.T) {
	got, err := parseAnnotations([]string{"team=payments", " owner =etl=ops", "empty="})
	if err != nil {
		t.Fatalf("parseAnnotations() error = %v", err)
	}
	want := map[string]string{"team": "payments", "owner": "etl=ops", "empty": ""}
	if len(got) != len(want) {
		t.Fatalf("parseAnnotations() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("annotation %q = %q, want %q", k, got[k], v)
		}
	}

	for _, bad := range []string{"novalue", "=value", " =x"} {
		if _, err := parseAnnotations([]string{bad}); err == nil {
			t.Errorf("parseAnnotations(%q) expected error", bad)
		}
	}
}

func TestRecipeMediaType(t *testing.T) {
	tests := []struct {
		format  serializer.Format
		want    string
		wantErr bool
	}{
		{serializer.FormatYAML, oci.MediaTypeRecipeYAML, false},
		{serializer.FormatJSON, oci.MediaTypeRecipeJSON, false},
		{serializer.FormatTable, "", true},
	}
	for _, tt := range tests {
		got, err := recipeMediaType(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("recipeMediaType(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("recipeMediaType(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestEncodeRecipe(t *testing.T) {
	rec := &recipe.Recipe{
		Layouts: []recipe.Layout{{
			Kind:         "fixed",
			Name:         "header",
			NumberOfRows: 1,
			Specs:        []recipe.Specification{{Type: "string", Value: recipe.Literal("HDR")}},
		}},
	}

	for _, format := range []serializer.Format{serializer.FormatYAML, serializer.FormatJSON} {
		data, err := encodeRecipe(context.Background(), rec, format)
		if err != nil {
			t.Fatalf("encodeRecipe(%s) error = %v", format, err)
		}

		r, err := serializer.NewReader(format, bytes.NewReader(data))
		if err != nil {
			t.Fatalf("NewReader() error = %v", err)
		}
		var got recipe.Recipe
		if err := r.Deserialize(&got); err != nil {
			t.Fatalf("Deserialize(%s) error = %v", format, err)
		}
		if got.Kind != header.KindRecipe {
			t.Errorf("%s kind = %q, want %q", format, got.Kind, header.KindRecipe)
		}
		if len(got.Layouts) != 1 || got.Layouts[0].Specs[0].Value == nil || *got.Layouts[0].Specs[0].Value != "HDR" {
			t.Errorf("%s layouts did not survive encoding: %+v", format, got.Layouts)
		}
	}
}
