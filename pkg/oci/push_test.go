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

package oci

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/memory"

	"github.com/NVIDIA/layoutcheck/pkg/errors"
)

const testRecipe = `kind: Recipe
apiVersion: layoutcheck.nvidia.com/v1alpha1
layouts:
  - kind: fixed
    name: header
    numberOfRows: 1
    specs:
      - type: string
        value: HDR
`

func TestPushTo_PullFrom(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	res, err := PushTo(ctx, store, "v1", []byte(testRecipe), PushOptions{
		Title:       "recipe.yaml",
		Annotations: map[string]string{ociv1.AnnotationVersion: "v1"},
	})
	if err != nil {
		t.Fatalf("PushTo() error = %v", err)
	}
	if res.Digest == "" {
		t.Error("PushTo() returned empty digest")
	}
	if res.Size != int64(len(testRecipe)) {
		t.Errorf("Size = %d, want %d", res.Size, len(testRecipe))
	}

	art, err := PullFrom(ctx, store, "v1", PullOptions{})
	if err != nil {
		t.Fatalf("PullFrom() error = %v", err)
	}
	if string(art.Data) != testRecipe {
		t.Errorf("Data = %q, want %q", art.Data, testRecipe)
	}
	if art.Digest != res.Digest {
		t.Errorf("Digest = %q, want %q", art.Digest, res.Digest)
	}
	if art.MediaType != MediaTypeRecipeYAML {
		t.Errorf("MediaType = %q, want %q", art.MediaType, MediaTypeRecipeYAML)
	}
	if art.Format() != "yaml" {
		t.Errorf("Format() = %q, want yaml", art.Format())
	}
}

func TestPushTo_ManifestStructure(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	_, err := PushTo(ctx, store, "v1", []byte(`{"layouts":[]}`), PushOptions{
		MediaType: MediaTypeRecipeJSON,
		Title:     "recipe.json",
		Created:   "2024-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("PushTo() error = %v", err)
	}

	desc, err := store.Resolve(ctx, "v1")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	raw, err := content.FetchAll(ctx, store, desc)
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	var manifest ociv1.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		t.Fatalf("failed to unmarshal manifest: %v", err)
	}
	if manifest.ArtifactType != ArtifactType {
		t.Errorf("ArtifactType = %q, want %q", manifest.ArtifactType, ArtifactType)
	}
	if len(manifest.Layers) != 1 {
		t.Fatalf("manifest has %d layers, want 1", len(manifest.Layers))
	}
	layer := manifest.Layers[0]
	if layer.MediaType != MediaTypeRecipeJSON {
		t.Errorf("layer MediaType = %q, want %q", layer.MediaType, MediaTypeRecipeJSON)
	}
	if layer.Annotations[ociv1.AnnotationTitle] != "recipe.json" {
		t.Errorf("layer title = %q, want recipe.json", layer.Annotations[ociv1.AnnotationTitle])
	}
	if manifest.Annotations[ociv1.AnnotationCreated] != "2024-01-01T00:00:00Z" {
		t.Errorf("created annotation = %q", manifest.Annotations[ociv1.AnnotationCreated])
	}
}

func TestPushTo_Reproducible(t *testing.T) {
	ctx := context.Background()
	opts := PushOptions{Created: "2024-01-01T00:00:00Z"}

	var digests []string
	for i := 0; i < 2; i++ {
		res, err := PushTo(ctx, memory.New(), "v1", []byte(testRecipe), opts)
		if err != nil {
			t.Fatalf("PushTo() run %d error = %v", i, err)
		}
		digests = append(digests, res.Digest)
	}
	if digests[0] != digests[1] {
		t.Errorf("digests differ with pinned created time: %s != %s", digests[0], digests[1])
	}
}

func TestPushTo_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		tag  string
		data []byte
		opts PushOptions
	}{
		{"empty tag", "", []byte(testRecipe), PushOptions{}},
		{"empty content", "v1", nil, PushOptions{}},
		{"foreign media type", "v1", []byte(testRecipe), PushOptions{MediaType: "text/plain"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PushTo(ctx, memory.New(), tt.tag, tt.data, tt.opts)
			if !errors.IsCode(err, errors.ErrCodeInvalidRequest) {
				t.Errorf("PushTo() error = %v, want %s", err, errors.ErrCodeInvalidRequest)
			}
		})
	}
}

func TestPullFrom_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown tag", func(t *testing.T) {
		_, err := PullFrom(ctx, memory.New(), "missing", PullOptions{})
		if !errors.IsCode(err, errors.ErrCodeNotFound) {
			t.Errorf("PullFrom() error = %v, want %s", err, errors.ErrCodeNotFound)
		}
	})

	t.Run("foreign artifact type", func(t *testing.T) {
		store := memory.New()
		layer, err := oras.PushBytes(ctx, store, MediaTypeRecipeYAML, []byte(testRecipe))
		if err != nil {
			t.Fatalf("PushBytes() error = %v", err)
		}
		manifest, err := oras.PackManifest(ctx, store, oras.PackManifestVersion1_1,
			"application/vnd.example.other", oras.PackManifestOptions{Layers: []ociv1.Descriptor{layer}})
		if err != nil {
			t.Fatalf("PackManifest() error = %v", err)
		}
		if err := store.Tag(ctx, manifest, "v1"); err != nil {
			t.Fatalf("Tag() error = %v", err)
		}

		_, err = PullFrom(ctx, store, "v1", PullOptions{})
		if !errors.IsCode(err, errors.ErrCodeInvalidRecipe) {
			t.Errorf("PullFrom() error = %v, want %s", err, errors.ErrCodeInvalidRecipe)
		}
	})

	t.Run("no recipe layer", func(t *testing.T) {
		store := memory.New()
		layer, err := oras.PushBytes(ctx, store, "text/plain", []byte("hello"))
		if err != nil {
			t.Fatalf("PushBytes() error = %v", err)
		}
		manifest, err := oras.PackManifest(ctx, store, oras.PackManifestVersion1_1,
			ArtifactType, oras.PackManifestOptions{Layers: []ociv1.Descriptor{layer}})
		if err != nil {
			t.Fatalf("PackManifest() error = %v", err)
		}
		if err := store.Tag(ctx, manifest, "v1"); err != nil {
			t.Fatalf("Tag() error = %v", err)
		}

		_, err = PullFrom(ctx, store, "v1", PullOptions{})
		if !errors.IsCode(err, errors.ErrCodeInvalidRecipe) {
			t.Errorf("PullFrom() error = %v, want %s", err, errors.ErrCodeInvalidRecipe)
		}
	})

	t.Run("layer over limit", func(t *testing.T) {
		store := memory.New()
		big := []byte(testRecipe + "# " + strings.Repeat("x", 4096) + "\n")
		if _, err := PushTo(ctx, store, "v1", big, PushOptions{}); err != nil {
			t.Fatalf("PushTo() error = %v", err)
		}
		// large enough for the manifest, too small for the layer
		_, err := PullFrom(ctx, store, "v1", PullOptions{MaxBytes: 2048})
		if !errors.IsCode(err, errors.ErrCodeInvalidRecipe) {
			t.Errorf("PullFrom() error = %v, want %s", err, errors.ErrCodeInvalidRecipe)
		}
	})
}

func TestPush_NilReference(t *testing.T) {
	if _, err := Push(context.Background(), nil, []byte(testRecipe), PushOptions{}); err == nil {
		t.Error("Push() expected error for nil reference")
	}
	if _, err := Pull(context.Background(), nil, PullOptions{}); err == nil {
		t.Error("Pull() expected error for nil reference")
	}
}

func TestNewAuthClient(t *testing.T) {
	tests := []struct {
		name        string
		plainHTTP   bool
		insecureTLS bool
		wantSkip    bool
	}{
		{"secure", false, false, false},
		{"insecure TLS", false, true, true},
		{"plain HTTP ignores TLS flag", true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newAuthClient(tt.plainHTTP, tt.insecureTLS)
			if c.Client == nil {
				t.Fatal("client has no HTTP client")
			}
			tr, ok := c.Client.Transport.(*http.Transport)
			if !ok {
				t.Fatalf("transport is %T, want *http.Transport", c.Client.Transport)
			}
			skip := tr.TLSClientConfig != nil && tr.TLSClientConfig.InsecureSkipVerify
			if skip != tt.wantSkip {
				t.Errorf("InsecureSkipVerify = %v, want %v", skip, tt.wantSkip)
			}
		})
	}
}
