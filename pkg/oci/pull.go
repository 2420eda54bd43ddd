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
	"log/slog"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"

	"github.com/NVIDIA/layoutcheck/pkg/defaults"
	"github.com/NVIDIA/layoutcheck/pkg/errors"
)

// PullOptions configures fetching a recipe.
type PullOptions struct {
	// MaxBytes bounds the manifest and the recipe layer. Defaults to
	// defaults.MaxRecipeArtifactBytes.
	MaxBytes int64
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// Artifact is a fetched recipe.
type Artifact struct {
	// Digest is the manifest digest the tag resolved to.
	Digest string
	// MediaType is the recipe layer media type.
	MediaType string
	// Data is the raw recipe document.
	Data []byte
}

// Format returns "json" for JSON recipe layers and "yaml" otherwise.
func (a *Artifact) Format() string {
	if a.MediaType == MediaTypeRecipeJSON {
		return "json"
	}
	return "yaml"
}

// Pull fetches the recipe tagged at ref.
func Pull(ctx context.Context, ref *Reference, opts PullOptions) (*Artifact, error) {
	if ref == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "OCI reference is required")
	}

	repo, err := newRepository(ref, opts.PlainHTTP, opts.InsecureTLS)
	if err != nil {
		return nil, err
	}

	pullCtx, cancel := context.WithTimeout(ctx, defaults.OCIPullTimeout)
	defer cancel()

	art, err := PullFrom(pullCtx, repo, ref.Tag, opts)
	if err != nil {
		return nil, err
	}

	slog.Debug("recipe pulled",
		"reference", ref.String(),
		"digest", art.Digest,
		"mediaType", art.MediaType,
		"size", len(art.Data))

	return art, nil
}

// PullFrom resolves tag in target and returns the recipe layer of the
// manifest it points to. The manifest must carry ArtifactType.
func PullFrom(ctx context.Context, target oras.ReadOnlyTarget, tag string, opts PullOptions) (*Artifact, error) {
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaults.MaxRecipeArtifactBytes
	}

	fetchOpts := oras.DefaultFetchBytesOptions
	fetchOpts.MaxBytes = maxBytes

	desc, raw, err := oras.FetchBytes(ctx, target, tag, fetchOpts)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeNotFound, "failed to fetch recipe manifest", err,
			map[string]any{"tag": tag})
	}
	if desc.MediaType != ociv1.MediaTypeImageManifest {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRecipe, "reference is not an image manifest",
			map[string]any{"mediaType": desc.MediaType})
	}

	var manifest ociv1.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, "failed to decode recipe manifest", err)
	}
	if manifest.ArtifactType != ArtifactType {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRecipe, "artifact is not a layoutcheck recipe",
			map[string]any{"artifactType": manifest.ArtifactType})
	}

	layer, ok := recipeLayer(manifest.Layers)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidRecipe, "recipe artifact has no recipe layer")
	}
	if layer.Size > maxBytes {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRecipe, "recipe layer exceeds size limit",
			map[string]any{"size": layer.Size, "limit": maxBytes})
	}

	data, err := content.FetchAll(ctx, target, layer)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to fetch recipe layer", err)
	}

	return &Artifact{
		Digest:    desc.Digest.String(),
		MediaType: layer.MediaType,
		Data:      data,
	}, nil
}

func recipeLayer(layers []ociv1.Descriptor) (ociv1.Descriptor, bool) {
	for _, l := range layers {
		if isRecipeMediaType(l.MediaType) {
			return l, true
		}
	}
	return ociv1.Descriptor{}, false
}
