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
	"log/slog"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"

	"github.com/NVIDIA/layoutcheck/pkg/defaults"
	"github.com/NVIDIA/layoutcheck/pkg/errors"
)

const (
	// ArtifactType is the artifact type of a recipe manifest.
	ArtifactType = "application/vnd.nvidia.layoutcheck.recipe"

	// MediaTypeRecipeYAML is the layer media type of a YAML recipe.
	MediaTypeRecipeYAML = "application/vnd.nvidia.layoutcheck.recipe.v1+yaml"

	// MediaTypeRecipeJSON is the layer media type of a JSON recipe.
	MediaTypeRecipeJSON = "application/vnd.nvidia.layoutcheck.recipe.v1+json"
)

// PushOptions configures publishing a recipe.
type PushOptions struct {
	// MediaType of the recipe layer. Defaults to MediaTypeRecipeYAML.
	MediaType string
	// Title is recorded as the layer title (e.g., "recipe.yaml").
	Title string
	// Annotations are added to the manifest.
	Annotations map[string]string
	// Created, when set, pins the manifest creation annotation for reproducible digests.
	Created string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PushResult describes a published recipe.
type PushResult struct {
	// Digest is the manifest digest.
	Digest string
	// Reference is the oci:// reference that was tagged.
	Reference string
	// Size is the recipe layer size in bytes.
	Size int64
}

// Push publishes a serialized recipe to the registry named by ref.
func Push(ctx context.Context, ref *Reference, data []byte, opts PushOptions) (*PushResult, error) {
	if ref == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "OCI reference is required")
	}

	repo, err := newRepository(ref, opts.PlainHTTP, opts.InsecureTLS)
	if err != nil {
		return nil, err
	}

	pushCtx, cancel := context.WithTimeout(ctx, defaults.OCIPushTimeout)
	defer cancel()

	res, err := PushTo(pushCtx, repo, ref.Tag, data, opts)
	if err != nil {
		return nil, err
	}
	res.Reference = ref.String()

	slog.Info("recipe pushed",
		"reference", res.Reference,
		"digest", res.Digest,
		"size", res.Size)

	return res, nil
}

// PushTo stores data as a single-layer recipe artifact in target and tags it.
// Any oras.Target works: a remote repository, an OCI layout or a memory store.
func PushTo(ctx context.Context, target oras.Target, tag string, data []byte, opts PushOptions) (*PushResult, error) {
	if tag == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "tag is required to push a recipe")
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "recipe content is empty")
	}

	mediaType := opts.MediaType
	if mediaType == "" {
		mediaType = MediaTypeRecipeYAML
	}
	if !isRecipeMediaType(mediaType) {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"unsupported recipe media type", map[string]any{"mediaType": mediaType})
	}

	layer, err := oras.PushBytes(ctx, target, mediaType, data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to push recipe layer", err)
	}
	if opts.Title != "" {
		layer.Annotations = map[string]string{ociv1.AnnotationTitle: opts.Title}
	}

	annotations := make(map[string]string, len(opts.Annotations)+1)
	for k, v := range opts.Annotations {
		annotations[k] = v
	}
	if opts.Created != "" {
		annotations[ociv1.AnnotationCreated] = opts.Created
	}

	manifest, err := oras.PackManifest(ctx, target, oras.PackManifestVersion1_1, ArtifactType,
		oras.PackManifestOptions{
			Layers:              []ociv1.Descriptor{layer},
			ManifestAnnotations: annotations,
		})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to pack recipe manifest", err)
	}

	if err := target.Tag(ctx, manifest, tag); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to tag recipe manifest", err,
			map[string]any{"tag": tag})
	}

	return &PushResult{
		Digest: manifest.Digest.String(),
		Size:   layer.Size,
	}, nil
}

func isRecipeMediaType(mt string) bool {
	return mt == MediaTypeRecipeYAML || mt == MediaTypeRecipeJSON
}
