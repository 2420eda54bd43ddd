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
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/NVIDIA/layoutcheck/pkg/errors"
	"github.com/NVIDIA/layoutcheck/pkg/oci"
	"github.com/NVIDIA/layoutcheck/pkg/serializer"
)

// ConfigMapKey is the ConfigMap data key prefix recipes are stored under
// (recipe.yaml or recipe.json).
const ConfigMapKey = "recipe"

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	pull oci.PullOptions
}

// WithPlainHTTP talks to OCI registries over plain HTTP.
func WithPlainHTTP(plain bool) LoadOption {
	return func(c *loadConfig) {
		c.pull.PlainHTTP = plain
	}
}

// WithInsecureTLS skips certificate verification for OCI registries.
func WithInsecureTLS(insecure bool) LoadOption {
	return func(c *loadConfig) {
		c.pull.InsecureTLS = insecure
	}
}

// Load reads a recipe from a file path, HTTP(S) URL, cm://namespace/name or
// oci://registry/repository:tag and validates its structure. kubeconfig is
// only used for ConfigMap URIs.
func Load(ctx context.Context, uri, kubeconfig string, opts ...LoadOption) (*Recipe, error) {
	start := time.Now()
	source := sourceOf(uri)
	defer func() {
		recipeLoadDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	}()

	rec, err := Fetch(ctx, uri, kubeconfig, opts...)
	if err != nil {
		return nil, err
	}

	if err := rec.Validate(); err != nil {
		recipeLoadErrors.WithLabelValues(source, "invalid").Inc()
		return nil, err
	}

	slog.Debug("recipe loaded",
		"uri", uri,
		"layouts", len(rec.Layouts),
		"rows", rec.ExpectedRows())

	return rec, nil
}

// Fetch reads and decodes a recipe from the same locations as Load without
// validating its structure.
func Fetch(ctx context.Context, uri, kubeconfig string, opts ...LoadOption) (*Recipe, error) {
	if uri == "" {
		recipeLoadErrors.WithLabelValues(sourceFile, "invalid").Inc()
		return nil, errors.New(errors.ErrCodeInvalidRequest, "recipe location is required")
	}

	cfg := &loadConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var (
		rec *Recipe
		err error
	)
	if oci.IsReference(uri) {
		rec, err = fromRegistry(ctx, uri, cfg.pull)
	} else {
		rec, err = serializer.FromFile[Recipe](ctx, uri, kubeconfig, ConfigMapKey)
	}
	if err != nil {
		recipeLoadErrors.WithLabelValues(sourceOf(uri), "read").Inc()
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRecipe, "failed to load recipe", err,
			map[string]any{"uri": uri})
	}
	return rec, nil
}

func fromRegistry(ctx context.Context, uri string, opts oci.PullOptions) (*Recipe, error) {
	ref, err := oci.ParseReference(uri)
	if err != nil {
		return nil, err
	}

	art, err := oci.Pull(ctx, ref, opts)
	if err != nil {
		return nil, err
	}
	return decodeArtifact(art)
}

func decodeArtifact(art *oci.Artifact) (*Recipe, error) {
	r, err := serializer.NewReader(serializer.Format(art.Format()), bytes.NewReader(art.Data))
	if err != nil {
		return nil, err
	}

	var rec Recipe
	if err := r.Deserialize(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ExpectedRows is the total number of lines the recipe consumes.
func (r *Recipe) ExpectedRows() int {
	n := 0
	for i := range r.Layouts {
		n += r.Layouts[i].NumberOfRows
	}
	return n
}
