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
	"fmt"
	"regexp"
	"strings"

	"github.com/distribution/reference"

	"github.com/NVIDIA/layoutcheck/pkg/errors"
)

// URIScheme is the URI scheme for recipes stored in an OCI registry
// (e.g., "oci://ghcr.io/org/recipes:v1").
const URIScheme = "oci://"

// DefaultTag is applied when a reference carries no tag.
const DefaultTag = "latest"

// repositoryPattern matches lowercase OCI repository paths.
var repositoryPattern = regexp.MustCompile(`^[a-z0-9]+(?:[._-][a-z0-9]+)*(?:/[a-z0-9]+(?:[._-][a-z0-9]+)*)*$`)

// Reference is a parsed oci:// recipe location.
type Reference struct {
	// Registry is the registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the repository path (e.g., "nvidia/recipes").
	Repository string
	// Tag is the artifact tag. Never empty after ParseReference.
	Tag string
}

// IsReference reports whether uri uses the oci:// scheme.
func IsReference(uri string) bool {
	return strings.HasPrefix(uri, URIScheme)
}

// ParseReference parses an oci://registry/repository[:tag] URI.
// A missing tag defaults to DefaultTag; digests are not accepted.
func ParseReference(uri string) (*Reference, error) {
	if !IsReference(uri) {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"OCI reference must use the "+URIScheme+" scheme", map[string]any{"uri": uri})
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(uri, URIScheme))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}
	if _, ok := ref.(reference.Digested); ok {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"digest references are not supported, use a tag", map[string]any{"uri": uri})
	}

	tag := DefaultTag
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	registry := reference.Domain(ref)
	repository := reference.Path(ref)
	if err := ValidateRegistryReference(registry, repository); err != nil {
		return nil, err
	}

	return &Reference{
		Registry:   registry,
		Repository: repository,
		Tag:        tag,
	}, nil
}

// ValidateRegistryReference checks the registry host and repository path.
func ValidateRegistryReference(registry, repository string) error {
	if registry == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "registry is required")
	}
	if strings.Contains(registry, "://") {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"registry must not include a protocol", map[string]any{"registry": registry})
	}
	if !repositoryPattern.MatchString(repository) {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"invalid repository path", map[string]any{"repository": repository})
	}
	return nil
}

// String returns the oci:// form of the reference.
func (r *Reference) String() string {
	return URIScheme + r.ImageReference()
}

// ImageReference returns registry/repository:tag without the scheme.
func (r *Reference) ImageReference() string {
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// Name returns registry/repository, the form the registry client expects.
func (r *Reference) Name() string {
	return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
}

// WithTag returns a copy of the reference with the given tag.
func (r *Reference) WithTag(tag string) *Reference {
	return &Reference{
		Registry:   r.Registry,
		Repository: r.Repository,
		Tag:        tag,
	}
}
