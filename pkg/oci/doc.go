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

// Package oci publishes and fetches recipes as OCI artifacts.
//
// A recipe artifact is an OCI 1.1 image manifest with artifact type
// "application/vnd.nvidia.layoutcheck.recipe" and a single layer holding the
// recipe document, typed application/vnd.nvidia.layoutcheck.recipe.v1+yaml or
// +json. Consumers that do not understand the type should treat the artifact
// as an opaque blob.
//
// # References
//
// Recipes are addressed as oci://registry/repository[:tag]. The tag defaults
// to "latest". Digest references are rejected.
//
//	ref, err := oci.ParseReference("oci://ghcr.io/nvidia/recipes:v1")
//
// # Usage
//
//	res, err := oci.Push(ctx, ref, data, oci.PushOptions{Title: "recipe.yaml"})
//
//	art, err := oci.Pull(ctx, ref, oci.PullOptions{})
//	// art.Data holds the recipe document, art.Format() its encoding
//
// PushTo and PullFrom work against any oras target, which is how the package
// is tested with an in-memory store.
//
// # Authentication
//
// Credentials come from the standard Docker configuration
// (~/.docker/config.json) and its credential helpers. Without them access is
// anonymous. PlainHTTP and InsecureTLS support local development registries.
package oci
