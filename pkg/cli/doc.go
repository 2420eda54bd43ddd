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

// Package cli implements the layoutcheck command line.
//
// # Commands
//
//	validate  validate one input against a recipe
//	batch     validate the recipe/input pairs of a manifest concurrently
//	lint      check a recipe without input
//	kinds     list registered layout kinds and field types
//	push      publish a recipe to an OCI registry
//
// # Input Locations
//
// Recipes and manifests are read from file paths, HTTP/HTTPS URLs or
// ConfigMaps (cm://namespace/name, data key recipe.yaml/recipe.json or
// manifest.yaml/manifest.json). Recipes can also come from an OCI registry
// (oci://registry/repository:tag, see push). Inputs are file paths, URLs or
// "-" for stdin.
//
// # Output
//
// Verdicts are written as YAML (default), JSON or a flat table to stdout,
// a file (--output), or a ConfigMap (--output cm://namespace/name).
//
// # Environment
//
// Every flag can be set from the environment: LAYOUTCHECK_RECIPE,
// LAYOUTCHECK_INPUT, LAYOUTCHECK_STRICT, LAYOUTCHECK_FAIL_ON_ERROR,
// LAYOUTCHECK_OUTPUT, LAYOUTCHECK_FORMAT, LAYOUTCHECK_METRICS_FILE,
// LAYOUTCHECK_MANIFEST, LAYOUTCHECK_PARALLELISM, LAYOUTCHECK_IMAGE,
// LAYOUTCHECK_PLAIN_HTTP, LAYOUTCHECK_INSECURE_TLS, KUBECONFIG and LOG_LEVEL.
//
// # Exit Codes
//
//	0  success
//	1  validation failed or the command could not run
//	2  interrupted
package cli
