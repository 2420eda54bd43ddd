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

// Package defaults holds the timeouts and size limits shared by the CLI,
// the API server and the recipe sources.
//
// Values are grouped by consumer: the validation engine and batch runner,
// the HTTP server, outbound HTTP fetches of recipes and inputs, ConfigMap
// reads and writes, and OCI registry pulls and pushes. Callers use the
// constants directly, for example
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.OCIPullTimeout)
//	defer cancel()
package defaults
