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

// Package header provides the common header embedded in layoutcheck documents.
//
// Recipes, verdicts and batch results share a Kubernetes-style header:
//
//	kind: Verdict
//	apiVersion: layoutcheck.nvidia.com/v1alpha1
//	metadata:
//	  timestamp: "2025-01-15T10:30:00Z"
//	  version: v1.0.0
//
// Use Init to stamp a freshly produced document:
//
//	var v validator.Verdict
//	v.Init(header.KindVerdict, validator.APIVersion, version)
package header
