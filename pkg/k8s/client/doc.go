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

// Package client builds the Kubernetes clientset layoutcheck uses for
// cm://namespace/name recipe sources and ConfigMap verdict output.
//
// GetKubeClient caches one clientset per process. BuildKubeClient and
// GetKubeClientWithConfig with a non-empty path always build a fresh one.
// Errors are classified with pkg/errors codes so callers can tell a missing
// ConfigMap (NOT_FOUND) from a broken kubeconfig (INVALID_REQUEST) or an
// unreachable cluster (SERVICE_UNAVAILABLE).
package client
