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

package defaults

import "time"

// Validation limits.
const (
	// MaxLineBytes is the longest input line the line source accepts.
	MaxLineBytes = 1 << 20

	// ValidateHandlerTimeout bounds a single validation request to the API server.
	ValidateHandlerTimeout = 30 * time.Second

	// MaxRequestBodyBytes bounds the body of a validation request.
	MaxRequestBodyBytes = 32 << 20

	// BatchParallelism is the default number of concurrent runs in batch mode.
	BatchParallelism = 4

	// ProgressLogInterval throttles debug progress logging during a walk.
	ProgressLogInterval = 2 * time.Second

	// PatternCacheSize bounds the compiled split and date pattern caches.
	PatternCacheSize = 256
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPExpectContinueTimeout is the timeout for Expect: 100-continue.
	HTTPExpectContinueTimeout = 1 * time.Second
)

// ConfigMap timeouts for Kubernetes ConfigMap operations.
const (
	// ConfigMapReadTimeout is the timeout for reading recipes from ConfigMaps.
	ConfigMapReadTimeout = 15 * time.Second

	// ConfigMapWriteTimeout is the timeout for writing verdicts to ConfigMaps.
	ConfigMapWriteTimeout = 30 * time.Second
)

// OCI registry limits for recipe artifacts.
const (
	// OCIPullTimeout bounds fetching a recipe artifact from a registry.
	OCIPullTimeout = 30 * time.Second

	// OCIPushTimeout bounds publishing a recipe artifact to a registry.
	OCIPushTimeout = 60 * time.Second

	// MaxRecipeArtifactBytes bounds the manifest and recipe layer of a pulled artifact.
	MaxRecipeArtifactBytes = 4 << 20
)
