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

// Package server provides the HTTP server shared by the layoutcheck API.
//
// The server carries no domain logic. Callers register handlers by path and
// the server wraps each one in the middleware chain:
//
//   - Prometheus RED metrics (layoutcheck_http_*)
//   - API version negotiation (Accept: application/vnd.nvidia.layoutcheck.v1+json)
//   - Request ID tracking (X-Request-Id, UUID)
//   - Panic recovery
//   - Token bucket rate limiting (golang.org/x/time/rate)
//   - Request body limit
//   - Debug request logging
//
// # Usage
//
//	s := server.New(
//	    server.WithName("layoutcheckd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/validate": v.HandleValidate,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// Run blocks until ctx is canceled or SIGINT/SIGTERM arrives and then shuts
// down within Config.ShutdownTimeout.
//
// # System Endpoints
//
// These are not rate limited:
//
//	GET /health   liveness, always 200
//	GET /ready    readiness, 503 until the listener is up and during shutdown
//	GET /metrics  Prometheus exposition
//
// GET / lists the registered routes unless a handler for "/" is supplied.
//
// # Configuration
//
// NewConfig reads PORT, SHUTDOWN_TIMEOUT_SECONDS, RATE_LIMIT and
// RATE_LIMIT_BURST from the environment. Invalid values are ignored.
//
// # Errors
//
// Every error response has the same shape:
//
//	{
//	  "code": "INVALID_RECIPE",
//	  "message": "invalid recipe: layouts[0].kind is required",
//	  "details": {"error": "..."},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2026-01-12T12:00:00Z",
//	  "retryable": false
//	}
//
// WriteErrorFromErr maps structured error codes to HTTP status codes; see
// HTTPStatusFromCode.
package server
