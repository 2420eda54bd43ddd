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

// Package api wires the validator into the HTTP server for layoutcheckd.
//
// # Usage
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Endpoints
//
// Application endpoints (rate limited):
//   - POST /v1/validate - validate content against a recipe, returns a Verdict
//   - GET /v1/kinds     - registered layout kinds and field types
//
// System endpoints (see pkg/server):
//   - GET /health, GET /ready, GET /metrics
//
// # Request
//
//	curl -s -X POST localhost:8080/v1/validate \
//	  -H 'Content-Type: application/json' \
//	  -d '{"recipe": [{"kind": "fixed", "numberOfRows": 1,
//	       "specs": [{"type": "string", "value": "HDR"}]}],
//	       "content": "HDR20240101\n"}'
//
// The recipe may be the bare list of layouts or a full Recipe document.
// YAML bodies are accepted with Content-Type application/x-yaml. A failed
// validation is a 200 response whose Verdict has success=false.
//
// # Environment
//
//   - PORT, SHUTDOWN_TIMEOUT_SECONDS, RATE_LIMIT, RATE_LIMIT_BURST: see pkg/server
//   - LAYOUTCHECK_STRICT: reject trailing content by default
//   - LOG_LEVEL: debug, info, warn or error
package api
