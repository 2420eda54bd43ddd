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

// Package logging configures log/slog for the layoutcheck binaries.
//
// Records are JSON on stderr and always carry the emitting binary ("module")
// and its version, so CLI runs and layoutcheckd requests can be told apart
// when logs are aggregated:
//
//	{"time":"2025-01-15T10:30:00Z","level":"INFO","msg":"validation completed",
//	 "module":"layoutcheck","version":"v0.3.0","success":false,
//	 "reason":"content_mismatch","failedAtRow":42}
//
// At debug level records also include the source location.
//
// # Levels
//
// debug, info (default), warn or warning, and error, case-insensitive. The
// level comes from the --log-level flag or the LOG_LEVEL environment variable:
//
//	LOG_LEVEL=debug layoutcheck validate -r recipe.yaml -i out.txt
//
// # Usage
//
//	logging.SetDefaultStructuredLogger("layoutcheckd", version)
//	slog.Info("server started", "port", 8080)
//
// NewLogLogger adapts the default handler for APIs that want a *log.Logger,
// such as http.Server.ErrorLog.
package logging
