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

package api

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/NVIDIA/layoutcheck/pkg/logging"
	"github.com/NVIDIA/layoutcheck/pkg/server"
	"github.com/NVIDIA/layoutcheck/pkg/validator"
)

const (
	name           = "layoutcheckd"
	versionDefault = "dev"

	// strictEnv enables strict mode for every request unless the request overrides it.
	strictEnv = "LAYOUTCHECK_STRICT"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/layoutcheck/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Routes returns the API handlers served by layoutcheckd.
func Routes(v *validator.Validator) map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/validate": v.HandleValidate,
		"/v1/kinds":    v.HandleKinds,
	}
}

// Serve starts the API server and blocks until shutdown.
func Serve() error {
	ctx := context.Background()

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	strict, _ := strconv.ParseBool(os.Getenv(strictEnv))
	v := validator.New(
		validator.WithVersion(version),
		validator.WithStrict(strict),
	)

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(Routes(v)),
		server.WithReadinessCheck("registries", v.Ready),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}
