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

package server

import (
	"context"
	"net/http"
	"slices"
	"time"

	lcerrors "github.com/NVIDIA/layoutcheck/pkg/errors"
	"github.com/NVIDIA/layoutcheck/pkg/serializer"
)

// readinessTimeout bounds all readiness checks of one /ready request.
const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether a dependency of the server can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// WithReadinessCheck registers a named check evaluated by /ready.
func WithReadinessCheck(name string, check ReadinessCheck) Option {
	return func(s *Server) {
		if s.checks == nil {
			s.checks = make(map[string]ReadinessCheck)
		}
		s.checks[name] = check
	}
}

// HealthResponse is the body of /health and /ready.
type HealthResponse struct {
	Status    string            `json:"status" yaml:"status"`
	Version   string            `json:"version,omitempty" yaml:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	Timestamp time.Time         `json:"timestamp" yaml:"timestamp"`
	Reason    string            `json:"reason,omitempty" yaml:"reason,omitempty"`
	Checks    map[string]string `json:"checks,omitempty" yaml:"checks,omitempty"`
}

// handleHealth is the liveness probe: the process answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	serializer.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   s.config.Version,
		Uptime:    s.uptime().String(),
		Timestamp: time.Now().UTC(),
	})
}

// handleReady is the readiness probe: the server is started and every
// registered check passes.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	resp := HealthResponse{
		Status:    "ready",
		Version:   s.config.Version,
		Timestamp: time.Now().UTC(),
	}
	if !ready {
		resp.Status = "not_ready"
		resp.Reason = "service is initializing"
		serializer.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	if failed := s.runChecks(r.Context(), &resp); failed > 0 {
		resp.Status = "not_ready"
		resp.Reason = "readiness checks failed"
		serializer.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	serializer.RespondJSON(w, http.StatusOK, resp)
}

// runChecks records each check result in resp and returns the failure count.
func (s *Server) runChecks(ctx context.Context, resp *HealthResponse) int {
	if len(s.checks) == 0 {
		return 0
	}

	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	slices.Sort(names)

	resp.Checks = make(map[string]string, len(names))
	failed := 0
	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			resp.Checks[name] = err.Error()
			failed++
			continue
		}
		resp.Checks[name] = "ok"
	}
	return failed
}

func (s *Server) uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.started.IsZero() {
		return 0
	}
	return time.Since(s.started).Truncate(time.Second)
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	WriteError(w, r, http.StatusMethodNotAllowed, lcerrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method})
	return false
}
