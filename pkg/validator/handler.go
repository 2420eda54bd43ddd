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

package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/layoutcheck/pkg/defaults"
	lcerrors "github.com/NVIDIA/layoutcheck/pkg/errors"
	"github.com/NVIDIA/layoutcheck/pkg/recipe"
	"github.com/NVIDIA/layoutcheck/pkg/serializer"
	"github.com/NVIDIA/layoutcheck/pkg/server"
	"github.com/NVIDIA/layoutcheck/pkg/source"
)

// Request is the body of POST /v1/validate.
type Request struct {
	Recipe  *recipe.Recipe `json:"recipe" yaml:"recipe"`
	Content string         `json:"content" yaml:"content"`

	// Strict overrides the server's strict mode for this request.
	Strict *bool `json:"strict,omitempty" yaml:"strict,omitempty"`
}

// ParseRequest decodes a validation request. YAML is accepted when the
// content type says so; everything else is decoded as JSON.
func ParseRequest(body io.Reader, contentType string) (*Request, error) {
	if body == nil {
		return nil, lcerrors.New(lcerrors.ErrCodeInvalidRequest, "request body is required")
	}

	var req Request
	if strings.Contains(contentType, "yaml") {
		if err := yaml.NewDecoder(body).Decode(&req); err != nil {
			return nil, lcerrors.Wrap(lcerrors.ErrCodeInvalidRequest, "invalid YAML body", err)
		}
	} else {
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return nil, lcerrors.Wrap(lcerrors.ErrCodeInvalidRequest, "invalid JSON body", err)
		}
	}

	if req.Recipe == nil {
		return nil, lcerrors.New(lcerrors.ErrCodeInvalidRequest, "recipe is required")
	}
	return &req, nil
}

// HandleValidate serves POST /v1/validate. A failed validation is still a
// 200 response carrying the Verdict; error statuses are reserved for
// requests that could not be evaluated.
func (v *Validator) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaults.ValidateHandlerTimeout)
	defer cancel()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		server.WriteError(w, r, http.StatusMethodNotAllowed, lcerrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method":  r.Method,
				"allowed": []string{http.MethodPost},
			})
		return
	}
	defer r.Body.Close()

	req, err := ParseRequest(r.Body, r.Header.Get("Content-Type"))
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid validation request", nil)
		return
	}

	if err := req.Recipe.Validate(); err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid recipe", nil)
		return
	}

	run := v
	if req.Strict != nil && *req.Strict != v.Strict {
		clone := *v
		clone.Strict = *req.Strict
		run = &clone
	}

	verdict, err := run.Validate(ctx, req.Recipe, source.FromString("request", req.Content))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			server.WriteErrorFromErr(w, r, lcerrors.Wrap(lcerrors.ErrCodeTimeout, "validation timed out", err),
				"Validation timed out", nil)
			return
		}
		server.WriteErrorFromErr(w, r, err, "Validation failed", nil)
		return
	}

	verdict.InputSource = "request"
	if id := server.RequestID(r); id != "" {
		verdict.Metadata["requestId"] = id
	}

	slog.Debug("validation request completed",
		"requestId", server.RequestID(r),
		"success", verdict.Success,
		"reason", verdict.Reason)

	serializer.RespondJSON(w, http.StatusOK, verdict)
}

// HandleKinds serves GET /v1/kinds.
func (v *Validator) HandleKinds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed, lcerrors.ErrCodeMethodNotAllowed,
			fmt.Sprintf("Method %s not allowed", r.Method), false, nil)
		return
	}
	serializer.RespondJSON(w, http.StatusOK, v.Kinds())
}
