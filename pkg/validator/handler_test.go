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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lcerrors "github.com/NVIDIA/layoutcheck/pkg/errors"
	"github.com/NVIDIA/layoutcheck/pkg/field"
	"github.com/NVIDIA/layoutcheck/pkg/layout"
	"github.com/NVIDIA/layoutcheck/pkg/registry"
	"github.com/NVIDIA/layoutcheck/pkg/server"
)

const validateBody = `{
  "recipe": [
    {"kind": "fixed", "name": "header", "numberOfRows": 1, "specs": [{"type": "string", "value": "HDR"}]},
    {"kind": "delimited", "name": "detail", "numberOfRows": 1,
     "specs": [{"type": "string", "length": 3}, {"type": "datetime", "format": "yyyyMMdd"}]}
  ],
  "content": %s
}`

func postValidate(t *testing.T, v *Validator, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/validate", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	v.HandleValidate(rec, req)
	return rec
}

func TestHandleValidate(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantSuccess bool
		wantReason  Reason
		wantRow     int
	}{
		{"valid content", "HDR\nABC,20240101\n", true, "", 0},
		{"mismatch", "HDR\nAB,20240101\n", false, ReasonContentMismatch, 2},
		{"shortfall", "HDR\n", false, ReasonRowShortfall, 2},
	}

	v := New(WithVersion("test"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postValidate(t, v, "application/json", jsonBody(tt.content))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var verdict Verdict
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
			assert.Equal(t, tt.wantSuccess, verdict.Success)
			assert.Equal(t, tt.wantReason, verdict.Reason)
			assert.Equal(t, tt.wantRow, verdict.FailedAtRow)
			assert.Equal(t, "request", verdict.InputSource)
		})
	}
}

func jsonBody(content string) string {
	b, _ := json.Marshal(content)
	return fmt.Sprintf(validateBody, b)
}

func TestHandleValidate_YAML(t *testing.T) {
	body := `recipe:
  layouts:
    - kind: fixed
      numberOfRows: 1
      specs:
        - type: string
          value: HDR
content: |
  HDR
  extra
strict: true
`
	rec := postValidate(t, New(), "application/x-yaml", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var verdict Verdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
	assert.Equal(t, ReasonTrailingContent, verdict.Reason)
}

func TestHandleValidate_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  lcerrors.ErrorCode
	}{
		{"malformed json", `{"recipe":`, http.StatusBadRequest, lcerrors.ErrCodeInvalidRequest},
		{"unknown field", `{"recipe": [], "content": "", "bogus": 1}`, http.StatusBadRequest, lcerrors.ErrCodeInvalidRequest},
		{"missing recipe", `{"content": "HDR"}`, http.StatusBadRequest, lcerrors.ErrCodeInvalidRequest},
		{"structurally invalid recipe", `{"recipe": [{"numberOfRows": 1, "specs": [{"type": "string"}]}], "content": "HDR"}`,
			http.StatusBadRequest, lcerrors.ErrCodeInvalidRecipe},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postValidate(t, v, "application/json", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)

			var resp server.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, string(tt.wantErr), resp.Code)
		})
	}
}

func TestHandleValidate_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	New().HandleValidate(rec, httptest.NewRequest(http.MethodGet, "/v1/validate", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestHandleKinds(t *testing.T) {
	rec := httptest.NewRecorder()
	New().HandleKinds(rec, httptest.NewRequest(http.MethodGet, "/v1/kinds", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var kinds Kinds
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &kinds))

	names := func(ks []Kind) []string {
		out := make([]string, 0, len(ks))
		for _, k := range ks {
			out = append(out, k.Name)
		}
		return out
	}
	assert.Equal(t, []string{"delimited", "fixed"}, names(kinds.Layouts))
	assert.Equal(t, []string{"datetime", "string"}, names(kinds.Fields))
	assert.Contains(t, kinds.Layouts[0].Aliases, "csv")

	rec = httptest.NewRecorder()
	New().HandleKinds(rec, httptest.NewRequest(http.MethodDelete, "/v1/kinds", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestKinds_NonEnumerableResolver(t *testing.T) {
	v := New(WithLayoutRegistry(stubLayouts{}))
	kinds := v.Kinds()
	assert.Empty(t, kinds.Layouts)
	assert.NotEmpty(t, kinds.Fields)
}

type stubLayouts struct{}

func (stubLayouts) Resolve(name string) (layout.Validator, error) {
	return layout.FixedValidator{}, nil
}

func TestValidator_Ready(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, New().Ready(ctx))
	assert.NoError(t, New(WithLayoutRegistry(stubLayouts{})).Ready(ctx), "non-enumerable resolvers are trusted")

	empty := New(WithFieldRegistry(registry.New[field.Evaluator]("field type")))
	assert.ErrorContains(t, empty.Ready(ctx), "no field types")
}
