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

package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/layoutcheck/pkg/errors"
	"github.com/NVIDIA/layoutcheck/pkg/recipe"
)

func TestStringEvaluator_Literal(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		offset    int
		value     string
		wantValid bool
		wantNext  int
	}{
		{name: "match at start", text: "HDR20240101", value: "HDR", wantValid: true, wantNext: 3},
		{name: "mismatch still advances", text: "XXX20240101", value: "HDR", wantValid: false, wantNext: 3},
		{name: "match at offset", text: "HDR20240101", offset: 3, value: "2024", wantValid: true, wantNext: 7},
		{name: "case sensitive", text: "hdr", value: "HDR", wantValid: false, wantNext: 3},
		{name: "too short still advances", text: "HD", value: "HDR", wantValid: false, wantNext: 3},
		{name: "offset past end", text: "HDR", offset: 5, value: "X", wantValid: false, wantNext: 6},
		{name: "empty literal always fits", text: "", value: "", wantValid: true, wantNext: 0},
		{name: "multibyte counts characters", text: "ÄÖÜabc", offset: 1, value: "ÖÜ", wantValid: true, wantNext: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := &recipe.Specification{Type: TypeString, Value: recipe.Literal(tt.value)}
			valid, next := StringEvaluator{}.Evaluate(tt.text, tt.offset, spec)
			assert.Equal(t, tt.wantValid, valid)
			assert.Equal(t, tt.wantNext, next)
		})
	}
}

func TestStringEvaluator_FixedLength(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		offset    int
		length    int
		wantValid bool
		wantNext  int
	}{
		{name: "exact length", text: "ABC", length: 3, wantValid: true, wantNext: 3},
		{name: "longer text", text: "ABCDEF", offset: 2, length: 3, wantValid: true, wantNext: 5},
		{name: "short", text: "AB", length: 3, wantValid: false, wantNext: 3},
		{name: "short at offset", text: "ABCDE", offset: 3, length: 3, wantValid: false, wantNext: 6},
		{name: "content is not checked", text: "   ", length: 3, wantValid: true, wantNext: 3},
		{name: "multibyte", text: "日本語", length: 3, wantValid: true, wantNext: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := &recipe.Specification{Type: TypeString, Length: tt.length}
			valid, next := StringEvaluator{}.Evaluate(tt.text, tt.offset, spec)
			assert.Equal(t, tt.wantValid, valid)
			assert.Equal(t, tt.wantNext, next)
		})
	}
}

func TestStringEvaluator_FreeText(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"ABC", true},
		{" x ", true},
		{"", false},
		{"   ", false},
		{"\t\r\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			valid, next := StringEvaluator{}.Evaluate(tt.text, 4, &recipe.Specification{Type: TypeString})
			assert.Equal(t, tt.want, valid)
			assert.Equal(t, 4, next, "free text never advances")
		})
	}
}

func TestStringEvaluator_Precedence(t *testing.T) {
	// value set together with length: literal wins and advances by len(value)
	spec := &recipe.Specification{Type: TypeString, Value: recipe.Literal("AB"), Length: 5}
	valid, next := StringEvaluator{}.Evaluate("AB", 0, spec)
	assert.True(t, valid)
	assert.Equal(t, 2, next)
}

func TestDateTimeEvaluator(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		offset    int
		format    string
		wantValid bool
		wantNext  int
	}{
		{name: "compact date", text: "20240101", format: "yyyyMMdd", wantValid: true, wantNext: 8},
		{name: "date at offset", text: "HDR20240101", offset: 3, format: "yyyyMMdd", wantValid: true, wantNext: 11},
		{name: "only the window is checked", text: "20240101XYZ", format: "yyyyMMdd", wantValid: true, wantNext: 8},
		{name: "invalid month advances", text: "20241301", format: "yyyyMMdd", wantValid: false, wantNext: 8},
		{name: "feb 30", text: "20240230", format: "yyyyMMdd", wantValid: false, wantNext: 8},
		{name: "leap day", text: "20240229", format: "yyyyMMdd", wantValid: true, wantNext: 8},
		{name: "non leap day", text: "20230229", format: "yyyyMMdd", wantValid: false, wantNext: 8},
		{name: "too short", text: "202401", format: "yyyyMMdd", wantValid: false, wantNext: 8},
		{name: "letters", text: "2024O101", format: "yyyyMMdd", wantValid: false, wantNext: 8},
		{name: "separators", text: "31/12/2024 23:59:59", format: "dd/MM/yyyy HH:mm:ss", wantValid: true, wantNext: 19},
		{name: "wrong separator", text: "31-12-2024", format: "dd/MM/yyyy", wantValid: false, wantNext: 10},
		{name: "missing format does not advance", text: "20240101", format: "", wantValid: false, wantNext: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := &recipe.Specification{Type: TypeDateTime, Format: tt.format}
			valid, next := DateTimeEvaluator{}.Evaluate(tt.text, tt.offset, spec)
			assert.Equal(t, tt.wantValid, valid)
			assert.Equal(t, tt.wantNext, next)
		})
	}
}

func TestEvaluate_Dispatch(t *testing.T) {
	fields := NewRegistry()

	valid, next, err := Evaluate(fields, "HDR", 0, &recipe.Specification{Type: "STRING", Value: recipe.Literal("HDR")})
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, 3, next)

	valid, _, err = Evaluate(fields, "20240101", 0, &recipe.Specification{Type: "ssistestengine.DateTimeValidator", Format: "yyyyMMdd"})
	require.NoError(t, err)
	assert.True(t, valid)

	valid, next, err = Evaluate(fields, "HDR", 2, &recipe.Specification{Type: "money", Length: 1})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownValidator))
	assert.False(t, valid)
	assert.Equal(t, 2, next)

	_, _, err = Evaluate(fields, "HDR", 0, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRecipe))
}

func TestNewRegistry_Names(t *testing.T) {
	assert.Equal(t, []string{"datetime", "string"}, NewRegistry().Names())
}

func TestEvaluatorFunc(t *testing.T) {
	calls := 0
	ev := EvaluatorFunc(func(text string, offset int, spec *recipe.Specification) (bool, int) {
		calls++
		return true, offset + 1
	})
	valid, next := ev.Evaluate("x", 0, &recipe.Specification{})
	assert.True(t, valid)
	assert.Equal(t, 1, next)
	assert.Equal(t, 1, calls)
}
