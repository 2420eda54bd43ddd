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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/layoutcheck/pkg/errors"
	"github.com/NVIDIA/layoutcheck/pkg/header"
)

const batchRecipe = `- kind: fixed
  name: header
  numberOfRows: 1
  specs:
    - type: string
      value: HDR
- kind: delimited
  name: detail
  numberOfRows: 2
  specs:
    - type: string
      length: 3
    - type: datetime
      format: yyyyMMdd
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateBatch(t *testing.T) {
	dir := t.TempDir()
	rec := writeFile(t, dir, "recipe.yaml", batchRecipe)
	good := writeFile(t, dir, "good.txt", "HDR\nABC,20240101\nDEF,20240229\n")
	bad := writeFile(t, dir, "bad.txt", "HDR\nABC,20240101\nDEF,20230229\n")
	short := writeFile(t, dir, "short.txt", "HDR\nABC,20240101\n")

	jobs := []Job{
		{Name: "good", Recipe: rec, Input: good},
		{Name: "bad", Recipe: rec, Input: bad},
		{Recipe: rec, Input: short},
		{Name: "no-recipe", Recipe: filepath.Join(dir, "missing.yaml"), Input: good},
		{Name: "no-input", Recipe: rec, Input: filepath.Join(dir, "missing.txt")},
	}

	result, err := New(WithVersion("test")).ValidateBatch(context.Background(), jobs, 2)
	require.NoError(t, err)
	require.Len(t, result.Verdicts, len(jobs))

	assert.Equal(t, header.KindBatchResult, result.Kind)
	assert.False(t, result.Success)
	assert.Equal(t, 5, result.Summary.Total)
	assert.Equal(t, 1, result.Summary.Passed)
	assert.Equal(t, 4, result.Summary.Failed)

	assert.True(t, result.Verdicts[0].Success)
	assert.Equal(t, "good", result.Verdicts[0].Metadata["job"])
	assert.Equal(t, rec, result.Verdicts[0].RecipeSource)
	assert.Equal(t, good, result.Verdicts[0].InputSource)

	assert.Equal(t, ReasonContentMismatch, result.Verdicts[1].Reason)
	assert.Equal(t, 3, result.Verdicts[1].FailedAtRow)

	assert.Equal(t, ReasonRowShortfall, result.Verdicts[2].Reason)
	assert.Equal(t, 3, result.Verdicts[2].FailedAtRow)
	assert.NotContains(t, result.Verdicts[2].Metadata, "job")

	assert.Equal(t, ReasonInvalidRecipe, result.Verdicts[3].Reason)
	assert.Equal(t, ReasonInputError, result.Verdicts[4].Reason)

	assert.True(t, errors.IsCode(result.Err(), errors.ErrCodeContentMismatch))
}

func TestValidateBatch_AllPass(t *testing.T) {
	dir := t.TempDir()
	rec := writeFile(t, dir, "recipe.yaml", batchRecipe)
	input := writeFile(t, dir, "in.txt", "HDR\nABC,20240101\nDEF,20240102\n")

	jobs := make([]Job, 8)
	for i := range jobs {
		jobs[i] = Job{Recipe: rec, Input: input}
	}

	result, err := New().ValidateBatch(context.Background(), jobs, 0)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 8, result.Summary.Passed)
	assert.NoError(t, result.Err())
}

func TestValidateBatch_Canceled(t *testing.T) {
	dir := t.TempDir()
	rec := writeFile(t, dir, "recipe.yaml", batchRecipe)
	input := writeFile(t, dir, "in.txt", "HDR\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().ValidateBatch(ctx, []Job{{Recipe: rec, Input: input}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatchResult_ErrNil(t *testing.T) {
	var b *BatchResult
	assert.NoError(t, b.Err())
}
