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
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/layoutcheck/pkg/defaults"
	"github.com/NVIDIA/layoutcheck/pkg/errors"
	"github.com/NVIDIA/layoutcheck/pkg/header"
	"github.com/NVIDIA/layoutcheck/pkg/recipe"
)

// Job pairs a recipe with the input it describes.
type Job struct {
	// Name labels the job in results; defaults to the input location.
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Recipe string `json:"recipe" yaml:"recipe"`
	Input  string `json:"input" yaml:"input"`
}

// Manifest lists jobs for batch validation.
type Manifest struct {
	header.Header `json:",inline" yaml:",inline"`

	Jobs []Job `json:"jobs" yaml:"jobs"`
}

// BatchResult aggregates the verdicts of a batch, in job order.
type BatchResult struct {
	header.Header `json:",inline" yaml:",inline"`

	Success  bool         `json:"success" yaml:"success"`
	Verdicts []*Verdict   `json:"verdicts" yaml:"verdicts"`
	Summary  BatchSummary `json:"summary" yaml:"summary"`
}

// BatchSummary contains batch statistics.
type BatchSummary struct {
	Total    int           `json:"total" yaml:"total"`
	Passed   int           `json:"passed" yaml:"passed"`
	Failed   int           `json:"failed" yaml:"failed"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Err returns nil when every job passed, else the first failed verdict's error.
func (b *BatchResult) Err() error {
	if b == nil || b.Success {
		return nil
	}
	for _, v := range b.Verdicts {
		if err := v.Err(); err != nil {
			return err
		}
	}
	return errors.New(errors.ErrCodeInternal, "batch failed")
}

// Run loads the job's recipe and validates its input. Problems with the job
// itself (recipe cannot be loaded, input cannot be opened or read) are
// reported as a failed verdict; only context cancellation returns an error.
func (v *Validator) Run(ctx context.Context, job Job) (*Verdict, error) {
	rec, err := recipe.Load(ctx, job.Recipe, v.Kubeconfig, v.loadOpts...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return v.jobFailure(job, ReasonInvalidRecipe, err), nil
	}
	if err := rec.CheckVersion(v.Version); err != nil {
		return v.jobFailure(job, ReasonInvalidRecipe, err), nil
	}

	verdict, err := v.ValidateFile(ctx, rec, job.Input)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return v.jobFailure(job, ReasonInputError, err), nil
	}
	verdict.RecipeSource = job.Recipe
	return verdict, nil
}

func (v *Validator) jobFailure(job Job, reason Reason, err error) *Verdict {
	verdict := &Verdict{
		RunID:        uuid.NewString(),
		RecipeSource: job.Recipe,
		InputSource:  job.Input,
		Reason:       reason,
		Message:      err.Error(),
		Error:        err.Error(),
	}
	verdict.Init(header.KindVerdict, APIVersion, v.Version)
	observe(verdict)
	return verdict
}

// ValidateBatch runs jobs concurrently, at most parallelism at a time
// (defaults.BatchParallelism when <= 0). Each run is itself sequential.
func (v *Validator) ValidateBatch(ctx context.Context, jobs []Job, parallelism int) (*BatchResult, error) {
	start := time.Now()
	if parallelism <= 0 {
		parallelism = defaults.BatchParallelism
	}

	result := &BatchResult{Verdicts: make([]*Verdict, len(jobs))}
	result.Init(header.KindBatchResult, APIVersion, v.Version)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, job := range jobs {
		g.Go(func() error {
			verdict, err := v.Run(gctx, job)
			if err != nil {
				return err
			}
			if job.Name != "" {
				verdict.Metadata["job"] = job.Name
			}
			result.Verdicts[i] = verdict
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, verdict := range result.Verdicts {
		if verdict.Success {
			result.Summary.Passed++
		} else {
			result.Summary.Failed++
		}
	}
	result.Summary.Total = len(jobs)
	result.Summary.Duration = time.Since(start)
	result.Success = result.Summary.Failed == 0

	slog.Debug("batch completed",
		"total", result.Summary.Total,
		"passed", result.Summary.Passed,
		"failed", result.Summary.Failed,
		"duration", result.Summary.Duration)

	return result, nil
}
