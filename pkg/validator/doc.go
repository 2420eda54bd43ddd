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

// Package validator walks a recipe over a text input and produces a Verdict.
//
// # Overview
//
// The walk takes the recipe's layouts in order. Each layout consumes exactly
// NumberOfRows lines; every line is checked with the layout's kind (see package
// layout). The first failure ends the run:
//
//   - content_mismatch: a line failed its layout
//   - row_shortfall: the input ended before the layout had all its rows
//   - unknown_validator: a kind or type is not registered
//   - trailing_content: lines remain after the last layout (strict mode only)
//
// Line numbers are 1-based and counted from the start of the input across all
// layouts. A shortfall reports the first missing line.
//
// # Usage
//
//	v := validator.New(validator.WithVersion(version), validator.WithStrict(true))
//	verdict, err := v.ValidateFile(ctx, rec, "out.txt")
//	if err != nil {
//	    return err // I/O error or cancellation
//	}
//	if !verdict.Success {
//	    fmt.Println(verdict.Message)
//	}
//
// Validation failures never surface as errors from Validate; Verdict.Err
// converts a failed verdict into a structured error when a caller wants one.
//
// # Batch
//
// ValidateBatch runs several recipe/input pairs concurrently. Each run stays
// sequential; registries and pattern caches are the only shared state.
//
// # Lint
//
// Lint checks a recipe without input and lists every structural problem and
// every kind or type that does not resolve.
package validator
