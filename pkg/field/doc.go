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

// Package field evaluates a single field specification against record text.
//
// Evaluators are selected by the specification's type through a registry:
//
//	fields := field.NewRegistry()
//	ok, next, err := field.Evaluate(fields, "HDR20240101", 0, &recipe.Specification{
//	    Type:  "string",
//	    Value: recipe.Literal("HDR"),
//	})
//	// ok == true, next == 3
//
// The offset is a character position within a fixed-width record. Each call
// returns the position the next field starts at, so callers thread it through
// successive specifications on the same line.
//
// Datetime formats use custom pattern letters (yyyy, MM, dd, HH, mm, ss,
// fff, tt, zzz and friends) with quoted and backslash-escaped literals.
// Parsing is exact: the whole window must match and the calendar date must
// exist. Compiled patterns are cached.
package field
