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

// Package layout validates record lines against recipe layouts.
//
// A layout's kind selects how the line is divided among its field specs:
//
//   - fixed: every spec reads the same line, each starting where the previous
//     one ended (packed fixed-width records)
//   - delimited (aliases regex, csv): the line is split into fields and spec i
//     checks field i from its start
//
// Delimited layouts split with the "regex" config, the "delimiter" config or,
// by default, a comma split that honours double-quoted fields:
//
//	a,"b,c",d  ->  a | b,c | d
//	,a,b       ->    | a | b
//
// Validation stops at the first failing spec. Check wraps a validator with
// end-of-input handling and returns an Outcome the walker can tell apart:
// a present line that failed is a mismatch, an absent line is missing.
package layout
