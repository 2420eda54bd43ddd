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

// Package registry provides the name-to-implementation tables that dispatch
// recipe layout kinds and field types.
//
// Names are matched after trimming and Unicode case folding. Aliases let older
// recipes keep their fully qualified names:
//
//	r := registry.New[layout.Validator]("layout kind")
//	r.MustRegister("fixed", layout.FixedValidator{}, "ssistestengine.FixedLayoutValidator")
//	v, err := r.Resolve("FIXED")
//
// Resolving an unregistered name returns an *errors.StructuredError with code
// ErrCodeUnknownValidator whose context lists the known names, so callers can
// tell a configuration problem apart from a data verdict.
package registry
