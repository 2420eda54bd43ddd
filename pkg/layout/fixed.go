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

package layout

import (
	"github.com/NVIDIA/layoutcheck/pkg/field"
	"github.com/NVIDIA/layoutcheck/pkg/recipe"
)

// FixedValidator checks a fixed-width record: every specification reads the
// same line and the offset carries over from one specification to the next.
type FixedValidator struct{}

// Validate implements Validator.
func (FixedValidator) Validate(line string, l *recipe.Layout, fields field.Resolver) (bool, error) {
	if err := requireSpecs(l); err != nil {
		return false, err
	}

	offset := 0
	for i := range l.Specs {
		spec := &l.Specs[i]
		valid, next, err := field.Evaluate(fields, line, offset, spec)
		if err != nil {
			return false, err
		}
		if !valid {
			logFailure(l, i, spec, line)
			return false, nil
		}
		offset = next
	}
	return true, nil
}
