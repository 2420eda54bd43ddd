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

package recipe

import (
	"github.com/NVIDIA/layoutcheck/pkg/errors"
	"github.com/NVIDIA/layoutcheck/pkg/version"
)

// MetadataMinVersion is the metadata key holding the oldest layoutcheck
// release able to run the recipe, e.g. "0.3" or "v1.2.0".
const MetadataMinVersion = "minVersion"

// MinVersion returns the declared minimum version. ok is false when the
// recipe declares none.
func (r *Recipe) MinVersion() (v version.Version, ok bool, err error) {
	s := r.Metadata[MetadataMinVersion]
	if s == "" {
		return version.Version{}, false, nil
	}
	v, err = version.Parse(s)
	if err != nil {
		return version.Version{}, false, errors.WrapWithContext(errors.ErrCodeInvalidRecipe,
			"invalid metadata."+MetadataMinVersion, err, map[string]any{"value": s})
	}
	return v, true, nil
}

// CheckVersion fails when the recipe requires a newer release than tool.
// Development builds, whose version does not parse, are always allowed.
func (r *Recipe) CheckVersion(tool string) error {
	minimum, ok, err := r.MinVersion()
	if err != nil || !ok {
		return err
	}
	if !version.IsRelease(tool) {
		return nil
	}
	if version.MustParse(tool).Satisfies(minimum) {
		return nil
	}
	return errors.NewWithContext(errors.ErrCodeInvalidRecipe,
		"recipe requires layoutcheck "+minimum.String()+" or later",
		map[string]any{"minVersion": minimum.String(), "version": tool})
}
