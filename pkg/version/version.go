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

// Package version parses tool versions and checks them against the minimum
// version a recipe declares.
//
// Versions have one to three numeric components with an optional "v" prefix
// and an optional pre-release or build suffix ("v1.2.3-rc.1", "1.4+abc").
// A constraint is compared only up to its own precision, so "1.2" is
// satisfied by any 1.2.x or later.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrEmpty is returned for an empty version string.
	ErrEmpty = errors.New("version string is empty")
	// ErrTooManyComponents is returned for versions like 1.2.3.4.
	ErrTooManyComponents = errors.New("version has more than 3 components")
	// ErrNonNumeric is returned when a component is not a non-negative integer.
	ErrNonNumeric = errors.New("version component is not numeric")
)

// Version is a parsed major[.minor[.patch]] version.
type Version struct {
	Major int
	Minor int
	Patch int

	// Precision is the number of components that were given (1-3).
	Precision int

	// Extras is the suffix starting at '-' or '+', if any.
	Extras string
}

// New returns a full-precision version.
func New(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch, Precision: 3}
}

// Parse parses s. Surrounding whitespace is not accepted.
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmpty
	}

	s = strings.TrimPrefix(s, "v")
	var v Version

	// the suffix starts at the first '-' or '+' that follows a digit
	main := s
	for i := 1; i < len(s); i++ {
		if (s[i] == '-' || s[i] == '+') && s[i-1] >= '0' && s[i-1] <= '9' {
			main, v.Extras = s[:i], s[i:]
			break
		}
	}

	parts := strings.Split(main, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}

	nums := [3]int{}
	for i, p := range parts {
		n, err := component(p)
		if err != nil {
			return Version{}, err
		}
		nums[i] = n
	}

	v.Major, v.Minor, v.Patch = nums[0], nums[1], nums[2]
	v.Precision = len(parts)
	return v, nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("version.MustParse(%q): %v", s, err))
	}
	return v
}

func component(p string) (int, error) {
	if p == "" {
		return 0, fmt.Errorf("%w: empty component", ErrNonNumeric)
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrNonNumeric, p)
		}
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNonNumeric, p)
	}
	return n, nil
}

// String renders the version at its precision, without extras.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return strconv.Itoa(v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// Compare returns -1, 0 or 1 comparing v to other, using the lower of the
// two precisions. Extras are ignored.
func (v Version) Compare(other Version) int {
	precision := min(v.Precision, other.Precision)
	a := [3]int{v.Major, v.Minor, v.Patch}
	b := [3]int{other.Major, other.Minor, other.Patch}
	for i := 0; i < precision; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Satisfies reports whether v is at least minimum, compared up to the
// precision of minimum.
func (v Version) Satisfies(minimum Version) bool {
	full := v
	full.Precision = 3
	return full.Compare(minimum) >= 0
}

// IsValid reports whether the components are non-negative and the precision is 1-3.
func (v Version) IsValid() bool {
	return v.Major >= 0 && v.Minor >= 0 && v.Patch >= 0 &&
		v.Precision >= 1 && v.Precision <= 3
}

// IsRelease reports whether s parses as a version. Development builds
// ("dev", "", commit hashes) are not releases.
func IsRelease(s string) bool {
	_, err := Parse(s)
	return err == nil
}
