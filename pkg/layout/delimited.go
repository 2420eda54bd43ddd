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
	"fmt"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/NVIDIA/layoutcheck/pkg/defaults"
	"github.com/NVIDIA/layoutcheck/pkg/errors"
	"github.com/NVIDIA/layoutcheck/pkg/field"
	"github.com/NVIDIA/layoutcheck/pkg/recipe"
)

// Config keys read by DelimitedValidator.
const (
	ConfigRegex     = "regex"
	ConfigDelimiter = "delimiter"
)

var splitCache = mustSplitCache()

func mustSplitCache() *lru.Cache[string, *regexp.Regexp] {
	c, err := lru.New[string, *regexp.Regexp](defaults.PatternCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

// DelimitedValidator splits the line into fields and checks field i against
// specification i, each starting at offset 0.
//
// The split uses the "regex" config when present, else the "delimiter" config
// as a plain separator, else quoted CSV (see SplitQuoted). Each pattern match
// yields its first participating capture group, or the whole match when no
// group took part.
type DelimitedValidator struct{}

// Validate implements Validator. A specification without a matching field fails.
func (DelimitedValidator) Validate(line string, l *recipe.Layout, fields field.Resolver) (bool, error) {
	if err := requireSpecs(l); err != nil {
		return false, err
	}

	parts, err := Split(line, l.Configs)
	if err != nil {
		return false, err
	}

	for i := range l.Specs {
		spec := &l.Specs[i]
		if i >= len(parts) {
			// still resolve so a bad type is reported as such
			if _, err := fields.Resolve(spec.Type); err != nil {
				return false, err
			}
			logFailure(l, i, spec, "")
			return false, nil
		}

		valid, _, err := field.Evaluate(fields, parts[i], 0, spec)
		if err != nil {
			return false, err
		}
		if !valid {
			logFailure(l, i, spec, parts[i])
			return false, nil
		}
	}
	return true, nil
}

// Split breaks line into fields according to the layout configs.
func Split(line string, configs recipe.Configs) ([]string, error) {
	if pattern, ok := configs.Get(ConfigRegex); ok {
		re, err := compileSplit(pattern)
		if err != nil {
			return nil, err
		}
		return splitMatches(re, line), nil
	}

	if delim, ok := configs.Get(ConfigDelimiter); ok {
		if delim == "" {
			return nil, errors.New(errors.ErrCodeInvalidRecipe, "delimiter config cannot be empty")
		}
		return strings.Split(line, delim), nil
	}

	return SplitQuoted(line), nil
}

// SplitQuoted splits line on commas outside double quotes. Every comma
// starts a new field, so a leading comma yields an empty first field. A field
// that opens with a quote runs to the closing quote and is returned without
// the quotes; text between the closing quote and the next comma is dropped.
// An unterminated quote is taken literally up to the next comma.
func SplitQuoted(line string) []string {
	var out []string
	for {
		f, rest, more := nextQuoted(line)
		out = append(out, f)
		if !more {
			return out
		}
		line = rest
	}
}

func nextQuoted(s string) (string, string, bool) {
	if strings.HasPrefix(s, `"`) {
		if end := strings.IndexByte(s[1:], '"'); end >= 0 {
			f, after := s[1:1+end], s[2+end:]
			if i := strings.IndexByte(after, ','); i >= 0 {
				return f, after[i+1:], true
			}
			return f, "", false
		}
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

func compileSplit(pattern string) (*regexp.Regexp, error) {
	if re, ok := splitCache.Get(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRecipe,
			fmt.Sprintf("invalid %s config", ConfigRegex), err,
			map[string]any{"pattern": pattern})
	}
	splitCache.Add(pattern, re)
	return re, nil
}

func splitMatches(re *regexp.Regexp, line string) []string {
	matches := re.FindAllStringSubmatchIndex(line, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, firstGroup(line, m))
	}
	return out
}

// firstGroup returns the first capture group that participated in match m,
// or the whole match.
func firstGroup(line string, m []int) string {
	for g := 2; g+1 < len(m); g += 2 {
		if m[g] >= 0 {
			return line[m[g]:m[g+1]]
		}
	}
	return line[m[0]:m[1]]
}
