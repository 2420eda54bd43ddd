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

package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/NVIDIA/layoutcheck/pkg/errors"
)

// Canonical returns the lookup form of a validator name: trimmed and
// Unicode case folded, so "Fixed", "FIXED" and " fixed " are the same name.
func Canonical(name string) string {
	// Caser values carry state and are not safe for concurrent use.
	return cases.Fold().String(strings.TrimSpace(name))
}

// Registry maps validator names to implementations with thread-safe operations.
// One Registry holds one family (layout kinds or field types).
type Registry[T any] struct {
	family  string
	entries map[string]T
	primary map[string]string
	mu      sync.RWMutex
}

// New creates an empty Registry for the named family.
func New[T any](family string) *Registry[T] {
	return &Registry[T]{
		family:  family,
		entries: make(map[string]T),
		primary: make(map[string]string),
	}
}

// Family returns the family name used in lookup errors.
func (r *Registry[T]) Family() string {
	return r.family
}

// Register adds impl under name and any aliases.
// Returns an error if any of the names is empty or already registered;
// in that case nothing is registered.
func (r *Registry[T]) Register(name string, impl T, aliases ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Canonical(name)
	keys := make([]string, 0, len(aliases)+1)
	seen := make(map[string]struct{}, len(aliases)+1)
	for _, n := range append([]string{name}, aliases...) {
		k := Canonical(n)
		if k == "" {
			return fmt.Errorf("%s name cannot be empty", r.family)
		}
		if _, exists := r.entries[k]; exists {
			return fmt.Errorf("%s %q already registered", r.family, n)
		}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%s %q given more than once", r.family, n)
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	for _, k := range keys {
		r.entries[k] = impl
		r.primary[k] = key
	}
	return nil
}

// MustRegister is Register that panics on error, for package-level setup.
func (r *Registry[T]) MustRegister(name string, impl T, aliases ...string) {
	if err := r.Register(name, impl, aliases...); err != nil {
		panic(err)
	}
}

// Resolve returns the implementation registered under name.
// An unknown name yields a StructuredError with ErrCodeUnknownValidator.
func (r *Registry[T]) Resolve(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if impl, ok := r.entries[Canonical(name)]; ok {
		return impl, nil
	}

	var zero T
	return zero, errors.NewWithContext(errors.ErrCodeUnknownValidator,
		fmt.Sprintf("unknown %s: %q", r.family, name),
		map[string]any{
			"family": r.family,
			"name":   name,
			"known":  r.namesLocked(),
		})
}

// Has reports whether name resolves.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[Canonical(name)]
	return ok
}

// Names returns the sorted primary names, without aliases.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

// Aliases returns the sorted alternative names registered for the primary name.
func (r *Registry[T]) Aliases(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := Canonical(name)
	var out []string
	for k, p := range r.primary {
		if p == key && k != key {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func (r *Registry[T]) namesLocked() []string {
	names := make([]string, 0, len(r.primary))
	for k, p := range r.primary {
		if k == p {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}
