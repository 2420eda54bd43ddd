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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/layoutcheck/pkg/errors"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fixed", "fixed"},
		{"  Fixed ", "fixed"},
		{"DELIMITED", "delimited"},
		{"ssistestengine.FixedLayoutValidator", "ssistestengine.fixedlayoutvalidator"},
		{"STRASSE", "strasse"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.in))
		})
	}
}

func TestRegistry_RegisterResolve(t *testing.T) {
	r := New[int]("layout kind")
	require.NoError(t, r.Register("fixed", 1, "legacy.Fixed"))
	require.NoError(t, r.Register("delimited", 2, "regex", "csv"))

	tests := []struct {
		name string
		want int
	}{
		{"fixed", 1},
		{"FIXED", 1},
		{"Legacy.FIXED", 1},
		{"delimited", 2},
		{"Regex", 2},
		{" csv ", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, r.Has(tt.name))
		})
	}

	assert.Equal(t, []string{"delimited", "fixed"}, r.Names())
	assert.Equal(t, []string{"csv", "regex"}, r.Aliases("Delimited"))
	assert.Equal(t, "layout kind", r.Family())
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r := New[string]("field type")
	r.MustRegister("string", "s")

	_, err := r.Resolve("money")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownValidator))

	se, ok := err.(*errors.StructuredError)
	require.True(t, ok)
	assert.Equal(t, "field type", se.Context["family"])
	assert.Equal(t, "money", se.Context["name"])
	assert.Equal(t, []string{"string"}, se.Context["known"])
	assert.False(t, r.Has("money"))
}

func TestRegistry_RegisterErrors(t *testing.T) {
	r := New[int]("layout kind")
	require.NoError(t, r.Register("fixed", 1))

	assert.Error(t, r.Register("Fixed", 2), "duplicate after folding")
	assert.Error(t, r.Register("other", 2, "FIXED"), "duplicate alias")
	assert.Error(t, r.Register("  ", 2), "empty name")
	assert.Error(t, r.Register("csv", 2, "CSV"), "alias repeats name")
	assert.Error(t, r.Register("regex", 2, "re", "Re"), "alias repeated")

	// failed registration leaves nothing behind
	assert.False(t, r.Has("other"))
	assert.False(t, r.Has("csv"))
	assert.False(t, r.Has("regex"))
	assert.Panics(t, func() { r.MustRegister("fixed", 3) })
}

func TestRegistry_Concurrent(t *testing.T) {
	r := New[int]("layout kind")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = r.Register(fmt.Sprintf("kind-%d", i), i)
		}(i)
		go func() {
			defer wg.Done()
			_, _ = r.Resolve("kind-0")
			_ = r.Names()
		}()
	}
	wg.Wait()
	assert.Len(t, r.Names(), 20)
}
