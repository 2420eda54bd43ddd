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
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/NVIDIA/layoutcheck/pkg/oci"
	"github.com/NVIDIA/layoutcheck/pkg/serializer"
)

// Source labels for recipe metrics.
const (
	sourceFile      = "file"
	sourceHTTP      = "http"
	sourceConfigMap = "configmap"
	sourceOCI       = "oci"
)

var (
	recipeLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "layoutcheck_recipe_load_duration_seconds",
			Help:    "Time spent fetching, decoding and checking a recipe, by source.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
		[]string{"source"},
	)

	// stage is "read" for fetch or decode failures and "invalid" for
	// recipes rejected by structural checks.
	recipeLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "layoutcheck_recipe_load_errors_total",
			Help: "Recipes that failed to load, by source and stage.",
		},
		[]string{"source", "stage"},
	)
)

func sourceOf(uri string) string {
	switch {
	case oci.IsReference(uri):
		return sourceOCI
	case strings.HasPrefix(uri, serializer.ConfigMapURIScheme):
		return sourceConfigMap
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return sourceHTTP
	default:
		return sourceFile
	}
}
