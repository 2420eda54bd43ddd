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

package validator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "layoutcheck_runs_total",
			Help: "Total number of validation runs by result (success or failure reason)",
		},
		[]string{"result"},
	)

	rowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "layoutcheck_rows_validated_total",
			Help: "Total number of input lines consumed by validation runs",
		},
	)

	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "layoutcheck_run_duration_seconds",
			Help:    "Duration of validation runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		},
	)
)

func observe(v *Verdict) {
	result := "success"
	if !v.Success {
		result = string(v.Reason)
	}
	runsTotal.WithLabelValues(result).Inc()
	rowsTotal.Add(float64(v.Summary.Rows))
	runDuration.Observe(v.Summary.Duration.Seconds())
}
