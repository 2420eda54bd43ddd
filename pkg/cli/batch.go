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

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/layoutcheck/pkg/defaults"
	"github.com/NVIDIA/layoutcheck/pkg/serializer"
	"github.com/NVIDIA/layoutcheck/pkg/validator"
)

// manifestConfigMapKey is the ConfigMap data key prefix for manifests.
const manifestConfigMapKey = "manifest"

func batchCmd() *cli.Command {
	return &cli.Command{
		Name:                  "batch",
		EnableShellCompletion: true,
		Usage:                 "Validate several recipe/input pairs listed in a manifest",
		Description: `Run the jobs of a manifest concurrently. Each job is an independent
validation run; a job whose recipe or input cannot be read fails with
invalid_recipe or input_error without stopping the others.

Manifest format:

  kind: Manifest
  apiVersion: layoutcheck.nvidia.com/v1alpha1
  jobs:
    - name: orders
      recipe: recipes/orders.yaml
      input: out/orders.txt
    - recipe: cm://etl/invoices
      input: https://files.example.com/invoices.txt
    - recipe: oci://registry.example.com/recipes/payroll:1.2
      input: out/payroll.csv

# Examples

  layoutcheck batch --manifest jobs.yaml --parallelism 8 -o results.yaml`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "manifest",
				Aliases:  []string{"m"},
				Required: true,
				Usage:    "Path/URI to the job manifest (file, HTTP/HTTPS URL or cm://namespace/name).",
				Sources:  cli.EnvVars("LAYOUTCHECK_MANIFEST"),
			},
			&cli.IntFlag{
				Name:    "parallelism",
				Aliases: []string{"p"},
				Value:   defaults.BatchParallelism,
				Usage:   "Maximum number of jobs validated at the same time",
				Sources: cli.EnvVars("LAYOUTCHECK_PARALLELISM"),
			},
			strictFlag(),
			failOnErrorFlag(),
			metricsFileFlag(),
			outputFlag(),
			formatFlag(),
			kubeconfigFlag(),
			plainHTTPFlag(),
			insecureTLSFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			defer writeMetrics(cmd)

			manifestURI := cmd.String("manifest")
			kubeconfig := cmd.String("kubeconfig")

			manifest, err := serializer.FromFile[validator.Manifest](ctx, manifestURI, kubeconfig, manifestConfigMapKey)
			if err != nil {
				return fmt.Errorf("failed to load manifest from %q: %w", manifestURI, err)
			}
			if len(manifest.Jobs) == 0 {
				return fmt.Errorf("manifest %q has no jobs", manifestURI)
			}

			v := validator.New(
				validator.WithVersion(version),
				validator.WithStrict(cmd.Bool("strict")),
				validator.WithKubeconfig(kubeconfig),
				validator.WithLoadOptions(registryOptions(cmd)...),
			)

			slog.Info("validating batch", "manifest", manifestURI, "jobs", len(manifest.Jobs))

			result, err := v.ValidateBatch(ctx, manifest.Jobs, int(cmd.Int("parallelism")))
			if err != nil {
				return fmt.Errorf("batch validation could not complete: %w", err)
			}

			if err := writeOutput(ctx, cmd, outFormat, result); err != nil {
				return err
			}

			slog.Info("batch completed",
				"total", result.Summary.Total,
				"passed", result.Summary.Passed,
				"failed", result.Summary.Failed,
				"duration", result.Summary.Duration)

			if cmd.Bool("fail-on-error") && !result.Success {
				return fmt.Errorf("%d of %d jobs failed: %w", result.Summary.Failed, result.Summary.Total, result.Err())
			}
			return nil
		},
	}
}
