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

	"github.com/NVIDIA/layoutcheck/pkg/recipe"
	"github.com/NVIDIA/layoutcheck/pkg/validator"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "validate",
		EnableShellCompletion: true,
		Usage:                 "Validate a text file against a layout recipe",
		Description: `Walk the layouts of a recipe over an input file, line by line.

Each layout consumes exactly numberOfRows lines. A line is checked against the
layout's kind:

  fixed      fields are read left to right at increasing offsets
  delimited  the line is split (configs: regex, delimiter; default quoted CSV)
             and field i is checked against spec i

The run stops at the first failure and the verdict reports it:

  content_mismatch   a line did not match its layout
  row_shortfall      the input ended before a layout had all its rows
  unknown_validator  the recipe names a kind or type that does not exist
  trailing_content   lines remain after the last layout (--strict only)

# Examples

Validate a file, verdict to stdout:
  layoutcheck validate --recipe recipe.yaml --input out.txt

Read the recipe from a ConfigMap and the input from stdin:
  cat out.txt | layoutcheck validate -r cm://etl/recipe -i -

Pull the recipe from an OCI registry:
  layoutcheck validate -r oci://ghcr.io/acme/recipes:daily -i out.txt

Write the verdict to a file as JSON without failing the command:
  layoutcheck validate -r recipe.yaml -i out.txt -o verdict.json --format json --fail-on-error=false`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "recipe",
				Aliases:  []string{"r"},
				Required: true,
				Usage: `Path/URI to the recipe.
	Supports: file paths, HTTP/HTTPS URLs, ConfigMap URIs (cm://namespace/name)
	or OCI references (oci://registry/repository:tag).`,
				Sources: cli.EnvVars("LAYOUTCHECK_RECIPE"),
			},
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Required: true,
				Usage:    `Path/URL of the file to validate, or "-" for stdin.`,
				Sources:  cli.EnvVars("LAYOUTCHECK_INPUT"),
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

			recipeURI := cmd.String("recipe")
			inputURI := cmd.String("input")
			kubeconfig := cmd.String("kubeconfig")

			slog.Info("loading recipe", "uri", recipeURI)

			rec, err := recipe.Load(ctx, recipeURI, kubeconfig, registryOptions(cmd)...)
			if err != nil {
				return fmt.Errorf("failed to load recipe from %q: %w", recipeURI, err)
			}

			v := validator.New(
				validator.WithVersion(version),
				validator.WithStrict(cmd.Bool("strict")),
				validator.WithKubeconfig(kubeconfig),
			)

			slog.Info("validating input",
				"recipe", recipeURI,
				"input", inputURI,
				"layouts", len(rec.Layouts),
				"expectedRows", rec.ExpectedRows())

			verdict, err := v.ValidateFile(ctx, rec, inputURI)
			if err != nil {
				return fmt.Errorf("validation of %q could not complete: %w", inputURI, err)
			}
			verdict.RecipeSource = recipeURI

			if err := writeOutput(ctx, cmd, outFormat, verdict); err != nil {
				return err
			}

			slog.Info("validation completed",
				"success", verdict.Success,
				"reason", verdict.Reason,
				"failedAtRow", verdict.FailedAtRow,
				"rows", verdict.Summary.Rows,
				"duration", verdict.Summary.Duration)

			if cmd.Bool("fail-on-error") && !verdict.Success {
				return fmt.Errorf("validation failed: %w", verdict.Err())
			}
			return nil
		},
	}
}
