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
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/layoutcheck/pkg/recipe"
	"github.com/NVIDIA/layoutcheck/pkg/validator"
)

func lintCmd() *cli.Command {
	return &cli.Command{
		Name:                  "lint",
		EnableShellCompletion: true,
		Usage:                 "Check a recipe without validating any input",
		Description: `Report every structural problem in a recipe and every layout kind or
field type that is not registered. Exits non-zero when problems are found.

  layoutcheck lint --recipe recipe.yaml`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "recipe",
				Aliases:  []string{"r"},
				Required: true,
				Usage:    "Path/URI to the recipe (file, HTTP/HTTPS URL, cm://namespace/name or oci://registry/repo:tag).",
				Sources:  cli.EnvVars("LAYOUTCHECK_RECIPE"),
			},
			kubeconfigFlag(),
			plainHTTPFlag(),
			insecureTLSFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			uri := cmd.String("recipe")

			// load without the structural check so lint can list every problem
			rec, err := recipe.Fetch(ctx, uri, cmd.String("kubeconfig"), registryOptions(cmd)...)
			if err != nil {
				return fmt.Errorf("failed to load recipe from %q: %w", uri, err)
			}

			issues := validator.New(validator.WithVersion(version)).Lint(rec)
			return reportIssues(cmd.Root().Writer, uri, issues)
		},
	}
}

func reportIssues(w io.Writer, uri string, issues []validator.Issue) error {
	if w == nil {
		w = os.Stdout
	}
	if len(issues) == 0 {
		fmt.Fprintf(w, "%s: ok\n", uri)
		return nil
	}
	for _, i := range issues {
		fmt.Fprintf(w, "%s: %s\n", uri, i)
	}
	return fmt.Errorf("recipe %q has %d problem(s)", uri, len(issues))
}

func kindsCmd() *cli.Command {
	return &cli.Command{
		Name:  "kinds",
		Usage: "List the registered layout kinds and field types",
		Flags: []cli.Flag{
			outputFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Usage:   "Output format (json, yaml, table); plain list when empty",
			},
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			kinds := validator.New().Kinds()

			if cmd.String("format") != "" {
				outFormat, err := parseOutputFormat(cmd)
				if err != nil {
					return err
				}
				return writeOutput(ctx, cmd, outFormat, kinds)
			}

			w := cmd.Root().Writer
			if w == nil {
				w = os.Stdout
			}
			printKinds(w, "layout kinds", kinds.Layouts)
			printKinds(w, "field types", kinds.Fields)
			return nil
		},
	}
}

func printKinds(w io.Writer, title string, kinds []validator.Kind) {
	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range kinds {
		if len(k.Aliases) == 0 {
			fmt.Fprintf(w, "  %s\n", k.Name)
			continue
		}
		fmt.Fprintf(w, "  %s (aliases: %s)\n", k.Name, strings.Join(k.Aliases, ", "))
	}
}
