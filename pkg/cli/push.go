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
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/layoutcheck/pkg/header"
	"github.com/NVIDIA/layoutcheck/pkg/oci"
	"github.com/NVIDIA/layoutcheck/pkg/recipe"
	"github.com/NVIDIA/layoutcheck/pkg/serializer"
)

func pushCmd() *cli.Command {
	return &cli.Command{
		Name:                  "push",
		EnableShellCompletion: true,
		Usage:                 "Publish a recipe to an OCI registry",
		Description: `Validate a recipe and publish it as an OCI artifact so validate and batch
can read it back with an oci:// URI.

The artifact has type application/vnd.nvidia.layoutcheck.recipe and one layer
holding the recipe document. Credentials come from the Docker configuration
(docker login).

# Examples

  layoutcheck push --recipe recipe.yaml --image oci://ghcr.io/acme/recipes:daily

Local registry over HTTP:
  layoutcheck push -r recipe.yaml --image oci://localhost:5000/recipes:v1 --plain-http`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "recipe",
				Aliases:  []string{"r"},
				Required: true,
				Usage:    "Path/URI to the recipe (file, HTTP/HTTPS URL, cm://namespace/name or oci://registry/repo:tag).",
				Sources:  cli.EnvVars("LAYOUTCHECK_RECIPE"),
			},
			&cli.StringFlag{
				Name:     "image",
				Required: true,
				Usage:    "Destination reference (oci://registry/repository:tag, tag defaults to latest).",
				Sources:  cli.EnvVars("LAYOUTCHECK_IMAGE"),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Value:   string(serializer.FormatYAML),
				Usage:   "Encoding of the published recipe (yaml, json)",
			},
			&cli.StringSliceFlag{
				Name:  "annotation",
				Usage: "Manifest annotation as key=value (repeatable)",
			},
			plainHTTPFlag(),
			insecureTLSFlag(),
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ref, err := oci.ParseReference(cmd.String("image"))
			if err != nil {
				return fmt.Errorf("invalid --image: %w", err)
			}

			format := serializer.Format(strings.ToLower(strings.TrimSpace(cmd.String("format"))))
			mediaType, err := recipeMediaType(format)
			if err != nil {
				return err
			}

			annotations, err := parseAnnotations(cmd.StringSlice("annotation"))
			if err != nil {
				return err
			}
			annotations["org.opencontainers.image.version"] = ref.Tag
			annotations["org.opencontainers.image.vendor"] = "NVIDIA"

			uri := cmd.String("recipe")
			rec, err := recipe.Load(ctx, uri, cmd.String("kubeconfig"), registryOptions(cmd)...)
			if err != nil {
				return fmt.Errorf("failed to load recipe from %q: %w", uri, err)
			}

			data, err := encodeRecipe(ctx, rec, format)
			if err != nil {
				return err
			}

			res, err := oci.Push(ctx, ref, data, oci.PushOptions{
				MediaType:   mediaType,
				Title:       "recipe." + string(format),
				Annotations: annotations,
				PlainHTTP:   cmd.Bool("plain-http"),
				InsecureTLS: cmd.Bool("insecure-tls"),
			})
			if err != nil {
				return fmt.Errorf("failed to push recipe to %s: %w", ref, err)
			}

			w := cmd.Root().Writer
			if w == nil {
				w = os.Stdout
			}
			fmt.Fprintf(w, "%s@%s\n", res.Reference, res.Digest)
			return nil
		},
	}
}

func recipeMediaType(format serializer.Format) (string, error) {
	switch format {
	case serializer.FormatYAML:
		return oci.MediaTypeRecipeYAML, nil
	case serializer.FormatJSON:
		return oci.MediaTypeRecipeJSON, nil
	default:
		return "", fmt.Errorf("unsupported recipe format %q (supported: yaml, json)", format)
	}
}

// encodeRecipe serializes rec with a Recipe header so the published
// document is self-describing.
func encodeRecipe(ctx context.Context, rec *recipe.Recipe, format serializer.Format) ([]byte, error) {
	if rec.Kind == "" {
		rec.Kind = header.KindRecipe
	}
	if rec.APIVersion == "" {
		rec.APIVersion = recipe.APIVersion
	}

	var buf bytes.Buffer
	if err := serializer.NewWriter(format, &buf).Serialize(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to encode recipe: %w", err)
	}
	slog.Debug("recipe encoded", "format", format, "bytes", buf.Len())
	return buf.Bytes(), nil
}

func parseAnnotations(values []string) (map[string]string, error) {
	out := make(map[string]string, len(values)+2)
	for _, v := range values {
		k, val, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid annotation %q, expected key=value", v)
		}
		out[strings.TrimSpace(k)] = val
	}
	return out, nil
}
