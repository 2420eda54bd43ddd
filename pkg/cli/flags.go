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
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/layoutcheck/pkg/recipe"
	"github.com/NVIDIA/layoutcheck/pkg/serializer"
)

// Flags are built per command; urfave flags carry parse state.

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage: `Output destination: file path, ConfigMap URI (cm://namespace/name), or stdout when empty.
	ConfigMap output requires cluster access (see --kubeconfig).`,
		Sources: cli.EnvVars("LAYOUTCHECK_OUTPUT"),
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("Output format (supported: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
		Sources: cli.EnvVars("LAYOUTCHECK_FORMAT"),
	}
}

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kubeconfig",
		Aliases: []string{"k"},
		Usage:   "Path to kubeconfig for cm:// URIs (defaults to KUBECONFIG, ~/.kube/config, or in-cluster)",
		Sources: cli.EnvVars("KUBECONFIG"),
	}
}

func strictFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "strict",
		Usage:   "Fail when lines remain after the last layout",
		Sources: cli.EnvVars("LAYOUTCHECK_STRICT"),
	}
}

func failOnErrorFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "fail-on-error",
		Value:   true,
		Usage:   "Exit with non-zero status when validation fails (--fail-on-error=false to only report)",
		Sources: cli.EnvVars("LAYOUTCHECK_FAIL_ON_ERROR"),
	}
}

func metricsFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "metrics-file",
		Usage:   "Write Prometheus metrics in text format to this file on completion (node_exporter textfile collector)",
		Sources: cli.EnvVars("LAYOUTCHECK_METRICS_FILE"),
	}
}

func plainHTTPFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "plain-http",
		Usage:   "Use HTTP instead of HTTPS for oci:// registries (local development)",
		Sources: cli.EnvVars("LAYOUTCHECK_PLAIN_HTTP"),
	}
}

func insecureTLSFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "insecure-tls",
		Usage:   "Skip TLS certificate verification for oci:// registries",
		Sources: cli.EnvVars("LAYOUTCHECK_INSECURE_TLS"),
	}
}

// registryOptions maps the registry flags onto recipe load options.
func registryOptions(cmd *cli.Command) []recipe.LoadOption {
	return []recipe.LoadOption{
		recipe.WithPlainHTTP(cmd.Bool("plain-http")),
		recipe.WithInsecureTLS(cmd.Bool("insecure-tls")),
	}
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(strings.ToLower(strings.TrimSpace(cmd.String("format"))))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported: %s)",
			cmd.String("format"), strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}

// writeOutput serializes v to the --output destination.
func writeOutput(ctx context.Context, cmd *cli.Command, format serializer.Format, v any) error {
	ser := serializer.NewFileWriterOrStdout(format, cmd.String("output"), cmd.String("kubeconfig"))
	defer func() {
		if closer, ok := ser.(serializer.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Warn("failed to close serializer", "error", err)
			}
		}
	}()

	if err := ser.Serialize(ctx, v); err != nil {
		return fmt.Errorf("failed to serialize output: %w", err)
	}
	return nil
}

// writeMetrics exports the default registry to --metrics-file, if set.
func writeMetrics(cmd *cli.Command) {
	path := cmd.String("metrics-file")
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		slog.Warn("failed to write metrics file", "path", path, "error", err)
		return
	}
	slog.Debug("metrics written", "path", path)
}
