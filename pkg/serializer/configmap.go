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

package serializer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"

	"github.com/NVIDIA/layoutcheck/pkg/defaults"
	"github.com/NVIDIA/layoutcheck/pkg/header"
	"github.com/NVIDIA/layoutcheck/pkg/k8s/client"
)

const configMapFieldManager = "layoutcheck"

// ConfigMapOption configures a ConfigMapWriter.
type ConfigMapOption func(*ConfigMapWriter)

// WithKubeconfig selects the kubeconfig used to build the client.
// Empty uses the in-cluster or default kubeconfig.
func WithKubeconfig(path string) ConfigMapOption {
	return func(w *ConfigMapWriter) {
		w.kubeconfig = path
	}
}

// WithKubeClient sets the client directly, bypassing kubeconfig resolution.
func WithKubeClient(c client.Interface) ConfigMapOption {
	return func(w *ConfigMapWriter) {
		w.client = c
	}
}

// ConfigMapWriter writes serialized documents to a Kubernetes ConfigMap.
// The ConfigMap is created if it doesn't exist, or updated if it does.
type ConfigMapWriter struct {
	namespace  string
	name       string
	format     Format
	kubeconfig string
	client     client.Interface
}

// NewConfigMapWriter creates a new ConfigMapWriter that writes to the specified
// namespace and ConfigMap name in the given format.
func NewConfigMapWriter(namespace, name string, format Format, opts ...ConfigMapOption) *ConfigMapWriter {
	w := &ConfigMapWriter{
		namespace: namespace,
		name:      name,
		format:    normalize(format),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Serialize writes the document to the ConfigMap using server-side apply.
// The ConfigMap will have:
// - data.<kind>.{yaml|json|txt}: the serialized document
// - data.format: the format used
// - data.timestamp: RFC 3339 time the document was produced
func (w *ConfigMapWriter) Serialize(ctx context.Context, doc any) error {
	writeCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	c := w.client
	if c == nil {
		var err error
		c, _, err = client.GetKubeClientWithConfig(w.kubeconfig)
		if err != nil {
			return fmt.Errorf("failed to get kubernetes client: %w", err)
		}
	}

	content, err := marshal(w.format, doc)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	extension := string(w.format)
	if w.format == FormatTable {
		extension = "txt"
	}

	kind := header.KindVerdict.String()
	version := "unknown"
	timestamp := time.Now().UTC().Format(time.RFC3339)
	if h, ok := doc.(interface {
		GetKind() header.Kind
		GetMetadata() map[string]string
	}); ok {
		if k := h.GetKind(); k != "" {
			kind = k.String()
		}
		md := h.GetMetadata()
		if v, exists := md["version"]; exists && v != "" {
			version = v
		}
		if ts, exists := md["timestamp"]; exists && ts != "" {
			timestamp = ts
		}
	}

	configMap := accorev1.ConfigMap(w.name, w.namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":      "layoutcheck",
			"app.kubernetes.io/component": strings.ToLower(kind),
			"app.kubernetes.io/version":   version,
		}).
		WithData(map[string]string{
			fmt.Sprintf("%s.%s", strings.ToLower(kind), extension): string(content),
			"format":    string(w.format),
			"timestamp": timestamp,
		})

	slog.Info("applying ConfigMap",
		"namespace", w.namespace,
		"name", w.name,
		"format", w.format)

	_, err = c.CoreV1().ConfigMaps(w.namespace).Apply(
		writeCtx,
		configMap,
		metav1.ApplyOptions{
			FieldManager: configMapFieldManager,
			Force:        true,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to apply ConfigMap: %w", err)
	}

	return nil
}

// Close is a no-op; it satisfies the Closer interface.
func (w *ConfigMapWriter) Close() error {
	return nil
}

// parseConfigMapURI parses a ConfigMap URI in the format cm://namespace/name.
func parseConfigMapURI(uri string) (namespace, name string, err error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return "", "", fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, ConfigMapURIScheme), "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}

	namespace = strings.TrimSpace(parts[0])
	name = strings.TrimSpace(parts[1])

	if namespace == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	}
	if name == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: name cannot be empty")
	}
	if strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid ConfigMap URI: name cannot contain '/'")
	}

	return namespace, name, nil
}
