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

package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	lcerrors "github.com/NVIDIA/layoutcheck/pkg/errors"
)

// userAgent identifies layoutcheck in API server audit logs.
const userAgent = "layoutcheck"

// Interface is kubernetes.Interface; tests pass a fake clientset.
type Interface = kubernetes.Interface

var (
	clientOnce   sync.Once
	cachedClient Interface
	cachedConfig *rest.Config
	clientErr    error
)

// GetKubeClient returns the process-wide client, building it on first use
// from the discovered kubeconfig.
func GetKubeClient() (Interface, *rest.Config, error) {
	clientOnce.Do(func() {
		cachedClient, cachedConfig, clientErr = BuildKubeClient("")
	})
	return cachedClient, cachedConfig, clientErr
}

// GetKubeClientWithConfig builds a client for kubeconfig, or returns the
// shared one when kubeconfig is empty.
func GetKubeClientWithConfig(kubeconfig string) (Interface, *rest.Config, error) {
	if kubeconfig == "" {
		return GetKubeClient()
	}
	return BuildKubeClient(kubeconfig)
}

// BuildKubeClient creates a new client without touching the shared one.
// An empty kubeconfig falls back to KUBECONFIG, then ~/.kube/config, then
// the in-cluster service account.
func BuildKubeClient(kubeconfig string) (Interface, *rest.Config, error) {
	config, err := restConfig(resolveKubeconfig(kubeconfig))
	if err != nil {
		return nil, nil, err
	}
	config = rest.CopyConfig(config)
	config.UserAgent = userAgent

	c, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return c, config, nil
}

func resolveKubeconfig(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(clientcmd.RecommendedConfigPathEnvVar); env != "" {
		return env
	}
	home := filepath.Join(homedir.HomeDir(), clientcmd.RecommendedHomeDir, clientcmd.RecommendedFileName)
	if _, err := os.Stat(home); err == nil {
		return home
	}
	return ""
}

func restConfig(path string) (*rest.Config, error) {
	if path == "" {
		// calling InClusterConfig directly skips the "neither --kubeconfig
		// nor --master" warning BuildConfigFromFlags prints
		config, err := rest.InClusterConfig()
		if err != nil {
			return nil, lcerrors.Wrap(lcerrors.ErrCodeUnavailable, "failed to get in-cluster config", err)
		}
		return config, nil
	}

	rules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: path}
	config, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
	if err != nil {
		return nil, lcerrors.WrapWithContext(lcerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("failed to build kube config from %s", path), err,
			map[string]any{"kubeconfig": path})
	}
	return config, nil
}

// GetConfigMapData returns the data map of namespace/name. A missing
// ConfigMap is a NOT_FOUND error.
func GetConfigMapData(ctx context.Context, c Interface, namespace, name string) (map[string]string, error) {
	if c == nil {
		return nil, lcerrors.New(lcerrors.ErrCodeInternal, "kubernetes client is nil")
	}

	cm, err := c.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		code := lcerrors.ErrCodeUnavailable
		switch {
		case apierrors.IsNotFound(err):
			code = lcerrors.ErrCodeNotFound
		case apierrors.IsForbidden(err), apierrors.IsUnauthorized(err):
			code = lcerrors.ErrCodeInvalidRequest
		}
		return nil, lcerrors.Wrap(code, fmt.Sprintf("failed to get ConfigMap %s/%s", namespace, name), err)
	}
	return cm.Data, nil
}
