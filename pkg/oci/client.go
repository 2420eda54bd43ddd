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

package oci

import (
	"crypto/tls"
	"log/slog"
	"net/http"

	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/NVIDIA/layoutcheck/pkg/errors"
)

const userAgent = "layoutcheck"

func newRepository(ref *Reference, plainHTTP, insecureTLS bool) (*remote.Repository, error) {
	repo, err := remote.NewRepository(ref.Name())
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to initialize remote repository", err,
			map[string]any{"repository": ref.Name()})
	}
	repo.PlainHTTP = plainHTTP
	repo.Client = newAuthClient(plainHTTP, insecureTLS)
	return repo, nil
}

// newAuthClient returns a registry client that reads Docker credentials
// (~/.docker/config.json and credential helpers) when they exist.
func newAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	client.SetUserAgent(userAgent)

	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credentials unavailable, using anonymous access", "error", err)
		return client
	}
	client.Credential = credentials.Credential(credStore)
	return client
}
