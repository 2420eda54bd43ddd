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

package server

import (
	"net/http"
	"strings"
)

const (
	// DefaultAPIVersion is served when the client does not ask for a version.
	DefaultAPIVersion = "v1"

	// headerAPIVersion reports the negotiated version on every API response.
	headerAPIVersion = "X-API-Version"

	vendorMediaPrefix = "application/vnd.nvidia.layoutcheck."
)

var supportedAPIVersions = map[string]bool{
	"v1": true,
}

// negotiateAPIVersion picks the first supported version requested through a
// vendor media type in Accept, e.g.
//
//	Accept: application/vnd.nvidia.layoutcheck.v1+json; q=0.9
//
// Media type parameters are ignored. Without a supported vendor type the
// default version is used.
func negotiateAPIVersion(r *http.Request) string {
	for _, mediaType := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, _ = strings.Cut(mediaType, ";")
		rest, ok := strings.CutPrefix(strings.TrimSpace(mediaType), vendorMediaPrefix)
		if !ok {
			continue
		}
		v, _, _ := strings.Cut(rest, "+")
		if isValidAPIVersion(v) {
			return v
		}
	}
	return DefaultAPIVersion
}

func isValidAPIVersion(v string) bool {
	return supportedAPIVersions[v]
}

// SetAPIVersionHeader reports the negotiated API version to the client.
func SetAPIVersionHeader(w http.ResponseWriter, v string) {
	w.Header().Set(headerAPIVersion, v)
}
