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

// Package serializer reads and writes layoutcheck documents.
//
// # Formats
//
// JSON and YAML are readable and writable. Table is a write-only flattened
// FIELD/VALUE rendering for terminals.
//
// # Reading
//
// FromFile loads a document from a local path, an HTTP(S) URL or a ConfigMap URI:
//
//	rec, err := serializer.FromFile[recipe.Recipe](ctx, "cm://checks/orders", "", "recipe")
//
// The format of paths and URLs comes from the extension (FormatFromPath). ConfigMaps
// carry the document under "<key>.yaml" or "<key>.json" with an optional "format" key.
//
// # Writing
//
// NewFileWriterOrStdout picks the destination from a path:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, output, kubeconfig)
//	if c, ok := w.(serializer.Closer); ok {
//	    defer c.Close()
//	}
//	err := w.Serialize(ctx, verdict)
//
// An empty path writes to stdout; cm://namespace/name applies a ConfigMap with
// server-side apply; anything else creates a file.
//
// # HTTP
//
// HttpReader fetches remote recipes and inputs with bounded timeouts and body size.
// RespondJSON is shared by the API server handlers.
package serializer
