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

// Package recipe defines the layout recipe a text file is validated against.
//
// A Recipe is an ordered list of Layouts. Each Layout consumes NumberOfRows
// consecutive lines, splits each line according to its Kind and checks the
// resulting fields against its Specs in order.
//
// # Document Format
//
// Recipes decode from YAML or JSON. The document is either a bare list of
// layouts or a mapping with a header and a layouts key:
//
//	kind: Recipe
//	apiVersion: layoutcheck.nvidia.com/v1alpha1
//	layouts:
//	  - kind: fixed
//	    name: header
//	    numberOfRows: 1
//	    specs:
//	      - type: string
//	        value: HDR
//	      - type: datetime
//	        format: yyyyMMdd
//	  - kind: delimited
//	    name: detail
//	    numberOfRows: 3
//	    configs:
//	      - key: delimiter
//	        value: "|"
//	    specs:
//	      - type: string
//	        length: 3
//	      - type: string
//
// Keys match case-insensitively, so NumberOfRows and numberofrows are accepted.
//
// # Specification Modes
//
// A Specification checks a field in exactly one mode, by precedence:
//   - literal, when value is set (an empty string counts as set)
//   - fixed length, when length is non-zero
//   - free text otherwise: the field must not be blank
//
// Datetime fields always check their format pattern.
//
// # Loading
//
// Load reads from a path, an HTTP(S) URL, a ConfigMap (cm://namespace/name,
// key recipe.yaml or recipe.json) or an OCI registry
// (oci://registry/repository:tag, see package oci) and returns an INVALID_RECIPE structured error
// when the document is malformed.
package recipe
