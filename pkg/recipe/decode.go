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

package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// documentKeys maps folded YAML keys to their canonical spelling so recipes
// written as NumberOfRows, numberofrows or numberOfRows all decode.
var documentKeys = func() map[string]string {
	m := make(map[string]string)
	for _, k := range []string{
		"kind", "apiVersion", "metadata", "layouts",
		"name", "numberOfRows", "specs", "configs",
		"key", "value", "type", "format", "length",
	} {
		m[foldKey(k)] = k
	}
	return m
}()

// UnmarshalYAML accepts either a bare sequence of layouts or a mapping with a
// layouts key and an optional document header.
func (r *Recipe) UnmarshalYAML(node *yaml.Node) error {
	normalizeKeys(node)

	if node.Kind == yaml.SequenceNode {
		var layouts []Layout
		if err := node.Decode(&layouts); err != nil {
			return err
		}
		r.Layouts = layouts
		return nil
	}

	type plain Recipe
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = Recipe(p)
	return nil
}

// UnmarshalJSON accepts the same two shapes as UnmarshalYAML.
// Field names match case-insensitively.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty recipe document")
	}

	if trimmed[0] == '[' {
		var layouts []Layout
		if err := json.Unmarshal(trimmed, &layouts); err != nil {
			return err
		}
		r.Layouts = layouts
		return nil
	}

	type plain Recipe
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*r = Recipe(p)
	return nil
}

func normalizeKeys(node *yaml.Node) {
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range node.Content {
			normalizeKeys(c)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			k := node.Content[i]
			canonical, ok := documentKeys[foldKey(k.Value)]
			if ok {
				k.Value = canonical
			}
			// metadata keys are free-form
			if canonical == "metadata" {
				continue
			}
			normalizeKeys(node.Content[i+1])
		}
	case yaml.ScalarNode, yaml.AliasNode:
	}
}
