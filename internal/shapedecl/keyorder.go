// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package shapedecl

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// extractKeyOrderJSON walks raw JSON and records mapping key order per
// path. Paths are dot-joined key chains from the document root, with
// sequence elements addressed as path[i]. Go's map decoding discards
// order, so the walk runs on the raw bytes.
func extractKeyOrderJSON(data []byte) (map[string][]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	order := make(map[string][]string)
	if err := walkJSONValue(dec, "", order); err != nil {
		return nil, err
	}
	return order, nil
}

func walkJSONValue(dec *json.Decoder, path string, order map[string][]string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}
	switch delim {
	case '{':
		return walkJSONObject(dec, path, order)
	case '[':
		return walkJSONArray(dec, path, order)
	}
	return nil
}

func walkJSONObject(dec *json.Decoder, path string, order map[string][]string) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key token %v", tok)
		}
		order[path] = append(order[path], key)
		child := key
		if path != "" {
			child = path + "." + key
		}
		if err := walkJSONValue(dec, child, order); err != nil {
			return err
		}
	}
	_, err := dec.Token() // closing brace
	return err
}

func walkJSONArray(dec *json.Decoder, path string, order map[string][]string) error {
	for i := 0; dec.More(); i++ {
		if err := walkJSONValue(dec, fmt.Sprintf("%s[%d]", path, i), order); err != nil {
			return err
		}
	}
	_, err := dec.Token() // closing bracket
	return err
}

// extractKeyOrderYAML is the YAML counterpart of extractKeyOrderJSON,
// built on the yaml.Node tree.
func extractKeyOrderYAML(data []byte) (map[string][]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	order := make(map[string][]string)
	walkYAMLNode(&root, "", order)
	return order, nil
}

func walkYAMLNode(n *yaml.Node, path string, order map[string][]string) {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			walkYAMLNode(c, path, order)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			order[path] = append(order[path], key)
			child := key
			if path != "" {
				child = path + "." + key
			}
			walkYAMLNode(n.Content[i+1], child, order)
		}
	case yaml.SequenceNode:
		for i, c := range n.Content {
			walkYAMLNode(c, fmt.Sprintf("%s[%d]", path, i), order)
		}
	}
}
