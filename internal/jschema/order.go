// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package jschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExtractKeyOrderJSON walks raw JSON bytes and records, for every
// "properties" object and for "$defs", the key order as written. Paths
// are dotted, e.g. "$defs.Address.properties".
func ExtractKeyOrderJSON(data []byte) (map[string][]string, error) {
	order := make(map[string][]string)
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := walkJSON(dec, "", order); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return order, nil
}

func walkJSON(dec *json.Decoder, path string, order map[string][]string) error {
	token, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := token.(json.Delim)
	if !ok {
		return nil
	}
	switch delim {
	case '{':
		var keys []string
		for dec.More() {
			keyToken, err := dec.Token()
			if err != nil {
				return err
			}
			key, ok := keyToken.(string)
			if !ok {
				continue
			}
			keys = append(keys, key)
			if err := walkJSON(dec, childPath(path, key), order); err != nil {
				return err
			}
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
		if recordable(path) {
			order[path] = keys
		}
	case '[':
		for dec.More() {
			if err := walkJSON(dec, path, order); err != nil {
				return err
			}
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
	}
	return nil
}

// ExtractKeyOrderYAML is the YAML counterpart of ExtractKeyOrderJSON.
func ExtractKeyOrderYAML(data []byte) (map[string][]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	order := make(map[string][]string)
	if len(root.Content) > 0 {
		walkYAML(root.Content[0], "", order)
	}
	return order, nil
}

func walkYAML(node *yaml.Node, path string, order map[string][]string) {
	switch node.Kind {
	case yaml.MappingNode:
		var keys []string
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			keys = append(keys, key)
			walkYAML(node.Content[i+1], childPath(path, key), order)
		}
		if recordable(path) {
			order[path] = keys
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			walkYAML(item, path, order)
		}
	}
}

func childPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func recordable(path string) bool {
	return path == "$defs" || path == "properties" || strings.HasSuffix(path, ".properties")
}
