// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package jschema

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"
)

// Document pairs a parsed schema with the property ordering the decoder
// loses: Go maps forget the source key order.
type Document struct {
	Schema *jsonschema.Schema

	// PropOrder maps a dotted path ("properties",
	// "$defs.Address.properties", "$defs") to the key order found in the
	// source bytes.
	PropOrder map[string][]string
}

// PropertiesAt returns the names of props in source order. Names the raw
// walk did not see, for example inside subtrees inlined from other files,
// come last in sorted order.
func (d *Document) PropertiesAt(path string, props map[string]*jsonschema.Schema) []string {
	return orderedKeys(d.PropOrder[path], props)
}

// DefNames returns the $defs names in source order.
func (d *Document) DefNames() []string {
	return orderedKeys(d.PropOrder["$defs"], d.Schema.Defs)
}

func orderedKeys(order []string, m map[string]*jsonschema.Schema) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, key := range order {
		if _, ok := m[key]; ok && !seen[key] {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	rest := make([]string, 0, len(m))
	for key := range m {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// Loader loads schema files from a filesystem.
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a Loader that reads from the given filesystem.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// LoadFile loads and parses a schema file.
// The format is determined from the file extension.
func (l *Loader) LoadFile(filePath string) (*Document, error) {
	f, err := l.fsys.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return parseSchema(data, filePath)
}

func parseSchema(data []byte, filePath string) (*Document, error) {
	switch {
	case strings.HasSuffix(filePath, ".yaml") || strings.HasSuffix(filePath, ".yml"):
		// The schema type only speaks JSON, so bridge through it.
		var tree any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
		rawJSON, err := json.Marshal(tree)
		if err != nil {
			return nil, err
		}
		var schema jsonschema.Schema
		if err := json.Unmarshal(rawJSON, &schema); err != nil {
			return nil, err
		}
		order, err := ExtractKeyOrderYAML(data)
		if err != nil {
			return nil, err
		}
		return &Document{Schema: &schema, PropOrder: order}, nil
	case strings.HasSuffix(filePath, ".json"):
		var schema jsonschema.Schema
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, err
		}
		order, err := ExtractKeyOrderJSON(data)
		if err != nil {
			return nil, err
		}
		return &Document{Schema: &schema, PropOrder: order}, nil
	default:
		return nil, fmt.Errorf("unsupported schema file extension %q", path.Ext(filePath))
	}
}

// ResolveRefs resolves all external file $refs in the schema tree
// in-place. It recursively loads referenced schemas and replaces the ref
// with the loaded content. Internal refs (starting with "#") are left
// unchanged. Key order inside inlined subtrees is not recovered, so
// callers fall back to sorted order there.
func (l *Loader) ResolveRefs(doc *Document, basePath string) error {
	for s := range Traverse(doc.Schema, nil) {
		if !IsFileRef(s.Ref) {
			continue
		}
		refPath := path.Join(basePath, s.Ref)
		loaded, err := l.LoadFile(refPath)
		if err != nil {
			return err
		}
		if err := l.ResolveRefs(loaded, path.Dir(refPath)); err != nil {
			return err
		}
		*s = *loaded.Schema
	}
	return nil
}
