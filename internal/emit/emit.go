// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Package emit provides schema emission utilities shared by all
// target formats.
package emit

import (
	"fmt"
	"sort"

	"github.com/declolabs/cli/internal/shapedecl"
)

// Emitter defines the interface all format emitters must implement.
type Emitter interface {
	// Emit renders the named shape, and everything it references,
	// from the document. outputDir names the output directory;
	// emitters that derive a package or namespace name use it.
	Emit(shapeName string, doc *shapedecl.Document, outputDir string) ([]byte, error)

	// FileExtension returns the appropriate file extension
	// (e.g. ".schema.json", ".md").
	FileExtension() string
}

// Register maps target format names to emitters.
type Register map[string]Emitter

// Get retrieves an emitter by format name.
func (r Register) Get(name string) (Emitter, error) {
	e, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", name)
	}
	return e, nil
}

// Available returns all registered format names, sorted.
func (r Register) Available() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
