// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package jsonschema

import (
	"github.com/declolabs/cli/internal/shapedecl"
)

// Emitter emits shapes as standalone JSON Schema documents.
type Emitter struct{}

// FileExtension returns the file extension for JSON Schema files.
func (e *Emitter) FileExtension() string {
	return ".schema.json"
}

// Emit renders the named shape as an indented JSON Schema document.
func (e *Emitter) Emit(shapeName string, doc *shapedecl.Document, _ string) ([]byte, error) {
	schema, err := Build(doc, shapeName)
	if err != nil {
		return nil, err
	}
	return Marshal(schema)
}
