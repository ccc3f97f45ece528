// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package openapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/declolabs/cli/internal/shapedecl"
)

// Emitter emits OpenAPI 3.0 documents.
type Emitter struct{}

// FileExtension returns the file extension for OpenAPI documents.
func (e *Emitter) FileExtension() string {
	return ".openapi.json"
}

// Emit converts the named shape to an OpenAPI document. The document
// is validated before it is rendered, so an emitted file is always a
// well-formed OpenAPI 3.0 description.
func (e *Emitter) Emit(shapeName string, doc *shapedecl.Document, _ string) ([]byte, error) {
	spec, err := Build(doc, shapeName)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return Marshal(spec)
}

// Marshal renders the document as indented JSON. Object keys come out
// sorted, so output bytes are stable for a given document.
func Marshal(spec *openapi3.T) ([]byte, error) {
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal openapi document: %w", err)
	}
	return append(data, '\n'), nil
}
