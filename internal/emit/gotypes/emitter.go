// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Package gotypes provides Go struct type shape emission utilities.
package gotypes

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/declolabs/cli/internal/emit"
	"github.com/declolabs/cli/internal/shapedecl"
)

//go:embed gotypes.go.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.ParseFS(tmplFS, "gotypes.go.tmpl"))

// Emitter emits shapes as Go struct type definitions.
type Emitter struct{}

// FileExtension returns the file extension for Go source files.
func (e *Emitter) FileExtension() string {
	return ".go"
}

// Emit converts the named shape to Go struct definitions. The package
// name is derived from the output directory.
func (e *Emitter) Emit(shapeName string, doc *shapedecl.Document, outputDir string) ([]byte, error) {
	plan, err := emit.Prepare(doc, shapeName)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare schema data: %w", err)
	}
	data := plan.Resolve(&resolver{})

	data.Extra["Package"] = packageName(outputDir)

	// checks if any field type contains time.Time.
	data.Extra["NeedsTimeImport"] = false
	for _, def := range data.Defs {
		for i := range def.Fields {
			if strings.Contains(def.Fields[i].Type, "time.Time") {
				data.Extra["NeedsTimeImport"] = true
			}
		}
	}
	for i := range data.Root.Fields {
		if strings.Contains(data.Root.Fields[i].Type, "time.Time") {
			data.Extra["NeedsTimeImport"] = true
		}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "gotypes.go.tmpl", data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.Bytes(), nil
}

// packageName turns the output directory base into a legal Go package
// name, dropping characters an identifier cannot carry.
func packageName(outputDir string) string {
	base := strings.ToLower(filepath.Base(outputDir))
	var sb strings.Builder
	for _, r := range base {
		if unicode.IsLetter(r) || r == '_' || (sb.Len() > 0 && unicode.IsDigit(r)) {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "shapes"
	}
	return sb.String()
}
