// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package markdown

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/declolabs/cli/internal/emit"
	"github.com/declolabs/cli/internal/shapedecl"
)

//go:embed markdown.md.tmpl
var tmplFS embed.FS

var funcMap = template.FuncMap{
	"formatConstraints": formatConstraints,
}

var tmpl = template.Must(template.New("markdown.md.tmpl").Funcs(funcMap).ParseFS(tmplFS, "markdown.md.tmpl"))

// Emitter emits shapes as markdown documentation.
type Emitter struct{}

// FileExtension returns the file extension for markdown files.
func (e *Emitter) FileExtension() string {
	return ".md"
}

// Emit converts the named shape to markdown documentation.
func (e *Emitter) Emit(shapeName string, doc *shapedecl.Document, _ string) ([]byte, error) {
	plan, err := emit.Prepare(doc, shapeName)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare schema data: %w", err)
	}
	data := plan.Resolve(&resolver{})

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "markdown.md.tmpl", data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.Bytes(), nil
}

// formatConstraints formats a field's constraints as a human-readable
// string. Pipes inside patterns are escaped so regexes do not break
// the enclosing table.
func formatConstraints(list []shapedecl.Constraint) string {
	var parts []string

	for _, c := range list {
		switch c.Kind {
		case shapedecl.KindFormat:
			parts = append(parts, "format: "+c.Str)
		case shapedecl.KindPattern:
			parts = append(parts, fmt.Sprintf("pattern: `%s`", strings.ReplaceAll(c.Str, "|", `\|`)))
		case shapedecl.KindMinLength:
			parts = append(parts, fmt.Sprintf("minLength: %d", c.Count))
		case shapedecl.KindMaxLength:
			parts = append(parts, fmt.Sprintf("maxLength: %d", c.Count))
		case shapedecl.KindMinimum:
			parts = append(parts, fmt.Sprintf("minimum: %v", c.Num))
		case shapedecl.KindMaximum:
			parts = append(parts, fmt.Sprintf("maximum: %v", c.Num))
		case shapedecl.KindExclusiveMinimum:
			parts = append(parts, fmt.Sprintf("exclusiveMinimum: %v", c.Num))
		case shapedecl.KindExclusiveMaximum:
			parts = append(parts, fmt.Sprintf("exclusiveMaximum: %v", c.Num))
		case shapedecl.KindMultipleOf:
			parts = append(parts, fmt.Sprintf("multipleOf: %v", c.Num))
		case shapedecl.KindEnum:
			vals := make([]string, len(c.Values))
			for i, v := range c.Values {
				vals[i] = fmt.Sprintf("`%v`", v)
			}
			parts = append(parts, "enum: "+strings.Join(vals, ", "))
		case shapedecl.KindConst:
			parts = append(parts, fmt.Sprintf("const: `%v`", c.Value))
		case shapedecl.KindMinItems:
			parts = append(parts, fmt.Sprintf("minItems: %d", c.Count))
		case shapedecl.KindMaxItems:
			parts = append(parts, fmt.Sprintf("maxItems: %d", c.Count))
		}
	}

	return strings.Join(parts, ", ")
}
