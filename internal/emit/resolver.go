// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package emit

import "strings"

// TypeResolver converts declaration types to target-language type
// strings and naming conventions. Each template-driven emitter
// implements this interface to control how shapes map to its output.
type TypeResolver interface {
	// PrimitiveType maps a base type and format to a target type
	// string. Format is checked first, allowing "date-time" to
	// override "string".
	PrimitiveType(baseType, format string) string

	// ArrayType wraps an element type string in an array type.
	ArrayType(elemType string) string

	// RefType returns the type string for a shape reference.
	RefType(shapeName string) string

	// UnionType combines resolved variant type strings into a union
	// type string.
	UnionType(variants []string) string

	// FormatShapeName formats a shape name for the target language.
	FormatShapeName(shapeName string) string

	// EnrichField applies language-specific post-processing to a
	// resolved field. It may mutate any of the field's properties:
	//   - Name: rename for target conventions (e.g. PascalCase for Go)
	//   - Type: wrap for nullability (e.g. *T for Go)
	//   - Tag:  set annotations (e.g. json struct tags)
	// Called once per field after type resolution, before template
	// execution.
	EnrichField(f *Field)
}

// ToPascalCase converts snake_case and kebab-case names to PascalCase.
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var sb strings.Builder
	for _, part := range parts {
		if part != "" {
			sb.WriteString(strings.ToUpper(part[:1]) + part[1:])
		}
	}

	return sb.String()
}
