// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Package markdown provides markdown shape documentation utilities.
package markdown

import (
	"strings"

	"github.com/declolabs/cli/internal/emit"
)

type resolver struct{}

func (r *resolver) PrimitiveType(baseType, format string) string {
	return baseType
}

func (r *resolver) ArrayType(elemType string) string {
	return "array(" + elemType + ")"
}

func (r *resolver) RefType(shapeName string) string {
	return "[" + emit.ToPascalCase(shapeName) + "](#" + emit.ToPascalCase(shapeName) + ")"
}

func (r *resolver) UnionType(variants []string) string {
	return "union(" + strings.Join(variants, ", ") + ")"
}

func (r *resolver) FormatShapeName(shapeName string) string {
	return emit.ToPascalCase(shapeName)
}

func (r *resolver) EnrichField(f *emit.Field) {}
