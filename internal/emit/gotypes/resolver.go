// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package gotypes

import (
	"strings"

	"github.com/declolabs/cli/internal/emit"
)

type resolver struct{}

func (r *resolver) PrimitiveType(baseType, format string) string {
	if format != "" {
		switch format {
		case "date", "date-time":
			return "time.Time"
		case "uuid":
			return "string"
		}
	}

	switch baseType {
	case "string":
		return "string"
	case "integer":
		return "int64"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	default:
		return "any"
	}
}

func (r *resolver) ArrayType(elemType string) string {
	return "[]" + elemType
}

func (r *resolver) RefType(shapeName string) string {
	return toPascalCase(shapeName)
}

// UnionType returns any: Go has no sum types, and a union field can
// hold a value of any of its variants.
func (r *resolver) UnionType(_ []string) string {
	return "any"
}

func (r *resolver) FormatShapeName(shapeName string) string {
	return toPascalCase(shapeName)
}

func (r *resolver) EnrichField(f *emit.Field) {
	tag := f.Name
	if f.Optional {
		tag += ",omitempty"
	}
	if f.Nullable || f.Optional {
		f.Type = "*" + f.Type
	}
	f.Tag = "`json:\"" + tag + "\"`"
	f.Name = toPascalCase(f.Name)
}

// toPascalCase converts a snake_case or kebab-case string to PascalCase.
// It handles common Go acronyms (ID, URL, HTTP, API, JSON, XML, SQL, HTML).
func toPascalCase(s string) string {
	// Common Go acronyms that should be fully uppercased.
	acronyms := map[string]string{
		"id":   "ID",
		"url":  "URL",
		"http": "HTTP",
		"api":  "API",
		"json": "JSON",
		"xml":  "XML",
		"sql":  "SQL",
		"html": "HTML",
		"ip":   "IP",
		"tcp":  "TCP",
		"udp":  "UDP",
		"tls":  "TLS",
		"ssl":  "SSL",
		"ssh":  "SSH",
		"cpu":  "CPU",
		"uri":  "URI",
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var sb strings.Builder
	for _, part := range parts {
		lower := strings.ToLower(part)
		if acronym, ok := acronyms[lower]; ok {
			sb.WriteString(acronym)
		} else if part != "" {
			sb.WriteString(strings.ToUpper(part[:1]) + part[1:])
		}
	}

	return sb.String()
}
