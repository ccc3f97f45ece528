// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Package jschema provides JSON Schema loading, ordering, and traversal
// utilities for the import pipeline.
package jschema

import "strings"

// IsFileRef returns true if ref points at another file rather than a
// location inside the current document.
func IsFileRef(ref string) bool {
	return ref != "" && !strings.HasPrefix(ref, "#")
}

// RefName extracts the definition name from an internal $ref pointer.
// It recognizes $defs, definitions, and components/schemas pointers and
// returns "" for anything else.
func RefName(ref string) string {
	pointer, ok := strings.CutPrefix(ref, "#/")
	if !ok {
		return ""
	}
	for _, prefix := range []string{"$defs/", "definitions/", "components/schemas/"} {
		if name, ok := strings.CutPrefix(pointer, prefix); ok && !strings.Contains(name, "/") {
			return name
		}
	}
	return ""
}
