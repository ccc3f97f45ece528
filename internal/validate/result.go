// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package validate

import (
	"fmt"

	"github.com/declolabs/cli/internal/shapedecl"
)

// Kind identifies what a violation reports. Constraint violations
// reuse the declaration kinds (Pattern, Minimum, ...); the constants
// below cover structural failures.
type Kind = shapedecl.Kind

// Structural violation kinds.
const (
	KindMissingRequiredField Kind = "MissingRequiredField"
	KindTypeMismatch         Kind = "TypeMismatch"
	KindMaxDepthExceeded     Kind = "MaxDepthExceeded"
)

// Violation is one failed check, located by path. The root value is
// addressed as "$"; fields are addressed bare, with array elements
// indexed, as in "lines[0].sku".
type Violation struct {
	Path    string `json:"path" yaml:"path"`
	Kind    Kind   `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Path, v.Message, v.Kind)
}

// Result accumulates every violation found in one candidate value.
// Violations follow document field order, then array index order,
// then canonical constraint order.
type Result struct {
	Violations []Violation `json:"violations" yaml:"violations"`
}

// Valid reports whether the candidate satisfied every check.
func (r Result) Valid() bool {
	return len(r.Violations) == 0
}

type recorder struct {
	violations []Violation
}

func (r *recorder) add(path string, kind Kind, format string, args ...any) {
	r.violations = append(r.violations, Violation{
		Path:    path,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}
