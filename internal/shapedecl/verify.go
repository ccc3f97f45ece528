// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package shapedecl

import (
	"errors"
	"fmt"
	"strings"
)

// Graph-level declaration errors.
var (
	ErrUnknownShape         = errors.New("unknown shape")
	ErrCyclicShapeReference = errors.New("cyclic shape reference")
)

// Verify checks every declaration in the document: constraints must
// normalize and referenced shapes must exist. All problems are
// returned, not just the first.
//
// Reference cycles are deliberately not verification errors. Cyclic
// shapes validate fine; only schema emission rejects them. Callers
// that care should check FindCycle themselves.
func (d *Document) Verify() []error {
	var errs []error
	for i := range d.Shapes {
		s := &d.Shapes[i]
		for j := range s.Fields {
			if _, err := NormalizeField(&s.Fields[j]); err != nil {
				errs = append(errs, fmt.Errorf("shape %q: field %q: %w", s.Name, s.Fields[j].Name, err))
			}
		}
		for _, ref := range s.References() {
			if d.Shape(ref) == nil {
				errs = append(errs, fmt.Errorf("shape %q: %w: %q", s.Name, ErrUnknownShape, ref))
			}
		}
	}
	return errs
}

// CycleError wraps a reference cycle as an error naming the shapes
// along it.
func CycleError(cycle []string) error {
	return fmt.Errorf("%w: %s", ErrCyclicShapeReference, strings.Join(cycle, " -> "))
}
