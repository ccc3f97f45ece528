// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package emit

import (
	"fmt"

	"github.com/declolabs/cli/internal/shapedecl"
)

// Plan is the pre-computation every emitter consumes: the root shape
// and each shape it transitively references, normalized. Defs hold
// the referenced shapes in first-reference depth-first order, root
// excluded, each exactly once.
type Plan struct {
	Info shapedecl.Info
	Root *shapedecl.NormalizedShape
	Defs []*shapedecl.NormalizedShape
}

// Prepare normalizes the named shape and its reference closure.
// Unknown references fail with ErrUnknownShape; a reference cycle
// reachable from the root fails with ErrCyclicShapeReference, since
// an acyclic tree cannot represent it.
func Prepare(doc *shapedecl.Document, shapeName string) (*Plan, error) {
	if doc.Shape(shapeName) == nil {
		return nil, fmt.Errorf("%w: %q", shapedecl.ErrUnknownShape, shapeName)
	}

	const (
		visiting = 1
		done     = 2
	)
	plan := &Plan{Info: doc.Info}
	state := make(map[string]int)
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visiting:
			for i, n := range path {
				if n == name {
					return shapedecl.CycleError(append(append([]string{}, path[i:]...), name))
				}
			}
			return shapedecl.CycleError([]string{name, name})
		case done:
			return nil
		}

		shape := doc.Shape(name)
		if shape == nil {
			return fmt.Errorf("%w: %q", shapedecl.ErrUnknownShape, name)
		}
		norm, err := shapedecl.NormalizeShape(shape)
		if err != nil {
			return fmt.Errorf("shape %q: %w", name, err)
		}
		if name == shapeName {
			plan.Root = norm
		} else {
			plan.Defs = append(plan.Defs, norm)
		}

		state[name] = visiting
		path = append(path, name)
		for _, ref := range shape.References() {
			if err := visit(ref); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[name] = done
		return nil
	}

	if err := visit(shapeName); err != nil {
		return nil, err
	}
	return plan, nil
}

// FormatOf returns the format constraint from a normalized constraint
// list, or "".
func FormatOf(list []shapedecl.Constraint) string {
	for _, c := range list {
		if c.Kind == shapedecl.KindFormat {
			return c.Str
		}
	}
	return ""
}
