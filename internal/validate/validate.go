// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Package validate synthesizes validators from shape declarations.
// A compiled validator is immutable and safe for concurrent use.
package validate

import (
	"fmt"
	"strings"

	"github.com/declolabs/cli/internal/shapedecl"
)

// maxDepth bounds value recursion so cyclic shape graphs cannot be
// driven into unbounded descent by deeply nested input.
const maxDepth = 64

// Validator checks candidate values against one compiled shape.
type Validator struct {
	shape  string
	shapes map[string]*shapedecl.NormalizedShape
}

// Compile normalizes the named shape and every shape it transitively
// references. Unknown references fail with ErrUnknownShape. Cyclic
// references compile fine; validation bounds recursion by depth.
func Compile(doc *shapedecl.Document, shapeName string) (*Validator, error) {
	if doc.Shape(shapeName) == nil {
		return nil, fmt.Errorf("%w: %q", shapedecl.ErrUnknownShape, shapeName)
	}

	v := &Validator{
		shape:  shapeName,
		shapes: make(map[string]*shapedecl.NormalizedShape),
	}

	queue := []string{shapeName}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if _, done := v.shapes[name]; done {
			continue
		}
		shape := doc.Shape(name)
		if shape == nil {
			return nil, fmt.Errorf("%w: %q", shapedecl.ErrUnknownShape, name)
		}
		norm, err := shapedecl.NormalizeShape(shape)
		if err != nil {
			return nil, fmt.Errorf("shape %q: %w", name, err)
		}
		v.shapes[name] = norm
		queue = append(queue, shape.References()...)
	}
	return v, nil
}

// Shape returns the name of the compiled root shape.
func (v *Validator) Shape() string {
	return v.shape
}

// Validate checks one decoded candidate value and accumulates every
// violation; it never stops at the first problem. The candidate is
// expected in decoded-JSON form (map[string]any, []any, scalars).
func (v *Validator) Validate(value any) Result {
	rec := &recorder{}
	v.validateShape(rec, "$", v.shape, value, 0)
	return Result{Violations: rec.violations}
}

func (v *Validator) validateShape(rec *recorder, path, shapeName string, value any, depth int) {
	if depth > maxDepth {
		rec.add(path, KindMaxDepthExceeded, "value nesting exceeds maximum depth %d", maxDepth)
		return
	}

	obj, ok := value.(map[string]any)
	if !ok {
		rec.add(path, KindTypeMismatch, "expected object, got %s", typeName(value))
		return
	}

	shape := v.shapes[shapeName]
	for i := range shape.Fields {
		f := &shape.Fields[i]
		fieldPath := joinPath(path, f.Name)

		raw, present := obj[f.Name]
		if !present {
			if !f.Optional {
				rec.add(fieldPath, KindMissingRequiredField, "required field is missing")
			}
			continue
		}
		if raw == nil {
			if !f.Nullable {
				rec.add(fieldPath, KindMissingRequiredField, "required field is null")
			}
			continue
		}
		v.validateField(rec, fieldPath, f, raw, depth)
	}
}

func (v *Validator) validateField(rec *recorder, path string, f *shapedecl.NormalizedField, value any, depth int) {
	if f.Type == shapedecl.TypeUnion {
		v.validateUnion(rec, path, f.Variants, value, depth)
		return
	}
	spec := shapedecl.NormalizedSpec{
		Type:        f.Type,
		ShapeRef:    f.ShapeRef,
		Constraints: f.Constraints,
		Items:       f.Items,
	}
	v.checkValue(rec, path, &spec, value, depth)
}

// validateUnion picks the first variant whose base type matches the
// runtime value and enforces that variant's constraints. Variant
// order decides ties, so integer before number selects integer for
// integral values.
func (v *Validator) validateUnion(rec *recorder, path string, variants []shapedecl.NormalizedSpec, value any, depth int) {
	for i := range variants {
		if typeMatches(variants[i].Type, value) {
			v.checkValue(rec, path, &variants[i], value, depth)
			return
		}
	}

	names := make([]string, len(variants))
	for i := range variants {
		names[i] = string(variants[i].Type)
	}
	rec.add(path, KindTypeMismatch, "expected one of %s, got %s", strings.Join(names, ", "), typeName(value))
}

func (v *Validator) checkValue(rec *recorder, path string, spec *shapedecl.NormalizedSpec, value any, depth int) {
	switch spec.Type {
	case shapedecl.TypeShape:
		v.validateShape(rec, path, spec.ShapeRef, value, depth+1)

	case shapedecl.TypeArray:
		arr, ok := value.([]any)
		if !ok {
			rec.add(path, KindTypeMismatch, "expected array, got %s", typeName(value))
			return
		}
		applyConstraints(rec, path, spec.Constraints, arr)
		for i, elem := range arr {
			v.checkValue(rec, fmt.Sprintf("%s[%d]", path, i), spec.Items, elem, depth+1)
		}

	case shapedecl.TypeString:
		s, ok := value.(string)
		if !ok {
			rec.add(path, KindTypeMismatch, "expected string, got %s", typeName(value))
			return
		}
		applyConstraints(rec, path, spec.Constraints, s)

	case shapedecl.TypeNumber:
		n, ok := numberValue(value)
		if !ok {
			rec.add(path, KindTypeMismatch, "expected number, got %s", typeName(value))
			return
		}
		applyConstraints(rec, path, spec.Constraints, n)

	case shapedecl.TypeInteger:
		n, ok := numberValue(value)
		if !ok || !isIntegral(n) {
			rec.add(path, KindTypeMismatch, "expected integer, got %s", typeName(value))
			return
		}
		applyConstraints(rec, path, spec.Constraints, n)

	case shapedecl.TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			rec.add(path, KindTypeMismatch, "expected boolean, got %s", typeName(value))
			return
		}
		applyConstraints(rec, path, spec.Constraints, b)
	}
}

func joinPath(parent, field string) string {
	if parent == "$" {
		return field
	}
	return parent + "." + field
}
