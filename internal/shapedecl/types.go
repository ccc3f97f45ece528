// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Package shapedecl provides ShapeDecl document types, parsing, and
// declaration-time constraint checking.
package shapedecl

// BaseType identifies the runtime shape a field accepts.
type BaseType string

// Base types a field declaration may carry.
const (
	TypeString  BaseType = "string"
	TypeNumber  BaseType = "number"
	TypeInteger BaseType = "integer"
	TypeBoolean BaseType = "boolean"
	TypeArray   BaseType = "array"
	TypeShape   BaseType = "shape"
	TypeUnion   BaseType = "union"
)

// Document is the root structure of a ShapeDecl document.
// Shapes keep their declaration order.
type Document struct {
	ShapeDecl string
	Info      Info
	Shapes    []Shape
}

// Info contains metadata about the declared shape collection.
type Info struct {
	Title       string
	Version     string
	Description string
}

// Shape is a named collection of field declarations.
type Shape struct {
	Name        string
	Description string
	Fields      []Field
}

// Field is a single field declaration: a name, a base type, presence
// flags, and the constraints attached to the declared type.
//
// Nullable and Optional are distinct: Nullable admits an explicit null
// value, Optional admits the key being absent altogether.
type Field struct {
	Name        string
	Type        BaseType
	ShapeRef    string // target shape name when Type is TypeShape
	Nullable    bool
	Optional    bool
	Description string
	Constraints Constraints
	Items       *TypeSpec  // element type when Type is TypeArray
	Variants    []TypeSpec // member types when Type is TypeUnion
}

// TypeSpec describes an unnamed value type: an array element or a
// union variant. Unlike Field it carries no name or presence flags.
type TypeSpec struct {
	Type        BaseType
	ShapeRef    string
	Constraints Constraints
	Items       *TypeSpec
}

// Shape returns the shape with the given name, or nil.
func (d *Document) Shape(name string) *Shape {
	for i := range d.Shapes {
		if d.Shapes[i].Name == name {
			return &d.Shapes[i]
		}
	}
	return nil
}

// ShapeNames returns all shape names in declaration order.
func (d *Document) ShapeNames() []string {
	names := make([]string, len(d.Shapes))
	for i := range d.Shapes {
		names[i] = d.Shapes[i].Name
	}
	return names
}

// Field returns the field with the given name, or nil.
func (s *Shape) Field(name string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// References returns the names of all shapes this shape refers to,
// deduplicated, in first-reference order.
func (s *Shape) References() []string {
	var refs []string
	seen := make(map[string]struct{})
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		refs = append(refs, name)
	}

	var walkSpec func(ts *TypeSpec)
	walkSpec = func(ts *TypeSpec) {
		if ts == nil {
			return
		}
		add(ts.ShapeRef)
		walkSpec(ts.Items)
	}

	for i := range s.Fields {
		f := &s.Fields[i]
		add(f.ShapeRef)
		walkSpec(f.Items)
		for j := range f.Variants {
			walkSpec(&f.Variants[j])
		}
	}
	return refs
}

// FindCycle reports a cycle in the shape-reference graph, if any.
// The returned slice lists the shape names along the cycle, ending
// with the name that closes it; nil means the graph is acyclic.
// Shapes referenced but not declared are skipped here; Verify
// reports those separately.
func (d *Document) FindCycle() []string {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(d.Shapes))

	var path []string
	var visit func(name string) []string
	visit = func(name string) []string {
		shape := d.Shape(name)
		if shape == nil {
			return nil
		}
		switch state[name] {
		case visiting:
			// Close the cycle at the first occurrence of name.
			for i, n := range path {
				if n == name {
					return append(append([]string{}, path[i:]...), name)
				}
			}
			return []string{name, name}
		case done:
			return nil
		}
		state[name] = visiting
		path = append(path, name)
		for _, ref := range shape.References() {
			if cycle := visit(ref); cycle != nil {
				return cycle
			}
		}
		path = path[:len(path)-1]
		state[name] = done
		return nil
	}

	for i := range d.Shapes {
		if cycle := visit(d.Shapes[i].Name); cycle != nil {
			return cycle
		}
	}
	return nil
}
