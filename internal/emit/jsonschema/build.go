// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package jsonschema

import (
	"github.com/declolabs/cli/internal/emit"
	"github.com/declolabs/cli/internal/shapedecl"
)

const schemaURI = "https://json-schema.org/draft/2020-12/schema"

// Build returns the schema tree for the named shape. Referenced
// shapes land under $defs exactly once, in first-reference
// depth-first order, and are pointed to with "#/$defs/<name>".
// Reference cycles fail with ErrCyclicShapeReference.
func Build(doc *shapedecl.Document, shapeName string) (*Schema, error) {
	plan, err := emit.Prepare(doc, shapeName)
	if err != nil {
		return nil, err
	}

	root := shapeSchema(plan.Root)
	root.SchemaURI = schemaURI
	root.Title = plan.Root.Name
	for _, def := range plan.Defs {
		root.Defs = append(root.Defs, NamedSchema{Name: def.Name, Schema: shapeSchema(def)})
	}
	return root, nil
}

func shapeSchema(shape *shapedecl.NormalizedShape) *Schema {
	s := &Schema{
		Description: shape.Description,
		Type:        "object",
		Properties:  []Property{},
	}
	for i := range shape.Fields {
		f := &shape.Fields[i]
		s.Properties = append(s.Properties, Property{Name: f.Name, Schema: fieldSchema(f)})
		if !f.Optional {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

// fieldSchema renders one field. Nullability of a plain scalar or
// array becomes a type union ["T","null"]; anything where a type
// union cannot express it (references, unions, enum and const
// carriers) becomes anyOf with {"type":"null"}.
func fieldSchema(f *shapedecl.NormalizedField) *Schema {
	var out *Schema

	if f.Type == shapedecl.TypeUnion {
		anyOf := make([]*Schema, 0, len(f.Variants)+1)
		for i := range f.Variants {
			anyOf = append(anyOf, specSchema(&f.Variants[i]))
		}
		if f.Nullable {
			anyOf = append(anyOf, &Schema{Type: "null"})
		}
		out = &Schema{AnyOf: anyOf}
	} else {
		spec := shapedecl.NormalizedSpec{
			Type:        f.Type,
			ShapeRef:    f.ShapeRef,
			Constraints: f.Constraints,
			Items:       f.Items,
		}
		base := specSchema(&spec)
		switch {
		case !f.Nullable:
			out = base
		case base.Ref != "" || len(base.Enum) > 0 || base.Const != nil:
			out = &Schema{AnyOf: []*Schema{base, {Type: "null"}}}
		default:
			out = base
			out.Type = []string{base.Type.(string), "null"}
		}
	}

	out.Description = f.Description
	return out
}

func specSchema(ts *shapedecl.NormalizedSpec) *Schema {
	switch ts.Type {
	case shapedecl.TypeShape:
		return &Schema{Ref: "#/$defs/" + ts.ShapeRef}
	case shapedecl.TypeArray:
		s := &Schema{Type: "array", Items: specSchema(ts.Items)}
		applyConstraints(s, ts.Constraints)
		return s
	default:
		s := &Schema{Type: string(ts.Type)}
		applyConstraints(s, ts.Constraints)
		return s
	}
}

func applyConstraints(s *Schema, list []shapedecl.Constraint) {
	for _, c := range list {
		switch c.Kind {
		case shapedecl.KindFormat:
			s.Format = c.Str
		case shapedecl.KindPattern:
			s.Pattern = c.Str
		case shapedecl.KindMinLength:
			v := c.Count
			s.MinLength = &v
		case shapedecl.KindMaxLength:
			v := c.Count
			s.MaxLength = &v
		case shapedecl.KindMinimum:
			v := c.Num
			s.Minimum = &v
		case shapedecl.KindMaximum:
			v := c.Num
			s.Maximum = &v
		case shapedecl.KindExclusiveMinimum:
			v := c.Num
			s.ExclusiveMinimum = &v
		case shapedecl.KindExclusiveMaximum:
			v := c.Num
			s.ExclusiveMaximum = &v
		case shapedecl.KindMultipleOf:
			v := c.Num
			s.MultipleOf = &v
		case shapedecl.KindEnum:
			s.Enum = c.Values
		case shapedecl.KindConst:
			s.Const = c.Value
		case shapedecl.KindMinItems:
			v := c.Count
			s.MinItems = &v
		case shapedecl.KindMaxItems:
			v := c.Count
			s.MaxItems = &v
		}
	}
}
