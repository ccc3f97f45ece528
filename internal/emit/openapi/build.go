// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Package openapi emits shapes as OpenAPI 3.0 component schemas.
package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/declolabs/cli/internal/emit"
	"github.com/declolabs/cli/internal/shapedecl"
)

const openAPIVersion = "3.0.3"

// Build returns an OpenAPI document holding the named shape and every
// shape it references under components/schemas. The document carries
// an empty paths object; it exists to be merged into, or referenced
// from, a full API description.
func Build(doc *shapedecl.Document, shapeName string) (*openapi3.T, error) {
	plan, err := emit.Prepare(doc, shapeName)
	if err != nil {
		return nil, err
	}

	// Allocate every component schema up front so references can
	// carry the resolved target alongside the ref path. Marshaling
	// emits only $ref; document validation needs the value.
	b := &builder{targets: make(map[string]*openapi3.Schema, len(plan.Defs)+1)}
	b.targets[plan.Root.Name] = &openapi3.Schema{}
	for _, def := range plan.Defs {
		b.targets[def.Name] = &openapi3.Schema{}
	}

	schemas := make(openapi3.Schemas, len(b.targets))
	b.fillShape(plan.Root)
	schemas[plan.Root.Name] = openapi3.NewSchemaRef("", b.targets[plan.Root.Name])
	for _, def := range plan.Defs {
		b.fillShape(def)
		schemas[def.Name] = openapi3.NewSchemaRef("", b.targets[def.Name])
	}

	title := plan.Info.Title
	if title == "" {
		title = shapeName
	}
	version := plan.Info.Version
	if version == "" {
		version = "0.0.0"
	}

	return &openapi3.T{
		OpenAPI: openAPIVersion,
		Info: &openapi3.Info{
			Title:       title,
			Version:     version,
			Description: plan.Info.Description,
		},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: schemas},
	}, nil
}

type builder struct {
	targets map[string]*openapi3.Schema
}

func (b *builder) fillShape(shape *shapedecl.NormalizedShape) {
	s := b.targets[shape.Name]
	s.Type = &openapi3.Types{openapi3.TypeObject}
	s.Description = shape.Description
	s.Properties = make(openapi3.Schemas, len(shape.Fields))
	for i := range shape.Fields {
		f := &shape.Fields[i]
		s.Properties[f.Name] = b.fieldSchema(f)
		if !f.Optional {
			s.Required = append(s.Required, f.Name)
		}
	}
}

func (b *builder) refTo(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, b.targets[name])
}

// fieldSchema renders one field. OpenAPI 3.0 has no null type, so a
// nullable field sets the nullable keyword. Keywords next to $ref are
// ignored in 3.0; a reference that needs nullable or a description is
// wrapped in allOf instead.
func (b *builder) fieldSchema(f *shapedecl.NormalizedField) *openapi3.SchemaRef {
	if f.Type == shapedecl.TypeUnion {
		anyOf := make(openapi3.SchemaRefs, 0, len(f.Variants))
		for i := range f.Variants {
			anyOf = append(anyOf, b.specSchema(&f.Variants[i]))
		}
		return openapi3.NewSchemaRef("", &openapi3.Schema{
			AnyOf:       anyOf,
			Nullable:    f.Nullable,
			Description: f.Description,
		})
	}

	spec := shapedecl.NormalizedSpec{
		Type:        f.Type,
		ShapeRef:    f.ShapeRef,
		Constraints: f.Constraints,
		Items:       f.Items,
	}
	ref := b.specSchema(&spec)
	if ref.Ref != "" {
		if !f.Nullable && f.Description == "" {
			return ref
		}
		return openapi3.NewSchemaRef("", &openapi3.Schema{
			AllOf:       openapi3.SchemaRefs{ref},
			Nullable:    f.Nullable,
			Description: f.Description,
		})
	}
	ref.Value.Nullable = f.Nullable
	ref.Value.Description = f.Description
	return ref
}

func (b *builder) specSchema(ts *shapedecl.NormalizedSpec) *openapi3.SchemaRef {
	switch ts.Type {
	case shapedecl.TypeShape:
		return b.refTo(ts.ShapeRef)
	case shapedecl.TypeArray:
		s := &openapi3.Schema{
			Type:  &openapi3.Types{openapi3.TypeArray},
			Items: b.specSchema(ts.Items),
		}
		applyConstraints(s, ts.Constraints)
		return openapi3.NewSchemaRef("", s)
	default:
		s := &openapi3.Schema{Type: &openapi3.Types{string(ts.Type)}}
		applyConstraints(s, ts.Constraints)
		return openapi3.NewSchemaRef("", s)
	}
}

// applyConstraints maps normalized constraints onto the 3.0 schema
// model. const has no 3.0 keyword and becomes a single-valued enum.
// Exclusive bounds fold into minimum and maximum with the exclusive
// flags set; when both an inclusive and an exclusive bound are
// declared on the same side, the stricter one wins.
func applyConstraints(s *openapi3.Schema, list []shapedecl.Constraint) {
	var minVal, maxVal, exclMin, exclMax *float64
	for _, c := range list {
		switch c.Kind {
		case shapedecl.KindFormat:
			s.Format = c.Str
		case shapedecl.KindPattern:
			s.Pattern = c.Str
		case shapedecl.KindMinLength:
			s.MinLength = uint64(c.Count)
		case shapedecl.KindMaxLength:
			s.MaxLength = openapi3.Uint64Ptr(uint64(c.Count))
		case shapedecl.KindMinimum:
			v := c.Num
			minVal = &v
		case shapedecl.KindMaximum:
			v := c.Num
			maxVal = &v
		case shapedecl.KindExclusiveMinimum:
			v := c.Num
			exclMin = &v
		case shapedecl.KindExclusiveMaximum:
			v := c.Num
			exclMax = &v
		case shapedecl.KindMultipleOf:
			s.MultipleOf = openapi3.Float64Ptr(c.Num)
		case shapedecl.KindEnum:
			s.Enum = c.Values
		case shapedecl.KindConst:
			s.Enum = []any{c.Value}
		case shapedecl.KindMinItems:
			s.MinItems = uint64(c.Count)
		case shapedecl.KindMaxItems:
			s.MaxItems = openapi3.Uint64Ptr(uint64(c.Count))
		}
	}

	switch {
	case exclMin != nil && (minVal == nil || *exclMin >= *minVal):
		s.Min = exclMin
		s.ExclusiveMin = true
	case minVal != nil:
		s.Min = minVal
	}
	switch {
	case exclMax != nil && (maxVal == nil || *exclMax <= *maxVal):
		s.Max = exclMax
		s.ExclusiveMax = true
	case maxVal != nil:
		s.Max = maxVal
	}
}
