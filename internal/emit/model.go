// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package emit

import "github.com/declolabs/cli/internal/shapedecl"

// SchemaData is the complete input passed to an emitter template.
type SchemaData struct {
	Defs        []TypeDef      // referenced shapes in first-reference order
	Root        TypeDef        // the shape being emitted
	Title       string         // declaration collection title, if any
	Version     string         // declaration collection version, if any
	Description string         // root shape description, if any
	Extra       map[string]any // emitter-specific template data
}

// TypeDef represents a named type definition (a referenced shape or
// the root shape).
type TypeDef struct {
	Name        string  // formatted name, e.g. "OrderLine"
	Description string  // shape description, if any
	Fields      []Field // ordered fields
}

// Field represents a single field within a type definition.
type Field struct {
	Name        string                 // field name (may be mutated by EnrichField)
	Type        string                 // fully resolved target type string
	Nullable    bool                   // declaration admits an explicit null
	Optional    bool                   // declaration admits an absent key
	Tag         string                 // language-specific annotation, e.g. `json:"name"`
	Description string                 // field description, if any
	Constraints []shapedecl.Constraint // normalized constraints, canonical order
}

// Resolve converts the plan into template data using the emitter's
// type resolver.
func (p *Plan) Resolve(resolver TypeResolver) *SchemaData {
	data := &SchemaData{
		Title:       p.Info.Title,
		Version:     p.Info.Version,
		Description: p.Root.Description,
		Extra:       make(map[string]any),
	}
	data.Root = resolveTypeDef(p.Root, resolver)
	for _, def := range p.Defs {
		data.Defs = append(data.Defs, resolveTypeDef(def, resolver))
	}
	return data
}

func resolveTypeDef(shape *shapedecl.NormalizedShape, resolver TypeResolver) TypeDef {
	td := TypeDef{
		Name:        resolver.FormatShapeName(shape.Name),
		Description: shape.Description,
	}
	for i := range shape.Fields {
		f := &shape.Fields[i]
		field := Field{
			Name:        f.Name,
			Type:        resolveFieldType(f, resolver),
			Nullable:    f.Nullable,
			Optional:    f.Optional,
			Description: f.Description,
			Constraints: f.Constraints,
		}
		resolver.EnrichField(&field)
		td.Fields = append(td.Fields, field)
	}
	return td
}

func resolveFieldType(f *shapedecl.NormalizedField, resolver TypeResolver) string {
	if f.Type == shapedecl.TypeUnion {
		variants := make([]string, len(f.Variants))
		for i := range f.Variants {
			variants[i] = resolveSpecType(&f.Variants[i], resolver)
		}
		return resolver.UnionType(variants)
	}
	spec := shapedecl.NormalizedSpec{
		Type:        f.Type,
		ShapeRef:    f.ShapeRef,
		Constraints: f.Constraints,
		Items:       f.Items,
	}
	return resolveSpecType(&spec, resolver)
}

func resolveSpecType(ts *shapedecl.NormalizedSpec, resolver TypeResolver) string {
	switch ts.Type {
	case shapedecl.TypeShape:
		return resolver.RefType(ts.ShapeRef)
	case shapedecl.TypeArray:
		return resolver.ArrayType(resolveSpecType(ts.Items, resolver))
	default:
		return resolver.PrimitiveType(string(ts.Type), FormatOf(ts.Constraints))
	}
}
