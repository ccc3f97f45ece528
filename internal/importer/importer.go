// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Package importer converts JSON Schema documents into shape
// declaration documents.
//
// Conversion is best-effort by design: JSON Schema is a larger language
// than the declaration format, so constructs with no counterpart are
// dropped and reported as warnings rather than failing the whole
// import. Only a root schema that does not declare an object is an
// error.
package importer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/declolabs/cli/internal/jschema"
	"github.com/declolabs/cli/internal/shapedecl"
)

// Warning reports a schema construct the importer could not carry into
// the declaration, and where it was found. Paths are dotted and
// root-relative, e.g. "properties.address.properties.street".
type Warning struct {
	Path    string
	Message string
}

func (w Warning) String() string {
	if w.Path == "" {
		return w.Message
	}
	return w.Path + ": " + w.Message
}

// Convert turns a loaded JSON Schema into a shape declaration document.
// The root schema becomes a shape named rootName, object $defs become
// sibling shapes in source order, and inline object schemas are hoisted
// into shapes named after the field that declares them. When rootName
// is empty the schema title is used, then "Root".
//
// File refs must be resolved before conversion; run the loader's
// ResolveRefs first.
func Convert(src *jschema.Document, rootName string) (*shapedecl.Document, []Warning, error) {
	if src == nil || src.Schema == nil {
		return nil, nil, errors.New("schema document is empty")
	}
	root := src.Schema
	jschema.RewriteRefs(root)

	if !isObject(root) {
		return nil, nil, fmt.Errorf("root schema must declare an object, got %s", describeType(root))
	}

	c := &converter{
		src:        src,
		taken:      make(map[string]bool),
		defShapes:  make(map[string]string),
		scalarDefs: make(map[string]*jsonschema.Schema),
		inlining:   make(map[string]bool),
		seen:       make(map[Warning]bool),
	}

	if rootName == "" {
		rootName = shapeName(root.Title)
	} else if !shapedecl.ValidName(rootName) {
		sanitized := shapeName(rootName)
		c.warnf("", "root shape name %q is not a valid identifier; using %q", rootName, sanitized)
		rootName = sanitized
	}
	if rootName == "" {
		rootName = "Root"
	}
	rootName = c.claimName(rootName)

	// Claim definition names before converting anything so hoisted
	// shapes cannot collide with them.
	defNames := src.DefNames()
	for _, defName := range defNames {
		def := root.Defs[defName]
		if def == nil {
			continue
		}
		if !isObject(def) {
			c.scalarDefs[defName] = def
			c.warnf("$defs."+defName, "definition is not an object; inlined at reference sites")
			continue
		}
		name := defName
		if !shapedecl.ValidName(name) {
			name = shapeName(defName)
			if name == "" {
				name = "Shape"
			}
		}
		final := c.claimName(name)
		if final != defName {
			c.warnf("$defs."+defName, "definition imported as shape %q", final)
		}
		c.defShapes[defName] = final
	}

	rootShape := c.objectShape("", rootName, root)

	doc := &shapedecl.Document{
		ShapeDecl: "1.0",
		Info: shapedecl.Info{
			Title:       root.Title,
			Description: root.Description,
		},
		Shapes: []shapedecl.Shape{*rootShape},
	}
	for _, defName := range defNames {
		final, ok := c.defShapes[defName]
		if !ok {
			continue
		}
		s := c.objectShape("$defs."+defName, final, root.Defs[defName])
		doc.Shapes = append(doc.Shapes, *s)
	}
	doc.Shapes = append(doc.Shapes, c.hoisted...)

	return doc, c.warnings, nil
}

type converter struct {
	src        *jschema.Document
	taken      map[string]bool               // shape names already claimed
	defShapes  map[string]string             // $defs name -> shape name
	scalarDefs map[string]*jsonschema.Schema // non-object $defs, inlined at use
	inlining   map[string]bool               // guards scalar-def cycles
	hoisted    []shapedecl.Shape
	warnings   []Warning
	seen       map[Warning]bool
}

func (c *converter) warnf(path, format string, args ...any) {
	w := Warning{Path: path, Message: fmt.Sprintf(format, args...)}
	if c.seen[w] {
		return
	}
	c.seen[w] = true
	c.warnings = append(c.warnings, w)
}

// objectShape converts an object schema into a shape. Properties keep
// their source order; names that are not valid field identifiers are
// dropped because renaming them would change which JSON keys validate.
func (c *converter) objectShape(basePath, name string, s *jsonschema.Schema) *shapedecl.Shape {
	shape := &shapedecl.Shape{Name: name, Description: s.Description}

	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}

	propsPath := joinPath(basePath, "properties")
	for _, propName := range c.src.PropertiesAt(propsPath, s.Properties) {
		fieldPath := joinPath(propsPath, propName)
		if !shapedecl.ValidName(propName) {
			c.warnf(fieldPath, "property name is not a valid field identifier; dropped")
			continue
		}
		f, ok := c.field(fieldPath, propName, s.Properties[propName], required[propName])
		if !ok {
			continue
		}
		shape.Fields = append(shape.Fields, *f)
	}

	c.noteDropped(basePath, s)
	return shape
}

func (c *converter) field(path, name string, s *jsonschema.Schema, required bool) (*shapedecl.Field, bool) {
	if s == nil {
		c.warnf(path, "empty schema; field dropped")
		return nil, false
	}

	variants, nullable, ok := c.spec(path, name, s)
	if !ok {
		return nil, false
	}

	f := &shapedecl.Field{
		Name:        name,
		Nullable:    nullable,
		Optional:    !required,
		Description: s.Description,
	}
	switch len(variants) {
	case 0:
		if nullable {
			c.warnf(path, "only null is admitted; field dropped")
		} else {
			c.warnf(path, "no representable variant; field dropped")
		}
		return nil, false
	case 1:
		v := variants[0]
		f.Type = v.Type
		f.ShapeRef = v.ShapeRef
		f.Constraints = v.Constraints
		f.Items = v.Items
	default:
		f.Type = shapedecl.TypeUnion
		f.Variants = variants
	}
	return f, true
}

func (c *converter) claimName(base string) string {
	name := base
	for i := 2; c.taken[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	c.taken[name] = true
	return name
}

// shapeName converts an arbitrary name into a legal shape identifier,
// or "" when nothing usable remains.
func shapeName(raw string) string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	name := b.String()
	if !shapedecl.ValidName(name) {
		return ""
	}
	return name
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func isObject(s *jsonschema.Schema) bool {
	if s.Type == "object" {
		return true
	}
	return s.Type == "" && len(s.Types) == 0 && s.Ref == "" &&
		len(s.AnyOf) == 0 && len(s.OneOf) == 0 && len(s.Properties) > 0
}

func describeType(s *jsonschema.Schema) string {
	switch {
	case s.Type != "":
		return fmt.Sprintf("%q", s.Type)
	case len(s.Types) > 0:
		return fmt.Sprintf("%v", s.Types)
	case s.Ref != "":
		return "$ref"
	case len(s.AnyOf) > 0:
		return "anyOf"
	case len(s.OneOf) > 0:
		return "oneOf"
	default:
		return "no type"
	}
}
