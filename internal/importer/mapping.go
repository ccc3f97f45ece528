// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package importer

import (
	"math"
	"regexp"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/declolabs/cli/internal/jschema"
	"github.com/declolabs/cli/internal/shapedecl"
)

// spec maps one schema to the type specs it declares. A schema usually
// yields a single spec; anyOf, oneOf, and multi-type declarations yield
// several, which the caller folds into a union. nullable reports
// whether the schema admits an explicit null. hoistName seeds the shape
// name when an inline object has to be hoisted.
func (c *converter) spec(path, hoistName string, s *jsonschema.Schema) (variants []shapedecl.TypeSpec, nullable bool, ok bool) {
	if s == nil {
		c.warnf(path, "empty schema")
		return nil, false, false
	}
	if s.Ref != "" {
		return c.refSpec(path, hoistName, s.Ref)
	}
	if len(s.AnyOf) > 0 {
		return c.unionSpec(path, hoistName, s, s.AnyOf, "anyOf")
	}
	if len(s.OneOf) > 0 {
		return c.unionSpec(path, hoistName, s, s.OneOf, "oneOf")
	}
	if len(s.Types) > 0 {
		return c.multiTypeSpec(path, hoistName, s)
	}
	return c.typedSpec(path, hoistName, s)
}

func (c *converter) refSpec(path, hoistName, ref string) ([]shapedecl.TypeSpec, bool, bool) {
	if jschema.IsFileRef(ref) {
		c.warnf(path, "unresolved file $ref %q; dropped", ref)
		return nil, false, false
	}
	defName := jschema.RefName(ref)
	if defName == "" {
		c.warnf(path, "unsupported $ref %q; dropped", ref)
		return nil, false, false
	}
	if final, ok := c.defShapes[defName]; ok {
		return []shapedecl.TypeSpec{{Type: shapedecl.TypeShape, ShapeRef: final}}, false, true
	}
	if def, ok := c.scalarDefs[defName]; ok {
		if c.inlining[defName] {
			c.warnf(path, "circular reference through non-object definition %q; dropped", defName)
			return nil, false, false
		}
		c.inlining[defName] = true
		defer delete(c.inlining, defName)
		// Converting at the definition's own path keeps any recorded
		// property order reachable.
		return c.spec("$defs."+defName, hoistName, def)
	}
	c.warnf(path, "unresolved $ref %q; dropped", ref)
	return nil, false, false
}

func (c *converter) unionSpec(path, hoistName string, s *jsonschema.Schema, subs []*jsonschema.Schema, keyword string) ([]shapedecl.TypeSpec, bool, bool) {
	if keyword == "oneOf" {
		c.warnf(path, "oneOf imported as a union; variants match in order rather than exclusively")
	}
	if len(s.Properties) > 0 {
		c.warnf(path, "properties beside %s are dropped", keyword)
	}

	subPath := joinPath(path, keyword)
	var variants []shapedecl.TypeSpec
	nullable := false
	for _, sub := range subs {
		if sub != nil && sub.Type == "null" {
			nullable = true
			continue
		}
		vs, subNullable, ok := c.spec(subPath, hoistName, sub)
		if !ok {
			continue
		}
		nullable = nullable || subNullable
		variants = append(variants, vs...)
	}
	return variants, nullable, true
}

// multiTypeSpec handles `"type": [...]` declarations. Constraints beside
// a type list apply to whichever member type they constrain, so they are
// split across the variants without per-variant warnings.
func (c *converter) multiTypeSpec(path, hoistName string, s *jsonschema.Schema) ([]shapedecl.TypeSpec, bool, bool) {
	nonNull := 0
	for _, t := range s.Types {
		if t != "null" {
			nonNull++
		}
	}
	quiet := nonNull > 1

	var variants []shapedecl.TypeSpec
	nullable := false
	for _, t := range s.Types {
		switch t {
		case "null":
			nullable = true
		case "object":
			ts, ok := c.hoistObject(path, hoistName, s)
			if ok {
				variants = append(variants, *ts)
			}
		case "array":
			ts, ok := c.arraySpec(path, hoistName, s)
			if ok {
				variants = append(variants, *ts)
			}
		case "string", "integer", "number", "boolean":
			base := baseType(t)
			variants = append(variants, shapedecl.TypeSpec{
				Type:        base,
				Constraints: c.constraintsFor(path, base, s, quiet),
			})
		default:
			c.warnf(path, "unsupported type %q; variant dropped", t)
		}
	}
	c.noteDropped(path, s)
	return variants, nullable, true
}

func (c *converter) typedSpec(path, hoistName string, s *jsonschema.Schema) ([]shapedecl.TypeSpec, bool, bool) {
	typ := s.Type
	if typ == "" {
		switch {
		case len(s.Properties) > 0:
			typ = "object"
		case s.Items != nil:
			typ = "array"
		default:
			typ = inferScalarType(s)
		}
	}

	switch typ {
	case "null":
		return nil, true, true
	case "object":
		ts, ok := c.hoistObject(path, hoistName, s)
		if !ok {
			return nil, false, false
		}
		return []shapedecl.TypeSpec{*ts}, false, true
	case "array":
		ts, ok := c.arraySpec(path, hoistName, s)
		if !ok {
			return nil, false, false
		}
		return []shapedecl.TypeSpec{*ts}, false, true
	case "string", "integer", "number", "boolean":
		base := baseType(typ)
		ts := shapedecl.TypeSpec{
			Type:        base,
			Constraints: c.constraintsFor(path, base, s, false),
		}
		c.noteDropped(path, s)
		return []shapedecl.TypeSpec{ts}, false, true
	case "":
		c.warnf(path, "schema without a recognizable type; dropped")
		return nil, false, false
	default:
		c.warnf(path, "unsupported type %q; dropped", typ)
		return nil, false, false
	}
}

// hoistObject converts an inline object schema into a shape of its own
// and returns a reference to it.
func (c *converter) hoistObject(path, hoistName string, s *jsonschema.Schema) (*shapedecl.TypeSpec, bool) {
	if len(s.Properties) == 0 {
		c.warnf(path, "object without properties cannot be expressed; dropped")
		return nil, false
	}
	name := shapeName(hoistName)
	if name == "" {
		name = "Shape"
	}
	name = c.claimName(name)
	shape := c.objectShape(path, name, s)
	c.hoisted = append(c.hoisted, *shape)
	return &shapedecl.TypeSpec{Type: shapedecl.TypeShape, ShapeRef: name}, true
}

func (c *converter) arraySpec(path, hoistName string, s *jsonschema.Schema) (*shapedecl.TypeSpec, bool) {
	if s.Items == nil {
		c.warnf(path, "array without items cannot be expressed; dropped")
		return nil, false
	}
	variants, nullable, ok := c.spec(joinPath(path, "items"), hoistName, s.Items)
	if !ok {
		return nil, false
	}
	if len(variants) != 1 {
		c.warnf(path, "array items must declare a single type; dropped")
		return nil, false
	}
	if nullable {
		c.warnf(path, "nullable array items are not supported; null dropped")
	}
	item := variants[0]
	ts := &shapedecl.TypeSpec{
		Type:        shapedecl.TypeArray,
		Items:       &item,
		Constraints: c.constraintsFor(path, shapedecl.TypeArray, s, false),
	}
	c.noteDropped(path, s)
	return ts, true
}

// constraintsFor carries the constraint keywords that apply to the
// declared base type and warns about the rest. JSON Schema silently
// ignores keywords that do not match a value's type; the declaration
// language rejects them, so they cannot be carried. quiet suppresses
// the warnings when constraints are being split across the variants of
// a multi-type declaration.
func (c *converter) constraintsFor(path string, typ shapedecl.BaseType, s *jsonschema.Schema, quiet bool) shapedecl.Constraints {
	var out shapedecl.Constraints
	drop := func(keyword string) {
		if !quiet {
			c.warnf(path, "%s does not apply to %s; dropped", keyword, typ)
		}
	}

	isString := typ == shapedecl.TypeString
	isNumeric := typ == shapedecl.TypeNumber || typ == shapedecl.TypeInteger
	isArray := typ == shapedecl.TypeArray
	isScalar := isString || isNumeric || typ == shapedecl.TypeBoolean

	if s.Format != "" {
		switch {
		case !isString:
			drop("format")
		default:
			if _, known := shapedecl.LookupFormat(s.Format); known {
				out.Format = s.Format
			} else if !quiet {
				c.warnf(path, "unknown format %q; dropped", s.Format)
			}
		}
	}
	if s.Pattern != "" {
		switch {
		case !isString:
			drop("pattern")
		default:
			if _, err := regexp.Compile(s.Pattern); err != nil {
				if !quiet {
					c.warnf(path, "pattern does not compile as RE2; dropped: %v", err)
				}
			} else {
				out.Pattern = s.Pattern
			}
		}
	}
	if s.MinLength != nil {
		if isString {
			out.MinLength = s.MinLength
		} else {
			drop("minLength")
		}
	}
	if s.MaxLength != nil {
		if isString {
			out.MaxLength = s.MaxLength
		} else {
			drop("maxLength")
		}
	}
	if s.Minimum != nil {
		if isNumeric {
			out.Minimum = s.Minimum
		} else {
			drop("minimum")
		}
	}
	if s.Maximum != nil {
		if isNumeric {
			out.Maximum = s.Maximum
		} else {
			drop("maximum")
		}
	}
	if s.ExclusiveMinimum != nil {
		if isNumeric {
			out.ExclusiveMinimum = s.ExclusiveMinimum
		} else {
			drop("exclusiveMinimum")
		}
	}
	if s.ExclusiveMaximum != nil {
		if isNumeric {
			out.ExclusiveMaximum = s.ExclusiveMaximum
		} else {
			drop("exclusiveMaximum")
		}
	}
	if s.MultipleOf != nil {
		if isNumeric {
			out.MultipleOf = s.MultipleOf
		} else {
			drop("multipleOf")
		}
	}
	if len(s.Enum) > 0 {
		if isScalar {
			var values []any
			for _, v := range s.Enum {
				if valueMatches(typ, v) {
					values = append(values, v)
				} else if !quiet {
					c.warnf(path, "enum value %v is not a valid %s; dropped", v, typ)
				}
			}
			if len(values) > 0 {
				out.Enum = values
			} else if !quiet {
				c.warnf(path, "enum admits no %s values; dropped", typ)
			}
		} else {
			drop("enum")
		}
	}
	if s.Const != nil {
		v := *s.Const
		switch {
		case v == nil:
			if !quiet {
				c.warnf(path, "const null is not supported; dropped")
			}
		case !isScalar:
			drop("const")
		case !valueMatches(typ, v):
			if !quiet {
				c.warnf(path, "const value %v is not a valid %s; dropped", v, typ)
			}
		default:
			out.Const = v
		}
	}
	if s.MinItems != nil {
		if isArray {
			out.MinItems = s.MinItems
		} else {
			drop("minItems")
		}
	}
	if s.MaxItems != nil {
		if isArray {
			out.MaxItems = s.MaxItems
		} else {
			drop("maxItems")
		}
	}
	return out
}

// noteDropped records one warning per present keyword the declaration
// language has no counterpart for.
func (c *converter) noteDropped(path string, s *jsonschema.Schema) {
	checks := []struct {
		keyword string
		present bool
	}{
		{"allOf", len(s.AllOf) > 0},
		{"not", s.Not != nil},
		{"if", s.If != nil},
		{"patternProperties", len(s.PatternProperties) > 0},
		{"additionalProperties", s.AdditionalProperties != nil},
		{"propertyNames", s.PropertyNames != nil},
		{"unevaluatedProperties", s.UnevaluatedProperties != nil},
		{"dependentSchemas", len(s.DependentSchemas) > 0},
		{"prefixItems", len(s.PrefixItems) > 0},
		{"contains", s.Contains != nil},
		{"unevaluatedItems", s.UnevaluatedItems != nil},
		{"contentSchema", s.ContentSchema != nil},
	}
	for _, check := range checks {
		if check.present {
			c.warnf(path, "%s is not supported; dropped", check.keyword)
		}
	}
}

func baseType(jsonType string) shapedecl.BaseType {
	switch jsonType {
	case "string":
		return shapedecl.TypeString
	case "integer":
		return shapedecl.TypeInteger
	case "number":
		return shapedecl.TypeNumber
	case "boolean":
		return shapedecl.TypeBoolean
	}
	return ""
}

func valueMatches(typ shapedecl.BaseType, v any) bool {
	switch typ {
	case shapedecl.TypeString:
		_, ok := v.(string)
		return ok
	case shapedecl.TypeBoolean:
		_, ok := v.(bool)
		return ok
	case shapedecl.TypeNumber:
		_, ok := toFloat(v)
		return ok
	case shapedecl.TypeInteger:
		n, ok := toFloat(v)
		return ok && n == math.Trunc(n)
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// inferScalarType guesses a type for schemas that declare only enum or
// const values.
func inferScalarType(s *jsonschema.Schema) string {
	values := make([]any, 0, len(s.Enum)+1)
	values = append(values, s.Enum...)
	if s.Const != nil {
		values = append(values, *s.Const)
	}

	var kind string
	for _, v := range values {
		var k string
		switch {
		case v == nil:
			continue
		case valueMatches(shapedecl.TypeString, v):
			k = "string"
		case valueMatches(shapedecl.TypeBoolean, v):
			k = "boolean"
		case valueMatches(shapedecl.TypeInteger, v):
			k = "integer"
		case valueMatches(shapedecl.TypeNumber, v):
			k = "number"
		default:
			return ""
		}
		switch {
		case kind == "" || kind == k:
			kind = k
		case (kind == "integer" && k == "number") || (kind == "number" && k == "integer"):
			kind = "number"
		default:
			return ""
		}
	}
	return kind
}
