// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package jschema

import (
	"os"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadYAML(t *testing.T, data []byte) *jsonschema.Schema {
	t.Helper()
	doc, err := parseSchema(data, "inline.yaml")
	require.NoError(t, err)
	return doc.Schema
}

func TestTraverse_SimpleSchema(t *testing.T) {
	loader := NewLoader(os.DirFS("testdata"))
	doc, err := loader.LoadFile("simple.yaml")
	require.NoError(t, err)

	var count int
	for range Traverse(doc.Schema, nil) {
		count++
	}

	// Root + 2 properties (name, age)
	assert.Equal(t, 3, count)
}

func TestTraverse_WithProperties(t *testing.T) {
	loader := NewLoader(os.DirFS("testdata"))
	doc, err := loader.LoadFile("simple.yaml")
	require.NoError(t, err)

	var types []string
	for s := range Traverse(doc.Schema, nil) {
		if s.Type != "" {
			types = append(types, s.Type)
		}
	}

	assert.Contains(t, types, "object")
	assert.Contains(t, types, "string")
	assert.Contains(t, types, "integer")
}

func TestTraverse_WithAllOf(t *testing.T) {
	loader := NewLoader(os.DirFS("testdata"))
	doc, err := loader.LoadFile("complex/allof.yaml")
	require.NoError(t, err)

	var count int
	for range Traverse(doc.Schema, nil) {
		count++
	}

	// Root + 2 allOf schemas + 2 properties (base, extended)
	assert.Equal(t, 5, count)
}

func TestTraverse_WithAnyOf(t *testing.T) {
	loader := NewLoader(os.DirFS("testdata"))
	doc, err := loader.LoadFile("complex/anyof.yaml")
	require.NoError(t, err)

	var count int
	for range Traverse(doc.Schema, nil) {
		count++
	}

	// Root + 1 property (value) + 3 anyOf schemas
	assert.Equal(t, 5, count)
}

func TestTraverse_WithDefs(t *testing.T) {
	loader := NewLoader(os.DirFS("testdata"))
	doc, err := loader.LoadFile("with-defs.yaml")
	require.NoError(t, err)

	var count int
	for range Traverse(doc.Schema, nil) {
		count++
	}

	// Root + address property (ref) + $defs/address + its 2 properties (street, city)
	assert.Equal(t, 5, count)
}

func TestTraverse_WithItems(t *testing.T) {
	data := []byte(`
type: array
items:
  type: object
  properties:
    item:
      type: string
`)
	schema := loadYAML(t, data)

	var count int
	for range Traverse(schema, nil) {
		count++
	}

	// Root + items schema + 1 property (item)
	assert.Equal(t, 3, count)
}

func TestTraverse_CircularRefs(t *testing.T) {
	// Create a schema that references itself
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"self": nil, // Will be set to schema itself
		},
	}
	schema.Properties["self"] = schema

	var count int
	for range Traverse(schema, nil) {
		count++
	}

	// Should handle cycle without infinite loop
	assert.Equal(t, 1, count)
}

func TestTraverse_NilResolver(t *testing.T) {
	data := []byte(`
type: object
properties:
  ref:
    $ref: "#/$defs/other"
$defs:
  other:
    type: string
`)
	schema := loadYAML(t, data)

	var refs []string
	for s := range Traverse(schema, nil) {
		if s.Ref != "" {
			refs = append(refs, s.Ref)
		}
	}

	// Without resolver, we still see the ref schema but don't follow it
	assert.Contains(t, refs, "#/$defs/other")
}

func TestTraverse_WithResolver(t *testing.T) {
	targetSchema := &jsonschema.Schema{
		Type: "string",
	}

	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"ref": {Ref: "#/$defs/target"},
		},
	}

	resolver := func(ref string) *jsonschema.Schema {
		if ref == "#/$defs/target" {
			return targetSchema
		}
		return nil
	}

	var types []string
	for s := range Traverse(schema, resolver) {
		if s.Type != "" {
			types = append(types, s.Type)
		}
	}

	// With resolver, we follow the ref and see the target schema
	assert.Contains(t, types, "object")
	assert.Contains(t, types, "string")
}

func TestTraverse_WithOneOf(t *testing.T) {
	data := []byte(`
oneOf:
  - type: string
  - type: integer
  - type: boolean
`)
	schema := loadYAML(t, data)

	var count int
	for range Traverse(schema, nil) {
		count++
	}

	// Root + 3 oneOf schemas
	assert.Equal(t, 4, count)
}

func TestTraverse_WithNot(t *testing.T) {
	data := []byte(`
type: object
not:
  type: array
`)
	schema := loadYAML(t, data)

	var types []string
	for s := range Traverse(schema, nil) {
		if s.Type != "" {
			types = append(types, s.Type)
		}
	}

	assert.Contains(t, types, "object")
	assert.Contains(t, types, "array")
}

func TestTraverse_WithConditional(t *testing.T) {
	data := []byte(`
type: object
if:
  properties:
    kind:
      const: "a"
then:
  properties:
    a_field:
      type: string
else:
  properties:
    b_field:
      type: integer
`)
	schema := loadYAML(t, data)

	var count int
	for range Traverse(schema, nil) {
		count++
	}

	// Root + if + kind + then + a_field + else + b_field
	assert.Equal(t, 7, count)
}

func TestTraverse_WithPatternProperties(t *testing.T) {
	data := []byte(`
type: object
patternProperties:
  "^S_":
    type: string
  "^I_":
    type: integer
`)
	schema := loadYAML(t, data)

	var count int
	for range Traverse(schema, nil) {
		count++
	}

	// Root + 2 pattern properties
	assert.Equal(t, 3, count)
}

func TestTraverse_WithAdditionalProperties(t *testing.T) {
	data := []byte(`
type: object
additionalProperties:
  type: string
`)
	schema := loadYAML(t, data)

	var types []string
	for s := range Traverse(schema, nil) {
		if s.Type != "" {
			types = append(types, s.Type)
		}
	}

	assert.Contains(t, types, "object")
	assert.Contains(t, types, "string")
}

func TestTraverse_WithPropertyNames(t *testing.T) {
	data := []byte(`
type: object
propertyNames:
  pattern: "^[a-z]+$"
`)
	schema := loadYAML(t, data)

	var count int
	for range Traverse(schema, nil) {
		count++
	}

	// Root + propertyNames schema
	assert.Equal(t, 2, count)
}

func TestTraverse_WithPrefixItems(t *testing.T) {
	data := []byte(`
type: array
prefixItems:
  - type: string
  - type: integer
  - type: boolean
`)
	schema := loadYAML(t, data)

	var count int
	for range Traverse(schema, nil) {
		count++
	}

	// Root + 3 prefixItems
	assert.Equal(t, 4, count)
}

func TestTraverse_WithContains(t *testing.T) {
	data := []byte(`
type: array
contains:
  type: number
  minimum: 5
`)
	schema := loadYAML(t, data)

	var types []string
	for s := range Traverse(schema, nil) {
		if s.Type != "" {
			types = append(types, s.Type)
		}
	}

	assert.Contains(t, types, "array")
	assert.Contains(t, types, "number")
}

func TestTraverse_WithDependentSchemas(t *testing.T) {
	data := []byte(`
type: object
dependentSchemas:
  credit_card:
    properties:
      billing_address:
        type: string
`)
	schema := loadYAML(t, data)

	var count int
	for range Traverse(schema, nil) {
		count++
	}

	// Root + dependentSchemas/credit_card + billing_address property
	assert.Equal(t, 3, count)
}

func TestTraverse_WithContentSchema(t *testing.T) {
	data := []byte(`
type: string
contentMediaType: application/json
contentSchema:
  type: object
  properties:
    payload:
      type: string
`)
	schema := loadYAML(t, data)

	var count int
	for range Traverse(schema, nil) {
		count++
	}

	// Root + contentSchema + payload property
	assert.Equal(t, 3, count)
}

func TestTraverse_WithUnevaluatedProperties(t *testing.T) {
	data := []byte(`
type: object
unevaluatedProperties:
  type: string
`)
	schema := loadYAML(t, data)

	var count int
	for range Traverse(schema, nil) {
		count++
	}

	assert.Equal(t, 2, count)
}

func TestTraverse_WithUnevaluatedItems(t *testing.T) {
	data := []byte(`
type: array
unevaluatedItems:
  type: number
`)
	schema := loadYAML(t, data)

	var count int
	for range Traverse(schema, nil) {
		count++
	}

	assert.Equal(t, 2, count)
}

func TestTraverse_EarlyTermination(t *testing.T) {
	data := []byte(`
type: object
properties:
  a:
    type: string
  b:
    type: string
  c:
    type: string
`)
	schema := loadYAML(t, data)

	var count int
	for range Traverse(schema, nil) {
		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(t, 2, count)
}

func TestRewriteRefs_ComponentsSchemas(t *testing.T) {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"address": {Ref: "#/components/schemas/Address"},
			"contact": {Ref: "#/components/schemas/Contact"},
		},
	}

	RewriteRefs(schema)

	assert.Equal(t, "#/$defs/Address", schema.Properties["address"].Ref)
	assert.Equal(t, "#/$defs/Contact", schema.Properties["contact"].Ref)
}

func TestRewriteRefs_Definitions(t *testing.T) {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"user": {Ref: "#/definitions/User"},
		},
	}

	RewriteRefs(schema)

	assert.Equal(t, "#/$defs/User", schema.Properties["user"].Ref)
}

func TestRewriteRefs_NestedRefs(t *testing.T) {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"order": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"customer": {Ref: "#/components/schemas/Customer"},
				},
			},
		},
	}

	RewriteRefs(schema)

	assert.Equal(t, "#/$defs/Customer", schema.Properties["order"].Properties["customer"].Ref)
}

func TestRewriteRefs_MixedRefs(t *testing.T) {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"component":  {Ref: "#/components/schemas/Component"},
			"definition": {Ref: "#/definitions/Definition"},
			"def":        {Ref: "#/$defs/AlreadyDef"},
		},
	}

	RewriteRefs(schema)

	assert.Equal(t, "#/$defs/Component", schema.Properties["component"].Ref)
	assert.Equal(t, "#/$defs/Definition", schema.Properties["definition"].Ref)
	assert.Equal(t, "#/$defs/AlreadyDef", schema.Properties["def"].Ref) // Unchanged
}

func TestRewriteRefs_InArrayItems(t *testing.T) {
	schema := &jsonschema.Schema{
		Type: "array",
		Items: &jsonschema.Schema{
			Ref: "#/components/schemas/Item",
		},
	}

	RewriteRefs(schema)

	assert.Equal(t, "#/$defs/Item", schema.Items.Ref)
}

func TestRewriteRefs_InAllOf(t *testing.T) {
	schema := &jsonschema.Schema{
		AllOf: []*jsonschema.Schema{
			{Ref: "#/components/schemas/Base"},
			{Ref: "#/definitions/Extended"},
		},
	}

	RewriteRefs(schema)

	assert.Equal(t, "#/$defs/Base", schema.AllOf[0].Ref)
	assert.Equal(t, "#/$defs/Extended", schema.AllOf[1].Ref)
}

func TestRewriteRefs_FileRefsUntouched(t *testing.T) {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"external": {Ref: "./other.yaml"},
		},
	}

	RewriteRefs(schema)

	assert.Equal(t, "./other.yaml", schema.Properties["external"].Ref)
}

func TestRewriteRefs_NoRefs(t *testing.T) {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name": {Type: "string"},
			"age":  {Type: "integer"},
		},
	}

	// Should not panic and leave schema unchanged
	RewriteRefs(schema)

	assert.Equal(t, "", schema.Properties["name"].Ref)
	assert.Equal(t, "", schema.Properties["age"].Ref)
}
