// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package importer

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declolabs/cli/internal/jschema"
	"github.com/declolabs/cli/internal/shapedecl"
)

func loadSchema(t *testing.T, src string) *jschema.Document {
	t.Helper()
	fsys := fstest.MapFS{
		"schema.yaml": &fstest.MapFile{Data: []byte(src)},
	}
	doc, err := jschema.NewLoader(fsys).LoadFile("schema.yaml")
	require.NoError(t, err)
	return doc
}

func convert(t *testing.T, src, rootName string) (*shapedecl.Document, []Warning) {
	t.Helper()
	doc, warnings, err := Convert(loadSchema(t, src), rootName)
	require.NoError(t, err)
	return doc, warnings
}

func warningText(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

func TestConvert_SimpleObject(t *testing.T) {
	doc, warnings := convert(t, `
title: Customer Record
description: A customer of the platform.
type: object
required:
  - id
  - email
properties:
  id:
    type: string
    format: uuid
  email:
    type: string
    format: email
  age:
    type: integer
    minimum: 13
    description: Age in years.
`, "")

	assert.Empty(t, warnings)
	assert.Equal(t, "1.0", doc.ShapeDecl)
	assert.Equal(t, "Customer Record", doc.Info.Title)
	assert.Equal(t, "A customer of the platform.", doc.Info.Description)

	require.Len(t, doc.Shapes, 1)
	shape := doc.Shapes[0]
	assert.Equal(t, "CustomerRecord", shape.Name)

	// Field order follows the source, not the map.
	names := make([]string, len(shape.Fields))
	for i, f := range shape.Fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"id", "email", "age"}, names)

	id := shape.Field("id")
	require.NotNil(t, id)
	assert.Equal(t, shapedecl.TypeString, id.Type)
	assert.Equal(t, "uuid", id.Constraints.Format)
	assert.False(t, id.Optional)

	age := shape.Field("age")
	require.NotNil(t, age)
	assert.True(t, age.Optional)
	assert.Equal(t, "Age in years.", age.Description)
	require.NotNil(t, age.Constraints.Minimum)
	assert.Equal(t, float64(13), *age.Constraints.Minimum)
}

func TestConvert_ExplicitRootName(t *testing.T) {
	doc, _ := convert(t, `
type: object
properties:
  name:
    type: string
`, "User")

	require.Len(t, doc.Shapes, 1)
	assert.Equal(t, "User", doc.Shapes[0].Name)
}

func TestConvert_UntitledRootDefaults(t *testing.T) {
	doc, _ := convert(t, `
type: object
properties:
  name:
    type: string
`, "")

	assert.Equal(t, "Root", doc.Shapes[0].Name)
}

func TestConvert_RootNotObject(t *testing.T) {
	_, _, err := Convert(loadSchema(t, `type: string`), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root schema must declare an object")
}

func TestConvert_NullableViaTypeList(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  nickname:
    type: ["string", "null"]
    maxLength: 20
`, "User")

	assert.Empty(t, warnings)
	f := doc.Shapes[0].Field("nickname")
	require.NotNil(t, f)
	assert.Equal(t, shapedecl.TypeString, f.Type)
	assert.True(t, f.Nullable)
	require.NotNil(t, f.Constraints.MaxLength)
	assert.Equal(t, 20, *f.Constraints.MaxLength)
}

func TestConvert_NullableViaAnyOf(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  middle_name:
    anyOf:
      - type: string
      - type: "null"
`, "User")

	assert.Empty(t, warnings)
	f := doc.Shapes[0].Field("middle_name")
	require.NotNil(t, f)
	assert.Equal(t, shapedecl.TypeString, f.Type)
	assert.True(t, f.Nullable)
	assert.Empty(t, f.Variants)
}

func TestConvert_DefsBecomeShapes(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  shipping:
    $ref: "#/$defs/address"
  billing:
    $ref: "#/$defs/address"
$defs:
  zone:
    type: object
    properties:
      code:
        type: string
  address:
    type: object
    properties:
      street:
        type: string
      zone:
        $ref: "#/$defs/zone"
`, "Order")

	assert.Empty(t, warnings)
	// Root first, then defs in source order.
	assert.Equal(t, []string{"Order", "zone", "address"}, doc.ShapeNames())

	shipping := doc.Shapes[0].Field("shipping")
	require.NotNil(t, shipping)
	assert.Equal(t, shapedecl.TypeShape, shipping.Type)
	assert.Equal(t, "address", shipping.ShapeRef)

	address := doc.Shape("address")
	require.NotNil(t, address)
	assert.Equal(t, []string{"street", "zone"}, []string{address.Fields[0].Name, address.Fields[1].Name})
	assert.Equal(t, "zone", address.Field("zone").ShapeRef)
}

func TestConvert_ComponentsRefRewritten(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  owner:
    $ref: "#/components/schemas/person"
$defs:
  person:
    type: object
    properties:
      name:
        type: string
`, "Account")

	assert.Empty(t, warnings)
	f := doc.Shapes[0].Field("owner")
	require.NotNil(t, f)
	assert.Equal(t, "person", f.ShapeRef)
}

func TestConvert_ScalarDefInlined(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  tag:
    $ref: "#/$defs/label"
$defs:
  label:
    type: string
    maxLength: 32
`, "Item")

	assert.Contains(t, warningText(warnings), "definition is not an object")

	// The definition does not become a shape.
	require.Len(t, doc.Shapes, 1)
	f := doc.Shapes[0].Field("tag")
	require.NotNil(t, f)
	assert.Equal(t, shapedecl.TypeString, f.Type)
	require.NotNil(t, f.Constraints.MaxLength)
	assert.Equal(t, 32, *f.Constraints.MaxLength)
}

func TestConvert_InlineObjectHoisted(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  address:
    type: object
    properties:
      street:
        type: string
      city:
        type: string
`, "Customer")

	assert.Empty(t, warnings)
	assert.Equal(t, []string{"Customer", "Address"}, doc.ShapeNames())

	f := doc.Shapes[0].Field("address")
	require.NotNil(t, f)
	assert.Equal(t, shapedecl.TypeShape, f.Type)
	assert.Equal(t, "Address", f.ShapeRef)

	hoisted := doc.Shape("Address")
	require.NotNil(t, hoisted)
	assert.Equal(t, []string{"street", "city"}, []string{hoisted.Fields[0].Name, hoisted.Fields[1].Name})
}

func TestConvert_InlineObjectInArrayItems(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  lines:
    type: array
    maxItems: 50
    items:
      type: object
      properties:
        sku:
          type: string
        quantity:
          type: integer
`, "Order")

	assert.Empty(t, warnings)
	assert.Equal(t, []string{"Order", "Lines"}, doc.ShapeNames())

	f := doc.Shapes[0].Field("lines")
	require.NotNil(t, f)
	assert.Equal(t, shapedecl.TypeArray, f.Type)
	require.NotNil(t, f.Items)
	assert.Equal(t, shapedecl.TypeShape, f.Items.Type)
	assert.Equal(t, "Lines", f.Items.ShapeRef)
	require.NotNil(t, f.Constraints.MaxItems)
	assert.Equal(t, 50, *f.Constraints.MaxItems)
}

func TestConvert_HoistNameCollision(t *testing.T) {
	doc, _ := convert(t, `
type: object
properties:
  home:
    $ref: "#/$defs/Address"
  address:
    type: object
    properties:
      street:
        type: string
$defs:
  Address:
    type: object
    properties:
      street:
        type: string
`, "Customer")

	assert.Equal(t, []string{"Customer", "Address", "Address2"}, doc.ShapeNames())
	assert.Equal(t, "Address", doc.Shapes[0].Field("home").ShapeRef)
	assert.Equal(t, "Address2", doc.Shapes[0].Field("address").ShapeRef)
}

func TestConvert_UnionFromAnyOf(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  endpoint:
    anyOf:
      - type: string
        format: uri
      - $ref: "#/$defs/Service"
      - type: "null"
$defs:
  Service:
    type: object
    properties:
      host:
        type: string
`, "Config")

	assert.Empty(t, warnings)
	f := doc.Shapes[0].Field("endpoint")
	require.NotNil(t, f)
	assert.Equal(t, shapedecl.TypeUnion, f.Type)
	assert.True(t, f.Nullable)
	require.Len(t, f.Variants, 2)
	assert.Equal(t, shapedecl.TypeString, f.Variants[0].Type)
	assert.Equal(t, "uri", f.Variants[0].Constraints.Format)
	assert.Equal(t, shapedecl.TypeShape, f.Variants[1].Type)
	assert.Equal(t, "Service", f.Variants[1].ShapeRef)
}

func TestConvert_OneOfImportedAsUnion(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  value:
    oneOf:
      - type: string
      - type: integer
`, "Setting")

	assert.Contains(t, warningText(warnings), "oneOf imported as a union")
	f := doc.Shapes[0].Field("value")
	require.NotNil(t, f)
	assert.Equal(t, shapedecl.TypeUnion, f.Type)
	require.Len(t, f.Variants, 2)
}

func TestConvert_MultiTypeSplitsConstraints(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  key:
    type: ["string", "integer"]
    minLength: 2
    minimum: 1
`, "Lookup")

	// Splitting keywords across variants is silent.
	assert.Empty(t, warnings)

	f := doc.Shapes[0].Field("key")
	require.NotNil(t, f)
	assert.Equal(t, shapedecl.TypeUnion, f.Type)
	require.Len(t, f.Variants, 2)

	str := f.Variants[0]
	assert.Equal(t, shapedecl.TypeString, str.Type)
	require.NotNil(t, str.Constraints.MinLength)
	assert.Equal(t, 2, *str.Constraints.MinLength)
	assert.Nil(t, str.Constraints.Minimum)

	num := f.Variants[1]
	assert.Equal(t, shapedecl.TypeInteger, num.Type)
	require.NotNil(t, num.Constraints.Minimum)
	assert.Equal(t, float64(1), *num.Constraints.Minimum)
	assert.Nil(t, num.Constraints.MinLength)
}

func TestConvert_UnsupportedKeywordsWarn(t *testing.T) {
	_, warnings := convert(t, `
type: object
patternProperties:
  "^x-":
    type: string
additionalProperties:
  type: string
properties:
  version:
    type: string
    allOf:
      - minLength: 1
`, "Manifest")

	text := warningText(warnings)
	assert.Contains(t, text, "patternProperties is not supported; dropped")
	assert.Contains(t, text, "additionalProperties is not supported; dropped")
	assert.Contains(t, text, "properties.version: allOf is not supported; dropped")
}

func TestConvert_UnknownFormatDropped(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  color:
    type: string
    format: css-color
`, "Theme")

	assert.Contains(t, warningText(warnings), `unknown format "css-color"; dropped`)
	f := doc.Shapes[0].Field("color")
	require.NotNil(t, f)
	assert.Equal(t, shapedecl.TypeString, f.Type)
	assert.Empty(t, f.Constraints.Format)
}

func TestConvert_InvalidPatternDropped(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  code:
    type: string
    pattern: "(?=lookahead)"
`, "Entry")

	assert.Contains(t, warningText(warnings), "pattern does not compile as RE2")
	f := doc.Shapes[0].Field("code")
	require.NotNil(t, f)
	assert.Empty(t, f.Constraints.Pattern)
}

func TestConvert_UnresolvedRefDropsField(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  name:
    type: string
  ghost:
    $ref: "#/$defs/missing"
`, "Record")

	assert.Contains(t, warningText(warnings), `unresolved $ref "#/$defs/missing"; dropped`)
	shape := doc.Shapes[0]
	require.Len(t, shape.Fields, 1)
	assert.Equal(t, "name", shape.Fields[0].Name)
}

func TestConvert_EnumTypeInference(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  status:
    enum: [active, suspended, closed]
  retries:
    enum: [0, 1, 3]
`, "Account")

	assert.Empty(t, warnings)

	status := doc.Shapes[0].Field("status")
	require.NotNil(t, status)
	assert.Equal(t, shapedecl.TypeString, status.Type)
	assert.Equal(t, []any{"active", "suspended", "closed"}, status.Constraints.Enum)

	retries := doc.Shapes[0].Field("retries")
	require.NotNil(t, retries)
	assert.Equal(t, shapedecl.TypeInteger, retries.Type)
}

func TestConvert_ConstCarried(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  kind:
    type: string
    const: payment
`, "Event")

	assert.Empty(t, warnings)
	f := doc.Shapes[0].Field("kind")
	require.NotNil(t, f)
	assert.Equal(t, "payment", f.Constraints.Const)
}

func TestConvert_MismatchedEnumValuesDropped(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  level:
    type: integer
    enum: [1, 2, "high"]
`, "Alert")

	assert.Contains(t, warningText(warnings), "enum value high is not a valid integer; dropped")
	f := doc.Shapes[0].Field("level")
	require.NotNil(t, f)
	assert.Len(t, f.Constraints.Enum, 2)
}

func TestConvert_NullOnlyFieldDropped(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  nothing:
    type: "null"
  name:
    type: string
`, "Record")

	assert.Contains(t, warningText(warnings), "only null is admitted; field dropped")
	require.Len(t, doc.Shapes[0].Fields, 1)
	assert.Equal(t, "name", doc.Shapes[0].Fields[0].Name)
}

func TestConvert_InvalidPropertyNameDropped(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  "first name":
    type: string
  surname:
    type: string
`, "Person")

	assert.Contains(t, warningText(warnings), "property name is not a valid field identifier; dropped")
	require.Len(t, doc.Shapes[0].Fields, 1)
	assert.Equal(t, "surname", doc.Shapes[0].Fields[0].Name)
}

func TestConvert_ArrayWithoutItemsDropped(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  grab_bag:
    type: array
  name:
    type: string
`, "Record")

	assert.Contains(t, warningText(warnings), "array without items cannot be expressed; dropped")
	require.Len(t, doc.Shapes[0].Fields, 1)
	assert.Equal(t, "name", doc.Shapes[0].Fields[0].Name)
}

func TestConvert_NestedArrays(t *testing.T) {
	doc, warnings := convert(t, `
type: object
properties:
  matrix:
    type: array
    items:
      type: array
      items:
        type: number
`, "Grid")

	assert.Empty(t, warnings)
	f := doc.Shapes[0].Field("matrix")
	require.NotNil(t, f)
	assert.Equal(t, shapedecl.TypeArray, f.Type)
	require.NotNil(t, f.Items)
	assert.Equal(t, shapedecl.TypeArray, f.Items.Type)
	require.NotNil(t, f.Items.Items)
	assert.Equal(t, shapedecl.TypeNumber, f.Items.Items.Type)
}

func TestConvert_RoundTripVerifies(t *testing.T) {
	doc, warnings := convert(t, `
title: Ticket
type: object
required:
  - id
  - priority
properties:
  id:
    type: string
    format: uuid
  priority:
    type: string
    enum: [low, normal, high]
  score:
    type: number
    minimum: 0
    exclusiveMaximum: 100
  assignee:
    anyOf:
      - $ref: "#/$defs/agent"
      - type: "null"
  labels:
    type: array
    maxItems: 10
    items:
      type: string
      maxLength: 32
$defs:
  agent:
    type: object
    required:
      - name
    properties:
      name:
        type: string
        minLength: 1
`, "")

	assert.Empty(t, warnings)

	out, err := shapedecl.NewYAMLWriter().Marshal(doc)
	require.NoError(t, err)

	parsed, err := shapedecl.NewYAMLParser().Parse(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Empty(t, parsed.Verify())
	assert.Equal(t, doc.ShapeNames(), parsed.ShapeNames())
}

func TestShapeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"user address", "UserAddress"},
		{"order_line", "OrderLine"},
		{"Customer Record", "CustomerRecord"},
		{"already", "Already"},
		{"x", "X"},
		{"123", ""},
		{"", ""},
		{"--", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shapeName(tt.in), "shapeName(%q)", tt.in)
	}
}

func TestWarningString(t *testing.T) {
	assert.Equal(t, "properties.x: dropped", Warning{Path: "properties.x", Message: "dropped"}.String())
	assert.Equal(t, "dropped", Warning{Message: "dropped"}.String())
}
