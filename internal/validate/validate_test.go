// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package validate

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declolabs/cli/internal/shapedecl"
)

func loadDoc(t *testing.T, name string) *shapedecl.Document {
	t.Helper()
	doc, err := shapedecl.Load(filepath.Join("testdata", name))
	require.NoError(t, err)
	return doc
}

func parseDoc(t *testing.T, src string) *shapedecl.Document {
	t.Helper()
	doc, err := shapedecl.NewYAMLParser().Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func decodeJSON(t *testing.T, src string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(src), &v))
	return v
}

func TestCompile_UnknownShape(t *testing.T) {
	doc := loadDoc(t, "orders.yaml")

	_, err := Compile(doc, "Invoice")
	require.Error(t, err)
	assert.ErrorIs(t, err, shapedecl.ErrUnknownShape)
}

func TestCompile_UnknownReference(t *testing.T) {
	doc := parseDoc(t, `
shapedecl: "1.0"
shapes:
  Order:
    fields:
      customer:
        shape: Customer
`)

	_, err := Compile(doc, "Order")
	require.Error(t, err)
	assert.ErrorIs(t, err, shapedecl.ErrUnknownShape)
	assert.Contains(t, err.Error(), "Customer")
}

func TestCompile_BadConstraint(t *testing.T) {
	doc := parseDoc(t, `
shapedecl: "1.0"
shapes:
  Order:
    fields:
      total:
        type: number
        pattern: "^x$"
`)

	_, err := Compile(doc, "Order")
	require.Error(t, err)
	assert.ErrorIs(t, err, shapedecl.ErrIncompatibleConstraint)
	assert.Contains(t, err.Error(), `shape "Order"`)
	assert.Contains(t, err.Error(), `field "total"`)
}

func TestCompile_CyclicShapes(t *testing.T) {
	doc := loadDoc(t, "cyclic.yaml")

	v, err := Compile(doc, "Node")
	require.NoError(t, err)

	result := v.Validate(decodeJSON(t, `{"value": "a", "next": {"value": "b"}}`))
	assert.True(t, result.Valid())
}

func TestValidate_Valid(t *testing.T) {
	doc := loadDoc(t, "orders.yaml")
	v, err := Compile(doc, "Order")
	require.NoError(t, err)

	result := v.Validate(decodeJSON(t, `{
		"id": "123e4567-e89b-12d3-a456-426614174000",
		"status": "paid",
		"total": 59.9,
		"lines": [
			{"sku": "widget-42", "quantity": 2, "unit_price": 29.95}
		],
		"coupon": null,
		"reference": "ORDER-2026-000123"
	}`))

	assert.True(t, result.Valid())
	assert.Empty(t, result.Violations)
}

func TestValidate_AccumulatesInFieldOrder(t *testing.T) {
	doc := loadDoc(t, "orders.yaml")
	v, err := Compile(doc, "Order")
	require.NoError(t, err)

	result := v.Validate(decodeJSON(t, `{
		"id": "not-a-uuid",
		"status": "lost",
		"total": -5,
		"lines": [],
		"reference": 7
	}`))

	require.Len(t, result.Violations, 4)
	assert.Equal(t, "id", result.Violations[0].Path)
	assert.Equal(t, shapedecl.KindFormat, result.Violations[0].Kind)
	assert.Equal(t, "status", result.Violations[1].Path)
	assert.Equal(t, shapedecl.KindEnum, result.Violations[1].Kind)
	assert.Equal(t, "total", result.Violations[2].Path)
	assert.Equal(t, shapedecl.KindMinimum, result.Violations[2].Kind)
	assert.Equal(t, "lines", result.Violations[3].Path)
	assert.Equal(t, shapedecl.KindMinItems, result.Violations[3].Kind)
}

func TestValidate_AccumulatesWithinField(t *testing.T) {
	doc := parseDoc(t, `
shapedecl: "1.0"
shapes:
  Account:
    fields:
      username:
        type: string
        minLength: 5
        maxLength: 100
        pattern: "^[a-z0-9]+$"
`)
	v, err := Compile(doc, "Account")
	require.NoError(t, err)

	// One value breaking two constraints reports both, in canonical
	// constraint order: pattern before minLength.
	result := v.Validate(map[string]any{"username": "A"})
	require.Len(t, result.Violations, 2)
	assert.Equal(t, "username", result.Violations[0].Path)
	assert.Equal(t, shapedecl.KindPattern, result.Violations[0].Kind)
	assert.Equal(t, "username", result.Violations[1].Path)
	assert.Equal(t, shapedecl.KindMinLength, result.Violations[1].Kind)
}

func TestValidate_NullableArrayOfShapes(t *testing.T) {
	doc := parseDoc(t, `
shapedecl: "1.0"
shapes:
  Upload:
    fields:
      files:
        type: array
        nullable: true
        items:
          shape: File
  File:
    fields:
      name:
        type: string
        pattern: "^[a-z0-9]+$"
`)
	v, err := Compile(doc, "Upload")
	require.NoError(t, err)

	// Nullability owns the null; element constraints never see it.
	assert.True(t, v.Validate(map[string]any{"files": nil}).Valid())

	result := v.Validate(decodeJSON(t, `{"files": [{"name": "OK"}]}`))
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "files[0].name", result.Violations[0].Path)
	assert.Equal(t, shapedecl.KindPattern, result.Violations[0].Kind)
}

func TestValidate_NestedPaths(t *testing.T) {
	doc := loadDoc(t, "orders.yaml")
	v, err := Compile(doc, "Order")
	require.NoError(t, err)

	result := v.Validate(decodeJSON(t, `{
		"id": "123e4567-e89b-12d3-a456-426614174000",
		"status": "paid",
		"total": 10,
		"lines": [
			{"sku": "widget-42", "quantity": 0, "unit_price": 5},
			{"quantity": 1, "unit_price": 5}
		],
		"reference": 42
	}`))

	require.Len(t, result.Violations, 2)
	assert.Equal(t, "lines[0].quantity", result.Violations[0].Path)
	assert.Equal(t, shapedecl.KindMinimum, result.Violations[0].Kind)
	assert.Equal(t, "lines[1].sku", result.Violations[1].Path)
	assert.Equal(t, KindMissingRequiredField, result.Violations[1].Kind)
}

func TestValidate_PresenceAndNull(t *testing.T) {
	doc := loadDoc(t, "orders.yaml")
	v, err := Compile(doc, "Order")
	require.NoError(t, err)

	// coupon is nullable and optional; id is neither.
	result := v.Validate(decodeJSON(t, `{
		"id": null,
		"total": 10,
		"lines": [{"sku": "a-1", "quantity": 1, "unit_price": 1}],
		"reference": 42
	}`))

	require.Len(t, result.Violations, 2)
	assert.Equal(t, "id", result.Violations[0].Path)
	assert.Equal(t, KindMissingRequiredField, result.Violations[0].Kind)
	assert.Contains(t, result.Violations[0].Message, "null")
	assert.Equal(t, "status", result.Violations[1].Path)
	assert.Equal(t, KindMissingRequiredField, result.Violations[1].Kind)
	assert.Contains(t, result.Violations[1].Message, "missing")
}

func TestValidate_TypeMismatchSkipsConstraints(t *testing.T) {
	doc := loadDoc(t, "orders.yaml")
	v, err := Compile(doc, "Order")
	require.NoError(t, err)

	result := v.Validate(decodeJSON(t, `{
		"id": "123e4567-e89b-12d3-a456-426614174000",
		"status": 5,
		"total": 10,
		"lines": [{"sku": "a-1", "quantity": 1, "unit_price": 1}],
		"reference": 42
	}`))

	// The enum on status must not fire once the base type failed.
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "status", result.Violations[0].Path)
	assert.Equal(t, KindTypeMismatch, result.Violations[0].Kind)
	assert.Equal(t, "expected string, got number", result.Violations[0].Message)
}

func TestValidate_Union(t *testing.T) {
	doc := loadDoc(t, "orders.yaml")
	v, err := Compile(doc, "Order")
	require.NoError(t, err)

	base := `{
		"id": "123e4567-e89b-12d3-a456-426614174000",
		"status": "paid",
		"total": 10,
		"lines": [{"sku": "a-1", "quantity": 1, "unit_price": 1}],
		"reference": %s
	}`

	tests := []struct {
		name      string
		reference string
		wantKind  Kind
	}{
		{name: "string variant ok", reference: `"ORDER-123456"`},
		{name: "integer variant ok", reference: `17`},
		{name: "short string fails string variant", reference: `"ab"`, wantKind: shapedecl.KindMinLength},
		{name: "zero fails integer variant", reference: `0`, wantKind: shapedecl.KindMinimum},
		{name: "fraction matches no variant", reference: `2.5`, wantKind: KindTypeMismatch},
		{name: "boolean matches no variant", reference: `true`, wantKind: KindTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(decodeJSON(t, strings.Replace(base, "%s", tt.reference, 1)))
			if tt.wantKind == "" {
				assert.True(t, result.Valid())
				return
			}
			require.Len(t, result.Violations, 1)
			assert.Equal(t, "reference", result.Violations[0].Path)
			assert.Equal(t, tt.wantKind, result.Violations[0].Kind)
		})
	}
}

func TestValidate_RootNotObject(t *testing.T) {
	doc := loadDoc(t, "orders.yaml")
	v, err := Compile(doc, "Order")
	require.NoError(t, err)

	result := v.Validate("just a string")
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "$", result.Violations[0].Path)
	assert.Equal(t, KindTypeMismatch, result.Violations[0].Kind)
}

func TestValidate_UnknownKeysIgnored(t *testing.T) {
	doc := loadDoc(t, "cyclic.yaml")
	v, err := Compile(doc, "Node")
	require.NoError(t, err)

	result := v.Validate(decodeJSON(t, `{"value": "a", "extra": 1, "another": {"x": true}}`))
	assert.True(t, result.Valid())
}

func TestValidate_MaxDepth(t *testing.T) {
	doc := loadDoc(t, "cyclic.yaml")
	v, err := Compile(doc, "Node")
	require.NoError(t, err)

	value := map[string]any{"value": "leaf"}
	for i := 0; i < 80; i++ {
		value = map[string]any{"value": "n", "next": value}
	}

	result := v.Validate(value)
	require.False(t, result.Valid())
	require.Len(t, result.Violations, 1)
	assert.Equal(t, KindMaxDepthExceeded, result.Violations[0].Kind)
	assert.True(t, strings.HasSuffix(result.Violations[0].Path, ".next"))
}

func TestValidate_NumberRepresentations(t *testing.T) {
	doc := parseDoc(t, `
shapedecl: "1.0"
shapes:
  Reading:
    fields:
      count:
        type: integer
        minimum: 0
`)
	v, err := Compile(doc, "Reading")
	require.NoError(t, err)

	for _, value := range []any{float64(5), int(5), int64(5), json.Number("5")} {
		result := v.Validate(map[string]any{"count": value})
		assert.True(t, result.Valid(), "%T", value)
	}

	result := v.Validate(map[string]any{"count": 5.5})
	require.Len(t, result.Violations, 1)
	assert.Equal(t, KindTypeMismatch, result.Violations[0].Kind)
	assert.Equal(t, "expected integer, got number", result.Violations[0].Message)
}

func TestValidate_LengthCountsRunes(t *testing.T) {
	doc := parseDoc(t, `
shapedecl: "1.0"
shapes:
  Label:
    fields:
      text:
        type: string
        minLength: 3
        maxLength: 3
`)
	v, err := Compile(doc, "Label")
	require.NoError(t, err)

	// 3 runes, 9 bytes.
	assert.True(t, v.Validate(map[string]any{"text": "日本語"}).Valid())

	result := v.Validate(map[string]any{"text": "ab"})
	require.Len(t, result.Violations, 1)
	assert.Equal(t, shapedecl.KindMinLength, result.Violations[0].Kind)
	assert.Equal(t, "length 2 is less than minimum 3", result.Violations[0].Message)
}

func TestValidate_MultipleOf(t *testing.T) {
	doc := parseDoc(t, `
shapedecl: "1.0"
shapes:
  Price:
    fields:
      amount:
        type: number
        multipleOf: 0.01
`)
	v, err := Compile(doc, "Price")
	require.NoError(t, err)

	assert.True(t, v.Validate(map[string]any{"amount": 10.55}).Valid())

	result := v.Validate(map[string]any{"amount": 10.555})
	require.Len(t, result.Violations, 1)
	assert.Equal(t, shapedecl.KindMultipleOf, result.Violations[0].Kind)
}

func TestValidate_BooleanConst(t *testing.T) {
	doc := loadDoc(t, "orders.yaml")
	v, err := Compile(doc, "OrderLine")
	require.NoError(t, err)

	line := map[string]any{"sku": "a-1", "quantity": float64(1), "unit_price": float64(2), "gift": false}
	result := v.Validate(line)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "gift", result.Violations[0].Path)
	assert.Equal(t, shapedecl.KindConst, result.Violations[0].Kind)

	line["gift"] = true
	assert.True(t, v.Validate(line).Valid())
}

func TestValidate_ExclusiveBounds(t *testing.T) {
	doc := loadDoc(t, "orders.yaml")
	v, err := Compile(doc, "OrderLine")
	require.NoError(t, err)

	result := v.Validate(map[string]any{"sku": "a-1", "quantity": float64(1), "unit_price": float64(0)})
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "unit_price", result.Violations[0].Path)
	assert.Equal(t, shapedecl.KindExclusiveMinimum, result.Violations[0].Kind)
}
