// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package gotypes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declolabs/cli/internal/shapedecl"
)

func parseDoc(t *testing.T, src string) *shapedecl.Document {
	t.Helper()
	doc, err := shapedecl.NewYAMLParser().Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func emitDoc(t *testing.T, src, shapeName, outputDir string) string {
	t.Helper()
	output, err := (&Emitter{}).Emit(shapeName, parseDoc(t, src), outputDir)
	require.NoError(t, err)
	return string(output)
}

func TestEmit_StructFields(t *testing.T) {
	result := emitDoc(t, `
shapedecl: "1.0"
shapes:
  Report:
    fields:
      name:
        type: string
      count:
        type: integer
      ratio:
        type: number
      final:
        type: boolean
`, "Report", "models")

	assert.Contains(t, result, "// Code generated by declo. DO NOT EDIT.")
	assert.Contains(t, result, "package models")
	assert.Contains(t, result, "type Report struct {")
	assert.Contains(t, result, "Name string `json:\"name\"`")
	assert.Contains(t, result, "Count int64 `json:\"count\"`")
	assert.Contains(t, result, "Ratio float64 `json:\"ratio\"`")
	assert.Contains(t, result, "Final bool `json:\"final\"`")
}

func TestEmit_PointerForNullable(t *testing.T) {
	result := emitDoc(t, `
shapedecl: "1.0"
shapes:
  Order:
    fields:
      coupon:
        type: string
        nullable: true
`, "Order", "models")

	assert.Contains(t, result, "Coupon *string `json:\"coupon\"`")
}

func TestEmit_OmitemptyForOptional(t *testing.T) {
	result := emitDoc(t, `
shapedecl: "1.0"
shapes:
  Order:
    fields:
      gift:
        type: boolean
        optional: true
`, "Order", "models")

	assert.Contains(t, result, "Gift *bool `json:\"gift,omitempty\"`")
}

func TestEmit_TimeImport(t *testing.T) {
	result := emitDoc(t, `
shapedecl: "1.0"
shapes:
  Event:
    fields:
      created_at:
        type: string
        format: date-time
`, "Event", "models")

	assert.Contains(t, result, `import "time"`)
	assert.Contains(t, result, "CreatedAt time.Time")
}

func TestEmit_NoTimeImportWithoutDates(t *testing.T) {
	result := emitDoc(t, `
shapedecl: "1.0"
shapes:
  Event:
    fields:
      id:
        type: string
        format: uuid
`, "Event", "models")

	assert.NotContains(t, result, `import "time"`)
	assert.Contains(t, result, "ID string")
}

func TestEmit_AcronymNames(t *testing.T) {
	result := emitDoc(t, `
shapedecl: "1.0"
shapes:
  Link:
    fields:
      user_id:
        type: string
      api_url:
        type: string
`, "Link", "models")

	assert.Contains(t, result, "UserID string")
	assert.Contains(t, result, "APIURL string")
}

func TestEmit_ReferencesAndArrays(t *testing.T) {
	result := emitDoc(t, `
shapedecl: "1.0"
shapes:
  Order:
    fields:
      customer:
        shape: Customer
      lines:
        type: array
        items:
          shape: OrderLine
  Customer:
    fields:
      name:
        type: string
  OrderLine:
    fields:
      sku:
        type: string
`, "Order", "models")

	assert.Contains(t, result, "Customer Customer `json:\"customer\"`")
	assert.Contains(t, result, "Lines []OrderLine `json:\"lines\"`")
	assert.Contains(t, result, "type Customer struct {")
	assert.Contains(t, result, "type OrderLine struct {")
}

func TestEmit_UnionBecomesAny(t *testing.T) {
	result := emitDoc(t, `
shapedecl: "1.0"
shapes:
  Event:
    fields:
      source:
        type: union
        variants:
          - type: string
          - type: integer
`, "Event", "models")

	assert.Contains(t, result, "Source any `json:\"source\"`")
}

func TestEmit_Descriptions(t *testing.T) {
	result := emitDoc(t, `
shapedecl: "1.0"
shapes:
  Ticket:
    description: A support ticket.
    fields:
      subject:
        type: string
        description: Short summary.
`, "Ticket", "models")

	assert.Contains(t, result, "// A support ticket.\ntype Ticket struct {")
	assert.Contains(t, result, "// Short summary.")
}

func TestPackageName(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"models", "models"},
		{"out/go-types", "gotypes"},
		{"My Models", "mymodels"},
		{"123", "shapes"},
		{".", "shapes"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, packageName(tt.dir), "packageName(%q)", tt.dir)
	}
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, ".go", (&Emitter{}).FileExtension())
}
