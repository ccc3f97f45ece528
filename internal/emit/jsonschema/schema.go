// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Package jsonschema emits shapes as JSON Schema (draft 2020-12)
// documents.
package jsonschema

import (
	"bytes"
	"encoding/json"
)

// Schema is one node of an emitted schema tree. Unlike map-based
// trees, properties and $defs keep their stored order, and MarshalJSON
// writes all keys in one fixed order, so emitting the same document
// twice is byte-identical.
type Schema struct {
	SchemaURI        string // $schema, set on the root node only
	Title            string
	Description      string
	Type             any // string, or []string for a type union
	Format           string
	Pattern          string
	MinLength        *int
	MaxLength        *int
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64
	MultipleOf       *float64
	Enum             []any
	Const            any
	Items            *Schema
	MinItems         *int
	MaxItems         *int
	Properties       []Property
	Required         []string
	AnyOf            []*Schema
	Ref              string
	Defs             []NamedSchema
}

// Property is one ordered entry of a "properties" object.
type Property struct {
	Name   string
	Schema *Schema
}

// NamedSchema is one ordered entry of a "$defs" object.
type NamedSchema struct {
	Name   string
	Schema *Schema
}

// MarshalJSON writes the schema with keys in canonical order:
// $schema, title, description, type, format, pattern, minLength,
// maxLength, minimum, maximum, exclusiveMinimum, exclusiveMaximum,
// multipleOf, enum, const, items, minItems, maxItems, properties,
// required, anyOf, $ref, $defs.
func (s *Schema) MarshalJSON() ([]byte, error) {
	w := &objectWriter{}

	if s.SchemaURI != "" {
		w.field("$schema", s.SchemaURI)
	}
	if s.Title != "" {
		w.field("title", s.Title)
	}
	if s.Description != "" {
		w.field("description", s.Description)
	}
	if s.Type != nil {
		w.field("type", s.Type)
	}
	if s.Format != "" {
		w.field("format", s.Format)
	}
	if s.Pattern != "" {
		w.field("pattern", s.Pattern)
	}
	if s.MinLength != nil {
		w.field("minLength", *s.MinLength)
	}
	if s.MaxLength != nil {
		w.field("maxLength", *s.MaxLength)
	}
	if s.Minimum != nil {
		w.field("minimum", *s.Minimum)
	}
	if s.Maximum != nil {
		w.field("maximum", *s.Maximum)
	}
	if s.ExclusiveMinimum != nil {
		w.field("exclusiveMinimum", *s.ExclusiveMinimum)
	}
	if s.ExclusiveMaximum != nil {
		w.field("exclusiveMaximum", *s.ExclusiveMaximum)
	}
	if s.MultipleOf != nil {
		w.field("multipleOf", *s.MultipleOf)
	}
	if len(s.Enum) > 0 {
		w.field("enum", s.Enum)
	}
	if s.Const != nil {
		w.field("const", s.Const)
	}
	if s.Items != nil {
		w.field("items", s.Items)
	}
	if s.MinItems != nil {
		w.field("minItems", *s.MinItems)
	}
	if s.MaxItems != nil {
		w.field("maxItems", *s.MaxItems)
	}
	if s.Properties != nil {
		props := &objectWriter{}
		for _, p := range s.Properties {
			props.field(p.Name, p.Schema)
		}
		w.nested("properties", props)
	}
	if len(s.Required) > 0 {
		w.field("required", s.Required)
	}
	if len(s.AnyOf) > 0 {
		w.field("anyOf", s.AnyOf)
	}
	if s.Ref != "" {
		w.field("$ref", s.Ref)
	}
	if len(s.Defs) > 0 {
		defs := &objectWriter{}
		for _, d := range s.Defs {
			defs.field(d.Name, d.Schema)
		}
		w.nested("$defs", defs)
	}

	return w.finish()
}

// Marshal renders the schema as indented JSON with a trailing
// newline, the exact bytes the emitter writes to disk.
func Marshal(s *Schema) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// objectWriter builds a JSON object with members in call order.
type objectWriter struct {
	buf   bytes.Buffer
	count int
	err   error
}

func (w *objectWriter) field(name string, value any) {
	if w.err != nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		w.err = err
		return
	}
	w.raw(name, data)
}

func (w *objectWriter) nested(name string, inner *objectWriter) {
	if w.err != nil {
		return
	}
	data, err := inner.finish()
	if err != nil {
		w.err = err
		return
	}
	w.raw(name, data)
}

func (w *objectWriter) raw(name string, data []byte) {
	if w.count == 0 {
		w.buf.WriteByte('{')
	} else {
		w.buf.WriteByte(',')
	}
	w.count++

	key, err := json.Marshal(name)
	if err != nil {
		w.err = err
		return
	}
	w.buf.Write(key)
	w.buf.WriteByte(':')
	w.buf.Write(data)
}

func (w *objectWriter) finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.count == 0 {
		return []byte("{}"), nil
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}
