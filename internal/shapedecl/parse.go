// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package shapedecl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type rawDocument struct {
	ShapeDecl string              `yaml:"shapedecl" json:"shapedecl"`
	Info      rawInfo             `yaml:"info" json:"info"`
	Shapes    map[string]rawShape `yaml:"shapes" json:"shapes"`
}

type rawInfo struct {
	Title       string `yaml:"title" json:"title"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type rawShape struct {
	Description string              `yaml:"description,omitempty" json:"description,omitempty"`
	Fields      map[string]rawField `yaml:"fields" json:"fields"`
}

type rawField struct {
	Type             string        `yaml:"type,omitempty" json:"type,omitempty"`
	Shape            string        `yaml:"shape,omitempty" json:"shape,omitempty"`
	Nullable         bool          `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	Optional         bool          `yaml:"optional,omitempty" json:"optional,omitempty"`
	Description      string        `yaml:"description,omitempty" json:"description,omitempty"`
	Format           string        `yaml:"format,omitempty" json:"format,omitempty"`
	Pattern          string        `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	MinLength        *int          `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength        *int          `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Minimum          *float64      `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	Maximum          *float64      `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	ExclusiveMinimum *float64      `yaml:"exclusiveMinimum,omitempty" json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64      `yaml:"exclusiveMaximum,omitempty" json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64      `yaml:"multipleOf,omitempty" json:"multipleOf,omitempty"`
	Enum             []any         `yaml:"enum,omitempty" json:"enum,omitempty"`
	Const            any           `yaml:"const,omitempty" json:"const,omitempty"`
	MinItems         *int          `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	MaxItems         *int          `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	Items            *rawTypeSpec  `yaml:"items,omitempty" json:"items,omitempty"`
	Variants         []rawTypeSpec `yaml:"variants,omitempty" json:"variants,omitempty"`
}

type rawTypeSpec struct {
	Type             string       `yaml:"type,omitempty" json:"type,omitempty"`
	Shape            string       `yaml:"shape,omitempty" json:"shape,omitempty"`
	Format           string       `yaml:"format,omitempty" json:"format,omitempty"`
	Pattern          string       `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	MinLength        *int         `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength        *int         `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Minimum          *float64     `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	Maximum          *float64     `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	ExclusiveMinimum *float64     `yaml:"exclusiveMinimum,omitempty" json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64     `yaml:"exclusiveMaximum,omitempty" json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64     `yaml:"multipleOf,omitempty" json:"multipleOf,omitempty"`
	Enum             []any        `yaml:"enum,omitempty" json:"enum,omitempty"`
	Const            any          `yaml:"const,omitempty" json:"const,omitempty"`
	MinItems         *int         `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	MaxItems         *int         `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	Items            *rawTypeSpec `yaml:"items,omitempty" json:"items,omitempty"`
}

// Parser decodes a ShapeDecl document from a byte stream. The zero
// value is not usable; construct one with NewYAMLParser or
// NewJSONParser, or derive one from a file name with ParserForPath.
type Parser struct {
	unmarshal func(data []byte, v any) error
	keyOrder  func(data []byte) (map[string][]string, error)
}

// NewYAMLParser returns a parser for YAML documents.
func NewYAMLParser() Parser {
	return Parser{unmarshal: yaml.Unmarshal, keyOrder: extractKeyOrderYAML}
}

// NewJSONParser returns a parser for JSON documents.
func NewJSONParser() Parser {
	return Parser{unmarshal: json.Unmarshal, keyOrder: extractKeyOrderJSON}
}

// ParserForPath picks a parser from the file extension.
func ParserForPath(path string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAMLParser(), nil
	case ".json":
		return NewJSONParser(), nil
	}
	return Parser{}, fmt.Errorf("unsupported declaration file extension %q", filepath.Ext(path))
}

// Load reads and parses the declaration file at path, picking the
// format from the extension.
func Load(path string) (*Document, error) {
	parser, err := ParserForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open declaration file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	doc, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes one document. Shape and field declaration order is
// recovered from the raw bytes, since Go map decoding loses it.
func (p Parser) Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("empty document")
	}

	var raw rawDocument
	if err := p.unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	order, err := p.keyOrder(data)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return buildDocument(&raw, order)
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// ValidName reports whether s is a legal shape or field name.
func ValidName(s string) bool {
	return identRe.MatchString(s)
}

func buildDocument(raw *rawDocument, order map[string][]string) (*Document, error) {
	if raw.ShapeDecl == "" {
		return nil, errors.New(`missing "shapedecl" version key`)
	}
	if !strings.HasPrefix(raw.ShapeDecl, "1.") {
		return nil, fmt.Errorf("unsupported shapedecl version %q", raw.ShapeDecl)
	}

	doc := &Document{
		ShapeDecl: raw.ShapeDecl,
		Info: Info{
			Title:       raw.Info.Title,
			Version:     raw.Info.Version,
			Description: raw.Info.Description,
		},
	}

	shapeNames, err := orderedNames(order["shapes"], len(raw.Shapes), "shape")
	if err != nil {
		return nil, err
	}
	for _, name := range shapeNames {
		rs, ok := raw.Shapes[name]
		if !ok {
			return nil, fmt.Errorf("shape %q missing from decoded document", name)
		}
		if !identRe.MatchString(name) {
			return nil, fmt.Errorf("invalid shape name %q", name)
		}
		shape, err := buildShape(name, rs, order["shapes."+name+".fields"])
		if err != nil {
			return nil, err
		}
		doc.Shapes = append(doc.Shapes, *shape)
	}
	return doc, nil
}

func buildShape(name string, raw rawShape, fieldOrder []string) (*Shape, error) {
	fieldNames, err := orderedNames(fieldOrder, len(raw.Fields), "field")
	if err != nil {
		return nil, fmt.Errorf("shape %q: %w", name, err)
	}
	shape := &Shape{Name: name, Description: raw.Description}
	for _, fieldName := range fieldNames {
		rf, ok := raw.Fields[fieldName]
		if !ok {
			return nil, fmt.Errorf("shape %q: field %q missing from decoded document", name, fieldName)
		}
		if !identRe.MatchString(fieldName) {
			return nil, fmt.Errorf("shape %q: invalid field name %q", name, fieldName)
		}
		field, err := buildField(fieldName, rf)
		if err != nil {
			return nil, fmt.Errorf("shape %q: field %q: %w", name, fieldName, err)
		}
		shape.Fields = append(shape.Fields, *field)
	}
	return shape, nil
}

// orderedNames validates the key order recovered from raw bytes
// against the decoded map size, rejecting duplicate keys. JSON
// decoding silently keeps the last duplicate; the raw walk sees both.
func orderedNames(order []string, decoded int, kind string) ([]string, error) {
	seen := make(map[string]struct{}, len(order))
	for _, name := range order {
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate %s %q", kind, name)
		}
		seen[name] = struct{}{}
	}
	if len(order) != decoded {
		return nil, fmt.Errorf("%s declarations do not line up with document structure", kind)
	}
	return order, nil
}

func buildField(name string, raw rawField) (*Field, error) {
	typ, shapeRef, err := resolveType(raw.Type, raw.Shape)
	if err != nil {
		return nil, err
	}

	field := &Field{
		Name:        name,
		Type:        typ,
		ShapeRef:    shapeRef,
		Nullable:    raw.Nullable,
		Optional:    raw.Optional,
		Description: raw.Description,
		Constraints: Constraints{
			Format:           raw.Format,
			Pattern:          raw.Pattern,
			MinLength:        raw.MinLength,
			MaxLength:        raw.MaxLength,
			Minimum:          raw.Minimum,
			Maximum:          raw.Maximum,
			ExclusiveMinimum: raw.ExclusiveMinimum,
			ExclusiveMaximum: raw.ExclusiveMaximum,
			MultipleOf:       raw.MultipleOf,
			Enum:             raw.Enum,
			Const:            raw.Const,
			MinItems:         raw.MinItems,
			MaxItems:         raw.MaxItems,
		},
	}

	switch typ {
	case TypeArray:
		if raw.Items == nil {
			return nil, errors.New("array type requires an items declaration")
		}
		items, err := buildTypeSpec(raw.Items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		field.Items = items
	case TypeUnion:
		if len(raw.Variants) == 0 {
			return nil, ErrEmptyUnion
		}
		for i := range raw.Variants {
			variant, err := buildTypeSpec(&raw.Variants[i])
			if err != nil {
				return nil, fmt.Errorf("variant %d: %w", i, err)
			}
			field.Variants = append(field.Variants, *variant)
		}
	}
	if raw.Items != nil && typ != TypeArray {
		return nil, fmt.Errorf("items declared on %s type", typ)
	}
	if len(raw.Variants) > 0 && typ != TypeUnion {
		return nil, fmt.Errorf("variants declared on %s type", typ)
	}
	return field, nil
}

func buildTypeSpec(raw *rawTypeSpec) (*TypeSpec, error) {
	typ, shapeRef, err := resolveType(raw.Type, raw.Shape)
	if err != nil {
		return nil, err
	}

	spec := &TypeSpec{
		Type:     typ,
		ShapeRef: shapeRef,
		Constraints: Constraints{
			Format:           raw.Format,
			Pattern:          raw.Pattern,
			MinLength:        raw.MinLength,
			MaxLength:        raw.MaxLength,
			Minimum:          raw.Minimum,
			Maximum:          raw.Maximum,
			ExclusiveMinimum: raw.ExclusiveMinimum,
			ExclusiveMaximum: raw.ExclusiveMaximum,
			MultipleOf:       raw.MultipleOf,
			Enum:             raw.Enum,
			Const:            raw.Const,
			MinItems:         raw.MinItems,
			MaxItems:         raw.MaxItems,
		},
	}

	if typ == TypeArray {
		if raw.Items == nil {
			return nil, errors.New("array type requires an items declaration")
		}
		items, err := buildTypeSpec(raw.Items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		spec.Items = items
	}
	if raw.Items != nil && typ != TypeArray {
		return nil, fmt.Errorf("items declared on %s type", typ)
	}
	return spec, nil
}

// resolveType maps the raw type and shape keys to a base type. A bare
// "shape" key implies the shape type.
func resolveType(rawType, rawShape string) (BaseType, string, error) {
	if rawType == "" {
		if rawShape == "" {
			return "", "", errors.New("missing type")
		}
		return TypeShape, rawShape, nil
	}
	typ := BaseType(rawType)
	switch typ {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeArray, TypeUnion:
		if rawShape != "" {
			return "", "", fmt.Errorf("shape target declared on %s type", typ)
		}
		return typ, "", nil
	case TypeShape:
		if rawShape == "" {
			return "", "", errors.New("shape type requires a target shape name")
		}
		return TypeShape, rawShape, nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnknownType, rawType)
}
