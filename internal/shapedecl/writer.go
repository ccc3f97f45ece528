// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package shapedecl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Writer serializes a ShapeDecl document, preserving shape and field
// declaration order. Construct one with NewYAMLWriter, NewJSONWriter,
// or WriterForPath.
type Writer struct {
	marshal      func(doc *Document) ([]byte, error)
	marshalShape func(s *Shape) ([]byte, error)
	extension    string
}

// NewYAMLWriter returns a writer producing YAML documents.
func NewYAMLWriter() Writer {
	return Writer{marshal: marshalDocYAML, marshalShape: marshalShapeYAML, extension: ".yaml"}
}

// NewJSONWriter returns a writer producing JSON documents.
func NewJSONWriter() Writer {
	return Writer{marshal: marshalDocJSON, marshalShape: marshalShapeJSON, extension: ".json"}
}

// WriterForPath picks a writer matching the file extension, so a
// document loaded from a file can be written back in the same format.
func WriterForPath(path string) (Writer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAMLWriter(), nil
	case ".json":
		return NewJSONWriter(), nil
	}
	return Writer{}, fmt.Errorf("unsupported declaration file extension %q", filepath.Ext(path))
}

// Marshal renders the document.
func (w Writer) Marshal(doc *Document) ([]byte, error) {
	return w.marshal(doc)
}

// MarshalShape renders a single shape as a document fragment, a
// mapping from the shape name to its declaration.
func (w Writer) MarshalShape(s *Shape) ([]byte, error) {
	return w.marshalShape(s)
}

// Extension returns the file extension the writer produces, with the
// leading dot.
func (w Writer) Extension() string {
	return w.extension
}

func marshalDocYAML(doc *Document) ([]byte, error) {
	root, err := docNode(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

func marshalDocJSON(doc *Document) ([]byte, error) {
	obj, err := docObject(doc)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(data, '\n'), nil
}

func marshalShapeYAML(s *Shape) ([]byte, error) {
	sn, err := shapeNode(s)
	if err != nil {
		return nil, err
	}
	root := newMapping()
	root.setNode(s.Name, sn)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root.node); err != nil {
		return nil, fmt.Errorf("encode shape %q: %w", s.Name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode shape %q: %w", s.Name, err)
	}
	return buf.Bytes(), nil
}

func marshalShapeJSON(s *Shape) ([]byte, error) {
	so, err := shapeObject(s)
	if err != nil {
		return nil, err
	}
	root := &orderedObject{}
	root.set(s.Name, so)
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode shape %q: %w", s.Name, err)
	}
	return append(data, '\n'), nil
}

// mapping builds a YAML mapping node with keys in insertion order.
type mapping struct {
	node *yaml.Node
	err  error
}

func newMapping() *mapping {
	return &mapping{node: &yaml.Node{Kind: yaml.MappingNode}}
}

func (m *mapping) set(key string, value any) {
	if m.err != nil {
		return
	}
	var v yaml.Node
	if err := v.Encode(value); err != nil {
		m.err = fmt.Errorf("encode %s: %w", key, err)
		return
	}
	m.setNode(key, &v)
}

func (m *mapping) setNode(key string, value *yaml.Node) {
	if m.err != nil {
		return
	}
	m.node.Content = append(m.node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
}

func docNode(doc *Document) (*yaml.Node, error) {
	root := newMapping()
	root.set("shapedecl", doc.ShapeDecl)

	if doc.Info != (Info{}) {
		info := newMapping()
		if doc.Info.Title != "" {
			info.set("title", doc.Info.Title)
		}
		if doc.Info.Version != "" {
			info.set("version", doc.Info.Version)
		}
		if doc.Info.Description != "" {
			info.set("description", doc.Info.Description)
		}
		root.setNode("info", info.node)
	}

	shapes := newMapping()
	for i := range doc.Shapes {
		s := &doc.Shapes[i]
		sn, err := shapeNode(s)
		if err != nil {
			return nil, err
		}
		shapes.setNode(s.Name, sn)
	}
	root.setNode("shapes", shapes.node)
	if root.err != nil {
		return nil, root.err
	}
	return root.node, nil
}

func shapeNode(s *Shape) (*yaml.Node, error) {
	sm := newMapping()
	if s.Description != "" {
		sm.set("description", s.Description)
	}
	fields := newMapping()
	for j := range s.Fields {
		fn, err := fieldNode(&s.Fields[j])
		if err != nil {
			return nil, fmt.Errorf("shape %q: field %q: %w", s.Name, s.Fields[j].Name, err)
		}
		fields.setNode(s.Fields[j].Name, fn)
	}
	sm.setNode("fields", fields.node)
	if sm.err != nil {
		return nil, fmt.Errorf("shape %q: %w", s.Name, sm.err)
	}
	return sm.node, nil
}

func fieldNode(f *Field) (*yaml.Node, error) {
	m := newMapping()
	setTypeKeys(m, f.Type, f.ShapeRef)
	if f.Nullable {
		m.set("nullable", true)
	}
	if f.Optional {
		m.set("optional", true)
	}
	if f.Description != "" {
		m.set("description", f.Description)
	}
	setConstraintKeys(m, f.Constraints)
	if f.Items != nil {
		items, err := typeSpecNode(f.Items)
		if err != nil {
			return nil, err
		}
		m.setNode("items", items)
	}
	if len(f.Variants) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for i := range f.Variants {
			vn, err := typeSpecNode(&f.Variants[i])
			if err != nil {
				return nil, fmt.Errorf("variant %d: %w", i, err)
			}
			seq.Content = append(seq.Content, vn)
		}
		m.setNode("variants", seq)
	}
	return m.node, m.err
}

func typeSpecNode(ts *TypeSpec) (*yaml.Node, error) {
	m := newMapping()
	setTypeKeys(m, ts.Type, ts.ShapeRef)
	setConstraintKeys(m, ts.Constraints)
	if ts.Items != nil {
		items, err := typeSpecNode(ts.Items)
		if err != nil {
			return nil, err
		}
		m.setNode("items", items)
	}
	return m.node, m.err
}

// setTypeKeys writes the type declaration. Shape references use the
// compact form, a bare "shape" key with the type implied.
func setTypeKeys(m *mapping, typ BaseType, shapeRef string) {
	if typ == TypeShape {
		m.set("shape", shapeRef)
		return
	}
	m.set("type", string(typ))
}

func setConstraintKeys(m *mapping, c Constraints) {
	if c.Format != "" {
		m.set("format", c.Format)
	}
	if c.Pattern != "" {
		m.set("pattern", c.Pattern)
	}
	if c.MinLength != nil {
		m.set("minLength", *c.MinLength)
	}
	if c.MaxLength != nil {
		m.set("maxLength", *c.MaxLength)
	}
	if c.Minimum != nil {
		m.set("minimum", *c.Minimum)
	}
	if c.Maximum != nil {
		m.set("maximum", *c.Maximum)
	}
	if c.ExclusiveMinimum != nil {
		m.set("exclusiveMinimum", *c.ExclusiveMinimum)
	}
	if c.ExclusiveMaximum != nil {
		m.set("exclusiveMaximum", *c.ExclusiveMaximum)
	}
	if c.MultipleOf != nil {
		m.set("multipleOf", *c.MultipleOf)
	}
	if len(c.Enum) > 0 {
		m.set("enum", c.Enum)
	}
	if c.Const != nil {
		m.set("const", c.Const)
	}
	if c.MinItems != nil {
		m.set("minItems", *c.MinItems)
	}
	if c.MaxItems != nil {
		m.set("maxItems", *c.MaxItems)
	}
}

// orderedObject renders a JSON object with keys in insertion order.
// encoding/json sorts map keys, which would scramble declarations.
type orderedObject struct {
	keys   []string
	values []json.RawMessage
	err    error
}

func (o *orderedObject) set(key string, value any) {
	if o.err != nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		o.err = fmt.Errorf("encode %s: %w", key, err)
		return
	}
	o.keys = append(o.keys, key)
	o.values = append(o.values, data)
}

func (o *orderedObject) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(o.values[i])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func docObject(doc *Document) (*orderedObject, error) {
	root := &orderedObject{}
	root.set("shapedecl", doc.ShapeDecl)

	if doc.Info != (Info{}) {
		info := &orderedObject{}
		if doc.Info.Title != "" {
			info.set("title", doc.Info.Title)
		}
		if doc.Info.Version != "" {
			info.set("version", doc.Info.Version)
		}
		if doc.Info.Description != "" {
			info.set("description", doc.Info.Description)
		}
		root.set("info", info)
	}

	shapes := &orderedObject{}
	for i := range doc.Shapes {
		s := &doc.Shapes[i]
		so, err := shapeObject(s)
		if err != nil {
			return nil, err
		}
		shapes.set(s.Name, so)
	}
	root.set("shapes", shapes)
	if root.err != nil {
		return nil, root.err
	}
	return root, nil
}

func shapeObject(s *Shape) (*orderedObject, error) {
	sm := &orderedObject{}
	if s.Description != "" {
		sm.set("description", s.Description)
	}
	fields := &orderedObject{}
	for j := range s.Fields {
		fields.set(s.Fields[j].Name, fieldObject(&s.Fields[j]))
	}
	sm.set("fields", fields)
	if sm.err != nil {
		return nil, fmt.Errorf("shape %q: %w", s.Name, sm.err)
	}
	return sm, nil
}

func fieldObject(f *Field) *orderedObject {
	o := &orderedObject{}
	setTypeMembers(o, f.Type, f.ShapeRef)
	if f.Nullable {
		o.set("nullable", true)
	}
	if f.Optional {
		o.set("optional", true)
	}
	if f.Description != "" {
		o.set("description", f.Description)
	}
	setConstraintMembers(o, f.Constraints)
	if f.Items != nil {
		o.set("items", typeSpecObject(f.Items))
	}
	if len(f.Variants) > 0 {
		variants := make([]*orderedObject, 0, len(f.Variants))
		for i := range f.Variants {
			variants = append(variants, typeSpecObject(&f.Variants[i]))
		}
		o.set("variants", variants)
	}
	return o
}

func typeSpecObject(ts *TypeSpec) *orderedObject {
	o := &orderedObject{}
	setTypeMembers(o, ts.Type, ts.ShapeRef)
	setConstraintMembers(o, ts.Constraints)
	if ts.Items != nil {
		o.set("items", typeSpecObject(ts.Items))
	}
	return o
}

func setTypeMembers(o *orderedObject, typ BaseType, shapeRef string) {
	if typ == TypeShape {
		o.set("shape", shapeRef)
		return
	}
	o.set("type", string(typ))
}

func setConstraintMembers(o *orderedObject, c Constraints) {
	if c.Format != "" {
		o.set("format", c.Format)
	}
	if c.Pattern != "" {
		o.set("pattern", c.Pattern)
	}
	if c.MinLength != nil {
		o.set("minLength", *c.MinLength)
	}
	if c.MaxLength != nil {
		o.set("maxLength", *c.MaxLength)
	}
	if c.Minimum != nil {
		o.set("minimum", *c.Minimum)
	}
	if c.Maximum != nil {
		o.set("maximum", *c.Maximum)
	}
	if c.ExclusiveMinimum != nil {
		o.set("exclusiveMinimum", *c.ExclusiveMinimum)
	}
	if c.ExclusiveMaximum != nil {
		o.set("exclusiveMaximum", *c.ExclusiveMaximum)
	}
	if c.MultipleOf != nil {
		o.set("multipleOf", *c.MultipleOf)
	}
	if len(c.Enum) > 0 {
		o.set("enum", c.Enum)
	}
	if c.Const != nil {
		o.set("const", c.Const)
	}
	if c.MinItems != nil {
		o.set("minItems", *c.MinItems)
	}
	if c.MaxItems != nil {
		o.set("maxItems", *c.MaxItems)
	}
}
