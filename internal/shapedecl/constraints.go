// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package shapedecl

import "regexp"

// Constraints holds the raw constraint keywords attached to a field
// declaration. Pointer fields distinguish "unset" from zero values.
// Constraints are pure metadata until Normalize checks them against
// the declared base type and resolves them into a constraint list.
type Constraints struct {
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
	MinItems         *int
	MaxItems         *int
}

// Empty reports whether no constraint keyword is set.
func (c Constraints) Empty() bool {
	return c.Format == "" &&
		c.Pattern == "" &&
		c.MinLength == nil &&
		c.MaxLength == nil &&
		c.Minimum == nil &&
		c.Maximum == nil &&
		c.ExclusiveMinimum == nil &&
		c.ExclusiveMaximum == nil &&
		c.MultipleOf == nil &&
		len(c.Enum) == 0 &&
		c.Const == nil &&
		c.MinItems == nil &&
		c.MaxItems == nil
}

// Kind identifies a single constraint keyword. Kind values double as
// violation kinds reported by the validator.
type Kind string

// Constraint kinds, in canonical order.
const (
	KindFormat           Kind = "Format"
	KindPattern          Kind = "Pattern"
	KindMinLength        Kind = "MinLength"
	KindMaxLength        Kind = "MaxLength"
	KindMinimum          Kind = "Minimum"
	KindMaximum          Kind = "Maximum"
	KindExclusiveMinimum Kind = "ExclusiveMinimum"
	KindExclusiveMaximum Kind = "ExclusiveMaximum"
	KindMultipleOf       Kind = "MultipleOf"
	KindEnum             Kind = "Enum"
	KindConst            Kind = "Const"
	KindMinItems         Kind = "MinItems"
	KindMaxItems         Kind = "MaxItems"
)

// Constraint is one normalized constraint: a kind tag plus the literal
// parameter it was declared with. Which parameter field is populated
// depends on the kind.
type Constraint struct {
	Kind   Kind
	Str    string         // Format, Pattern
	Num    float64        // Minimum, Maximum, ExclusiveMinimum, ExclusiveMaximum, MultipleOf
	Count  int            // MinLength, MaxLength, MinItems, MaxItems
	Values []any          // Enum, canonicalized element values
	Value  any            // Const, canonicalized
	Regexp *regexp.Regexp // compiled Pattern
}

// NormalizedField is a field whose constraints passed declaration-time
// checking. Constraints are resolved into canonical order, patterns
// compiled, and enum and const values canonicalized.
type NormalizedField struct {
	Name        string
	Type        BaseType
	ShapeRef    string
	Nullable    bool
	Optional    bool
	Description string
	Constraints []Constraint
	Items       *NormalizedSpec
	Variants    []NormalizedSpec
}

// NormalizedSpec is the normalized form of a TypeSpec.
type NormalizedSpec struct {
	Type        BaseType
	ShapeRef    string
	Constraints []Constraint
	Items       *NormalizedSpec
}

// NormalizedShape is a shape with all fields normalized.
type NormalizedShape struct {
	Name        string
	Description string
	Fields      []NormalizedField
}

// Field returns the normalized field with the given name, or nil.
func (s *NormalizedShape) Field(name string) *NormalizedField {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}
