// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package shapedecl

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

// Declaration errors reported by Normalize and the parser. Callers
// match them with errors.Is.
var (
	ErrUnknownType            = errors.New("unknown type")
	ErrEmptyUnion             = errors.New("union declares no variants")
	ErrIncompatibleConstraint = errors.New("constraint not applicable to declared type")
	ErrConflictingBounds      = errors.New("conflicting bounds")
	ErrInvalidPattern         = errors.New("invalid pattern")
	ErrUnknownFormat          = errors.New("unknown format")
)

// NormalizeShape normalizes every field of a shape. The first failing
// field aborts with an error naming the field.
func NormalizeShape(s *Shape) (*NormalizedShape, error) {
	norm := &NormalizedShape{
		Name:        s.Name,
		Description: s.Description,
		Fields:      make([]NormalizedField, 0, len(s.Fields)),
	}
	for i := range s.Fields {
		nf, err := NormalizeField(&s.Fields[i])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", s.Fields[i].Name, err)
		}
		norm.Fields = append(norm.Fields, *nf)
	}
	return norm, nil
}

// NormalizeField checks a field declaration and resolves its
// constraints into canonical order. Constraint checking is purely
// declarative: no candidate value is involved.
func NormalizeField(f *Field) (*NormalizedField, error) {
	norm := &NormalizedField{
		Name:        f.Name,
		Type:        f.Type,
		ShapeRef:    f.ShapeRef,
		Nullable:    f.Nullable,
		Optional:    f.Optional,
		Description: f.Description,
	}

	switch f.Type {
	case TypeUnion:
		if !f.Constraints.Empty() {
			return nil, fmt.Errorf("%w: union fields carry no constraints, attach them to variants", ErrIncompatibleConstraint)
		}
		if len(f.Variants) == 0 {
			return nil, ErrEmptyUnion
		}
		for i := range f.Variants {
			ns, err := normalizeSpec(&f.Variants[i], true)
			if err != nil {
				return nil, fmt.Errorf("variant %d: %w", i, err)
			}
			norm.Variants = append(norm.Variants, *ns)
		}
		return norm, nil
	case TypeArray:
		if f.Items == nil {
			return nil, errors.New("array type requires an items declaration")
		}
		items, err := normalizeSpec(f.Items, false)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		norm.Items = items
	case TypeShape:
		if f.ShapeRef == "" {
			return nil, errors.New("shape type requires a target shape name")
		}
	case TypeString, TypeNumber, TypeInteger, TypeBoolean:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, f.Type)
	}

	list, err := normalizeConstraints(f.Type, f.Constraints)
	if err != nil {
		return nil, err
	}
	norm.Constraints = list
	return norm, nil
}

func normalizeSpec(ts *TypeSpec, inUnion bool) (*NormalizedSpec, error) {
	switch ts.Type {
	case TypeUnion:
		if inUnion {
			return nil, fmt.Errorf("%w: union variants cannot be unions", ErrIncompatibleConstraint)
		}
		return nil, fmt.Errorf("%w: only named fields declare unions", ErrIncompatibleConstraint)
	case TypeArray:
		if ts.Items == nil {
			return nil, errors.New("array type requires an items declaration")
		}
	case TypeShape:
		if ts.ShapeRef == "" {
			return nil, errors.New("shape type requires a target shape name")
		}
	case TypeString, TypeNumber, TypeInteger, TypeBoolean:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, ts.Type)
	}

	norm := &NormalizedSpec{Type: ts.Type, ShapeRef: ts.ShapeRef}
	if ts.Items != nil {
		items, err := normalizeSpec(ts.Items, false)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		norm.Items = items
	}
	list, err := normalizeConstraints(ts.Type, ts.Constraints)
	if err != nil {
		return nil, err
	}
	norm.Constraints = list
	return norm, nil
}

// normalizeConstraints resolves raw constraint keywords against the
// declared base type and returns them in canonical order: Format,
// Pattern, MinLength, MaxLength, Minimum, Maximum, ExclusiveMinimum,
// ExclusiveMaximum, MultipleOf, Enum, Const, MinItems, MaxItems.
func normalizeConstraints(typ BaseType, c Constraints) ([]Constraint, error) {
	if err := checkApplicability(typ, c); err != nil {
		return nil, err
	}
	if err := checkBounds(c); err != nil {
		return nil, err
	}

	var list []Constraint

	if c.Format != "" {
		if _, ok := LookupFormat(c.Format); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, c.Format)
		}
		list = append(list, Constraint{Kind: KindFormat, Str: c.Format})
	}
	if c.Pattern != "" {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
		list = append(list, Constraint{Kind: KindPattern, Str: c.Pattern, Regexp: re})
	}
	if c.MinLength != nil {
		list = append(list, Constraint{Kind: KindMinLength, Count: *c.MinLength})
	}
	if c.MaxLength != nil {
		list = append(list, Constraint{Kind: KindMaxLength, Count: *c.MaxLength})
	}
	if c.Minimum != nil {
		list = append(list, Constraint{Kind: KindMinimum, Num: *c.Minimum})
	}
	if c.Maximum != nil {
		list = append(list, Constraint{Kind: KindMaximum, Num: *c.Maximum})
	}
	if c.ExclusiveMinimum != nil {
		list = append(list, Constraint{Kind: KindExclusiveMinimum, Num: *c.ExclusiveMinimum})
	}
	if c.ExclusiveMaximum != nil {
		list = append(list, Constraint{Kind: KindExclusiveMaximum, Num: *c.ExclusiveMaximum})
	}
	if c.MultipleOf != nil {
		list = append(list, Constraint{Kind: KindMultipleOf, Num: *c.MultipleOf})
	}

	var enumValues []any
	if c.Enum != nil {
		if len(c.Enum) == 0 {
			return nil, fmt.Errorf("%w: empty enum admits no values", ErrConflictingBounds)
		}
		enumValues = make([]any, 0, len(c.Enum))
		for i, v := range c.Enum {
			cv, ok := constraintValue(typ, v)
			if !ok {
				return nil, fmt.Errorf("%w: enum value %d is not a %s", ErrIncompatibleConstraint, i, typ)
			}
			enumValues = append(enumValues, cv)
		}
		list = append(list, Constraint{Kind: KindEnum, Values: enumValues})
	}
	if c.Const != nil {
		cv, ok := constraintValue(typ, c.Const)
		if !ok {
			return nil, fmt.Errorf("%w: const value is not a %s", ErrIncompatibleConstraint, typ)
		}
		if enumValues != nil && !containsValue(enumValues, cv) {
			return nil, fmt.Errorf("%w: const value not admitted by enum", ErrConflictingBounds)
		}
		list = append(list, Constraint{Kind: KindConst, Value: cv})
	}

	if c.MinItems != nil {
		list = append(list, Constraint{Kind: KindMinItems, Count: *c.MinItems})
	}
	if c.MaxItems != nil {
		list = append(list, Constraint{Kind: KindMaxItems, Count: *c.MaxItems})
	}
	return list, nil
}

func checkApplicability(typ BaseType, c Constraints) error {
	var offending Kind
	switch {
	case c.Format != "" && !kindApplies(KindFormat, typ):
		offending = KindFormat
	case c.Pattern != "" && !kindApplies(KindPattern, typ):
		offending = KindPattern
	case c.MinLength != nil && !kindApplies(KindMinLength, typ):
		offending = KindMinLength
	case c.MaxLength != nil && !kindApplies(KindMaxLength, typ):
		offending = KindMaxLength
	case c.Minimum != nil && !kindApplies(KindMinimum, typ):
		offending = KindMinimum
	case c.Maximum != nil && !kindApplies(KindMaximum, typ):
		offending = KindMaximum
	case c.ExclusiveMinimum != nil && !kindApplies(KindExclusiveMinimum, typ):
		offending = KindExclusiveMinimum
	case c.ExclusiveMaximum != nil && !kindApplies(KindExclusiveMaximum, typ):
		offending = KindExclusiveMaximum
	case c.MultipleOf != nil && !kindApplies(KindMultipleOf, typ):
		offending = KindMultipleOf
	case c.Enum != nil && !kindApplies(KindEnum, typ):
		offending = KindEnum
	case c.Const != nil && !kindApplies(KindConst, typ):
		offending = KindConst
	case c.MinItems != nil && !kindApplies(KindMinItems, typ):
		offending = KindMinItems
	case c.MaxItems != nil && !kindApplies(KindMaxItems, typ):
		offending = KindMaxItems
	default:
		return nil
	}
	return fmt.Errorf("%w: %s on %s", ErrIncompatibleConstraint, offending, typ)
}

// kindApplies reports whether a constraint kind is compatible with a
// base type.
func kindApplies(k Kind, t BaseType) bool {
	switch k {
	case KindFormat, KindPattern, KindMinLength, KindMaxLength:
		return t == TypeString
	case KindMinimum, KindMaximum, KindExclusiveMinimum, KindExclusiveMaximum, KindMultipleOf:
		return t == TypeNumber || t == TypeInteger
	case KindEnum, KindConst:
		return t == TypeString || t == TypeNumber || t == TypeInteger || t == TypeBoolean
	case KindMinItems, KindMaxItems:
		return t == TypeArray
	}
	return false
}

// checkBounds rejects parameter combinations that admit no values.
func checkBounds(c Constraints) error {
	if c.MinLength != nil && *c.MinLength < 0 {
		return fmt.Errorf("%w: negative minLength", ErrConflictingBounds)
	}
	if c.MaxLength != nil && *c.MaxLength < 0 {
		return fmt.Errorf("%w: negative maxLength", ErrConflictingBounds)
	}
	if c.MinLength != nil && c.MaxLength != nil && *c.MinLength > *c.MaxLength {
		return fmt.Errorf("%w: minLength %d exceeds maxLength %d", ErrConflictingBounds, *c.MinLength, *c.MaxLength)
	}
	if c.MinItems != nil && *c.MinItems < 0 {
		return fmt.Errorf("%w: negative minItems", ErrConflictingBounds)
	}
	if c.MaxItems != nil && *c.MaxItems < 0 {
		return fmt.Errorf("%w: negative maxItems", ErrConflictingBounds)
	}
	if c.MinItems != nil && c.MaxItems != nil && *c.MinItems > *c.MaxItems {
		return fmt.Errorf("%w: minItems %d exceeds maxItems %d", ErrConflictingBounds, *c.MinItems, *c.MaxItems)
	}
	if c.Minimum != nil && c.Maximum != nil && *c.Minimum > *c.Maximum {
		return fmt.Errorf("%w: minimum %v exceeds maximum %v", ErrConflictingBounds, *c.Minimum, *c.Maximum)
	}
	if c.ExclusiveMinimum != nil && c.ExclusiveMaximum != nil && *c.ExclusiveMinimum >= *c.ExclusiveMaximum {
		return fmt.Errorf("%w: exclusiveMinimum %v admits nothing below exclusiveMaximum %v", ErrConflictingBounds, *c.ExclusiveMinimum, *c.ExclusiveMaximum)
	}
	if c.ExclusiveMinimum != nil && c.Maximum != nil && *c.ExclusiveMinimum >= *c.Maximum {
		return fmt.Errorf("%w: exclusiveMinimum %v admits nothing below maximum %v", ErrConflictingBounds, *c.ExclusiveMinimum, *c.Maximum)
	}
	if c.Minimum != nil && c.ExclusiveMaximum != nil && *c.Minimum >= *c.ExclusiveMaximum {
		return fmt.Errorf("%w: minimum %v admits nothing below exclusiveMaximum %v", ErrConflictingBounds, *c.Minimum, *c.ExclusiveMaximum)
	}
	if c.MultipleOf != nil && *c.MultipleOf <= 0 {
		return fmt.Errorf("%w: multipleOf must be positive", ErrConflictingBounds)
	}
	return nil
}

// constraintValue canonicalizes an enum or const literal for the
// declared base type. Numeric literals become float64 regardless of
// how the decoder produced them.
func constraintValue(typ BaseType, v any) (any, bool) {
	switch typ {
	case TypeString:
		s, ok := v.(string)
		return s, ok
	case TypeBoolean:
		b, ok := v.(bool)
		return b, ok
	case TypeNumber:
		n, ok := declNumber(v)
		if !ok {
			return nil, false
		}
		return n, true
	case TypeInteger:
		n, ok := declNumber(v)
		if !ok || n != math.Trunc(n) {
			return nil, false
		}
		return n, true
	}
	return nil, false
}

// declNumber converts the numeric value kinds the YAML and JSON
// decoders produce to float64.
func declNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func containsValue(values []any, v any) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
