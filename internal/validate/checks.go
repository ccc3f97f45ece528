// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

package validate

import (
	"encoding/json"
	"math"
	"unicode/utf8"

	"github.com/declolabs/cli/internal/shapedecl"
)

// applyConstraints runs the normalized constraint list against a
// type-checked candidate and records every failure. The candidate is
// the canonical runtime value for the base type: string, float64,
// bool, or []any. Normalize guarantees each kind matches the type, so
// the assertions below cannot fail.
func applyConstraints(rec *recorder, path string, list []shapedecl.Constraint, canon any) {
	for _, c := range list {
		switch c.Kind {
		case shapedecl.KindFormat:
			s := canon.(string)
			check, ok := shapedecl.LookupFormat(c.Str)
			if ok && !check(s) {
				rec.add(path, c.Kind, "must match format %q", c.Str)
			}
		case shapedecl.KindPattern:
			if !c.Regexp.MatchString(canon.(string)) {
				rec.add(path, c.Kind, "must match pattern %q", c.Str)
			}
		case shapedecl.KindMinLength:
			if n := utf8.RuneCountInString(canon.(string)); n < c.Count {
				rec.add(path, c.Kind, "length %d is less than minimum %d", n, c.Count)
			}
		case shapedecl.KindMaxLength:
			if n := utf8.RuneCountInString(canon.(string)); n > c.Count {
				rec.add(path, c.Kind, "length %d exceeds maximum %d", n, c.Count)
			}
		case shapedecl.KindMinimum:
			if n := canon.(float64); n < c.Num {
				rec.add(path, c.Kind, "%v is less than minimum %v", n, c.Num)
			}
		case shapedecl.KindMaximum:
			if n := canon.(float64); n > c.Num {
				rec.add(path, c.Kind, "%v exceeds maximum %v", n, c.Num)
			}
		case shapedecl.KindExclusiveMinimum:
			if n := canon.(float64); n <= c.Num {
				rec.add(path, c.Kind, "%v is not greater than %v", n, c.Num)
			}
		case shapedecl.KindExclusiveMaximum:
			if n := canon.(float64); n >= c.Num {
				rec.add(path, c.Kind, "%v is not less than %v", n, c.Num)
			}
		case shapedecl.KindMultipleOf:
			if n := canon.(float64); !isMultipleOf(n, c.Num) {
				rec.add(path, c.Kind, "%v is not a multiple of %v", n, c.Num)
			}
		case shapedecl.KindEnum:
			if !valueInList(c.Values, canon) {
				rec.add(path, c.Kind, "must be one of %v", c.Values)
			}
		case shapedecl.KindConst:
			if canon != c.Value {
				rec.add(path, c.Kind, "must be %v", c.Value)
			}
		case shapedecl.KindMinItems:
			if n := len(canon.([]any)); n < c.Count {
				rec.add(path, c.Kind, "%d items is fewer than minimum %d", n, c.Count)
			}
		case shapedecl.KindMaxItems:
			if n := len(canon.([]any)); n > c.Count {
				rec.add(path, c.Kind, "%d items exceeds maximum %d", n, c.Count)
			}
		}
	}
}

func valueInList(values []any, canon any) bool {
	for _, v := range values {
		if v == canon {
			return true
		}
	}
	return false
}

// isMultipleOf tolerates float division noise, so 0.3 is a multiple
// of 0.1 even though math.Mod disagrees.
func isMultipleOf(n, m float64) bool {
	q := n / m
	return math.Abs(q-math.Round(q)) < 1e-9
}

// typeMatches reports whether a runtime value could belong to a base
// type. Union dispatch picks the first matching variant with this.
func typeMatches(t shapedecl.BaseType, value any) bool {
	switch t {
	case shapedecl.TypeString:
		_, ok := value.(string)
		return ok
	case shapedecl.TypeBoolean:
		_, ok := value.(bool)
		return ok
	case shapedecl.TypeNumber:
		_, ok := numberValue(value)
		return ok
	case shapedecl.TypeInteger:
		n, ok := numberValue(value)
		return ok && isIntegral(n)
	case shapedecl.TypeArray:
		_, ok := value.([]any)
		return ok
	case shapedecl.TypeShape:
		_, ok := value.(map[string]any)
		return ok
	}
	return false
}

// numberValue converts the numeric representations JSON and YAML
// decoders produce to float64.
func numberValue(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func isIntegral(n float64) bool {
	return n == math.Trunc(n) && !math.IsInf(n, 0)
}

// typeName names a runtime value the way violation messages speak
// about it.
func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	if _, ok := numberValue(value); ok {
		return "number"
	}
	return "value"
}
