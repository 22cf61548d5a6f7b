package models

import (
	"encoding/json"

	"github.com/napcet/3mf-reader/core/utils"
)

// ValueKind discriminates the possible shapes of a raw setting value.
type ValueKind int

const (
	// KindAbsent marks the zero Value, returned for missing keys.
	KindAbsent ValueKind = iota
	// KindString is a plain string value.
	KindString
	// KindNumber is a numeric value.
	KindNumber
	// KindBool is a boolean value.
	KindBool
	// KindList is an ordered list of strings indexed by material slot.
	KindList
)

// Value is a tagged union for one raw setting. Slicer settings files mix
// strings, numbers, booleans, and per-slot string lists under opaque keys;
// modeling them explicitly keeps the reconciliation coercions exhaustive.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	List []string
}

// StringValue builds a string-kind Value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// ListValue builds a list-kind Value.
func ListValue(items ...string) Value { return Value{Kind: KindList, List: items} }

// ValueOf converts a decoded JSON value into a Value.
// Nested objects and mixed-type lists degrade to their string rendering,
// since no documented setting key uses them.
func ValueOf(raw any) Value {
	switch v := raw.(type) {
	case string:
		return Value{Kind: KindString, Str: v}
	case float64:
		return Value{Kind: KindNumber, Num: v}
	case bool:
		return Value{Kind: KindBool, Bool: v}
	case json.Number:
		return Value{Kind: KindNumber, Num: utils.ToFloat(v.String(), 0)}
	case []any:
		list := make([]string, 0, len(v))
		for _, item := range v {
			list = append(list, utils.ToString(item))
		}
		return Value{Kind: KindList, List: list}
	case nil:
		return Value{}
	default:
		return Value{Kind: KindString, Str: utils.ToString(v)}
	}
}

// IsAbsent reports whether the value carries no data.
func (v Value) IsAbsent() bool { return v.Kind == KindAbsent }

// First returns the scalar rendering of the value, taking the first element
// of a list. def is returned for absent or empty values.
func (v Value) First(def string) string {
	switch v.Kind {
	case KindString:
		if v.Str == "" {
			return def
		}
		return v.Str
	case KindNumber:
		return utils.ToString(v.Num)
	case KindBool:
		if v.Bool {
			return "1"
		}
		return "0"
	case KindList:
		if len(v.List) == 0 {
			return def
		}
		return v.List[0]
	default:
		return def
	}
}

// At returns the i-th element of a list value. Scalar values behave as a
// one-element list so single-material settings files read the same way.
func (v Value) At(i int) (string, bool) {
	if v.Kind == KindList {
		if i < 0 || i >= len(v.List) {
			return "", false
		}
		return v.List[i], true
	}
	if v.Kind == KindAbsent || i != 0 {
		return "", false
	}
	return v.First(""), true
}

// Len returns the slot count a list value covers; scalars count as one.
func (v Value) Len() int {
	switch v.Kind {
	case KindAbsent:
		return 0
	case KindList:
		return len(v.List)
	default:
		return 1
	}
}

// Float coerces the value to a float, falling back to def.
func (v Value) Float(def float64) float64 {
	if v.Kind == KindNumber {
		return v.Num
	}
	return utils.ToFloat(v.First(""), def)
}

// Int coerces the value to an int, falling back to def.
func (v Value) Int(def int) int {
	if v.Kind == KindNumber {
		return int(v.Num)
	}
	return utils.ToInt(v.First(""), def)
}

// AsBool coerces the value to a bool ("1"/"true" style).
func (v Value) AsBool() bool {
	if v.Kind == KindBool {
		return v.Bool
	}
	return utils.ToBool(v.First(""))
}

// RawSettings is the raw key/value configuration parsed from the container.
// Keys are opaque strings defined by the producing slicer.
type RawSettings map[string]Value

// Get returns the value for key, or an absent Value.
func (s RawSettings) Get(key string) Value {
	if s == nil {
		return Value{}
	}
	return s[key]
}

// First returns the scalar rendering of the value under key.
func (s RawSettings) First(key, def string) string {
	return s.Get(key).First(def)
}

// Float returns the value under key coerced to float64.
func (s RawSettings) Float(key string, def float64) float64 {
	return s.Get(key).Float(def)
}

// Int returns the value under key coerced to int.
func (s RawSettings) Int(key string, def int) int {
	return s.Get(key).Int(def)
}

// SlotValue returns the i-th (0-based) element of the list under key,
// or def when the list is shorter.
func (s RawSettings) SlotValue(key string, i int, def string) string {
	if v, ok := s.Get(key).At(i); ok && v != "" {
		return v
	}
	return def
}
