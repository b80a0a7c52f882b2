package metadata

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
	"unique"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents a null value.
	KindNull
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
	// KindArray represents an array value.
	KindArray
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	default:
		return "invalid"
	}
}

// Value is a typed facet value.
//
// Strings are interned, so datasets with a handful of repeated values per facet
// (file types, resolutions) share storage across items.
type Value struct {
	Kind Kind                  `json:"k"`
	I64  int64                 `json:"i,omitempty"`
	F64  float64               `json:"f,omitempty"`
	s    unique.Handle[string] `json:"-"`
	B    bool                  `json:"b,omitempty"`
	A    []Value               `json:"a,omitempty"`
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, s: unique.Make(v)} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Array returns an array Value.
func Array(v []Value) Value { return Value{Kind: KindArray, A: v} }

// Strings returns an array Value of strings.
func Strings(v []string) Value {
	arr := make([]Value, len(v))
	for i := range v {
		arr[i] = String(v[i])
	}
	return Array(arr)
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.s.Value(), true
}

// StringValue returns the string value if Kind is KindString, otherwise empty string.
func (v Value) StringValue() string {
	s, _ := v.AsString()
	return s
}

// AsInt64 returns the int64 value if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsFloat64 returns the float64 value if Kind is KindFloat.
func (v Value) AsFloat64() (float64, bool) {
	if v.Kind != KindFloat {
		return 0, false
	}
	return v.F64, true
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsArray returns the array value if Kind is KindArray.
func (v Value) AsArray() ([]Value, bool) {
	if v.Kind != KindArray {
		return nil, false
	}
	return v.A, true
}

// IsEmpty reports whether v carries no usable facet value: invalid, null, the
// empty string, or an empty array.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindInvalid, KindNull:
		return true
	case KindString:
		return v.s.Value() == ""
	case KindArray:
		return len(v.A) == 0
	default:
		return false
	}
}

// Equal reports whether two values have the same kind and content.
// Int and Float are never equal to each other.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindInvalid, KindNull:
		return true
	case KindInt:
		return v.I64 == other.I64
	case KindFloat:
		return math.Float64bits(v.F64) == math.Float64bits(other.F64)
	case KindString:
		return v.s == other.s
	case KindBool:
		return v.B == other.B
	case KindArray:
		return slices.EqualFunc(v.A, other.A, Value.Equal)
	default:
		return false
	}
}

// Key returns a stable string representation for use in maps.
//
// Two values have the same Key iff they are Equal.
func (v Value) Key() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return "i:" + strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return "f:" + strconv.FormatUint(math.Float64bits(v.F64), 16)
	case KindString:
		return "s:" + v.s.Value()
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	case KindArray:
		if len(v.A) == 0 {
			return "a:"
		}
		parts := make([]string, len(v.A))
		for i := range v.A {
			parts[i] = v.A[i].Key()
		}
		return "a:" + strings.Join(parts, "\x1f")
	default:
		return "invalid"
	}
}

// Interface returns v as a plain Go value.
func (v Value) Interface() any {
	switch v.Kind {
	case KindInt:
		return v.I64
	case KindFloat:
		return v.F64
	case KindString:
		return v.s.Value()
	case KindBool:
		return v.B
	case KindArray:
		out := make([]any, len(v.A))
		for i := range v.A {
			out[i] = v.A[i].Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	type alias Value
	aux := &struct {
		S string `json:"s,omitempty"`
		*alias
	}{
		alias: (*alias)(&v),
	}
	if v.Kind == KindString {
		aux.S = v.s.Value()
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	type alias Value
	aux := &struct {
		S string `json:"s,omitempty"`
		*alias
	}{
		alias: (*alias)(v),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if v.Kind == KindString {
		v.s = unique.Make(aux.S)
	}
	return nil
}

// clone creates a deep copy of a Value, including nested arrays.
func (v Value) clone() Value {
	if v.Kind != KindArray || len(v.A) == 0 {
		return v
	}

	arrayCopy := make([]Value, len(v.A))
	for i := range v.A {
		arrayCopy[i] = v.A[i].clone()
	}
	v.A = arrayCopy
	return v
}

// Document is a map-backed faceted item.
//
// It satisfies facetgo.Item: every key of the map is a facet key.
type Document map[string]Value

// FacetKeys returns the document's keys in sorted order.
func (d Document) FacetKeys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// FacetValue returns the value stored for key.
func (d Document) FacetValue(key string) (Value, bool) {
	v, ok := d[key]
	return v, ok
}

// Clone creates a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}

	clone := make(Document, len(d))
	for k, v := range d {
		clone[k] = v.clone()
	}
	return clone
}

// ToMap converts the document into a plain map[string]any.
func (d Document) ToMap() map[string]any {
	m := make(map[string]any, len(d))
	for k, v := range d {
		m[k] = v.Interface()
	}
	return m
}
