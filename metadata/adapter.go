package metadata

import (
	"fmt"
	"math"
)

// FromAny converts a Go value into a typed Value.
//
// Nil pointers become Null, which the engine treats as an absent facet value.
// Other types, including named string types and fmt.Stringers, are rejected.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case *string:
		if x == nil {
			return Null(), nil
		}
		return String(*x), nil
	case float64:
		return Float(x), nil
	case float32:
		return Float(float64(x)), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case *int64:
		if x == nil {
			return Null(), nil
		}
		return Int(*x), nil
	case uint:
		return fromUint64(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUint64(x)
	case []Value:
		return Array(x), nil
	case []string:
		return Strings(x), nil
	case []any:
		arr := make([]Value, len(x))
		for i := range x {
			vv, err := FromAny(x[i])
			if err != nil {
				return Value{}, err
			}
			arr[i] = vv
		}
		return Array(arr), nil
	default:
		return Value{}, fmt.Errorf("unsupported facet value type %T", v)
	}
}

func fromUint64(x uint64) (Value, error) {
	if x > math.MaxInt64 {
		return Value{}, fmt.Errorf("facet value uint64 out of range: %d", x)
	}
	return Int(int64(x)), nil
}

// DocumentFromAny converts a map[string]any record to a typed Document.
func DocumentFromAny(m map[string]any) (Document, error) {
	d := make(Document, len(m))
	for k, v := range m {
		vv, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("facet %q: %w", k, err)
		}
		d[k] = vv
	}
	return d, nil
}
