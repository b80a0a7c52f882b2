package facetgo

import (
	"slices"

	"github.com/hupe1980/facetgo/metadata"
)

// Selection is one requested facet value.
type Selection struct {
	Key   string
	Value metadata.Value
}

// Select returns a string Selection.
func Select(key, value string) Selection {
	return Selection{Key: key, Value: metadata.String(value)}
}

// Selections is an ordered set of requested facet values.
// Constraints are resolved and evaluated in slice order.
type Selections []Selection

// SelectionsFromMap converts a map of requested values (for example a decoded
// UI request) into Selections ordered by key.
//
// Values metadata.FromAny cannot represent become invalid values, which no
// constraint constructor accepts: Resolve drops them, or fails in strict mode.
func SelectionsFromMap(m map[string]any) Selections {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make(Selections, 0, len(keys))
	for _, k := range keys {
		v, err := metadata.FromAny(m[k])
		if err != nil {
			v = metadata.Value{}
		}
		out = append(out, Selection{Key: k, Value: v})
	}
	return out
}

// SelectionsFromStrings converts a map of string selections into Selections
// ordered by key.
func SelectionsFromStrings(m map[string]string) Selections {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make(Selections, 0, len(keys))
	for _, k := range keys {
		out = append(out, Select(k, m[k]))
	}
	return out
}
