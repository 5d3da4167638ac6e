package eval

import (
	"sort"
	"strings"
)

// Substitute walks content and rewrites string leaves against mapping: a leaf
// equal to a mapping key takes the mapped value (and its type); otherwise
// every occurrence of a key inside the leaf is replaced by the value's string
// form. Containers recurse into elements, keys and values; booleans, numbers
// and empty values pass through. Substitute never fails and never mutates its
// input.
//
//	Substitute(map[string]any{"url": "/api/users/$uid"}, map[string]any{"$uid": 1000})
//	// => map[string]any{"url": "/api/users/1000"}
func Substitute(content any, mapping map[string]any) any {
	if len(mapping) == 0 {
		return content
	}
	// Fixed application order keeps results deterministic when one key is a
	// substring of another.
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return substitute(content, keys, mapping)
}

func substitute(content any, keys []string, mapping map[string]any) any {
	switch c := content.(type) {
	case nil, bool, int, int64, float64:
		return content

	case []any:
		out := make([]any, len(c))
		for i, item := range c {
			out[i] = substitute(item, keys, mapping)
		}
		return out

	case map[string]any:
		out := make(map[string]any, len(c))
		for key, value := range c {
			out[stringify(substitute(key, keys, mapping))] = substitute(value, keys, mapping)
		}
		return out

	case string:
		if c == "" {
			return c
		}
		return substituteString(c, keys, mapping)

	default:
		return content
	}
}

func substituteString(s string, keys []string, mapping map[string]any) any {
	cur := any(s)
	for _, key := range keys {
		cs, ok := cur.(string)
		if !ok {
			break
		}
		if cs == key {
			cur = mapping[key]
		} else {
			cur = strings.ReplaceAll(cs, key, stringify(mapping[key]))
		}
	}
	return cur
}
