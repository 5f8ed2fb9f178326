// Package flatten turns nested records into a single level of dotted keys.
package flatten

import (
	"sort"

	"github.com/huangsam/ctmeta/schema"
)

// Flatten returns a flat mapping of dotted-path keys to scalar values.
func Flatten(r *schema.Record) map[string]any {
	out := make(map[string]any, r.Len())
	r.Range(func(k string, v any) bool {
		assign(out, k, v)
		return true
	})
	return out
}

// FlattenMap flattens m into out, prefixing keys with prefix when non-empty.
// On key collisions the last visited value wins.
func FlattenMap(m map[string]any, prefix string, out map[string]any) {
	// Sorted visit keeps collision outcomes reproducible.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		assign(out, join(prefix, k), m[k])
	}
}

func assign(out map[string]any, key string, v any) {
	switch n := v.(type) {
	case map[string]any:
		FlattenMap(n, key, out)
	case *schema.Record:
		n.Range(func(k string, nv any) bool {
			assign(out, join(key, k), nv)
			return true
		})
	default:
		out[key] = v
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Keys returns the keys of a flattened mapping in lexicographic order.
func Keys(flat map[string]any) []string {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
