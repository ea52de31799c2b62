package config

import (
	"fmt"
	"sort"
)

// Mapping is the nested-mapping capability the merger works against.
// Any container that can look up, store and enumerate string keys can be
// merged, independent of the parser that produced it.
type Mapping interface {
	// Get returns the value stored under key and whether it was present.
	Get(key string) (any, bool)

	// Set stores value under key, replacing any previous value.
	Set(key string, value any)

	// Keys returns the keys of the mapping in a stable order.
	Keys() []string

	// Empty returns a new, empty mapping of the same kind.
	Empty() Mapping
}

// Fragment is a parsed configuration document: string keys mapping to
// scalars, sequences ([]any) or nested Fragments.
type Fragment map[string]any

// Get implements Mapping.
func (f Fragment) Get(key string) (any, bool) {
	v, ok := f[key]
	return v, ok
}

// Set implements Mapping.
func (f Fragment) Set(key string, value any) {
	f[key] = value
}

// Keys implements Mapping. Keys are returned sorted.
func (f Fragment) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Empty implements Mapping.
func (f Fragment) Empty() Mapping {
	return Fragment{}
}

// Section returns the nested mapping stored under key.
// The second result is false when the key is absent or not a mapping.
func (f Fragment) Section(key string) (Fragment, bool) {
	v, ok := f[key]
	if !ok {
		return nil, false
	}
	m, ok := AsMapping(v)
	if !ok {
		return nil, false
	}
	return toFragment(m), true
}

// AsMapping reports whether v is a nested mapping and returns it as one.
// Plain map[string]any values are accepted alongside Fragment so that
// trees built by hand or by other decoders merge the same way.
func AsMapping(v any) (Mapping, bool) {
	switch m := v.(type) {
	case Fragment:
		return m, true
	case map[string]any:
		return Fragment(m), true
	case Mapping:
		return m, true
	default:
		return nil, false
	}
}

func toFragment(m Mapping) Fragment {
	if f, ok := m.(Fragment); ok {
		return f
	}
	f := make(Fragment)
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		f[k] = v
	}
	return f
}

// normalize converts decoder output into Fragment form: every nested
// mapping becomes a Fragment (non-string keys are formatted with %v) and
// every sequence becomes []any.
func normalize(v any) any {
	switch t := v.(type) {
	case Fragment:
		out := make(Fragment, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[string]any:
		out := make(Fragment, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(Fragment, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
