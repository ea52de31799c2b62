package config

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name   string
		base   Fragment
		update Fragment
		want   Fragment
	}{
		{
			name:   "empty base",
			base:   Fragment{},
			update: Fragment{"a": 1},
			want:   Fragment{"a": 1},
		},
		{
			name:   "empty update",
			base:   Fragment{"a": 1},
			update: Fragment{},
			want:   Fragment{"a": 1},
		},
		{
			name:   "scalar replaced",
			base:   Fragment{"a": 1, "b": 2},
			update: Fragment{"a": 3},
			want:   Fragment{"a": 3, "b": 2},
		},
		{
			name:   "nested mappings merged",
			base:   Fragment{"default": Fragment{"forward": 12, "start": 0.5}},
			update: Fragment{"default": Fragment{"start": 1.0, "center_id": "SMHI"}},
			want:   Fragment{"default": Fragment{"forward": 12, "start": 1.0, "center_id": "SMHI"}},
		},
		{
			name:   "lists replaced not concatenated",
			base:   Fragment{"station": []any{"nrk", "kir"}},
			update: Fragment{"station": []any{"sva"}},
			want:   Fragment{"station": []any{"sva"}},
		},
		{
			name:   "mapping replaces scalar",
			base:   Fragment{"pattern": "none"},
			update: Fragment{"pattern": Fragment{"dir_output": "/data"}},
			want:   Fragment{"pattern": Fragment{"dir_output": "/data"}},
		},
		{
			name:   "scalar replaces mapping",
			base:   Fragment{"pattern": Fragment{"dir_output": "/data"}},
			update: Fragment{"pattern": nil},
			want:   Fragment{"pattern": nil},
		},
		{
			name:   "deeply nested scalar",
			base:   Fragment{"a": Fragment{"b": Fragment{"c": 1, "d": 2}}},
			update: Fragment{"a": Fragment{"b": Fragment{"c": 10}}},
			want:   Fragment{"a": Fragment{"b": Fragment{"c": 10, "d": 2}}},
		},
		{
			name:   "plain maps are mappings",
			base:   Fragment{"a": map[string]any{"x": 1}},
			update: Fragment{"a": map[string]any{"y": 2}},
			want:   Fragment{"a": Fragment{"x": 1, "y": 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.base, tt.update)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := Fragment{"default": Fragment{"forward": 12}}
	update := Fragment{"default": Fragment{"start": 0.5}, "pattern": Fragment{"dir_output": "/data"}}

	merged := Merge(base, update).(Fragment)

	if !reflect.DeepEqual(base, Fragment{"default": Fragment{"forward": 12}}) {
		t.Errorf("base was modified: %#v", base)
	}

	// The result must not share mappings with update.
	pattern, _ := merged.Section("pattern")
	pattern["dir_output"] = "/elsewhere"
	if got := update["pattern"].(Fragment)["dir_output"]; got != "/data" {
		t.Errorf("update was modified through the result: dir_output = %v", got)
	}
}

// orderedMapping is a Mapping that is not a Fragment.
type orderedMapping struct {
	keys   []string
	values map[string]any
}

func newOrderedMapping() *orderedMapping {
	return &orderedMapping{values: map[string]any{}}
}

func (m *orderedMapping) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *orderedMapping) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *orderedMapping) Keys() []string { return append([]string(nil), m.keys...) }

func (m *orderedMapping) Empty() Mapping { return newOrderedMapping() }

func TestMergeOtherMappingKinds(t *testing.T) {
	base := newOrderedMapping()
	base.Set("z", 1)
	nested := newOrderedMapping()
	nested.Set("x", 1)
	base.Set("n", nested)

	update := Fragment{"n": Fragment{"y": 2}, "a": 3}

	got := Merge(base, update)
	if _, ok := got.(*orderedMapping); !ok {
		t.Fatalf("Merge() returned %T, want the base's kind", got)
	}
	if !reflect.DeepEqual(got.Keys(), []string{"z", "n", "a"}) {
		t.Errorf("Keys() = %v, want [z n a]", got.Keys())
	}

	n, _ := got.Get("n")
	nm, ok := AsMapping(n)
	if !ok {
		t.Fatalf("n is %T, want a mapping", n)
	}
	if _, ok := nm.(*orderedMapping); !ok {
		t.Errorf("nested mapping is %T, want *orderedMapping", nm)
	}
	if v, _ := nm.Get("x"); v != 1 {
		t.Errorf("n.x = %v, want 1", v)
	}
	if v, _ := nm.Get("y"); v != 2 {
		t.Errorf("n.y = %v, want 2", v)
	}
}

func TestMergeAll(t *testing.T) {
	got := MergeAll(
		Fragment{"a": 1, "m": Fragment{"x": 1}},
		Fragment{"b": 2, "m": Fragment{"y": 2}},
		Fragment{"a": 3},
	)
	want := Fragment{"a": 3, "b": 2, "m": Fragment{"x": 1, "y": 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeAll() = %#v, want %#v", got, want)
	}

	if got := MergeAll(); !reflect.DeepEqual(got, Fragment{}) {
		t.Errorf("MergeAll() with no fragments = %#v, want empty", got)
	}
}

var fragmentKeys = []string{"a", "b", "c", "d", "e"}

func drawValue(t *rapid.T, depth int, label string) any {
	kinds := 3
	if depth > 0 {
		kinds = 4
	}
	switch rapid.IntRange(0, kinds-1).Draw(t, label+".kind") {
	case 0:
		return rapid.IntRange(-100, 100).Draw(t, label+".int")
	case 1:
		return rapid.SampledFrom([]string{"", "nrk", "kir", "/data"}).Draw(t, label+".str")
	case 2:
		n := rapid.IntRange(0, 3).Draw(t, label+".len")
		list := make([]any, n)
		for i := range list {
			list[i] = rapid.IntRange(0, 9).Draw(t, label+".item")
		}
		return list
	default:
		return drawFragment(t, depth-1, label)
	}
}

func drawFragment(t *rapid.T, depth int, label string) Fragment {
	f := Fragment{}
	n := rapid.IntRange(0, len(fragmentKeys)).Draw(t, label+".size")
	for i := 0; i < n; i++ {
		key := rapid.SampledFrom(fragmentKeys).Draw(t, label+".key")
		f[key] = drawValue(t, depth, label+"."+key)
	}
	return f
}

func TestMergeProperties(t *testing.T) {
	t.Run("fold order", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			a := drawFragment(t, 2, "a")
			b := drawFragment(t, 2, "b")
			c := drawFragment(t, 2, "c")

			all := MergeAll(a, b, c)
			stepwise := Merge(MergeAll(a, b), c)
			if !reflect.DeepEqual(all, toFragment(stepwise)) {
				t.Fatalf("MergeAll(a, b, c) = %#v, Merge(MergeAll(a, b), c) = %#v", all, stepwise)
			}
		})
	})

	t.Run("identity", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			f := drawFragment(t, 2, "f")

			if got := Merge(f, Fragment{}); !reflect.DeepEqual(toFragment(got), f) {
				t.Fatalf("Merge(f, {}) = %#v, want %#v", got, f)
			}
			if got := Merge(Fragment{}, f); !reflect.DeepEqual(toFragment(got), f) {
				t.Fatalf("Merge({}, f) = %#v, want %#v", got, f)
			}
		})
	})

	t.Run("disjoint union", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			left := drawFragment(t, 2, "left")
			right := Fragment{}
			for k, v := range drawFragment(t, 2, "right") {
				right["r_"+k] = v
			}

			got := toFragment(Merge(left, right))
			if len(got) != len(left)+len(right) {
				t.Fatalf("merged has %d keys, want %d", len(got), len(left)+len(right))
			}
			for k, v := range left {
				if !reflect.DeepEqual(got[k], v) {
					t.Fatalf("key %q = %#v, want %#v", k, got[k], v)
				}
			}
			for k, v := range right {
				if !reflect.DeepEqual(got[k], v) {
					t.Fatalf("key %q = %#v, want %#v", k, got[k], v)
				}
			}
		})
	})

	t.Run("later scalar wins at any depth", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			base := drawFragment(t, 3, "base")
			depth := rapid.IntRange(1, 4).Draw(t, "depth")
			path := make([]string, depth)
			for i := range path {
				path[i] = rapid.SampledFrom(fragmentKeys).Draw(t, "path")
			}
			scalar := rapid.IntRange(1000, 2000).Draw(t, "scalar")

			var update any = scalar
			for i := len(path) - 1; i >= 0; i-- {
				update = Fragment{path[i]: update}
			}

			var cur any = toFragment(Merge(base, update.(Fragment)))
			for _, key := range path {
				m, ok := AsMapping(cur)
				if !ok {
					t.Fatalf("path %v: %#v is not a mapping", path, cur)
				}
				cur, _ = m.Get(key)
			}
			if cur != scalar {
				t.Fatalf("value at %v = %#v, want %d", path, cur, scalar)
			}
		})
	})
}
