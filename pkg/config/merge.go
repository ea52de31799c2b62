package config

// Merge folds update into base and returns the merged mapping.
//
// For every key of update: when both base and update hold a nested mapping
// under that key the two are merged recursively; in every other case the
// value from update replaces the one in base. Keys only present in base are
// kept. Sequences and scalars are never combined, the later value wins.
//
// Neither argument is modified. The result is built from base.Empty(), and
// mappings taken from update are copied so the result does not share
// nested mappings with either input.
func Merge(base, update Mapping) Mapping {
	merged := base.Empty()
	for _, key := range base.Keys() {
		v, _ := base.Get(key)
		merged.Set(key, v)
	}

	for _, key := range update.Keys() {
		uv, _ := update.Get(key)

		um, ok := AsMapping(uv)
		if !ok {
			merged.Set(key, uv)
			continue
		}

		bv, _ := merged.Get(key)
		bm, ok := AsMapping(bv)
		if !ok {
			bm = um.Empty()
		}
		merged.Set(key, Merge(bm, um))
	}

	return merged
}

// MergeAll merges fragments left to right, starting from an empty Fragment.
func MergeAll(fragments ...Fragment) Fragment {
	var merged Mapping = Fragment{}
	for _, f := range fragments {
		merged = Merge(merged, f)
	}
	return toFragment(merged)
}
