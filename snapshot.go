package config

import "sort"

// Snapshot is the immutable, ordered view of one construction pass. Keys
// iterate in sorted name order. The zero value is empty and usable. No
// mutating operations exist; compound values are copied on the way out so
// callers cannot reach the stored data.
type Snapshot struct {
	keys   []string
	values map[string]any
}

func newSnapshot(values map[string]any) Snapshot {
	keys := make([]string, 0, len(values))
	copied := make(map[string]any, len(values))
	for key, value := range values {
		keys = append(keys, key)
		copied[key] = value
	}
	sort.Strings(keys)
	return Snapshot{keys: keys, values: copied}
}

// Get returns the value stored under key. Compound values (arrays, objects)
// are deep copies.
func (s Snapshot) Get(key string) (any, bool) {
	value, ok := s.values[key]
	if !ok {
		return nil, false
	}
	return copyValue(value), true
}

// Keys returns the variable names in sorted order. The slice is a copy.
func (s Snapshot) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of variables in the snapshot.
func (s Snapshot) Len() int { return len(s.keys) }

// Range calls fn for each entry in key order until fn returns false.
func (s Snapshot) Range(fn func(key string, value any) bool) {
	for _, key := range s.keys {
		if !fn(key, copyValue(s.values[key])) {
			return
		}
	}
}

// copyValue deep-copies the JSON-shaped values a caster can produce. Scalars
// are returned as-is.
func copyValue(value any) any {
	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = copyValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = copyValue(item)
		}
		return out
	default:
		return value
	}
}
