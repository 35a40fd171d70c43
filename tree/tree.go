// Package tree aggregates configuration files from a directory into one
// frozen tree addressable by dotted path. Each file parses according to its
// extension and lands under its base name, so "database.yaml" containing
// "host: localhost" is reachable as "database.host". Files that fail to
// parse are skipped and reported; failures originating from the config env
// loader abort the whole load instead.
package tree

import (
	"sort"
	"strings"
)

// Tree is an immutable nested configuration tree. The zero value is empty
// and usable.
type Tree struct {
	root map[string]any
}

func newTree(values map[string]any) Tree {
	copied, _ := copyValue(values).(map[string]any)
	return Tree{root: copied}
}

// Get returns the value at the dotted path. Absent paths yield the fallback
// when one is supplied, nil otherwise. Get never fails; compound values are
// deep copies. This is the same lookup contract as config.Loader.Lookup.
func (t Tree) Get(path string, fallback ...any) any {
	if value, ok := t.lookup(path); ok {
		return copyValue(value)
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return nil
}

// Has reports whether the dotted path resolves to a value.
func (t Tree) Has(path string) bool {
	_, ok := t.lookup(path)
	return ok
}

// Keys returns the top-level names in sorted order.
func (t Tree) Keys() []string {
	keys := make([]string, 0, len(t.root))
	for key := range t.root {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (t Tree) lookup(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var current any = t.root
	for _, part := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

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
