package config

import (
	"reflect"
	"testing"
)

func TestSnapshotOrderedKeys(t *testing.T) {
	snap := newSnapshot(map[string]any{"B": 2.0, "A": 1.0, "C": 3.0})
	if !reflect.DeepEqual(snap.Keys(), []string{"A", "B", "C"}) {
		t.Fatalf("unexpected key order: %v", snap.Keys())
	}
	var visited []string
	snap.Range(func(key string, _ any) bool {
		visited = append(visited, key)
		return true
	})
	if !reflect.DeepEqual(visited, []string{"A", "B", "C"}) {
		t.Fatalf("unexpected range order: %v", visited)
	}
}

func TestSnapshotRangeStopsEarly(t *testing.T) {
	snap := newSnapshot(map[string]any{"A": 1.0, "B": 2.0})
	count := 0
	snap.Range(func(string, any) bool {
		count++
		return false
	})
	if count != 1 {
		t.Fatalf("expected range to stop after one entry, visited %d", count)
	}
}

func TestSnapshotGetCopiesCompoundValues(t *testing.T) {
	snap := newSnapshot(map[string]any{
		"OBJ": map[string]any{"nested": []any{"x"}},
	})
	first, ok := snap.Get("OBJ")
	if !ok {
		t.Fatal("expected OBJ to be present")
	}
	first.(map[string]any)["nested"].([]any)[0] = "mutated"
	second, _ := snap.Get("OBJ")
	if second.(map[string]any)["nested"].([]any)[0] != "x" {
		t.Fatal("snapshot leaked a shared reference")
	}
}

func TestSnapshotZeroValue(t *testing.T) {
	var snap Snapshot
	if snap.Len() != 0 {
		t.Fatalf("zero snapshot has length %d", snap.Len())
	}
	if _, ok := snap.Get("anything"); ok {
		t.Fatal("zero snapshot returned a value")
	}
}
