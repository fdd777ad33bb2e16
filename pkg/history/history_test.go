package history

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func cloneInts(s []int) []int {
	return append([]int(nil), s...)
}

func TestSnapshotIsDeep(t *testing.T) {
	h := New(cloneInts, 0)
	state := []int{1, 2, 3}
	h.Push(state)
	state[0] = 99

	got, ok := h.Undo(state)
	if !ok {
		t.Fatal("Undo reported nothing to undo")
	}
	if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Errorf("snapshot shares memory with caller (-want +got):\n%s", diff)
	}
}

func TestUndoStackLimit(t *testing.T) {
	h := New(cloneInts, 50)
	for i := 0; i < 60; i++ {
		h.Push([]int{i})
	}
	if u, _ := h.Len(); u != 50 {
		t.Fatalf("undo depth = %d, want 50", u)
	}
	// Oldest surviving entry is from iteration 10.
	var got []int
	cur := []int{-1}
	for h.CanUndo() {
		cur, _ = h.Undo(cur)
		got = cur
	}
	if got[0] != 10 {
		t.Errorf("oldest entry = %d, want 10", got[0])
	}
}

func TestUndoRedoCycle(t *testing.T) {
	h := New(cloneInts, 0)
	s0 := []int{0}
	h.Push(s0)
	s1 := []int{0, 1}
	h.Push(s1)
	s2 := []int{0, 1, 2}

	back, _ := h.Undo(s2)
	if !cmp.Equal(back, s1) {
		t.Fatalf("undo = %v, want %v", back, s1)
	}
	back, _ = h.Undo(back)
	if !cmp.Equal(back, s0) {
		t.Fatalf("second undo = %v, want %v", back, s0)
	}
	fwd, _ := h.Redo(back)
	if !cmp.Equal(fwd, s1) {
		t.Fatalf("redo = %v, want %v", fwd, s1)
	}
	fwd, _ = h.Redo(fwd)
	if !cmp.Equal(fwd, s2) {
		t.Fatalf("second redo = %v, want %v", fwd, s2)
	}
	if h.CanRedo() {
		t.Error("redo stack should be empty")
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := New(cloneInts, 0)
	h.Push([]int{0})
	cur, _ := h.Undo([]int{1})
	if !h.CanRedo() {
		t.Fatal("expected a redo entry after undo")
	}
	h.Push(cur)
	if h.CanRedo() {
		t.Fatal("push after undo must clear redo")
	}
	got, ok := h.Redo([]int{7})
	if ok || !cmp.Equal(got, []int{7}) {
		t.Errorf("redo on empty stack = %v, %v; want unchanged, false", got, ok)
	}
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	h := New(cloneInts, 0)
	cur := []int{5}
	if got, ok := h.Undo(cur); ok || !cmp.Equal(got, cur) {
		t.Errorf("Undo on empty = %v, %v", got, ok)
	}
	if got, ok := h.Redo(cur); ok || !cmp.Equal(got, cur) {
		t.Errorf("Redo on empty = %v, %v", got, ok)
	}
	if u, r := h.Len(); u != 0 || r != 0 {
		t.Errorf("no-op undo/redo created entries: %d/%d", u, r)
	}
}
