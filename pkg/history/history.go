// Package history implements a linear undo/redo stack of deep snapshots.
//
// A snapshot of the current state is pushed before each mutation. Undo and
// redo swap snapshots between the two stacks and never create new entries;
// pushing after an undo invalidates the redo stack.
package history

// DefaultLimit is the number of undo levels kept when no limit is given.
const DefaultLimit = 50

// Stack holds undo and redo snapshots of a T. Every value entering or
// leaving the stack passes through the clone function, so no entry shares
// mutable state with the caller.
type Stack[T any] struct {
	clone func(T) T
	limit int
	undo  []T
	redo  []T
}

// New returns an empty stack. limit <= 0 selects DefaultLimit.
func New[T any](clone func(T) T, limit int) *Stack[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack[T]{clone: clone, limit: limit}
}

// Push records state as the snapshot to return to on the next Undo, and
// clears the redo stack. The oldest entry is dropped beyond the limit.
func (s *Stack[T]) Push(state T) {
	s.undo = append(s.undo, s.clone(state))
	if len(s.undo) > s.limit {
		s.undo = s.undo[len(s.undo)-s.limit:]
	}
	s.redo = nil
}

// Undo returns the most recent snapshot and saves current for Redo. ok is
// false, and current is returned unchanged, when there is nothing to undo.
func (s *Stack[T]) Undo(current T) (prev T, ok bool) {
	if len(s.undo) == 0 {
		return current, false
	}
	s.redo = append(s.redo, s.clone(current))
	prev = s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	return s.clone(prev), true
}

// Redo reverses the last Undo.
func (s *Stack[T]) Redo(current T) (next T, ok bool) {
	if len(s.redo) == 0 {
		return current, false
	}
	s.undo = append(s.undo, s.clone(current))
	next = s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	return s.clone(next), true
}

// Reset empties both stacks.
func (s *Stack[T]) Reset() {
	s.undo = nil
	s.redo = nil
}

func (s *Stack[T]) CanUndo() bool { return len(s.undo) > 0 }
func (s *Stack[T]) CanRedo() bool { return len(s.redo) > 0 }

// Len returns the number of undo and redo entries.
func (s *Stack[T]) Len() (undo, redo int) {
	return len(s.undo), len(s.redo)
}

// Limit returns the maximum number of undo entries.
func (s *Stack[T]) Limit() int { return s.limit }
