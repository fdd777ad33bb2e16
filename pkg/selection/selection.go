// Package selection models a rectangular cell range defined by an anchor
// and a focus point.
package selection

// Point is a cell coordinate.
type Point struct {
	Row, Col int
}

// Rect is a normalized, inclusive cell range: R1 <= R2 and C1 <= C2.
type Rect struct {
	R1, C1, R2, C2 int
}

// Contains reports whether (r, c) lies inside the rectangle.
func (rc Rect) Contains(r, c int) bool {
	return r >= rc.R1 && r <= rc.R2 && c >= rc.C1 && c <= rc.C2
}

// Rows returns the number of rows covered.
func (rc Rect) Rows() int { return rc.R2 - rc.R1 + 1 }

// Cols returns the number of columns covered.
func (rc Rect) Cols() int { return rc.C2 - rc.C1 + 1 }

// Single reports whether the rectangle covers exactly one cell.
func (rc Rect) Single() bool { return rc.R1 == rc.R2 && rc.C1 == rc.C2 }

// Selection is an anchor and a focus. The anchor stays where a selection
// began; the focus follows shift-click, shift-arrow and mouse drags.
type Selection struct {
	Anchor Point
	Focus  Point
}

// At returns a single-cell selection.
func At(p Point) Selection {
	return Selection{Anchor: p, Focus: p}
}

// Start collapses the selection onto p.
func (s *Selection) Start(p Point) {
	s.Anchor = p
	s.Focus = p
}

// Extend moves the focus to p, keeping the anchor.
func (s *Selection) Extend(p Point) {
	s.Focus = p
}

// Rect returns the normalized rectangle spanned by anchor and focus.
func (s Selection) Rect() Rect {
	return Rect{
		R1: min(s.Anchor.Row, s.Focus.Row),
		C1: min(s.Anchor.Col, s.Focus.Col),
		R2: max(s.Anchor.Row, s.Focus.Row),
		C2: max(s.Anchor.Col, s.Focus.Col),
	}
}

// Contains reports whether (r, c) is inside the selection.
func (s Selection) Contains(r, c int) bool {
	return s.Rect().Contains(r, c)
}

// Clamp pulls both points into a rows x cols grid. It reports false when the
// grid is empty, in which case no selection can exist.
func (s *Selection) Clamp(rows, cols int) bool {
	if rows <= 0 || cols <= 0 {
		return false
	}
	s.Anchor = clampPoint(s.Anchor, rows, cols)
	s.Focus = clampPoint(s.Focus, rows, cols)
	return true
}

func clampPoint(p Point, rows, cols int) Point {
	return Point{Row: clamp(p.Row, 0, rows-1), Col: clamp(p.Col, 0, cols-1)}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TranslateColumns re-expresses both column indices through mapping, which
// maps an index before a column move to the index after it. The same logical
// columns stay selected.
func (s *Selection) TranslateColumns(mapping func(old int) int) {
	s.Anchor.Col = mapping(s.Anchor.Col)
	s.Focus.Col = mapping(s.Focus.Col)
}

// TranslateRows follows a single row moved from index from to index to.
func (s *Selection) TranslateRows(from, to int) {
	s.TranslateRowBlock(from, 1, to)
}

// TranslateRowBlock follows a block of n rows starting at from that moved so
// that its first row now sits at index to.
func (s *Selection) TranslateRowBlock(from, n, to int) {
	s.Anchor.Row = MoveBlockIndex(s.Anchor.Row, from, n, to)
	s.Focus.Row = MoveBlockIndex(s.Focus.Row, from, n, to)
}

// MoveIndex returns where index i ends up after the element at from is
// moved to to.
func MoveIndex(i, from, to int) int {
	return MoveBlockIndex(i, from, 1, to)
}

// MoveBlockIndex returns where index i ends up after the n elements at
// [from, from+n) are removed and reinserted so the first of them lands at
// to. to is an index into the final sequence.
func MoveBlockIndex(i, from, n, to int) int {
	if n <= 0 || from == to {
		return i
	}
	if i >= from && i < from+n {
		return to + (i - from)
	}
	// Position of i once the block is removed.
	j := i
	if i >= from+n {
		j -= n
	}
	if j >= to {
		j += n
	}
	return j
}
