package main

import (
	"github.com/ha1tch/plangrid/pkg/sheet"
)

// Screen geometry. Column widths are stored in pixels; the terminal shows
// one character per cellPx pixels.
const (
	cellPx      = 8
	minChars    = 3
	gutterWidth = 3 // drag handle, collapse marker, space
	headerRows  = 1
	footerRows  = 3 // summary, help, status
)

// columnChars returns the on-screen width of c without its separator.
func columnChars(c sheet.Column) int {
	w := c.Width
	if w <= 0 {
		w = c.ClampWidth(0)
	}
	return max(w/cellPx, minChars)
}

// layout places the grid on a w x h screen scrolled to (top, left).
type layout struct {
	w, h      int
	top, left int   // first visible row and first column shown
	rows      int   // visible rows in the grid
	xs        []int // screen x of shown columns, from left on
	widths    []int
}

func newLayout(cols []sheet.Column, rows, w, h, top, left int) layout {
	l := layout{w: w, h: h, top: top, left: left, rows: rows}
	x := gutterWidth
	for c := left; c < len(cols) && x < w; c++ {
		cw := columnChars(cols[c])
		l.xs = append(l.xs, x)
		l.widths = append(l.widths, cw)
		x += cw + 1
	}
	return l
}

// bodyRows is the number of grid rows that fit between header and footer.
func (l layout) bodyRows() int {
	return max(l.h-headerRows-footerRows, 0)
}

// rowY returns the screen line of visible row r.
func (l layout) rowY(r int) (int, bool) {
	y := headerRows + r - l.top
	if r < l.top || y >= headerRows+l.bodyRows() {
		return 0, false
	}
	return y, true
}

// colX returns the screen x and width of column c.
func (l layout) colX(c int) (x, w int, ok bool) {
	i := c - l.left
	if i < 0 || i >= len(l.xs) {
		return 0, 0, false
	}
	return l.xs[i], l.widths[i], true
}

// lastFull returns the last column shown in full.
func (l layout) lastFull() int {
	last := l.left - 1
	for i := range l.xs {
		if l.xs[i]+l.widths[i] <= l.w {
			last = l.left + i
		}
	}
	return last
}

type hitKind int

const (
	hitNone   hitKind = iota
	hitCell           // a grid cell
	hitHeader         // a column title
	hitBorder         // the separator right of a column title
	hitHandle         // the row drag handle
	hitToggle         // the collapse marker
)

type hit struct {
	kind     hitKind
	row, col int // -1 when not applicable
}

// hitTest locates screen position (x, y).
func (l layout) hitTest(x, y int) hit {
	h := hit{kind: hitNone, row: -1, col: -1}
	if y < 0 || y >= headerRows+l.bodyRows() {
		return h
	}
	if y >= headerRows {
		r := l.top + y - headerRows
		if r >= l.rows {
			return h
		}
		h.row = r
	}
	if x < gutterWidth {
		if h.row < 0 {
			return h
		}
		switch x {
		case 0:
			h.kind = hitHandle
		case 1:
			h.kind = hitToggle
		}
		return h
	}
	for i, cx := range l.xs {
		switch {
		case x >= cx && x < cx+l.widths[i]:
			h.col = l.left + i
			h.kind = hitCell
			if h.row < 0 {
				h.kind = hitHeader
			}
			return h
		case x == cx+l.widths[i]:
			h.col = l.left + i
			h.kind = hitCell
			if h.row < 0 {
				h.kind = hitBorder
			}
			return h
		}
	}
	return hit{kind: hitNone, row: -1, col: -1}
}

// scrollTo returns the offsets that bring cell (r, c) into view, moving as
// little as possible.
func scrollTo(cols []sheet.Column, w, h, top, left, r, c int) (int, int) {
	body := max(h-headerRows-footerRows, 1)
	switch {
	case r < top:
		top = r
	case r >= top+body:
		top = r - body + 1
	}
	if c < left {
		left = c
	}
	for left < c {
		x := gutterWidth
		for i := left; i <= c; i++ {
			x += columnChars(cols[i]) + 1
		}
		if x-1 <= w {
			break
		}
		left++
	}
	return max(top, 0), max(left, 0)
}
