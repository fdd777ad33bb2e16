package grid

import (
	"github.com/ha1tch/plangrid/pkg/selection"
	"github.com/ha1tch/plangrid/pkg/sheet"
)

// ResizeColumn sets the width of column c, clamped to its bounds. Widths are
// view state and are not recorded in the undo history.
func (g *Grid) ResizeColumn(c, width int) bool {
	if c < 0 || c >= len(g.cols) {
		return false
	}
	w := g.cols[c].ClampWidth(width)
	if w == g.cols[c].Width {
		return false
	}
	g.cols[c].Width = w
	g.notify(Change{Kind: ChangeResize, Col: c, Width: w})
	return true
}

// ReorderColumns moves column from to position to. The selection and any
// edit in progress follow their logical columns.
func (g *Grid) ReorderColumns(from, to int) bool {
	n := len(g.cols)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	moved := g.cols[from]
	cols := make([]sheet.Column, 0, n)
	cols = append(cols, g.cols[:from]...)
	cols = append(cols, g.cols[from+1:]...)
	cols = append(cols[:to], append([]sheet.Column{moved}, cols[to:]...)...)
	g.cols = cols

	mapping := func(old int) int { return selection.MoveIndex(old, from, to) }
	g.sel.TranslateColumns(mapping)
	if g.edit != nil {
		g.edit.Col = mapping(g.edit.Col)
	}
	g.refresh()
	g.notify(Change{Kind: ChangeReorder, Axis: AxisColumn, From: from, To: to})
	return true
}

// AutoFitColumn sizes column c to its widest title or displayed value.
func (g *Grid) AutoFitColumn(c int) bool {
	if c < 0 || c >= len(g.cols) {
		return false
	}
	widest := textWidth(g.cols[c].Title)
	for r := range g.visible {
		widest = max(widest, textWidth(g.DisplayValue(r, c)))
	}
	return g.ResizeColumn(c, widest+cellPadding)
}
