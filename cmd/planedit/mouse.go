package main

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/plangrid/pkg/grid"
)

const wheelStep = 3

// layout places the grid on the current screen.
func (ed *Editor) layout() layout {
	w, h := ed.screen.Size()
	return newLayout(ed.grid.Columns(), ed.grid.Len(), w, h, ed.top, ed.left)
}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	if ed.mode != ModeGrid {
		return
	}
	x, y := ev.Position()
	l := ed.layout()
	h := l.hitTest(x, y)
	btn := ev.Buttons()

	switch {
	case btn&tcell.WheelUp != 0:
		ed.top = max(ed.top-wheelStep, 0)
		return
	case btn&tcell.WheelDown != 0:
		ed.top = max(min(ed.top+wheelStep, l.rows-l.bodyRows()), 0)
		return
	}

	pressed := btn&tcell.Button1 != 0
	switch {
	case pressed && !ed.mouseDown:
		ed.mouseDown = true
		ed.mousePress(h, x, y, ev.Modifiers()&tcell.ModShift != 0)
	case pressed:
		ed.grid.Pointer().Dispatch(grid.PointerEvent{Type: grid.PointerMove, X: x * cellPx, Row: h.row, Col: h.col})
	case ed.mouseDown:
		ed.mouseDown = false
		ed.grid.Pointer().Dispatch(grid.PointerEvent{Type: grid.PointerUp, X: x * cellPx, Row: h.row, Col: h.col})
	}
}

// mousePress starts whatever a left click at (x, y) begins: a selection,
// an edit, a row or column drag, a column resize or a collapse toggle.
func (ed *Editor) mousePress(h hit, x, y int, shift bool) {
	now := time.Now().UnixMilli()
	double := now-ed.lastClickTime < doubleClickMs && x == ed.lastClickX && y == ed.lastClickY
	ed.lastClickTime = now
	ed.lastClickX = x
	ed.lastClickY = y

	g := ed.grid
	switch h.kind {
	case hitCell:
		if double {
			g.DoubleClick(h.row, h.col)
		} else {
			g.MouseDown(h.row, h.col, shift)
		}
	case hitHeader:
		g.BeginColumnReorder(h.col)
	case hitBorder:
		if double {
			g.AutoFitColumn(h.col)
		} else {
			g.BeginColumnResize(h.col, x*cellPx)
		}
	case hitHandle:
		g.BeginRowDrag(h.row)
	case hitToggle:
		g.ToggleCollapse(h.row)
	default:
		g.CommitEdit()
	}
}
