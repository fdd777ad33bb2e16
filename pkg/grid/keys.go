package grid

import (
	"github.com/ha1tch/plangrid/pkg/selection"
)

// Key is a platform-neutral key identifier.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // printable character in KeyEvent.Rune
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyTab
	KeyEnter
	KeyEscape
	KeyF2
	KeyDelete
	KeyBackspace
)

// Modifier is a bit set of held modifier keys. Ctrl also stands for Cmd.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
)

// KeyEvent is one key press.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mod  Modifier
}

func (ev KeyEvent) shift() bool { return ev.Mod&ModShift != 0 }
func (ev KeyEvent) ctrl() bool  { return ev.Mod&ModCtrl != 0 }

// HandleKey applies a key press and reports whether the grid consumed it.
// Clipboard errors are logged; callers wanting to surface them can call
// Copy, Cut and Paste directly.
func (g *Grid) HandleKey(ev KeyEvent) bool {
	if ev.ctrl() && ev.Key == KeyRune {
		return g.handleShortcut(ev.Rune)
	}
	if g.edit != nil {
		return g.handleEditKey(ev)
	}
	return g.handleNavKey(ev)
}

func (g *Grid) handleShortcut(r rune) bool {
	switch r {
	case 'c', 'C':
		if !g.interceptsCopy() {
			return false
		}
		if err := g.Copy(); err != nil {
			g.log.Error("copy failed", "err", err)
		}
		return true
	case 'x', 'X':
		if !g.interceptsCopy() {
			return false
		}
		if err := g.Cut(); err != nil {
			g.log.Error("cut failed", "err", err)
		}
		return true
	case 'v', 'V':
		if g.edit != nil {
			text, err := g.clipboard.ReadAll()
			if err != nil {
				g.log.Error("paste failed", "err", err)
				return true
			}
			g.InsertText(text)
			return true
		}
		if _, err := g.Paste(); err != nil {
			g.log.Error("paste failed", "err", err)
		}
		return true
	case 'z', 'Z':
		if g.edit != nil {
			return false
		}
		g.Undo()
		return true
	case 'y', 'Y':
		if g.edit != nil {
			return false
		}
		g.Redo()
		return true
	}
	return false
}

func (g *Grid) handleNavKey(ev KeyEvent) bool {
	if !g.hasSel {
		return false
	}
	switch ev.Key {
	case KeyUp:
		g.moveFocus(-1, 0, ev.shift())
	case KeyDown:
		g.moveFocus(1, 0, ev.shift())
	case KeyLeft:
		g.moveFocus(0, -1, ev.shift())
	case KeyRight:
		g.moveFocus(0, 1, ev.shift())
	case KeyHome:
		g.moveFocus(0, -len(g.cols), ev.shift())
	case KeyEnd:
		g.moveFocus(0, len(g.cols), ev.shift())
	case KeyTab:
		g.step(0, tabStep(ev))
	case KeyEnter:
		g.step(tabStep(ev), 0)
	case KeyF2:
		g.BeginEdit(EditCaretEnd, "")
	case KeyDelete, KeyBackspace:
		g.ClearRange()
	case KeyRune:
		if ev.Rune < ' ' {
			return false
		}
		g.BeginEdit(EditReplace, string(ev.Rune))
	case KeyEscape:
		g.sel.Start(g.sel.Focus)
	default:
		return false
	}
	return true
}

func (g *Grid) handleEditKey(ev KeyEvent) bool {
	e := g.edit
	switch ev.Key {
	case KeyRune:
		if ev.Rune < ' ' {
			return false
		}
		g.InsertText(string(ev.Rune))
	case KeyBackspace:
		g.DeleteBackward()
	case KeyDelete:
		g.DeleteForward()
	case KeyHome:
		g.CaretHome()
	case KeyEnd:
		g.CaretEnd()
	case KeyLeft, KeyRight:
		d := 1
		if ev.Key == KeyLeft {
			d = -1
		}
		if e.Mode == EditReplace {
			g.commitEdit()
			g.moveFocus(0, d, false)
			return true
		}
		g.MoveCaret(d)
	case KeyUp:
		g.commitEdit()
		g.moveFocus(-1, 0, false)
	case KeyDown:
		g.commitEdit()
		g.moveFocus(1, 0, false)
	case KeyTab:
		g.commitEdit()
		g.step(0, tabStep(ev))
	case KeyEnter:
		g.commitEdit()
		g.step(tabStep(ev), 0)
	case KeyEscape:
		g.cancelEdit()
	case KeyF2:
		g.CaretEnd()
	default:
		return false
	}
	return true
}

func tabStep(ev KeyEvent) int {
	if ev.shift() {
		return -1
	}
	return 1
}

// moveFocus moves the focus by (dr, dc), clamped. Without extend the
// selection collapses onto the new focus.
func (g *Grid) moveFocus(dr, dc int, extend bool) {
	if !g.hasSel {
		return
	}
	g.commitEdit()
	p := g.sel.Focus
	p.Row += dr
	p.Col += dc
	if extend {
		g.sel.Extend(p)
	} else {
		g.sel.Start(p)
	}
	g.clampSelection()
}

// step moves the focus one cell with wraparound: Tab runs along a row and
// continues on the next one, Enter runs down a column and continues at the
// top of the next one. The grid edges wrap to the opposite corner.
func (g *Grid) step(dr, dc int) {
	if !g.hasSel {
		return
	}
	rows, cols := len(g.visible), len(g.cols)
	p := g.sel.Focus
	if dc != 0 {
		n := p.Row*cols + p.Col + dc
		n = ((n % (rows * cols)) + rows*cols) % (rows * cols)
		p = selection.Point{Row: n / cols, Col: n % cols}
	} else {
		n := p.Col*rows + p.Row + dr
		n = ((n % (rows * cols)) + rows*cols) % (rows * cols)
		p = selection.Point{Row: n % rows, Col: n / rows}
	}
	g.sel.Start(p)
}
