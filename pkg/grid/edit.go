package grid

import (
	"strings"
)

// EditMode says how an edit session was entered and how the renderer
// should place the caret.
type EditMode int

const (
	// EditReplace was entered by typing: the seed replaces the content.
	EditReplace EditMode = iota
	// EditCaretEnd keeps the content with the caret after the last rune.
	EditCaretEnd
	// EditSelectAll keeps the content fully selected; the next typed rune
	// replaces it.
	EditSelectAll
)

func (m EditMode) String() string {
	switch m {
	case EditReplace:
		return "replace"
	case EditCaretEnd:
		return "caretEnd"
	case EditSelectAll:
		return "selectAll"
	}
	return "unknown"
}

// EditState is the cell currently being edited. Text is the uncommitted
// content and Caret a rune offset into it.
type EditState struct {
	Row, Col int
	Mode     EditMode
	Text     string
	Caret    int
	Original string
}

// Edit returns a copy of the edit state, or nil when no cell is in edit.
func (g *Grid) Edit() *EditState {
	if g.edit == nil {
		return nil
	}
	e := *g.edit
	return &e
}

// Editing reports whether a cell is in edit.
func (g *Grid) Editing() bool { return g.edit != nil }

// BeginEdit puts the focus cell into edit. In EditReplace mode the content
// starts as seed; the other modes start from the stored value. Cells that
// reject writes never enter edit.
func (g *Grid) BeginEdit(mode EditMode, seed string) bool {
	p, ok := g.Active()
	if !ok {
		return false
	}
	return g.beginEditAt(p.Row, p.Col, mode, seed)
}

func (g *Grid) beginEditAt(r, c int, mode EditMode, seed string) bool {
	if !g.editable(r, c) {
		g.log.Debug("cell not editable", "row", r, "col", c)
		return false
	}
	i, _ := g.index(r)
	stored := g.rows[i].Get(g.cols[c].Key).String()
	text := stored
	if mode == EditReplace {
		text = seed
	}
	g.edit = &EditState{
		Row:      r,
		Col:      c,
		Mode:     mode,
		Text:     text,
		Caret:    len([]rune(text)),
		Original: stored,
	}
	return true
}

// CommitEdit stores the edited text through SetCell and leaves edit mode.
// Unchanged text commits nothing.
func (g *Grid) CommitEdit() bool {
	return g.commitEdit()
}

func (g *Grid) commitEdit() bool {
	e := g.edit
	if e == nil {
		return false
	}
	g.edit = nil
	if e.Text == e.Original {
		return false
	}
	return g.SetCell(e.Row, e.Col, e.Text)
}

// CancelEdit leaves edit mode without storing anything.
func (g *Grid) CancelEdit() bool {
	return g.cancelEdit()
}

func (g *Grid) cancelEdit() bool {
	if g.edit == nil {
		return false
	}
	g.edit = nil
	return true
}

// InsertText inserts s at the caret. A fully selected content is replaced.
// Tabs and line breaks become spaces.
func (g *Grid) InsertText(s string) {
	e := g.edit
	if e == nil || s == "" {
		return
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return ' '
		}
		return r
	}, s)
	if e.Mode == EditSelectAll {
		e.Text, e.Caret, e.Mode = "", 0, EditCaretEnd
	}
	rs := []rune(e.Text)
	ins := []rune(s)
	out := make([]rune, 0, len(rs)+len(ins))
	out = append(out, rs[:e.Caret]...)
	out = append(out, ins...)
	out = append(out, rs[e.Caret:]...)
	e.Text = string(out)
	e.Caret += len(ins)
}

// DeleteBackward removes the rune before the caret, or everything when the
// content is selected.
func (g *Grid) DeleteBackward() {
	e := g.edit
	if e == nil {
		return
	}
	if e.Mode == EditSelectAll {
		e.Text, e.Caret, e.Mode = "", 0, EditCaretEnd
		return
	}
	if e.Caret == 0 {
		return
	}
	rs := []rune(e.Text)
	e.Text = string(append(rs[:e.Caret-1:e.Caret-1], rs[e.Caret:]...))
	e.Caret--
}

// DeleteForward removes the rune after the caret, or everything when the
// content is selected.
func (g *Grid) DeleteForward() {
	e := g.edit
	if e == nil {
		return
	}
	if e.Mode == EditSelectAll {
		e.Text, e.Caret, e.Mode = "", 0, EditCaretEnd
		return
	}
	rs := []rune(e.Text)
	if e.Caret >= len(rs) {
		return
	}
	e.Text = string(append(rs[:e.Caret:e.Caret], rs[e.Caret+1:]...))
}

// MoveCaret shifts the caret by delta runes. A selected content collapses
// to its start or end first.
func (g *Grid) MoveCaret(delta int) {
	e := g.edit
	if e == nil {
		return
	}
	n := len([]rune(e.Text))
	if e.Mode == EditSelectAll {
		e.Mode = EditCaretEnd
		if delta < 0 {
			e.Caret = 0
		} else {
			e.Caret = n
		}
		return
	}
	e.Caret = min(max(e.Caret+delta, 0), n)
}

// CaretHome moves the caret before the first rune.
func (g *Grid) CaretHome() {
	if e := g.edit; e != nil {
		e.Mode = EditCaretEnd
		e.Caret = 0
	}
}

// CaretEnd moves the caret after the last rune.
func (g *Grid) CaretEnd() {
	if e := g.edit; e != nil {
		e.Mode = EditCaretEnd
		e.Caret = len([]rune(e.Text))
	}
}
