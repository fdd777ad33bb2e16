package grid

import (
	"github.com/ha1tch/plangrid/pkg/rollup"
	"github.com/ha1tch/plangrid/pkg/selection"
	"github.com/ha1tch/plangrid/pkg/sheet"
)

// InsertRow inserts an empty row below visible row after and selects it.
// after = -1 inserts at the top. The new row becomes a sibling of after,
// or its first child when after is an expanded parent. It returns the new
// row's visible index.
func (g *Grid) InsertRow(after int) int {
	g.commitEdit()
	pos, indent := 0, 0
	if len(g.visible) > 0 && after >= 0 {
		after = min(after, len(g.visible)-1)
		i := g.visible[after]
		pos = g.nextVisible(after)
		indent = g.rows[i].Indent
		if pos < len(g.rows) && g.rows[pos].Indent > indent {
			indent = g.rows[pos].Indent
		}
	} else {
		after = -1
	}

	row := sheet.NewRow(g.newID(), g.cols)
	row.Indent = indent
	next := make([]sheet.Row, 0, len(g.rows)+1)
	next = append(next, sheet.CloneRows(g.rows[:pos])...)
	next = append(next, row)
	next = append(next, sheet.CloneRows(g.rows[pos:])...)

	col := g.sel.Focus.Col
	g.commit(next, Change{Kind: ChangeInsert, Row: after + 1, Count: 1})
	g.sel.Start(selection.Point{Row: after + 1, Col: col})
	g.clampSelection()
	return after + 1
}

// nextVisible returns the row-array index of the row following visible row
// v, or len(rows). Rows hidden under v lie in between.
func (g *Grid) nextVisible(v int) int {
	if v+1 < len(g.visible) {
		return g.visible[v+1]
	}
	return len(g.rows)
}

// DeleteRows removes visible rows r1 through r2 inclusive, together with
// any rows hidden under them, as one undoable change. The selection moves
// to the row now at r1, or disappears when the grid becomes empty.
func (g *Grid) DeleteRows(r1, r2 int) bool {
	if len(g.visible) == 0 {
		return false
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	r1 = max(r1, 0)
	r2 = min(r2, len(g.visible)-1)
	if r1 > r2 {
		return false
	}
	g.edit = nil
	lo, hi := g.visible[r1], g.nextVisible(r2)

	next := make([]sheet.Row, 0, len(g.rows)-(hi-lo))
	next = append(next, sheet.CloneRows(g.rows[:lo])...)
	next = append(next, sheet.CloneRows(g.rows[hi:])...)

	col := g.sel.Focus.Col
	g.commit(next, Change{Kind: ChangeDelete, Row: r1, Count: r2 - r1 + 1})
	g.sel.Start(selection.Point{Row: r1, Col: col})
	g.clampSelection()
	return true
}

// DeleteSelectedRows removes every row touched by the selection.
func (g *Grid) DeleteSelectedRows() bool {
	rect, ok := g.SelectionRect()
	if !ok {
		return false
	}
	return g.DeleteRows(rect.R1, rect.R2)
}

// ReorderRows moves visible row from, with its descendants, to the slot of
// visible row to: above it when moving up, below its block when moving
// down. Drops onto the block itself, or drops that would change the
// block's depth in the tree, are rejected. The selection follows the moved
// rows.
func (g *Grid) ReorderRows(from, to int) bool {
	g.commitEdit()
	f, okF := g.index(from)
	t, okT := g.index(to)
	if !okF || !okT || from == to {
		return false
	}
	end := rollup.BlockEnd(g.rows, f)
	if t >= f && t < end {
		g.log.Debug("rejected row drop inside its own block", "from", from, "to", to)
		return false
	}
	block := g.rows[f:end]
	rest := make([]sheet.Row, 0, len(g.rows)-len(block))
	rest = append(rest, g.rows[:f]...)
	rest = append(rest, g.rows[end:]...)

	// Insertion point in rest.
	var at int
	if to < from {
		at = t
	} else {
		at = rollup.BlockEnd(g.rows, t) - len(block)
	}
	if !g.validDrop(rest, at, block[0].Indent) {
		g.log.Debug("rejected row drop at different depth", "from", from, "to", to)
		return false
	}

	next := make([]sheet.Row, 0, len(g.rows))
	next = append(next, sheet.CloneRows(rest[:at])...)
	next = append(next, sheet.CloneRows(block)...)
	next = append(next, sheet.CloneRows(rest[at:])...)

	movedID := block[0].ID
	count := 0 // visible rows in the block
	for _, i := range g.visible {
		if i >= f && i < end {
			count++
		}
	}
	sel := g.sel
	g.commit(next, Change{Kind: ChangeReorder, Axis: AxisRow, From: from, To: to, Count: count})

	dest := -1
	for v, i := range g.visible {
		if g.rows[i].ID == movedID {
			dest = v
			break
		}
	}
	if dest >= 0 {
		sel.TranslateRowBlock(from, count, dest)
		g.sel = sel
		g.clampSelection()
	}
	return true
}

// validDrop reports whether a block at depth indent may sit at index at
// of rows without changing its depth: the row above must be at most one
// level shallower, and the row below must not become its child.
func (g *Grid) validDrop(rows []sheet.Row, at, indent int) bool {
	if at == 0 {
		if indent != 0 {
			return false
		}
	} else if rows[at-1].Indent < indent-1 {
		return false
	}
	if at < len(rows) && rows[at].Indent > indent {
		return false
	}
	return true
}

// Indent pushes visible row r and its descendants one level deeper, making
// r a child of the row above. A row already deeper than the row above
// cannot be indented.
func (g *Grid) Indent(r int) bool {
	if r <= 0 {
		return false
	}
	i, ok := g.index(r)
	if !ok {
		return false
	}
	above := g.rows[g.visible[r-1]]
	if g.rows[i].Indent > above.Indent {
		return false
	}
	return g.shiftBlock(r, i, 1)
}

// Outdent lifts visible row r and its descendants one level.
func (g *Grid) Outdent(r int) bool {
	i, ok := g.index(r)
	if !ok || g.rows[i].Indent == 0 {
		return false
	}
	return g.shiftBlock(r, i, -1)
}

func (g *Grid) shiftBlock(r, i, delta int) bool {
	g.commitEdit()
	end := rollup.BlockEnd(g.rows, i)
	next := sheet.CloneRows(g.rows)
	for j := i; j < end; j++ {
		next[j].Indent += delta
	}
	// A row indented under a collapsed parent would vanish from view.
	if p := rollup.BuildIndex(next).Parent[i]; p >= 0 {
		delete(g.collapsed, next[p].ID)
	}
	g.keepSelection(func() {
		g.commit(next, Change{Kind: ChangeIndent, Row: r, Count: end - i})
	})
	return true
}

// IsCollapsed reports whether visible row r hides its descendants.
func (g *Grid) IsCollapsed(r int) bool {
	i, ok := g.index(r)
	return ok && g.collapsed[g.rows[i].ID]
}

// SetCollapsed hides or shows the descendants of visible row r. Rows
// without children cannot be collapsed. Collapse state is view state: it
// is neither undoable nor reported through the change callback.
func (g *Grid) SetCollapsed(r int, collapsed bool) bool {
	i, ok := g.index(r)
	if !ok || g.collapsed[g.rows[i].ID] == collapsed {
		return false
	}
	if collapsed && !g.IsParent(r) {
		return false
	}
	g.commitEdit()
	id := g.rows[i].ID
	g.keepSelection(func() {
		if collapsed {
			g.collapsed[id] = true
		} else {
			delete(g.collapsed, id)
		}
		g.refresh()
	})
	return true
}

// ToggleCollapse flips the collapse state of visible row r.
func (g *Grid) ToggleCollapse(r int) bool {
	return g.SetCollapsed(r, !g.IsCollapsed(r))
}

// keepSelection runs fn, which may hide, reveal or move rows, and then
// points the selection at the same rows again. A row that became hidden
// is replaced by the nearest visible row above it.
func (g *Grid) keepSelection(fn func()) {
	if !g.hasSel {
		fn()
		return
	}
	anchorID := g.rows[g.visible[g.sel.Anchor.Row]].ID
	focusID := g.rows[g.visible[g.sel.Focus.Row]].ID
	sel := g.sel
	fn()
	if !g.hasSel {
		return
	}
	sel.Anchor.Row = g.nearestVisible(anchorID)
	sel.Focus.Row = g.nearestVisible(focusID)
	g.sel = sel
	g.clampSelection()
}

func (g *Grid) nearestVisible(id string) int {
	at := -1
	for i, r := range g.rows {
		if r.ID == id {
			at = i
			break
		}
	}
	if at < 0 {
		return 0
	}
	v := 0
	for k, i := range g.visible {
		if i > at {
			break
		}
		v = k
	}
	return v
}
