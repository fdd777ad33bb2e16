package grid

import (
	"fmt"

	"github.com/ha1tch/plangrid/pkg/clip"
	"github.com/ha1tch/plangrid/pkg/selection"
	"github.com/ha1tch/plangrid/pkg/sheet"
)

// SetCell coerces raw for column c and stores it in visible row r, then
// reconciles any date/duration triple the column belongs to. Read-only and
// aggregated cells, out-of-range coordinates and writes that change nothing
// are ignored. It reports whether a change was committed.
func (g *Grid) SetCell(r, c int, raw string) bool {
	if !g.editable(r, c) {
		g.log.Debug("rejected cell write", "row", r, "col", c)
		return false
	}
	i, _ := g.index(r)
	col := g.cols[c]
	v := sheet.Coerce(col, raw)

	next := sheet.CloneRows(g.rows)
	next[i].Set(col.Key, v)
	reconcile(g.cal, g.cols, &next[i], col.Key)
	if rowEqual(g.rows[i], next[i]) {
		return false
	}
	g.commit(next, Change{Kind: ChangeEdit, Row: r, Col: c, Value: v.String()})
	return true
}

// ClearRange resets every writable cell in the selection to its column's
// empty value as one undoable change.
func (g *Grid) ClearRange() bool {
	rect, ok := g.SelectionRect()
	if !ok {
		return false
	}
	next := sheet.CloneRows(g.rows)
	for v := rect.R1; v <= rect.R2; v++ {
		i := g.visible[v]
		for c := rect.C1; c <= rect.C2; c++ {
			col := g.cols[c]
			if col.ReadOnly || g.agg.IsAggregated(i, col.Key) {
				continue
			}
			next[i].Set(col.Key, col.EmptyValue())
			reconcile(g.cal, g.cols, &next[i], col.Key)
		}
	}
	if rowsEqual(g.rows, next) {
		return false
	}
	g.commit(next, Change{Kind: ChangeClear, Row: rect.R1, Col: rect.C1, Count: rect.Rows()})
	return true
}

// PasteAt writes the parsed clipboard text with its top-left corner at
// visible cell (r, c). Rows are appended when the text runs past the last
// row; columns past the last column are dropped. Read-only and aggregated
// cells keep their values. The whole paste is one undoable change and the
// pasted rectangle becomes the selection.
func (g *Grid) PasteAt(text string, r, c int) bool {
	m := clip.Parse(text)
	if len(m) == 0 || c < 0 || c >= len(g.cols) || r < 0 || r > len(g.visible) {
		return false
	}
	g.commitEdit()

	next := sheet.CloneRows(g.rows)
	targets := append([]int(nil), g.visible...)
	width := 0
	for y, line := range m {
		if r+y >= len(targets) {
			next = append(next, sheet.NewRow(g.newID(), g.cols))
			targets = append(targets, len(next)-1)
		}
		i := targets[r+y]
		for x, raw := range line {
			cc := c + x
			if cc >= len(g.cols) {
				break
			}
			width = max(width, x+1)
			col := g.cols[cc]
			if col.ReadOnly || g.agg.IsAggregated(i, col.Key) {
				continue
			}
			next[i].Set(col.Key, sheet.Coerce(col, raw))
			reconcile(g.cal, g.cols, &next[i], col.Key)
		}
	}
	if rowsEqual(g.rows, next) {
		return false
	}
	g.commit(next, Change{Kind: ChangePaste, Row: r, Col: c, Cells: m})

	g.sel.Start(selection.Point{Row: r, Col: c})
	g.sel.Extend(selection.Point{Row: r + len(m) - 1, Col: c + max(width, 1) - 1})
	g.clampSelection()
	return true
}

// Paste reads the clipboard and pastes at the top-left selected cell.
func (g *Grid) Paste() (bool, error) {
	rect, ok := g.SelectionRect()
	if !ok {
		rect = selection.Rect{}
	}
	text, err := g.clipboard.ReadAll()
	if err != nil {
		return false, fmt.Errorf("reading clipboard: %w", err)
	}
	return g.PasteAt(text, rect.R1, rect.C1), nil
}

// CopyText serializes the selected rectangle as it is displayed: parent
// rows contribute their rolled-up values.
func (g *Grid) CopyText() string {
	rect, ok := g.SelectionRect()
	if !ok {
		return ""
	}
	m := make([][]string, 0, rect.Rows())
	for r := rect.R1; r <= rect.R2; r++ {
		line := make([]string, 0, rect.Cols())
		for c := rect.C1; c <= rect.C2; c++ {
			line = append(line, g.DisplayValue(r, c))
		}
		m = append(m, line)
	}
	return clip.Serialize(m)
}

// Copy writes the selection to the clipboard.
func (g *Grid) Copy() error {
	if !g.hasSel {
		return nil
	}
	if err := g.clipboard.WriteAll(g.CopyText()); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// Cut copies the selection and then clears it. Nothing is cleared when the
// clipboard write fails.
func (g *Grid) Cut() error {
	if err := g.Copy(); err != nil {
		return err
	}
	g.ClearRange()
	return nil
}

// interceptsCopy reports whether a copy shortcut belongs to the grid
// rather than to the text being edited.
func (g *Grid) interceptsCopy() bool {
	rect, ok := g.SelectionRect()
	if !ok {
		return false
	}
	return !rect.Single() || g.edit == nil
}
