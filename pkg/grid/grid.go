// Package grid implements the editing engine behind the plan table: a
// matrix of typed cells with a rectangular selection, in-place editing,
// clipboard interop, undo/redo, row and column rearrangement and derived
// date/duration fields.
//
// A Grid owns its row and column arrays. Callers observe committed state
// through the change callback, which always receives a fresh deep copy of
// every row, and query it through Data, Columns and friends.
//
// All row indices accepted or returned by Grid methods are visible-row
// indices: rows hidden inside a collapsed parent are skipped.
//
// A Grid is not safe for concurrent use.
package grid

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ha1tch/plangrid/pkg/calendar"
	"github.com/ha1tch/plangrid/pkg/clip"
	"github.com/ha1tch/plangrid/pkg/history"
	"github.com/ha1tch/plangrid/pkg/rollup"
	"github.com/ha1tch/plangrid/pkg/selection"
	"github.com/ha1tch/plangrid/pkg/sheet"
)

// ChangeFunc receives the full row array after every committed change.
type ChangeFunc func(rows []sheet.Row, ch Change)

// Grid is the editing state machine.
type Grid struct {
	cols []sheet.Column
	rows []sheet.Row

	collapsed map[string]bool // keyed by row ID
	visible   []int           // visible index -> row index
	agg       rollup.Result

	sel    selection.Selection
	hasSel bool
	edit   *EditState

	hist      *history.Stack[[]sheet.Row]
	histLimit int
	cal       *calendar.Set
	clipboard clip.Clipboard
	onChange  ChangeFunc
	newID     func() string
	log       *slog.Logger

	bus  *PointerBus
	drag *dragSession
}

// Option configures a Grid.
type Option func(*Grid)

// WithOnChange sets the committed-state callback.
func WithOnChange(fn ChangeFunc) Option {
	return func(g *Grid) { g.onChange = fn }
}

// WithCalendar sets the non-working-day calendar. A nil calendar counts
// every day as a working day.
func WithCalendar(cal *calendar.Set) Option {
	return func(g *Grid) { g.cal = cal }
}

// WithNonWorkingDays builds the calendar from weekends plus the given ISO
// dates. Unparseable dates are logged and ignored.
func WithNonWorkingDays(dates []string) Option {
	return func(g *Grid) {
		set, rejected := calendar.NewSet(dates)
		for _, d := range rejected {
			g.log.Warn("ignoring non-working day", "date", d)
		}
		g.cal = set
	}
}

// WithClipboard sets the clipboard used by Copy, Cut and Paste.
func WithClipboard(cb clip.Clipboard) Option {
	return func(g *Grid) { g.clipboard = cb }
}

// WithLogger sets the logger. Rejected operations are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(g *Grid) {
		if l != nil {
			g.log = l
		}
	}
}

// WithIDGenerator sets the function that names new rows.
func WithIDGenerator(fn func() string) Option {
	return func(g *Grid) { g.newID = fn }
}

// WithHistoryLimit sets the number of undo levels.
func WithHistoryLimit(n int) Option {
	return func(g *Grid) { g.histLimit = n }
}

// WithPointerBus attaches drag sessions to bus instead of a private one.
func WithPointerBus(bus *PointerBus) Option {
	return func(g *Grid) { g.bus = bus }
}

// New returns a grid over copies of cols and rows. Rows without an ID are
// given one.
func New(cols []sheet.Column, rows []sheet.Row, opts ...Option) *Grid {
	g := &Grid{
		cols:      sheet.CloneColumns(cols),
		collapsed: make(map[string]bool),
		cal:       calendar.Weekends(),
		clipboard: clip.None(),
		newID:     uuid.NewString,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.bus == nil {
		g.bus = NewPointerBus()
	}
	g.hist = history.New(sheet.CloneRows, g.histLimit)
	g.rows = g.withIDs(sheet.CloneRows(rows))
	g.refresh()
	return g
}

func (g *Grid) withIDs(rows []sheet.Row) []sheet.Row {
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = g.newID()
		}
		if rows[i].Indent < 0 {
			rows[i].Indent = 0
		}
	}
	return rows
}

// Data returns a deep copy of every row, hidden rows included.
func (g *Grid) Data() []sheet.Row {
	return sheet.CloneRows(g.rows)
}

// SetData replaces the row array. The history is reset: the new rows are a
// fresh starting point, not an undoable edit.
func (g *Grid) SetData(rows []sheet.Row) {
	g.endDrag()
	g.edit = nil
	g.rows = g.withIDs(sheet.CloneRows(rows))
	g.hist.Reset()
	g.refresh()
}

// Columns returns a copy of the column definitions in display order.
func (g *Grid) Columns() []sheet.Column {
	return sheet.CloneColumns(g.cols)
}

// SetColumns replaces the column definitions.
func (g *Grid) SetColumns(cols []sheet.Column) {
	g.edit = nil
	g.cols = sheet.CloneColumns(cols)
	g.refresh()
}

// Len returns the number of visible rows.
func (g *Grid) Len() int { return len(g.visible) }

// VisibleRows returns the row-array index of every visible row.
func (g *Grid) VisibleRows() []int {
	return append([]int(nil), g.visible...)
}

// Row returns a copy of the visible row r.
func (g *Grid) Row(r int) (sheet.Row, bool) {
	i, ok := g.index(r)
	if !ok {
		return sheet.Row{}, false
	}
	return g.rows[i].Clone(), true
}

// DisplayValue returns the text shown in cell (r, c): the rolled-up
// aggregate for parent rows, the stored value otherwise.
func (g *Grid) DisplayValue(r, c int) string {
	i, ok := g.index(r)
	if !ok || c < 0 || c >= len(g.cols) {
		return ""
	}
	return g.agg.Display(g.rows, i, g.cols[c]).String()
}

// IsAggregated reports whether cell (r, c) shows a rolled-up value and
// therefore rejects edits.
func (g *Grid) IsAggregated(r, c int) bool {
	i, ok := g.index(r)
	if !ok || c < 0 || c >= len(g.cols) {
		return false
	}
	return g.agg.IsAggregated(i, g.cols[c].Key)
}

// IsParent reports whether visible row r has children.
func (g *Grid) IsParent(r int) bool {
	i, ok := g.index(r)
	return ok && rollup.BlockEnd(g.rows, i) > i+1
}

// Summary returns the plan overview over all rows.
func (g *Grid) Summary() rollup.Summary {
	return rollup.Summarize(g.cols, g.rows)
}

// Selection returns the current selection. ok is false when the grid is
// empty.
func (g *Grid) Selection() (sel selection.Selection, ok bool) {
	return g.sel, g.hasSel
}

// SelectionRect returns the normalized selection rectangle.
func (g *Grid) SelectionRect() (selection.Rect, bool) {
	if !g.hasSel {
		return selection.Rect{}, false
	}
	return g.sel.Rect(), true
}

// Active returns the focus cell, which keyboard input and editing act on.
func (g *Grid) Active() (selection.Point, bool) {
	return g.sel.Focus, g.hasSel
}

// Select collapses the selection onto (r, c), clamped into the grid.
func (g *Grid) Select(r, c int) {
	g.commitEdit()
	g.sel.Start(selection.Point{Row: r, Col: c})
	g.hasSel = true
	g.clampSelection()
}

// ExtendSelection moves the focus to (r, c), keeping the anchor.
func (g *Grid) ExtendSelection(r, c int) {
	if !g.hasSel {
		g.Select(r, c)
		return
	}
	g.commitEdit()
	g.sel.Extend(selection.Point{Row: r, Col: c})
	g.clampSelection()
}

// Calendar returns the non-working-day calendar in use.
func (g *Grid) Calendar() *calendar.Set { return g.cal }

// CanUndo reports whether Undo would change anything.
func (g *Grid) CanUndo() bool { return g.hist.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (g *Grid) CanRedo() bool { return g.hist.CanRedo() }

// HistoryLen returns the number of undo and redo entries.
func (g *Grid) HistoryLen() (undo, redo int) { return g.hist.Len() }

// Undo restores the snapshot taken before the last change. It reports
// false when there is nothing to undo.
func (g *Grid) Undo() bool {
	g.cancelEdit()
	prev, ok := g.hist.Undo(g.rows)
	if !ok {
		return false
	}
	g.rows = prev
	g.refresh()
	g.notify(Change{Kind: ChangeUndo})
	return true
}

// Redo reapplies the last undone change.
func (g *Grid) Redo() bool {
	g.cancelEdit()
	next, ok := g.hist.Redo(g.rows)
	if !ok {
		return false
	}
	g.rows = next
	g.refresh()
	g.notify(Change{Kind: ChangeRedo})
	return true
}

// index maps a visible row to its row-array index.
func (g *Grid) index(r int) (int, bool) {
	if r < 0 || r >= len(g.visible) {
		return 0, false
	}
	return g.visible[r], true
}

// visibleIndex maps a row-array index back to its visible row, or -1.
func (g *Grid) visibleIndex(i int) int {
	for v, idx := range g.visible {
		if idx == i {
			return v
		}
	}
	return -1
}

// editable reports whether cell (r, c) accepts input.
func (g *Grid) editable(r, c int) bool {
	i, ok := g.index(r)
	if !ok || c < 0 || c >= len(g.cols) {
		return false
	}
	col := g.cols[c]
	return !col.ReadOnly && !g.agg.IsAggregated(i, col.Key)
}

// commit records the current rows for undo, installs next and notifies the
// caller. next must be a private copy.
func (g *Grid) commit(next []sheet.Row, ch Change) {
	g.hist.Push(g.rows)
	g.rows = next
	g.refresh()
	g.notify(ch)
}

func (g *Grid) notify(ch Change) {
	if g.onChange != nil {
		g.onChange(sheet.CloneRows(g.rows), ch)
	}
}

// refresh recomputes everything derived from rows and columns.
func (g *Grid) refresh() {
	g.agg = rollup.Compute(g.cols, g.rows)
	g.visible = rollup.Visible(g.rows, g.collapsed)
	g.clampSelection()
	if g.edit != nil && !g.editable(g.edit.Row, g.edit.Col) {
		g.edit = nil
	}
}

func (g *Grid) clampSelection() {
	if len(g.visible) == 0 || len(g.cols) == 0 {
		g.hasSel = false
		g.sel = selection.Selection{}
		return
	}
	if !g.hasSel {
		g.sel = selection.At(selection.Point{})
		g.hasSel = true
	}
	g.sel.Clamp(len(g.visible), len(g.cols))
}

func rowsEqual(a, b []sheet.Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !rowEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func rowEqual(a, b sheet.Row) bool {
	if a.ID != b.ID || a.Indent != b.Indent || len(a.Cells) != len(b.Cells) {
		return false
	}
	for k, v := range a.Cells {
		if w, ok := b.Cells[k]; !ok || w != v {
			return false
		}
	}
	return true
}
