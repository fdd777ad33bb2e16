package grid

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ha1tch/plangrid/pkg/clip"
	"github.com/ha1tch/plangrid/pkg/sheet"
)

// Column positions in planColumns.
const (
	colTitle = iota
	colStart
	colEnd
	colDays
	colColour
	colNote
)

func planColumns() []sheet.Column {
	return []sheet.Column{
		{Key: "title", Title: "Activity", IsTitle: true, Width: 200},
		{Key: "start", Title: "Start", Type: sheet.TypeDate, DateRole: sheet.RoleStart},
		{Key: "end", Title: "End", Type: sheet.TypeDate, DateRole: sheet.RoleEnd},
		{Key: "days", Title: "Days", Type: sheet.TypeNumber, Summarizable: true,
			DurationOf: &sheet.DurationPair{StartKey: "start", EndKey: "end"}},
		{Key: "colour", Title: "Colour", Type: sheet.TypeSelect,
			Options: []string{"auto", "blå", "grønn"}, Aliases: map[string]string{"blue": "blå"}},
		{Key: "note", Title: "Note", ReadOnly: true},
	}
}

func textColumns(keys ...string) []sheet.Column {
	cols := make([]sheet.Column, len(keys))
	for i, k := range keys {
		cols[i] = sheet.Column{Key: k, Title: k}
	}
	return cols
}

// seqIDs returns a deterministic row ID generator.
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new%d", n)
	}
}

func titled(id string, indent int, title string) sheet.Row {
	r := sheet.Row{ID: id, Indent: indent}
	r.Set("title", sheet.Text(title))
	return r
}

type recorder struct {
	changes []Change
	last    []sheet.Row
}

func (rec *recorder) record(rows []sheet.Row, ch Change) {
	rec.changes = append(rec.changes, ch)
	rec.last = rows
}

func (rec *recorder) kinds() []ChangeKind {
	var out []ChangeKind
	for _, c := range rec.changes {
		out = append(out, c.Kind)
	}
	return out
}

func matrix(g *Grid) [][]string {
	var out [][]string
	for r := 0; r < g.Len(); r++ {
		var line []string
		for c := range g.Columns() {
			line = append(line, g.DisplayValue(r, c))
		}
		out = append(out, line)
	}
	return out
}

func TestPasteGrowsRows(t *testing.T) {
	rec := &recorder{}
	g := New(textColumns("a", "b"), []sheet.Row{{ID: "r0"}},
		WithOnChange(rec.record), WithIDGenerator(seqIDs()))

	if !g.PasteAt("A\tB\nC\tD", 0, 0) {
		t.Fatal("paste reported no change")
	}
	want := [][]string{{"A", "B"}, {"C", "D"}}
	if diff := cmp.Diff(want, matrix(g)); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
	if u, _ := g.HistoryLen(); u != 1 {
		t.Errorf("history entries = %d, want 1", u)
	}
	if diff := cmp.Diff([]ChangeKind{ChangePaste}, rec.kinds()); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
	if got := rec.last[1].ID; got != "new1" {
		t.Errorf("appended row ID = %q, want new1", got)
	}
	rect, _ := g.SelectionRect()
	if rect.R1 != 0 || rect.C1 != 0 || rect.R2 != 1 || rect.C2 != 1 {
		t.Errorf("pasted rectangle not selected: %+v", rect)
	}
}

func TestPasteMatchesCoercedParse(t *testing.T) {
	g := New(planColumns(), []sheet.Row{{ID: "r0"}}, WithIDGenerator(seqIDs()))
	text := "Design;6.11.2025;2025-11-12\r\nBuild;bad date;2025-11-20\r\n"
	if !g.PasteAt(text, 0, colTitle) {
		t.Fatal("paste reported no change")
	}
	parsed := clip.Parse(text)
	cols := g.Columns()
	rows := g.Data()
	for y, line := range parsed {
		for x, raw := range line {
			want := sheet.Coerce(cols[x], raw)
			if got := rows[y].Get(cols[x].Key); got != want {
				t.Errorf("cell (%d,%d) = %#v, want %#v", y, x, got, want)
			}
		}
	}
	// The appended row is the empty-row template plus the pasted cells.
	if got := rows[1].Get("colour"); got != sheet.Text("auto") {
		t.Errorf("appended row colour = %#v, want template default", got)
	}
}

func TestPasteTruncatesColumns(t *testing.T) {
	g := New(textColumns("a", "b"), []sheet.Row{{ID: "r0"}})
	g.PasteAt("1\t2\t3\t4", 0, 1)
	want := [][]string{{"", "1"}}
	if diff := cmp.Diff(want, matrix(g)); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestPasteSkipsReadOnly(t *testing.T) {
	rows := []sheet.Row{{ID: "r0", Cells: map[string]sheet.Value{"note": sheet.Text("keep")}}}
	g := New(planColumns(), rows)
	g.PasteAt("blue\toverwrite", 0, colColour)
	got := g.Data()[0]
	if got.Get("note") != sheet.Text("keep") {
		t.Errorf("read-only cell overwritten: %#v", got.Get("note"))
	}
	if got.Get("colour") != sheet.Text("blå") {
		t.Errorf("select alias not applied: %#v", got.Get("colour"))
	}
}

func TestPasteEmptyTextIsNoOp(t *testing.T) {
	rec := &recorder{}
	g := New(textColumns("a"), []sheet.Row{{ID: "r0"}}, WithOnChange(rec.record))
	if g.PasteAt("", 0, 0) {
		t.Error("empty paste reported a change")
	}
	if g.CanUndo() || len(rec.changes) != 0 {
		t.Error("empty paste recorded history or notified")
	}
}

func TestPasteFromClipboard(t *testing.T) {
	cb := &clip.Memory{Text: "x,y"}
	g := New(textColumns("a", "b"), []sheet.Row{{ID: "r0"}}, WithClipboard(cb))
	if ok, err := g.Paste(); err != nil || !ok {
		t.Fatalf("Paste() = %v, %v", ok, err)
	}
	if diff := cmp.Diff([][]string{{"x", "y"}}, matrix(g)); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestSetCell(t *testing.T) {
	rec := &recorder{}
	g := New(planColumns(), []sheet.Row{titled("a", 0, "Plan")}, WithOnChange(rec.record))

	tests := []struct {
		name string
		col  int
		raw  string
		ok   bool
		want sheet.Value
	}{
		{"text", colTitle, "Design", true, sheet.Text("Design")},
		{"same value", colTitle, "Design", false, sheet.Text("Design")},
		{"dotted date", colStart, "3.3.2025", true, sheet.Text("2025-03-03")},
		{"select alias", colColour, "Blue", true, sheet.Text("blå")},
		{"read-only", colNote, "x", false, sheet.Empty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.SetCell(0, tt.col, tt.raw); got != tt.ok {
				t.Errorf("SetCell = %v, want %v", got, tt.ok)
			}
			key := g.Columns()[tt.col].Key
			if got := g.Data()[0].Get(key); got != tt.want {
				t.Errorf("stored %#v, want %#v", got, tt.want)
			}
		})
	}
	if g.SetCell(5, 0, "x") || g.SetCell(0, 17, "x") || g.SetCell(-1, 0, "x") {
		t.Error("out-of-range SetCell reported a change")
	}
	if u, _ := g.HistoryLen(); u != 3 {
		t.Errorf("history entries = %d, want 3", u)
	}
	last := rec.changes[len(rec.changes)-1]
	if last.Kind != ChangeEdit || last.Col != colColour || last.Value != "blå" {
		t.Errorf("last change = %+v", last)
	}
}

func TestClearRange(t *testing.T) {
	rows := []sheet.Row{
		{ID: "a", Cells: map[string]sheet.Value{"title": sheet.Text("A"), "colour": sheet.Text("grønn"), "note": sheet.Text("n")}},
	}
	g := New(planColumns(), rows)
	g.Select(0, 0)
	g.ExtendSelection(0, colNote)
	if !g.ClearRange() {
		t.Fatal("ClearRange reported no change")
	}
	got := g.Data()[0]
	want := sheet.Row{ID: "a", Cells: map[string]sheet.Value{"colour": sheet.Text("auto"), "note": sheet.Text("n")}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
	if g.ClearRange() {
		t.Error("clearing an already empty range reported a change")
	}
}

func TestDeleteKeyClearsRowsWithOneUndo(t *testing.T) {
	rows := []sheet.Row{
		titled("p", 0, "Phase"),
		titled("c1", 1, "One"),
		titled("c2", 1, "Two"),
		titled("c3", 1, "Three"),
		titled("c4", 1, "Four"),
	}
	for i := range rows[1:] {
		rows[i+1].Set("colour", sheet.Text("blå"))
	}
	g := New(planColumns(), rows)
	before := g.Data()

	g.Select(2, 0)
	g.ExtendSelection(4, colColour)
	if !g.HandleKey(KeyEvent{Key: KeyDelete}) {
		t.Fatal("Delete not handled")
	}
	for r := 2; r <= 4; r++ {
		if v := g.DisplayValue(r, colTitle); v != "" {
			t.Errorf("row %d title = %q, want empty", r, v)
		}
		if v := g.DisplayValue(r, colColour); v != "auto" {
			t.Errorf("row %d colour = %q, want select default", r, v)
		}
	}
	if u, _ := g.HistoryLen(); u != 1 {
		t.Fatalf("history entries = %d, want 1", u)
	}
	if !g.Undo() {
		t.Fatal("Undo reported nothing to undo")
	}
	if diff := cmp.Diff(before, g.Data()); diff != "" {
		t.Errorf("undo did not restore all rows (-want +got):\n%s", diff)
	}
}

func TestUndoRedoAreInverses(t *testing.T) {
	rows := []sheet.Row{titled("a", 0, "A"), titled("b", 0, "B"), titled("c", 0, "C")}
	g := New(planColumns(), rows, WithIDGenerator(seqIDs()))

	ops := []func(){
		func() { g.SetCell(0, colTitle, "A2") },
		func() { g.PasteAt("x\ty", 1, 0) },
		func() { g.InsertRow(0) },
		func() { g.ReorderRows(0, 2) },
		func() { g.DeleteRows(1, 2) },
		func() { g.Select(1, 0); g.ClearRange() },
	}
	var snaps [][]sheet.Row
	for _, op := range ops {
		snaps = append(snaps, g.Data())
		op()
	}
	final := g.Data()

	for i := len(ops) - 1; i >= 0; i-- {
		if !g.Undo() {
			t.Fatalf("undo %d reported nothing to undo", i)
		}
		if diff := cmp.Diff(snaps[i], g.Data()); diff != "" {
			t.Fatalf("undo %d mismatch (-want +got):\n%s", i, diff)
		}
	}
	if g.Undo() {
		t.Error("undo past the first change")
	}
	for i := 1; i < len(ops); i++ {
		g.Redo()
		if diff := cmp.Diff(snaps[i], g.Data()); diff != "" {
			t.Fatalf("redo %d mismatch (-want +got):\n%s", i, diff)
		}
	}
	g.Redo()
	if diff := cmp.Diff(final, g.Data()); diff != "" {
		t.Fatalf("final redo mismatch (-want +got):\n%s", diff)
	}

	g.Undo()
	g.SetCell(0, colTitle, "new branch")
	if g.CanRedo() {
		t.Error("new change after undo must clear redo")
	}
	before := g.Data()
	if g.Redo() {
		t.Error("redo after a new change should be a no-op")
	}
	if diff := cmp.Diff(before, g.Data()); diff != "" {
		t.Errorf("no-op redo changed data (-want +got):\n%s", diff)
	}
}

func TestOnChangeReceivesCopies(t *testing.T) {
	rec := &recorder{}
	g := New(planColumns(), []sheet.Row{titled("a", 0, "A")}, WithOnChange(rec.record))
	g.SetCell(0, colTitle, "B")
	rec.last[0].Set("title", sheet.Text("mutated"))
	rec.last[0].Indent = 4
	if got := g.DisplayValue(0, colTitle); got != "B" {
		t.Errorf("grid shares rows with callback: %q", got)
	}
	data := g.Data()
	data[0].Set("title", sheet.Text("again"))
	if got := g.DisplayValue(0, colTitle); got != "B" {
		t.Errorf("grid shares rows with Data(): %q", got)
	}
}

func TestAggregatedCellsAreDisplayOnly(t *testing.T) {
	rows := []sheet.Row{
		titled("p", 0, "Phase"),
		titled("a", 1, "A"),
		titled("b", 1, "B"),
	}
	rows[1].Set("days", sheet.Number(3))
	rows[2].Set("days", sheet.Number(4))
	rows[1].Set("start", sheet.Text("2025-03-03"))
	rows[2].Set("end", sheet.Text("2025-03-14"))
	cb := &clip.Memory{}
	g := New(planColumns(), rows, WithClipboard(cb))

	if got := g.DisplayValue(0, colDays); got != "7" {
		t.Errorf("parent days = %q, want 7", got)
	}
	if !g.IsAggregated(0, colDays) || g.IsAggregated(0, colTitle) || g.IsAggregated(1, colDays) {
		t.Error("IsAggregated wrong")
	}
	if g.SetCell(0, colDays, "99") {
		t.Error("edit of aggregated cell accepted")
	}
	if g.PasteAt("x\t2025-01-01", 0, 0); g.Data()[0].Get("start") != sheet.Empty {
		t.Error("paste wrote into aggregated cell")
	}
	if _, ok := g.Data()[0].Cells["days"]; ok {
		t.Error("rollup stored a value in the parent row")
	}

	g.Select(0, colStart)
	g.ExtendSelection(0, colDays)
	if err := g.Copy(); err != nil {
		t.Fatal(err)
	}
	if want := "2025-03-03\t2025-03-14\t7"; cb.Text != want {
		t.Errorf("copied %q, want %q", cb.Text, want)
	}
}

func TestCutClearsAfterCopy(t *testing.T) {
	cb := &clip.Memory{}
	g := New(textColumns("a", "b"), []sheet.Row{
		{ID: "r0", Cells: map[string]sheet.Value{"a": sheet.Text("1"), "b": sheet.Text("2")}},
	}, WithClipboard(cb))
	g.Select(0, 0)
	g.ExtendSelection(0, 1)
	if err := g.Cut(); err != nil {
		t.Fatal(err)
	}
	if cb.Text != "1\t2" {
		t.Errorf("clipboard = %q", cb.Text)
	}
	if diff := cmp.Diff([][]string{{"", ""}}, matrix(g)); diff != "" {
		t.Errorf("cut did not clear (-want +got):\n%s", diff)
	}

	g = New(textColumns("a"), []sheet.Row{{ID: "r0", Cells: map[string]sheet.Value{"a": sheet.Text("1")}}})
	if err := g.Cut(); err == nil {
		t.Error("cut without clipboard should fail")
	}
	if g.DisplayValue(0, 0) != "1" {
		t.Error("failed cut cleared the cell")
	}
}

func TestEmptyGridHasNoSelection(t *testing.T) {
	g := New(textColumns("a"), nil)
	if _, ok := g.SelectionRect(); ok {
		t.Error("empty grid has a selection")
	}
	if g.HandleKey(KeyEvent{Key: KeyDown}) {
		t.Error("navigation on empty grid handled")
	}
	if r := g.InsertRow(-1); r != 0 {
		t.Errorf("InsertRow on empty grid = %d", r)
	}
	if _, ok := g.SelectionRect(); !ok {
		t.Error("inserted row not selected")
	}
}

func TestSetDataResetsHistory(t *testing.T) {
	g := New(textColumns("a"), []sheet.Row{{ID: "r0"}}, WithIDGenerator(seqIDs()))
	g.SetCell(0, 0, "x")
	g.SetData([]sheet.Row{{}, {}})
	if g.CanUndo() {
		t.Error("SetData kept the history")
	}
	rows := g.Data()
	if rows[0].ID == "" || rows[0].ID == rows[1].ID {
		t.Errorf("rows without IDs not named: %q, %q", rows[0].ID, rows[1].ID)
	}
}

func TestHistoryLimit(t *testing.T) {
	g := New(textColumns("a"), []sheet.Row{{ID: "r0"}}, WithHistoryLimit(3))
	for i := 0; i < 5; i++ {
		g.SetCell(0, 0, fmt.Sprint(i))
	}
	if u, _ := g.HistoryLen(); u != 3 {
		t.Errorf("history entries = %d, want 3", u)
	}
}

func TestSummary(t *testing.T) {
	rows := []sheet.Row{titled("a", 0, "A"), titled("b", 0, "B")}
	rows[0].Set("start", sheet.Text("2025-03-03"))
	rows[0].Set("end", sheet.Text("2025-03-07"))
	g := New(planColumns(), rows)
	s := g.Summary()
	if s.Count != 2 || s.WithDates != 1 || s.SpanDays != 5 {
		t.Errorf("Summary() = %+v", s)
	}
}
