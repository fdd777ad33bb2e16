package grid

import (
	"strings"
	"testing"

	"github.com/ha1tch/plangrid/pkg/selection"
	"github.com/ha1tch/plangrid/pkg/sheet"
)

func TestPointerBus(t *testing.T) {
	bus := NewPointerBus()
	var got []string
	stopA := bus.Subscribe(func(ev PointerEvent) { got = append(got, "a") })
	bus.Subscribe(func(ev PointerEvent) { got = append(got, "b") })
	bus.Dispatch(PointerEvent{Type: PointerMove})
	stopA()
	stopA()
	bus.Dispatch(PointerEvent{Type: PointerMove})
	if want := "a b b"; strings.Join(got, " ") != want {
		t.Errorf("dispatch order = %q, want %q", strings.Join(got, " "), want)
	}
	if bus.Len() != 1 {
		t.Errorf("Len = %d, want 1", bus.Len())
	}
}

func TestSelectDrag(t *testing.T) {
	g := threeByThree()
	g.MouseDown(0, 0, false)
	if g.Dragging() != DragSelect || g.Pointer().Len() != 1 {
		t.Fatalf("drag = %v, listeners = %d", g.Dragging(), g.Pointer().Len())
	}
	g.MouseEnter(1, 1)
	g.MouseEnter(2, 1)
	g.MouseUp(2, 1)
	rect, _ := g.SelectionRect()
	if want := (selection.Rect{R1: 0, C1: 0, R2: 2, C2: 1}); rect != want {
		t.Errorf("rect = %+v, want %+v", rect, want)
	}
	if g.Dragging() != DragNone || g.Pointer().Len() != 0 {
		t.Errorf("after release: drag = %v, listeners = %d", g.Dragging(), g.Pointer().Len())
	}

	// Moves after release change nothing.
	g.MouseEnter(0, 2)
	if r2, _ := g.SelectionRect(); r2 != rect {
		t.Errorf("selection moved after release: %+v", r2)
	}
}

func TestShiftClickExtends(t *testing.T) {
	g := threeByThree()
	g.MouseDown(1, 1, false)
	g.MouseUp(1, 1)
	g.MouseDown(2, 2, true)
	g.MouseUp(2, 2)
	rect, _ := g.SelectionRect()
	if want := (selection.Rect{R1: 1, C1: 1, R2: 2, C2: 2}); rect != want {
		t.Errorf("rect = %+v, want %+v", rect, want)
	}
}

func TestNewDragReplacesOld(t *testing.T) {
	g := threeByThree()
	g.MouseDown(0, 0, false)
	g.BeginColumnResize(1, 100)
	if g.Dragging() != DragColumnResize || g.Pointer().Len() != 1 {
		t.Errorf("drag = %v, listeners = %d", g.Dragging(), g.Pointer().Len())
	}
	g.Close()
	if g.Dragging() != DragNone || g.Pointer().Len() != 0 {
		t.Errorf("after Close: drag = %v, listeners = %d", g.Dragging(), g.Pointer().Len())
	}
}

func TestColumnResizeDrag(t *testing.T) {
	cols := textColumns("a", "b")
	cols[0].Width = 120
	cols[0].MaxWidth = 300
	rec := &recorder{}
	g := New(cols, nil, WithOnChange(rec.record))

	g.BeginColumnResize(0, 500)
	bus := g.Pointer()
	bus.Dispatch(PointerEvent{Type: PointerMove, X: 530})
	if w := g.Columns()[0].Width; w != 150 {
		t.Errorf("width = %d, want 150", w)
	}
	bus.Dispatch(PointerEvent{Type: PointerMove, X: -1, Row: 1, Col: 1})
	if w := g.Columns()[0].Width; w != 150 {
		t.Errorf("unknown position changed width to %d", w)
	}
	bus.Dispatch(PointerEvent{Type: PointerMove, X: 2000})
	if w := g.Columns()[0].Width; w != 300 {
		t.Errorf("width = %d, want clamped 300", w)
	}
	bus.Dispatch(PointerEvent{Type: PointerMove, X: 0})
	if w := g.Columns()[0].Width; w != sheet.DefaultMinWidth {
		t.Errorf("width = %d, want clamped %d", w, sheet.DefaultMinWidth)
	}
	bus.Dispatch(PointerEvent{Type: PointerUp, X: 0})
	if bus.Len() != 0 {
		t.Errorf("listeners = %d after release", bus.Len())
	}
	for _, ch := range rec.changes {
		if ch.Kind != ChangeResize {
			t.Errorf("unexpected change %v", ch.Kind)
		}
	}
	if g.CanUndo() {
		t.Error("resize drag pushed history")
	}
}

func TestColumnResizeDefaultsUnsetWidth(t *testing.T) {
	g := New(textColumns("a"), nil)
	g.BeginColumnResize(0, 0)
	g.Pointer().Dispatch(PointerEvent{Type: PointerMove, X: 10})
	if w := g.Columns()[0].Width; w != sheet.DefaultMinWidth+10 {
		t.Errorf("width = %d, want %d", w, sheet.DefaultMinWidth+10)
	}
	g.Close()
}

func TestRowDrag(t *testing.T) {
	g := tree()
	g.BeginRowDrag(4)
	g.MouseEnter(1, 0)
	g.MouseEnter(3, 0)
	if p, ok := g.DropTarget(); !ok || p.Row != 3 {
		t.Errorf("drop target = %+v, %v", p, ok)
	}
	g.MouseUp(3, 0)
	want := []string{"A", "  A1", "  A2", "C", "B"}
	if got := outline(g); strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("outline = %q, want %q", got, want)
	}
	if g.Pointer().Len() != 0 {
		t.Error("row drag still subscribed")
	}
	if _, ok := g.DropTarget(); ok {
		t.Error("drop target reported after release")
	}
}

func TestRowDragReleasedOutside(t *testing.T) {
	g := tree()
	g.BeginRowDrag(0)
	g.MouseUp(-1, -1)
	if g.CanUndo() {
		t.Error("release outside the grid moved rows")
	}
	if g.Pointer().Len() != 0 {
		t.Error("row drag still subscribed")
	}
}

func TestColumnReorderDrag(t *testing.T) {
	g := New(textColumns("a", "b", "c"), []sheet.Row{{ID: "r"}})
	g.BeginColumnReorder(0)
	g.MouseEnter(0, 1)
	if p, ok := g.DropTarget(); !ok || p.Col != 1 {
		t.Errorf("drop target = %+v, %v", p, ok)
	}
	g.MouseUp(0, 2)
	var keys []string
	for _, c := range g.Columns() {
		keys = append(keys, c.Key)
	}
	if strings.Join(keys, " ") != "b c a" {
		t.Errorf("columns = %v", keys)
	}
}

func TestSharedPointerBus(t *testing.T) {
	bus := NewPointerBus()
	g1 := New(textColumns("a"), []sheet.Row{{ID: "1"}, {ID: "2"}}, WithPointerBus(bus))
	g2 := New(textColumns("a"), []sheet.Row{{ID: "1"}, {ID: "2"}}, WithPointerBus(bus))
	g1.MouseDown(0, 0, false)
	g2.MouseDown(0, 0, false)
	if bus.Len() != 2 {
		t.Fatalf("listeners = %d, want 2", bus.Len())
	}
	g1.Close()
	g2.Close()
	if bus.Len() != 0 {
		t.Errorf("listeners = %d after Close", bus.Len())
	}
}
