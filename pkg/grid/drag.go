package grid

import (
	"github.com/ha1tch/plangrid/pkg/selection"
)

// PointerType distinguishes pointer events delivered during a drag.
type PointerType int

const (
	PointerMove PointerType = iota
	PointerUp
)

// PointerEvent is a pointer movement or release anywhere on screen. X is a
// pixel position used by column resizing, or -1 when unknown; Row and Col
// locate the cell under the pointer, or -1 outside the cells.
type PointerEvent struct {
	Type     PointerType
	X        int
	Row, Col int
}

// PointerBus fans global pointer events out to subscribers. Drag sessions
// subscribe when they begin and unsubscribe when they end, so a bus with no
// drag in progress has no listeners.
type PointerBus struct {
	next      int
	listeners map[int]func(PointerEvent)
	order     []int
}

// NewPointerBus returns an empty bus.
func NewPointerBus() *PointerBus {
	return &PointerBus{listeners: make(map[int]func(PointerEvent))}
}

// Subscribe adds fn and returns the function that removes it. Calling the
// returned function more than once is harmless.
func (b *PointerBus) Subscribe(fn func(PointerEvent)) (unsubscribe func()) {
	id := b.next
	b.next++
	b.listeners[id] = fn
	b.order = append(b.order, id)
	return func() {
		if _, ok := b.listeners[id]; !ok {
			return
		}
		delete(b.listeners, id)
		for i, o := range b.order {
			if o == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// Dispatch delivers ev to every current listener in subscription order.
// Listeners may unsubscribe while handling the event.
func (b *PointerBus) Dispatch(ev PointerEvent) {
	ids := append([]int(nil), b.order...)
	for _, id := range ids {
		if fn, ok := b.listeners[id]; ok {
			fn(ev)
		}
	}
}

// Len returns the number of listeners.
func (b *PointerBus) Len() int { return len(b.listeners) }

// DragKind identifies the drag in progress.
type DragKind int

const (
	DragNone DragKind = iota
	DragSelect
	DragRow
	DragColumnResize
	DragColumnReorder
)

type dragSession struct {
	kind   DragKind
	index  int // row or column being dragged
	startX int
	startW int
	target selection.Point
	stop   func()
}

// Pointer returns the bus drag sessions listen on. The embedding UI feeds
// every pointer move and release into it.
func (g *Grid) Pointer() *PointerBus { return g.bus }

// Dragging returns the kind of drag in progress.
func (g *Grid) Dragging() DragKind {
	if g.drag == nil {
		return DragNone
	}
	return g.drag.kind
}

// DropTarget returns the cell the pointer last hovered during a row or
// column drag, for the renderer's drop indicator.
func (g *Grid) DropTarget() (selection.Point, bool) {
	if g.drag == nil || (g.drag.kind != DragRow && g.drag.kind != DragColumnReorder) {
		return selection.Point{}, false
	}
	return g.drag.target, true
}

// Close ends any drag in progress and releases its pointer subscription.
func (g *Grid) Close() {
	g.endDrag()
}

func (g *Grid) endDrag() {
	if g.drag == nil {
		return
	}
	g.drag.stop()
	g.drag = nil
}

func (g *Grid) beginDrag(d *dragSession, onMove, onUp func(PointerEvent)) {
	g.endDrag()
	g.drag = d
	d.stop = g.bus.Subscribe(func(ev PointerEvent) {
		switch ev.Type {
		case PointerMove:
			if onMove != nil {
				onMove(ev)
			}
		case PointerUp:
			// Release before acting: onUp may start another operation.
			g.endDrag()
			if onUp != nil {
				onUp(ev)
			}
		}
	})
}

// BeginSelectDrag starts extending the selection with pointer movement.
func (g *Grid) BeginSelectDrag() {
	g.beginDrag(&dragSession{kind: DragSelect}, func(ev PointerEvent) {
		if ev.Row < 0 || ev.Col < 0 {
			return
		}
		g.sel.Extend(selection.Point{Row: ev.Row, Col: ev.Col})
		g.clampSelection()
	}, nil)
}

// BeginRowDrag starts dragging visible row r. Releasing over another row
// moves r's block there.
func (g *Grid) BeginRowDrag(r int) {
	if _, ok := g.index(r); !ok {
		return
	}
	g.commitEdit()
	d := &dragSession{kind: DragRow, index: r, target: selection.Point{Row: r, Col: -1}}
	g.beginDrag(d, func(ev PointerEvent) {
		if ev.Row >= 0 {
			d.target.Row = ev.Row
		}
	}, func(ev PointerEvent) {
		if ev.Row >= 0 {
			g.ReorderRows(d.index, ev.Row)
		}
	})
}

// BeginColumnResize starts resizing column c from pointer position x.
func (g *Grid) BeginColumnResize(c, x int) {
	if c < 0 || c >= len(g.cols) {
		return
	}
	d := &dragSession{kind: DragColumnResize, index: c, startX: x, startW: g.cols[c].Width}
	if d.startW <= 0 {
		d.startW = g.cols[c].ClampWidth(0)
	}
	g.beginDrag(d, func(ev PointerEvent) {
		if ev.X < 0 {
			return
		}
		g.ResizeColumn(d.index, d.startW+ev.X-d.startX)
	}, nil)
}

// BeginColumnReorder starts dragging column c. Releasing over another
// column moves c there.
func (g *Grid) BeginColumnReorder(c int) {
	if c < 0 || c >= len(g.cols) {
		return
	}
	d := &dragSession{kind: DragColumnReorder, index: c, target: selection.Point{Row: -1, Col: c}}
	g.beginDrag(d, func(ev PointerEvent) {
		if ev.Col >= 0 {
			d.target.Col = ev.Col
		}
	}, func(ev PointerEvent) {
		if ev.Col >= 0 {
			g.ReorderColumns(d.index, ev.Col)
		}
	})
}

// MouseDown handles a press on cell (r, c): it commits any edit, places or
// extends the selection and starts a selection drag.
func (g *Grid) MouseDown(r, c int, shift bool) {
	if _, ok := g.index(r); !ok || c < 0 || c >= len(g.cols) {
		return
	}
	g.commitEdit()
	p := selection.Point{Row: r, Col: c}
	if shift && g.hasSel {
		g.sel.Extend(p)
	} else {
		g.sel.Start(p)
	}
	g.hasSel = true
	g.clampSelection()
	g.BeginSelectDrag()
}

// MouseEnter reports the pointer entering cell (r, c).
func (g *Grid) MouseEnter(r, c int) {
	g.bus.Dispatch(PointerEvent{Type: PointerMove, X: -1, Row: r, Col: c})
}

// MouseUp reports the pointer being released over cell (r, c), or -1, -1.
func (g *Grid) MouseUp(r, c int) {
	g.bus.Dispatch(PointerEvent{Type: PointerUp, X: -1, Row: r, Col: c})
}

// DoubleClick edits cell (r, c) with its whole content selected.
func (g *Grid) DoubleClick(r, c int) bool {
	if _, ok := g.index(r); !ok || c < 0 || c >= len(g.cols) {
		return false
	}
	g.endDrag()
	g.commitEdit()
	g.sel.Start(selection.Point{Row: r, Col: c})
	g.hasSel = true
	g.clampSelection()
	return g.beginEditAt(r, c, EditSelectAll, "")
}
