package grid

// ChangeKind identifies the operation behind a change notification.
type ChangeKind string

const (
	ChangeEdit       ChangeKind = "edit"
	ChangePaste      ChangeKind = "paste"
	ChangeClear      ChangeKind = "clear"
	ChangeInsert     ChangeKind = "insert"
	ChangeDelete     ChangeKind = "delete"
	ChangeReorder    ChangeKind = "reorder"
	ChangeIndent     ChangeKind = "indent"
	ChangeResize     ChangeKind = "resize"
	ChangeUndo       ChangeKind = "undo"
	ChangeRedo       ChangeKind = "redo"
	ChangeRecalendar ChangeKind = "recalendar"
)

// Axis tells row reorders apart from column reorders.
type Axis int

const (
	AxisRow Axis = iota
	AxisColumn
)

// Change describes one committed operation. Row indices are visible-row
// indices at the time of the operation. Only the fields relevant to Kind
// are set.
type Change struct {
	Kind ChangeKind

	// edit, paste, clear: target cell or top-left corner
	Row, Col int
	Value    string     // edit: the stored value after coercion
	Cells    [][]string // paste: the parsed clipboard matrix

	// insert, delete, indent: first row and number of rows
	Count int

	// reorder
	Axis     Axis
	From, To int

	// resize
	Width int
}
