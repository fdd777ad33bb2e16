package sheet

// Row is one line of the plan. Indent gives the tree depth: a row at
// indent N is a child of the nearest preceding row at indent N-1.
type Row struct {
	ID     string
	Indent int
	Cells  map[string]Value
}

// NewRow returns the empty-row template for cols: indent 0, select columns
// at their fallback value, everything else absent.
func NewRow(id string, cols []Column) Row {
	r := Row{ID: id, Cells: make(map[string]Value)}
	for _, c := range cols {
		if v := c.EmptyValue(); !v.IsEmpty() {
			r.Cells[c.Key] = v
		}
	}
	return r
}

// Get returns the value stored under key. Missing keys read as empty.
func (r Row) Get(key string) Value {
	return r.Cells[key]
}

// Set stores v under key; an empty v deletes the key.
func (r *Row) Set(key string, v Value) {
	if v.IsEmpty() {
		delete(r.Cells, key)
		return
	}
	if r.Cells == nil {
		r.Cells = make(map[string]Value)
	}
	r.Cells[key] = v
}

// Clone returns a deep copy of r.
func (r Row) Clone() Row {
	out := Row{ID: r.ID, Indent: r.Indent}
	if r.Cells != nil {
		out.Cells = make(map[string]Value, len(r.Cells))
		for k, v := range r.Cells {
			out.Cells[k] = v
		}
	}
	return out
}

// CloneRows deep-copies a row slice. The result shares no maps with rows.
func CloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
