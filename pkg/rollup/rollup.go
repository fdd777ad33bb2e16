// Package rollup derives read-only aggregates for parent rows of an
// indent-structured plan. Stored cell values are never modified: a Result
// is a projection consulted at display and copy time.
package rollup

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ha1tch/plangrid/pkg/calendar"
	"github.com/ha1tch/plangrid/pkg/sheet"
)

// Index is the parent/child structure implied by row indents.
type Index struct {
	Parent   []int   // -1 for roots
	Children [][]int // direct children, in row order
}

// BuildIndex scans rows once with a stack of open ancestors. A row is a
// child of the nearest preceding row with a smaller indent.
func BuildIndex(rows []sheet.Row) Index {
	idx := Index{
		Parent:   make([]int, len(rows)),
		Children: make([][]int, len(rows)),
	}
	var stack []int
	for i, r := range rows {
		for len(stack) > 0 && rows[stack[len(stack)-1]].Indent >= r.Indent {
			stack = stack[:len(stack)-1]
		}
		idx.Parent[i] = -1
		if len(stack) > 0 {
			p := stack[len(stack)-1]
			idx.Parent[i] = p
			idx.Children[p] = append(idx.Children[p], i)
		}
		stack = append(stack, i)
	}
	return idx
}

// IsParent reports whether row i has at least one child.
func (idx Index) IsParent(i int) bool {
	return i >= 0 && i < len(idx.Children) && len(idx.Children[i]) > 0
}

// BlockEnd returns the exclusive end of row i's descendant block: the first
// index after i whose indent is not greater than rows[i].Indent.
func BlockEnd(rows []sheet.Row, i int) int {
	j := i + 1
	for j < len(rows) && rows[j].Indent > rows[i].Indent {
		j++
	}
	return j
}

// Visible returns the indices of rows not hidden inside a collapsed
// ancestor. collapsed is keyed by row ID.
func Visible(rows []sheet.Row, collapsed map[string]bool) []int {
	out := make([]int, 0, len(rows))
	for i := 0; i < len(rows); {
		out = append(out, i)
		if collapsed[rows[i].ID] {
			i = BlockEnd(rows, i)
			continue
		}
		i++
	}
	return out
}

// Result holds the aggregates of one Compute call.
type Result struct {
	kinds  map[string]sheet.ColumnType
	parent []bool
	values []map[string]sheet.Value
}

// Value returns the aggregate for (row, key). ok is false for leaf rows,
// for columns that do not aggregate, and for parents whose children carry
// no usable values.
func (r Result) Value(row int, key string) (sheet.Value, bool) {
	if row < 0 || row >= len(r.values) || r.values[row] == nil {
		return sheet.Empty, false
	}
	v, ok := r.values[row][key]
	return v, ok
}

// IsAggregated reports whether (row, key) is a parent row crossed with a
// number or date column. Such cells are display-only and reject edits.
func (r Result) IsAggregated(row int, key string) bool {
	if row < 0 || row >= len(r.parent) || !r.parent[row] {
		return false
	}
	switch r.kinds[key] {
	case sheet.TypeNumber, sheet.TypeDate:
		return true
	}
	return false
}

// Display returns what the cell shows: the aggregate when there is one,
// otherwise the stored value.
func (r Result) Display(rows []sheet.Row, row int, col sheet.Column) sheet.Value {
	if v, ok := r.Value(row, col.Key); ok {
		return v
	}
	if row < 0 || row >= len(rows) {
		return sheet.Empty
	}
	return rows[row].Get(col.Key)
}

type span struct {
	lo, hi time.Time
	ok     bool
}

func (s *span) add(o span) {
	if !o.ok {
		return
	}
	if !s.ok {
		*s = o
		return
	}
	if o.lo.Before(s.lo) {
		s.lo = o.lo
	}
	if o.hi.After(s.hi) {
		s.hi = o.hi
	}
}

// Compute aggregates every parent row bottom-up, so nested parents
// contribute their own rolled-up values to their ancestors.
//
// Summarizable number columns sum. Date columns with a start role take the
// earliest child value, end-role columns the latest, and date columns
// without a role show the whole span as "min → max".
func Compute(cols []sheet.Column, rows []sheet.Row) Result {
	idx := BuildIndex(rows)
	res := Result{
		kinds:  make(map[string]sheet.ColumnType, len(cols)),
		parent: make([]bool, len(rows)),
		values: make([]map[string]sheet.Value, len(rows)),
	}
	for _, c := range cols {
		res.kinds[c.Key] = c.Kind()
	}

	var sumCols, dateCols []sheet.Column
	for _, c := range cols {
		switch {
		case c.Kind() == sheet.TypeNumber && c.Summarizable:
			sumCols = append(sumCols, c)
		case c.Kind() == sheet.TypeDate:
			dateCols = append(dateCols, c)
		}
	}

	sums := make([]map[string]decimal.Decimal, len(rows))
	spans := make([]map[string]span, len(rows))

	// Children always follow their parent, so a reverse scan is bottom-up.
	for i := len(rows) - 1; i >= 0; i-- {
		sums[i] = make(map[string]decimal.Decimal, len(sumCols))
		spans[i] = make(map[string]span, len(dateCols))
		children := idx.Children[i]

		if len(children) == 0 {
			for _, c := range sumCols {
				if f, ok := rows[i].Get(c.Key).Float(); ok {
					sums[i][c.Key] = decimal.NewFromFloat(f)
				}
			}
			for _, c := range dateCols {
				if t, ok := calendar.ParseISO(rows[i].Get(c.Key).String()); ok {
					spans[i][c.Key] = span{lo: t, hi: t, ok: true}
				}
			}
			continue
		}

		res.parent[i] = true
		out := make(map[string]sheet.Value)
		for _, c := range sumCols {
			total, seen := decimal.Zero, false
			for _, ch := range children {
				if d, ok := sums[ch][c.Key]; ok {
					total = total.Add(d)
					seen = true
				}
			}
			if !seen {
				continue
			}
			sums[i][c.Key] = total
			f, _ := total.Float64()
			out[c.Key] = sheet.Number(f)
		}
		for _, c := range dateCols {
			var s span
			for _, ch := range children {
				s.add(spans[ch][c.Key])
			}
			if !s.ok {
				continue
			}
			spans[i][c.Key] = s
			out[c.Key] = sheet.Text(formatSpan(c.DateRole, s))
		}
		res.values[i] = out
	}
	return res
}

func formatSpan(role sheet.DateRole, s span) string {
	switch role {
	case sheet.RoleStart:
		return calendar.FormatISO(s.lo)
	case sheet.RoleEnd:
		return calendar.FormatISO(s.hi)
	}
	if s.lo.Equal(s.hi) {
		return calendar.FormatISO(s.lo)
	}
	return calendar.FormatISO(s.lo) + " → " + calendar.FormatISO(s.hi)
}
