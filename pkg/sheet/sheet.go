// Package sheet provides the data model shared by the grid engine: typed
// columns, rows with a per-row key/value cell bag, and cell values.
package sheet

import (
	"math"
	"strconv"
)

// Kind identifies what a Value holds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
)

// Value is a cell value: empty, a string or a number. The zero Value is
// empty. Values are comparable with ==.
type Value struct {
	Kind   Kind
	Str    string
	Number float64
}

// Empty is the empty cell value.
var Empty = Value{}

// Text returns a text value. The empty string is the empty value.
func Text(s string) Value {
	if s == "" {
		return Empty
	}
	return Value{Kind: KindText, Str: s}
}

// Number returns a numeric value.
func Number(f float64) Value {
	return Value{Kind: KindNumber, Number: f}
}

// IsEmpty reports whether v holds nothing.
func (v Value) IsEmpty() bool { return v.Kind == KindEmpty }

// Float returns the numeric content of v. Text values that parse as a
// number are accepted. NaN and infinities are not numbers here.
func (v Value) Float() (float64, bool) {
	var f float64
	switch v.Kind {
	case KindNumber:
		f = v.Number
	case KindText:
		var err error
		if f, err = strconv.ParseFloat(v.Str, 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String renders v for display and for the clipboard.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return ""
}

// ColumnType controls how raw input is coerced into a Value.
type ColumnType string

const (
	TypeText   ColumnType = "text"
	TypeNumber ColumnType = "number"
	TypeDate   ColumnType = "date"
	TypeSelect ColumnType = "select"
)

// DateRole marks how a date column aggregates under a parent row.
type DateRole string

const (
	RoleNone  DateRole = ""
	RoleStart DateRole = "start" // parent shows the earliest child value
	RoleEnd   DateRole = "end"   // parent shows the latest child value
)

// DurationPair names the start and end columns a duration column spans.
type DurationPair struct {
	StartKey string `yaml:"start" json:"start"`
	EndKey   string `yaml:"end" json:"end"`
}

// Default column width bounds in pixels.
const (
	DefaultMinWidth = 40
	DefaultMaxWidth = 800
	DefaultWidth    = 120
)

// Column describes one column of the grid. Key is the stable identity; the
// position of a column may change but its key never does.
type Column struct {
	Key          string            `yaml:"key" json:"key"`
	Title        string            `yaml:"title" json:"title"`
	Width        int               `yaml:"width,omitempty" json:"width,omitempty"`
	Type         ColumnType        `yaml:"type,omitempty" json:"type,omitempty"`
	ReadOnly     bool              `yaml:"readonly,omitempty" json:"readonly,omitempty"`
	MinWidth     int               `yaml:"min_width,omitempty" json:"min_width,omitempty"`
	MaxWidth     int               `yaml:"max_width,omitempty" json:"max_width,omitempty"`
	IsTitle      bool              `yaml:"is_title,omitempty" json:"is_title,omitempty"`
	Summarizable bool              `yaml:"summarizable,omitempty" json:"summarizable,omitempty"`
	DateRole     DateRole          `yaml:"date_role,omitempty" json:"date_role,omitempty"`
	DurationOf   *DurationPair     `yaml:"duration_of,omitempty" json:"duration_of,omitempty"`
	Options      []string          `yaml:"options,omitempty" json:"options,omitempty"`
	Aliases      map[string]string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Default      string            `yaml:"default,omitempty" json:"default,omitempty"`
}

// Kind returns the column type, defaulting to text.
func (c Column) Kind() ColumnType {
	if c.Type == "" {
		return TypeText
	}
	return c.Type
}

// Bounds returns the effective minimum and maximum width.
func (c Column) Bounds() (min, max int) {
	min, max = c.MinWidth, c.MaxWidth
	if min <= 0 {
		min = DefaultMinWidth
	}
	if max <= 0 {
		max = DefaultMaxWidth
	}
	if max < min {
		max = min
	}
	return min, max
}

// ClampWidth clamps w into the column's width bounds.
func (c Column) ClampWidth(w int) int {
	min, max := c.Bounds()
	if w < min {
		return min
	}
	if w > max {
		return max
	}
	return w
}

// Fallback returns the value a select column takes when input matches no
// option, and the value a cleared select cell resets to.
func (c Column) Fallback() string {
	if c.Default != "" {
		return c.Default
	}
	if len(c.Options) > 0 {
		return c.Options[0]
	}
	return ""
}

// EmptyValue returns what a cleared cell in this column holds.
func (c Column) EmptyValue() Value {
	if c.Kind() == TypeSelect {
		return Text(c.Fallback())
	}
	return Empty
}

// IndexOf returns the position of the column with key, or -1.
func IndexOf(cols []Column, key string) int {
	for i, c := range cols {
		if c.Key == key {
			return i
		}
	}
	return -1
}

// CloneColumns returns a deep copy of cols.
func CloneColumns(cols []Column) []Column {
	out := make([]Column, len(cols))
	for i, c := range cols {
		out[i] = c
		if c.DurationOf != nil {
			pair := *c.DurationOf
			out[i].DurationOf = &pair
		}
		if c.Options != nil {
			out[i].Options = append([]string(nil), c.Options...)
		}
		if c.Aliases != nil {
			out[i].Aliases = make(map[string]string, len(c.Aliases))
			for k, v := range c.Aliases {
				out[i].Aliases[k] = v
			}
		}
	}
	return out
}
