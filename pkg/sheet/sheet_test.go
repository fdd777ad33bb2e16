package sheet

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var colours = Column{
	Key:     "colour",
	Type:    TypeSelect,
	Options: []string{"auto", "blå", "grønn", "gul", "rød", "lilla"},
	Aliases: map[string]string{"blue": "blå", "green": "grønn", "yellow": "gul", "red": "rød", "purple": "lilla"},
}

func TestCoerce(t *testing.T) {
	number := Column{Key: "n", Type: TypeNumber}
	date := Column{Key: "d", Type: TypeDate}
	text := Column{Key: "t"}

	tests := []struct {
		name string
		col  Column
		raw  string
		want Value
	}{
		{"number", number, "42", Number(42)},
		{"number with spaces", number, " 2.5 ", Number(2.5)},
		{"decimal comma", number, "2,5", Number(2.5)},
		{"not a number", number, "abc", Empty},
		{"infinity rejected", number, "Inf", Empty},
		{"iso date", date, "2025-11-06", Text("2025-11-06")},
		{"dotted date", date, "6.11.2025", Text("2025-11-06")},
		{"bad date", date, "6/11/2025", Empty},
		{"text verbatim", text, "  keep  ", Text("  keep  ")},
		{"empty text", text, "", Empty},
		{"select exact", colours, "Gul", Text("gul")},
		{"select alias", colours, "Blue", Text("blå")},
		{"select contains", colours, "dark green", Text("grønn")},
		{"select prefix", colours, "li", Text("lilla")},
		{"select fallback", colours, "magenta", Text("auto")},
		{"select empty", colours, "", Text("auto")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Coerce(tt.col, tt.raw); got != tt.want {
				t.Errorf("Coerce(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Empty, ""},
		{Text("x"), "x"},
		{Number(5), "5"},
		{Number(2.25), "2.25"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestValueFloat(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want float64
		ok   bool
	}{
		{"number", Number(2.5), 2.5, true},
		{"numeric text", Text("-4"), -4, true},
		{"plain text", Text("soon"), 0, false},
		{"empty", Empty, 0, false},
		{"text inf", Text("inf"), 0, false},
		{"text NaN", Text("NaN"), 0, false},
		{"number +Inf", Number(math.Inf(1)), 0, false},
		{"number -Inf", Number(math.Inf(-1)), 0, false},
		{"number NaN", Number(math.NaN()), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.Float()
			if got != tt.want || ok != tt.ok {
				t.Errorf("Float() = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestClampWidth(t *testing.T) {
	c := Column{Key: "a", MinWidth: 60, MaxWidth: 300}
	for in, want := range map[int]int{10: 60, 120: 120, 900: 300} {
		if got := c.ClampWidth(in); got != want {
			t.Errorf("ClampWidth(%d) = %d, want %d", in, got, want)
		}
	}
	d := Column{Key: "b"}
	if got := d.ClampWidth(1); got != DefaultMinWidth {
		t.Errorf("default min: got %d", got)
	}
	if got := d.ClampWidth(5000); got != DefaultMaxWidth {
		t.Errorf("default max: got %d", got)
	}
}

func TestNewRowTemplate(t *testing.T) {
	cols := []Column{{Key: "title"}, colours}
	r := NewRow("r1", cols)
	want := Row{ID: "r1", Cells: map[string]Value{"colour": Text("auto")}}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("template mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneRowsIsDeep(t *testing.T) {
	rows := []Row{{ID: "a", Cells: map[string]Value{"x": Text("1")}}}
	c := CloneRows(rows)
	rows[0].Cells["x"] = Text("2")
	rows[0].Indent = 3
	if c[0].Get("x") != Text("1") || c[0].Indent != 0 {
		t.Errorf("clone shares state with original: %#v", c[0])
	}
}

func TestRowSet(t *testing.T) {
	var r Row
	r.Set("a", Text("x"))
	if r.Get("a") != Text("x") {
		t.Fatalf("Set did not store value")
	}
	r.Set("a", Empty)
	if _, ok := r.Cells["a"]; ok {
		t.Errorf("setting empty should delete the key")
	}
	if !r.Get("missing").IsEmpty() {
		t.Errorf("missing key should read as empty")
	}
}
