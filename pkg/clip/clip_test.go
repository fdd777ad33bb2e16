package clip

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [][]string
	}{
		{"empty", "", nil},
		{"tabs", "A\tB\nC\tD", [][]string{{"A", "B"}, {"C", "D"}}},
		{"trailing newline", "A\tB\n", [][]string{{"A", "B"}}},
		{"crlf", "A\tB\r\nC\tD\r\n", [][]string{{"A", "B"}, {"C", "D"}}},
		{"bare cr", "A\rB", [][]string{{"A"}, {"B"}}},
		{"semicolon", "x;y;z", [][]string{{"x", "y", "z"}}},
		{"comma", "1,2", [][]string{{"1", "2"}}},
		{"tab beats semicolon", "a;b\tc", [][]string{{"a;b", "c"}}},
		{"delimiter per line", "a\tb\nc;d\ne,f", [][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}}},
		{"single value", "hello", [][]string{{"hello"}}},
		{"inner blank line kept", "a\n\nb", [][]string{{"a"}, {""}, {"b"}}},
		{"bom", "\xef\xbb\xbfa\tb", [][]string{{"a", "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Parse(tt.in)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestSerialize(t *testing.T) {
	got := Serialize([][]string{{"A", "B"}, {"C", "D"}})
	if got != "A\tB\nC\tD" {
		t.Errorf("got %q", got)
	}

	got = Serialize([][]string{{"multi\nline", "tab\there"}})
	if got != "multi line\ttab here" {
		t.Errorf("embedded separators not flattened: %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	in := [][]string{{"Kickoff", "2025-11-03", "1"}, {"Build", "", "5"}}
	if diff := cmp.Diff(in, Parse(Serialize(in))); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMemory(t *testing.T) {
	var cb Clipboard = &Memory{}
	if err := cb.WriteAll("x\ty"); err != nil {
		t.Fatal(err)
	}
	got, err := cb.ReadAll()
	if err != nil || got != "x\ty" {
		t.Errorf("ReadAll = %q, %v", got, err)
	}
}
