package clip

import (
	"strings"
	"testing"
)

// FuzzParse feeds arbitrary clipboard text through Parse and Serialize.
// Run with: go test -fuzz=FuzzParse -fuzztime=30s ./pkg/clip/
func FuzzParse(f *testing.F) {
	f.Add("a\tb\nc\td")
	f.Add("a;b\r\nc;d\r\n")
	f.Add("a,b,c")
	f.Add("\xef\xbb\xbfx\ty")
	f.Add("")
	f.Add("\n\n\n")
	f.Add("\t;\t,\r")

	f.Fuzz(func(t *testing.T, text string) {
		m := Parse(text)
		out := Serialize(m)
		if strings.ContainsRune(out, '\r') {
			t.Fatalf("Serialize produced a carriage return: %q", out)
		}
		if again := Parse(out); len(again) > len(m) {
			t.Fatalf("re-parse grew from %d to %d rows", len(m), len(again))
		}
	})
}
