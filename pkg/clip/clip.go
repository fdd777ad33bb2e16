// Package clip converts between clipboard text and cell matrices.
//
// Pasted text may come from spreadsheets (tab separated), from European
// CSV exports (semicolon separated) or from plain CSV (comma separated).
// Quoted fields are not supported: each line is split on a single
// delimiter character, so values containing the delimiter do not survive a
// round trip.
package clip

import (
	"strings"
)

// Parse splits clipboard text into a matrix of strings. Line endings are
// normalized to "\n" and the empty split artifact after a final newline
// is dropped. The delimiter is chosen per line: tab if present, else
// semicolon, else comma.
func Parse(text string) [][]string {
	text = strings.TrimPrefix(text, "\xef\xbb\xbf")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	out := make([][]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, strings.Split(line, string(Delimiter(line))))
	}
	return out
}

// Delimiter returns the separator Parse uses for line.
func Delimiter(line string) rune {
	switch {
	case strings.ContainsRune(line, '\t'):
		return '\t'
	case strings.ContainsRune(line, ';'):
		return ';'
	default:
		return ','
	}
}

var flatten = strings.NewReplacer("\r\n", " ", "\t", " ", "\n", " ", "\r", " ")

// Serialize renders a matrix as tab-separated text, one row per line.
// Tabs and line breaks inside values become single spaces so the result
// stays rectangular.
func Serialize(rows [][]string) string {
	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j, v := range row {
			if j > 0 {
				sb.WriteByte('\t')
			}
			sb.WriteString(flatten.Replace(v))
		}
	}
	return sb.String()
}
