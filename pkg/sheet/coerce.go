package sheet

import (
	"math"
	"strconv"
	"strings"

	"github.com/ha1tch/plangrid/pkg/calendar"
)

// Coerce converts raw text typed or pasted into a cell of col. Invalid input
// never fails: it normalizes to empty (numbers, dates) or to the column's
// fallback option (selects).
func Coerce(col Column, raw string) Value {
	switch col.Kind() {
	case TypeNumber:
		f, ok := ParseNumber(raw)
		if !ok {
			return Empty
		}
		return Number(f)
	case TypeDate:
		return Text(calendar.NormalizeDate(strings.TrimSpace(raw)))
	case TypeSelect:
		return Text(MatchOption(col, raw))
	default:
		return Text(raw)
	}
}

// ParseNumber parses a finite number. A comma is accepted as the decimal
// separator when the input has no period.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// MatchOption maps free text onto one of a select column's options: exact
// case-insensitive match first, then an alias, then the first option the
// input contains or starts. No match yields the fallback.
func MatchOption(col Column, raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	if t == "" {
		return col.Fallback()
	}
	for _, o := range col.Options {
		if strings.ToLower(o) == t {
			return o
		}
	}
	for alias, target := range col.Aliases {
		if strings.ToLower(alias) == t {
			return target
		}
	}
	for _, o := range col.Options {
		lo := strings.ToLower(o)
		if strings.Contains(t, lo) || strings.HasPrefix(lo, t) {
			return o
		}
	}
	// Aliases are checked by containment last, in a stable order.
	for _, o := range col.Options {
		for alias, target := range col.Aliases {
			if target == o && strings.Contains(t, strings.ToLower(alias)) {
				return o
			}
		}
	}
	return col.Fallback()
}
