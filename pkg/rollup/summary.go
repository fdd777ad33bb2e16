package rollup

import (
	"time"

	"github.com/ha1tch/plangrid/pkg/calendar"
	"github.com/ha1tch/plangrid/pkg/sheet"
)

// Summary is the one-line overview of a plan shown under the grid.
type Summary struct {
	Count        int // all rows
	WithDates    int // rows with a valid start and end date
	MissingDates int
	SpanDays     int // inclusive calendar days from earliest start to latest end
	First, Last  string
}

// Summarize counts rows and measures the overall timeline. The first start-
// and end-role date columns define a row's dates; without them the first
// two date columns are used.
func Summarize(cols []sheet.Column, rows []sheet.Row) Summary {
	startKey, endKey := DateKeys(cols)
	s := Summary{Count: len(rows)}
	var lo, hi time.Time
	for _, r := range rows {
		a, okA := calendar.ParseISO(r.Get(startKey).String())
		b, okB := calendar.ParseISO(r.Get(endKey).String())
		if !okA || !okB {
			continue
		}
		s.WithDates++
		if b.Before(a) {
			a, b = b, a
		}
		if lo.IsZero() || a.Before(lo) {
			lo = a
		}
		if hi.IsZero() || b.After(hi) {
			hi = b
		}
	}
	s.MissingDates = s.Count - s.WithDates
	if s.WithDates > 0 {
		s.SpanDays = calendar.DaysBetweenInclusive(lo, hi)
		s.First, s.Last = calendar.FormatISO(lo), calendar.FormatISO(hi)
	}
	return s
}

// DateKeys returns the keys of the columns that hold a row's start and end
// dates. Either is empty when the columns do not provide one.
func DateKeys(cols []sheet.Column) (start, end string) {
	var dates []string
	for _, c := range cols {
		if c.Kind() != sheet.TypeDate {
			continue
		}
		dates = append(dates, c.Key)
		switch c.DateRole {
		case sheet.RoleStart:
			if start == "" {
				start = c.Key
			}
		case sheet.RoleEnd:
			if end == "" {
				end = c.Key
			}
		}
	}
	if start == "" && len(dates) > 0 {
		start = dates[0]
	}
	if end == "" && len(dates) > 1 {
		end = dates[1]
	}
	return start, end
}
