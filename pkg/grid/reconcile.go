package grid

import (
	"math"

	"github.com/ha1tch/plangrid/pkg/calendar"
	"github.com/ha1tch/plangrid/pkg/sheet"
)

// reconcile keeps start, end and duration consistent after key was written
// in row. Every duration column whose pair involves key is updated:
//
//   - a start or end edit recomputes the duration, or clears it when
//     either date is missing;
//   - a duration edit with a positive whole number moves the end (when a
//     start exists) or the start (when only an end exists).
//
// Any other duration leaves the dates alone and keeps the typed value.
func reconcile(cal *calendar.Set, cols []sheet.Column, row *sheet.Row, key string) {
	for _, c := range cols {
		pair := c.DurationOf
		if pair == nil {
			continue
		}
		switch key {
		case pair.StartKey, pair.EndKey:
			a, okA := calendar.ParseISO(row.Get(pair.StartKey).String())
			b, okB := calendar.ParseISO(row.Get(pair.EndKey).String())
			if okA && okB {
				row.Set(c.Key, sheet.Number(float64(cal.WorkingDaysBetween(a, b))))
			} else {
				row.Set(c.Key, sheet.Empty)
			}
		case c.Key:
			applyDuration(cal, row, c)
		}
	}
}

// applyDuration derives the missing end of the span from a duration
// column. It reports whether a date was written.
func applyDuration(cal *calendar.Set, row *sheet.Row, c sheet.Column) bool {
	n, ok := wholeDays(row.Get(c.Key))
	if !ok {
		return false
	}
	pair := c.DurationOf
	if start, ok := calendar.ParseISO(row.Get(pair.StartKey).String()); ok {
		row.Set(pair.EndKey, sheet.Text(calendar.FormatISO(cal.AddWorkingDays(start, n))))
		return true
	}
	if end, ok := calendar.ParseISO(row.Get(pair.EndKey).String()); ok {
		row.Set(pair.StartKey, sheet.Text(calendar.FormatISO(cal.SubtractWorkingDays(end, n))))
		return true
	}
	return false
}

// wholeDays accepts a finite, positive, integral duration.
func wholeDays(v sheet.Value) (int, bool) {
	f, ok := v.Float()
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f < 1 || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// recalendar re-applies every positive duration to its dates after the
// calendar changed. Rows without such a duration are untouched.
func recalendar(cal *calendar.Set, cols []sheet.Column, rows []sheet.Row) {
	for i := range rows {
		for _, c := range cols {
			if c.DurationOf != nil {
				applyDuration(cal, &rows[i], c)
			}
		}
	}
}

// SetNonWorkingDays replaces the calendar with weekends plus dates and
// re-applies durations to dates on every row. The result is a single
// undoable change when any date moved.
func (g *Grid) SetNonWorkingDays(dates []string) {
	set, rejected := calendar.NewSet(dates)
	for _, d := range rejected {
		g.log.Warn("ignoring non-working day", "date", d)
	}
	g.SetCalendar(set)
}

// SetCalendar replaces the calendar. A nil calendar counts every day.
func (g *Grid) SetCalendar(cal *calendar.Set) {
	g.commitEdit()
	g.cal = cal
	next := sheet.CloneRows(g.rows)
	recalendar(cal, g.cols, next)
	if rowsEqual(g.rows, next) {
		return
	}
	g.log.Debug("recalendared rows", "calendar", cal.String())
	g.commit(next, Change{Kind: ChangeRecalendar})
}
