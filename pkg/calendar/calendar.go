// Package calendar provides working-day arithmetic over a set of
// non-working days (weekends plus holidays).
//
// All dates are normalized to the start of the day in UTC before they are
// compared or counted, so callers may pass times with any clock component.
package calendar

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// ISOLayout is the date layout used at every API boundary.
const ISOLayout = "2006-01-02"

const day = 24 * time.Hour

var (
	isoPattern    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dottedPattern = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
)

// Normalize returns t truncated to the start of its calendar day in UTC.
// The calendar date of t in its own location is preserved.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseISO parses a yyyy-mm-dd string. Dates that do not exist (such as
// 2025-02-30) are rejected.
func ParseISO(s string) (time.Time, bool) {
	m := isoPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	return makeDate(y, mo, d)
}

// FormatISO formats t as yyyy-mm-dd.
func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// NormalizeDate accepts yyyy-mm-dd or d.m.yyyy and returns the ISO form.
// Anything else yields "".
func NormalizeDate(s string) string {
	if t, ok := ParseISO(s); ok {
		return FormatISO(t)
	}
	m := dottedPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	d, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	y, _ := strconv.Atoi(m[3])
	t, ok := makeDate(y, mo, d)
	if !ok {
		return ""
	}
	return FormatISO(t)
}

func makeDate(y, mo, d int) (time.Time, bool) {
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	// time.Date rolls over out-of-range days; a rollover means the input
	// named a day that does not exist.
	if t.Day() != d || int(t.Month()) != mo {
		return time.Time{}, false
	}
	return t, true
}

// Set is a set of non-working days: optionally every Saturday and Sunday,
// plus a list of holidays. A nil *Set marks no day as non-working, so
// working-day counts degenerate to calendar-day counts.
type Set struct {
	weekends bool
	days     map[int64]struct{}
}

// Weekends returns a set in which only Saturdays and Sundays are
// non-working.
func Weekends() *Set {
	return &Set{weekends: true, days: make(map[int64]struct{})}
}

// NewSet builds a weekend set extended with ISO date strings. Entries that
// do not parse are skipped and reported in the returned slice.
func NewSet(dates []string) (*Set, []string) {
	s := &Set{weekends: true, days: make(map[int64]struct{}, len(dates))}
	var rejected []string
	for _, d := range dates {
		t, ok := ParseISO(d)
		if !ok {
			rejected = append(rejected, d)
			continue
		}
		s.Add(t)
	}
	return s, rejected
}

// Add marks a day as non-working.
func (s *Set) Add(t time.Time) {
	if s.days == nil {
		s.days = make(map[int64]struct{})
	}
	s.days[Normalize(t).Unix()] = struct{}{}
}

// IncludesWeekends reports whether Saturdays and Sundays are non-working.
func (s *Set) IncludesWeekends() bool {
	return s != nil && s.weekends
}

// Len returns the number of holidays in the set (weekends excluded).
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.days)
}

// Dates returns the holidays as sorted ISO strings.
func (s *Set) Dates() []string {
	if s == nil {
		return nil
	}
	keys := make([]int64, 0, len(s.days))
	for k := range s.days {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = FormatISO(time.Unix(k, 0).UTC())
	}
	return out
}

// IsNonWorkingDay reports whether t falls on a weekend or a holiday.
func (s *Set) IsNonWorkingDay(t time.Time) bool {
	if s == nil {
		return false
	}
	n := Normalize(t)
	if s.weekends {
		switch n.Weekday() {
		case time.Saturday, time.Sunday:
			return true
		}
	}
	_, ok := s.days[n.Unix()]
	return ok
}

// WorkingDaysBetween counts the working days in the inclusive span between
// a and b. The arguments may be given in either order.
func (s *Set) WorkingDaysBetween(a, b time.Time) int {
	a, b = Normalize(a), Normalize(b)
	if b.Before(a) {
		a, b = b, a
	}
	n := 0
	for d := a; !d.After(b); d = d.Add(day) {
		if !s.IsNonWorkingDay(d) {
			n++
		}
	}
	return n
}

// AddWorkingDays walks forward from start (inclusive) and returns the day
// on which the n-th working day is consumed. n <= 0 returns start.
func (s *Set) AddWorkingDays(start time.Time, n int) time.Time {
	return s.walk(start, n, day)
}

// SubtractWorkingDays is the backward counterpart of AddWorkingDays: end is
// the last day of the span and the returned day is its first.
func (s *Set) SubtractWorkingDays(end time.Time, n int) time.Time {
	return s.walk(end, n, -day)
}

func (s *Set) walk(from time.Time, n int, step time.Duration) time.Time {
	d := Normalize(from)
	if n <= 0 {
		return d
	}
	// A holiday list covering every day would never terminate.
	const horizon = 366 * 50
	for i := 0; i < horizon; i++ {
		if !s.IsNonWorkingDay(d) {
			n--
			if n == 0 {
				return d
			}
		}
		d = d.Add(step)
	}
	return d
}

// DaysBetweenInclusive counts calendar days in the inclusive span.
func DaysBetweenInclusive(a, b time.Time) int {
	a, b = Normalize(a), Normalize(b)
	if b.Before(a) {
		a, b = b, a
	}
	return int(b.Sub(a)/day) + 1
}

// String implements fmt.Stringer.
func (s *Set) String() string {
	return fmt.Sprintf("calendar.Set(%d holidays)", s.Len())
}
