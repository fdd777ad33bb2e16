package calendar

import (
	"fmt"
	"time"
)

// HolidayPeriod is a named, inclusive range of non-working days. A single
// holiday has Start == End.
type HolidayPeriod struct {
	ID    string `yaml:"id,omitempty" json:"id,omitempty"`
	Name  string `yaml:"name" json:"name"`
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

// Days expands the period into ISO dates. A missing Start or End takes the
// other's value; reversed ranges are swapped. Invalid periods yield nil.
func (p HolidayPeriod) Days() []string {
	start, end := p.Start, p.End
	if start == "" {
		start = end
	}
	if end == "" {
		end = start
	}
	a, ok := ParseISO(start)
	if !ok {
		return nil
	}
	b, ok := ParseISO(end)
	if !ok {
		return nil
	}
	if b.Before(a) {
		a, b = b, a
	}
	var out []string
	for d := a; !d.After(b); d = d.Add(day) {
		out = append(out, FormatISO(d))
	}
	return out
}

// ExpandPeriods flattens holiday periods into a list of ISO dates, suitable
// for NewSet.
func ExpandPeriods(periods []HolidayPeriod) []string {
	var out []string
	for _, p := range periods {
		out = append(out, p.Days()...)
	}
	return out
}

// EasterSunday returns Western Easter Sunday for year (Anonymous Gregorian
// algorithm).
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	dayOfMonth := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
}

// Norwegian returns the Norwegian public holidays for year.
func Norwegian(year int) []HolidayPeriod {
	easter := EasterSunday(year)
	var out []HolidayPeriod
	push := func(name string, t time.Time) {
		iso := FormatISO(t)
		out = append(out, HolidayPeriod{
			ID:    fmt.Sprintf("%s-%s", name, iso),
			Name:  name,
			Start: iso,
			End:   iso,
		})
	}
	fixed := func(m time.Month, d int) time.Time {
		return time.Date(year, m, d, 0, 0, 0, 0, time.UTC)
	}

	push("Nyttårsdag", fixed(time.January, 1))
	push("Arbeidernes dag", fixed(time.May, 1))
	push("Grunnlovsdagen", fixed(time.May, 17))
	push("1. juledag", fixed(time.December, 25))
	push("2. juledag", fixed(time.December, 26))

	push("Skjærtorsdag", easter.AddDate(0, 0, -3))
	push("Langfredag", easter.AddDate(0, 0, -2))
	push("1. påskedag", easter)
	push("2. påskedag", easter.AddDate(0, 0, 1))
	push("Kristi himmelfartsdag", easter.AddDate(0, 0, 39))
	push("1. pinsedag", easter.AddDate(0, 0, 49))
	push("2. pinsedag", easter.AddDate(0, 0, 50))
	return out
}
