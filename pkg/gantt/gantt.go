// Package gantt lays a plan out on a day timeline and renders the result
// as SVG or PNG.
package gantt

import (
	"fmt"
	"strings"
	"time"

	"github.com/ha1tch/plangrid/pkg/calendar"
	"github.com/ha1tch/plangrid/pkg/rollup"
	"github.com/ha1tch/plangrid/pkg/sheet"
)

// DefaultColour fills bars whose colour cell is empty or "auto".
const DefaultColour = "#6aa9ff"

// parentColour fills summary bars of parent rows without an explicit colour.
const parentColour = "#555555"

// Named bar colours, keyed by the select options of the default plan and
// their English aliases.
var palette = map[string]string{
	"blå":    "#4e79a7",
	"blue":   "#4e79a7",
	"grønn":  "#59a14f",
	"green":  "#59a14f",
	"gul":    "#edc948",
	"yellow": "#edc948",
	"rød":    "#e15759",
	"red":    "#e15759",
	"lilla":  "#b07aa1",
	"purple": "#b07aa1",
}

// Bar is one plan row on the timeline.
type Bar struct {
	Label      string
	Indent     int
	Parent     bool
	Start, End time.Time // inclusive; zero when the row has no dates
	Colour     string    // #rrggbb
}

// Dated reports whether the bar has a place on the timeline.
func (b Bar) Dated() bool { return !b.Start.IsZero() }

// Chart is a plan projected onto consecutive days from From to To.
type Chart struct {
	From, To time.Time // inclusive; zero when no row is dated
	Bars     []Bar
	cal      *calendar.Set
}

// Month is a run of chart days in one calendar month.
type Month struct {
	Label string
	Start int // first day index
	Span  int // number of days
}

// Build projects rows onto a timeline. Parent rows use the rolled-up span
// of their children. A row with only one of its two dates gets a one-day
// bar. cal marks non-working days for shading and may be nil.
func Build(cols []sheet.Column, rows []sheet.Row, cal *calendar.Set) Chart {
	res := rollup.Compute(cols, rows)
	idx := rollup.BuildIndex(rows)
	startKey, endKey := rollup.DateKeys(cols)
	labelKey := titleKey(cols)
	fillKey := colourKey(cols)

	c := Chart{Bars: make([]Bar, len(rows)), cal: cal}
	for i, r := range rows {
		b := Bar{
			Label:  r.Get(labelKey).String(),
			Indent: r.Indent,
			Parent: idx.IsParent(i),
		}
		a, okA := dateOf(res, rows, i, startKey)
		z, okZ := dateOf(res, rows, i, endKey)
		switch {
		case okA && !okZ:
			z = a
		case okZ && !okA:
			a = z
		}
		if okA || okZ {
			if z.Before(a) {
				a, z = z, a
			}
			b.Start, b.End = a, z
			if c.From.IsZero() || a.Before(c.From) {
				c.From = a
			}
			if c.To.IsZero() || z.After(c.To) {
				c.To = z
			}
		}
		b.Colour = barColour(r.Get(fillKey).String(), b.Parent)
		c.Bars[i] = b
	}
	return c
}

func dateOf(res rollup.Result, rows []sheet.Row, i int, key string) (time.Time, bool) {
	if key == "" {
		return time.Time{}, false
	}
	v, ok := res.Value(i, key)
	if !ok {
		v = rows[i].Get(key)
	}
	return calendar.ParseISO(v.String())
}

func titleKey(cols []sheet.Column) string {
	for _, c := range cols {
		if c.IsTitle {
			return c.Key
		}
	}
	for _, c := range cols {
		if c.Kind() == sheet.TypeText {
			return c.Key
		}
	}
	if len(cols) > 0 {
		return cols[0].Key
	}
	return ""
}

func colourKey(cols []sheet.Column) string {
	for _, key := range []string{"colour", "color"} {
		if sheet.IndexOf(cols, key) >= 0 {
			return key
		}
	}
	return ""
}

func barColour(v string, parent bool) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if c, ok := palette[v]; ok {
		return c
	}
	if _, ok := parseHex(v); ok {
		return v
	}
	if parent {
		return parentColour
	}
	return DefaultColour
}

// Days returns the number of days on the timeline.
func (c Chart) Days() int {
	if c.From.IsZero() {
		return 0
	}
	return calendar.DaysBetweenInclusive(c.From, c.To)
}

// Offset returns the day index of t. It is negative before From.
func (c Chart) Offset(t time.Time) int {
	return int(calendar.Normalize(t).Sub(calendar.Normalize(c.From)) / (24 * time.Hour))
}

// Day returns the date of day index i.
func (c Chart) Day(i int) time.Time {
	return calendar.Normalize(c.From).AddDate(0, 0, i)
}

// NonWorking reports whether day index i is a weekend or holiday.
func (c Chart) NonWorking(i int) bool {
	return c.cal.IsNonWorkingDay(c.Day(i))
}

// Months splits the timeline into calendar months.
func (c Chart) Months() []Month {
	var out []Month
	for i, n := 0, c.Days(); i < n; i++ {
		d := c.Day(i)
		if len(out) == 0 || d.Day() == 1 {
			out = append(out, Month{Label: d.Format("Jan 2006"), Start: i})
		}
		out[len(out)-1].Span++
	}
	return out
}

// Options controls chart geometry shared by the SVG and PNG renderers.
type Options struct {
	DayWidth   int // pixels per day
	RowHeight  int // pixels per bar row and per header band
	LabelWidth int // left margin holding activity titles
	FontSize   int
	Title      string
	Today      time.Time // zero hides the today marker
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		DayWidth:   24,
		RowHeight:  22,
		LabelWidth: 220,
		FontSize:   12,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.DayWidth <= 0 {
		o.DayWidth = def.DayWidth
	}
	if o.RowHeight <= 0 {
		o.RowHeight = def.RowHeight
	}
	if o.LabelWidth <= 0 {
		o.LabelWidth = def.LabelWidth
	}
	if o.FontSize <= 0 {
		o.FontSize = def.FontSize
	}
	return o
}

// MaxDays is the longest timeline the renderers accept, about ten years.
const MaxDays = 3660

// maxPixels bounds the area of a rendered PNG before supersampling.
const maxPixels = 1 << 24

// frame is the pixel geometry of a chart.
type frame struct {
	opts          Options
	width, height int
	titleH        int
	top           int // y of the first bar row
	days          int
}

func newFrame(c Chart, opts Options) (frame, error) {
	opts = opts.withDefaults()
	f := frame{opts: opts, days: c.Days()}
	if f.days > MaxDays {
		return frame{}, fmt.Errorf("chart spans %d days, limit %d", f.days, MaxDays)
	}
	if opts.Title != "" {
		f.titleH = opts.FontSize * 2
	}
	f.top = f.titleH + 2*opts.RowHeight
	f.width = opts.LabelWidth + f.days*opts.DayWidth
	f.height = f.top + len(c.Bars)*opts.RowHeight
	return f, nil
}

func (f frame) dayX(i int) int { return f.opts.LabelWidth + i*f.opts.DayWidth }

func (f frame) rowY(i int) int { return f.top + i*f.opts.RowHeight }

// barRect returns the rectangle of bar i. Parent bars are drawn thinner.
func (f frame) barRect(c Chart, i int) (x, y, w, h int) {
	b := c.Bars[i]
	x = f.dayX(c.Offset(b.Start))
	w = (c.Offset(b.End) - c.Offset(b.Start) + 1) * f.opts.DayWidth
	pad := f.opts.RowHeight / 5
	if b.Parent {
		pad = f.opts.RowHeight / 3
	}
	y = f.rowY(i) + pad
	h = f.opts.RowHeight - 2*pad
	return x, y, w, h
}

// todayX returns the x of the today marker, centred in its day column.
func (f frame) todayX(c Chart) (int, bool) {
	if f.opts.Today.IsZero() || f.days == 0 {
		return 0, false
	}
	i := c.Offset(f.opts.Today)
	if i < 0 || i >= f.days {
		return 0, false
	}
	return f.dayX(i) + f.opts.DayWidth/2, true
}

// dayLabel returns the day-of-month caption for day i, or "" when narrow
// columns only label every fifth day.
func (f frame) dayLabel(c Chart, i int) string {
	d := c.Day(i)
	if f.opts.DayWidth < 16 && i%5 != 0 {
		return ""
	}
	return d.Format("2")
}

func (f frame) labelX(b Bar) int { return 8 + b.Indent*12 }
