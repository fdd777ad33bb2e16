package main

import (
	"time"

	"github.com/ha1tch/plangrid/pkg/calendar"
	"github.com/ha1tch/plangrid/pkg/grid"
	"github.com/ha1tch/plangrid/pkg/planfile"
)

// openGrid loads the plan at path into a grid running under the plan's
// calendar.
func openGrid(path string, verbose bool) (*planfile.Plan, *grid.Grid, error) {
	p, err := planfile.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	log := logger(verbose)
	cal, rejected := p.Calendar()
	for _, d := range rejected {
		log.Warn("ignoring non-working day", "plan", path, "date", d)
	}
	g := grid.New(p.Columns, p.Rows,
		grid.WithCalendar(cal),
		grid.WithLogger(log),
	)
	return p, g, nil
}

// parseDate accepts yyyy-mm-dd and d.m.yyyy.
func parseDate(s string) (time.Time, bool) {
	return calendar.ParseISO(calendar.NormalizeDate(s))
}
