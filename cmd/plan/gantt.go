package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ha1tch/plangrid/pkg/gantt"
)

func cmdGantt(args []string, w io.Writer) error {
	fs, verbose := newFlags("gantt", "<input> -o <output.svg|output.png> [options]")
	output := fs.StringP("output", "o", "", "output file; .svg or .png")
	title := fs.String("title", "", "chart title (default: plan name)")
	today := fs.String("today", "", "date of the today marker (default: current date)")
	noToday := fs.Bool("no-today", false, "omit the today marker")
	dayWidth := fs.Int("day-width", gantt.DefaultOptions().DayWidth, "pixels per day")
	labelWidth := fs.Int("label-width", gantt.DefaultOptions().LabelWidth, "pixels reserved for activity titles")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireArgs(fs, 1, 1); err != nil {
		return err
	}
	if *output == "" {
		fs.Usage()
		return errUsage
	}
	ext := strings.ToLower(filepath.Ext(*output))
	if ext != ".svg" && ext != ".png" {
		return fmt.Errorf("unsupported chart format %q (use .svg or .png)", ext)
	}

	opts := gantt.DefaultOptions()
	opts.DayWidth = *dayWidth
	opts.LabelWidth = *labelWidth
	switch {
	case *noToday:
	case *today != "":
		t, ok := parseDate(*today)
		if !ok {
			return fmt.Errorf("invalid date %q", *today)
		}
		opts.Today = t
	default:
		opts.Today = time.Now()
	}

	p, g, err := openGrid(fs.Arg(0), *verbose)
	if err != nil {
		return err
	}
	defer g.Close()

	opts.Title = *title
	if opts.Title == "" {
		opts.Title = p.Name
	}
	chart := gantt.Build(g.Columns(), g.Data(), g.Calendar())

	var buf bytes.Buffer
	if ext == ".png" {
		err = gantt.RenderPNG(chart, &buf, opts)
	} else {
		var svg string
		svg, err = gantt.RenderSVG(chart, opts)
		buf.WriteString(svg)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(*output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", *output, err)
	}
	fmt.Fprintf(w, "Written: %s (%d rows, %d days)\n", *output, len(chart.Bars), chart.Days())
	return nil
}
