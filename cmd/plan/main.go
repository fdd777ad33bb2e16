// Command plan is a CLI tool for working with plan documents.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/plangrid/pkg/calendar"
	"github.com/ha1tch/plangrid/pkg/clip"
	"github.com/ha1tch/plangrid/pkg/planfile"
)

const usage = `plan - project plan toolkit

Usage:
  plan <command> [options]

Commands:
  new        Create an empty plan with the default columns
  convert    Convert between formats (yaml, json, jsonc)
  info       Show plan information and summary
  recalc     Re-derive dates from durations under the plan calendar
  tsv        Print the plan as tab-separated text, rollups included
  import     Paste tab-, semicolon- or comma-separated text into a plan
  workdays   Working-day arithmetic on the command line
  holidays   Print public holidays as holiday periods
  gantt      Render the plan as a Gantt chart (SVG or PNG)

Examples:
  plan new roadmap.yaml
  plan convert roadmap.yaml -o roadmap.json
  plan info roadmap.yaml
  plan recalc roadmap.yaml --norway 2025
  plan tsv roadmap.yaml | pbcopy
  plan import roadmap.yaml tasks.csv
  plan workdays 2025-11-06 2025-11-12
  plan workdays 2025-11-06 --add 5
  plan holidays 2026
  plan gantt roadmap.yaml -o roadmap.svg

Use "plan <command> -h" for more information about a command.
`

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "new":
		err = cmdNew(args)
	case "convert":
		err = cmdConvert(args)
	case "info":
		err = cmdInfo(args)
	case "recalc":
		err = cmdRecalc(args)
	case "tsv":
		err = cmdTSV(args)
	case "import":
		err = cmdImport(args)
	case "workdays":
		err = cmdWorkdays(args, os.Stdout)
	case "holidays":
		err = cmdHolidays(args, os.Stdout)
	case "gantt":
		err = cmdGantt(args, os.Stdout)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// newFlags returns a flag set for a subcommand with the shared --verbose
// flag.
func newFlags(name, synopsis string) (*pflag.FlagSet, *bool) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: plan %s %s\n\nFlags:\n", name, synopsis)
		fs.PrintDefaults()
	}
	verbose := fs.BoolP("verbose", "v", false, "log engine decisions to stderr")
	return fs, verbose
}

func logger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// requireArgs checks the positional argument count after parsing.
func requireArgs(fs *pflag.FlagSet, min, max int) error {
	n := fs.NArg()
	if n < min || (max >= 0 && n > max) {
		fs.Usage()
		return errUsage
	}
	return nil
}

func cmdNew(args []string) error {
	fs, _ := newFlags("new", "<output> [--name name]")
	name := fs.String("name", "", "plan name (default: file name)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireArgs(fs, 1, 1); err != nil {
		return err
	}
	output := fs.Arg(0)
	if _, err := os.Stat(output); err == nil {
		return fmt.Errorf("%s already exists", output)
	}
	if *name == "" {
		*name = planfile.NameFromPath(output)
	}
	if err := planfile.WriteFile(output, planfile.New(*name)); err != nil {
		return err
	}
	fmt.Printf("Written: %s\n", output)
	return nil
}

func cmdConvert(args []string) error {
	fs, _ := newFlags("convert", "<input> -o <output>")
	output := fs.StringP("output", "o", "", "output file; the extension selects the format")
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
	p, err := planfile.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	if err := planfile.WriteFile(*output, p); err != nil {
		return err
	}
	fmt.Printf("Written: %s\n", *output)
	return nil
}

func cmdInfo(args []string) error {
	fs, verbose := newFlags("info", "<input>")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireArgs(fs, 1, 1); err != nil {
		return err
	}
	p, g, err := openGrid(fs.Arg(0), *verbose)
	if err != nil {
		return err
	}
	defer g.Close()

	sum := g.Summary()
	fmt.Printf("Name:        %s\n", p.Name)
	if p.Description != "" {
		fmt.Printf("Description: %s\n", p.Description)
	}
	fmt.Printf("Columns:     %d\n", len(p.Columns))
	fmt.Printf("Rows:        %d\n", sum.Count)
	fmt.Printf("Dated:       %d\n", sum.WithDates)
	if sum.MissingDates > 0 {
		fmt.Printf("Undated:     %d\n", sum.MissingDates)
	}
	if sum.SpanDays > 0 {
		fmt.Printf("Span:        %s → %s (%d days)\n", sum.First, sum.Last, sum.SpanDays)
	}
	fmt.Printf("Holidays:    %d\n", g.Calendar().Len())
	return nil
}

func cmdRecalc(args []string) error {
	fs, verbose := newFlags("recalc", "<input> [-o output] [--norway year]...")
	output := fs.StringP("output", "o", "", "output file (default: overwrite input)")
	norway := fs.IntSlice("norway", nil, "add Norwegian public holidays for these years to the plan")
	holidays := fs.StringSlice("holiday", nil, "add a non-working day (yyyy-mm-dd) to the plan")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireArgs(fs, 1, 1); err != nil {
		return err
	}
	input := fs.Arg(0)
	p, g, err := openGrid(input, *verbose)
	if err != nil {
		return err
	}
	defer g.Close()

	for _, y := range *norway {
		p.Periods = append(p.Periods, calendar.Norwegian(y)...)
	}
	p.Holidays = append(p.Holidays, *holidays...)
	before, _ := g.HistoryLen()
	g.SetNonWorkingDays(p.NonWorkingDays())
	after, _ := g.HistoryLen()

	p.Rows = g.Data()
	if *output == "" {
		*output = input
	}
	if err := planfile.WriteFile(*output, p); err != nil {
		return err
	}
	if after == before {
		fmt.Printf("%s: no dates changed\n", *output)
		return nil
	}
	fmt.Printf("Written: %s\n", *output)
	return nil
}

func cmdTSV(args []string) error {
	fs, verbose := newFlags("tsv", "<input> [--header] [--copy]")
	header := fs.Bool("header", false, "print the column titles first")
	toClipboard := fs.Bool("copy", false, "write to the system clipboard instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireArgs(fs, 1, 1); err != nil {
		return err
	}
	p, g, err := openGrid(fs.Arg(0), *verbose)
	if err != nil {
		return err
	}
	defer g.Close()

	var text string
	if g.Len() > 0 {
		g.Select(0, 0)
		g.ExtendSelection(g.Len()-1, len(p.Columns)-1)
		text = g.CopyText()
	}
	if *header {
		titles := make([]string, len(p.Columns))
		for i, c := range p.Columns {
			titles[i] = c.Title
		}
		head := clip.Serialize([][]string{titles})
		if text != "" {
			text = head + "\n" + text
		} else {
			text = head
		}
	}
	if *toClipboard {
		if clip.Unsupported() {
			return errors.New("no system clipboard available")
		}
		return clip.System().WriteAll(text)
	}
	fmt.Println(text)
	return nil
}

func cmdImport(args []string) error {
	fs, verbose := newFlags("import", "<plan> [file|-] [--at row] [--col key]")
	at := fs.Int("at", -1, "first row to overwrite (default: append)")
	colKey := fs.String("col", "", "key of the first column to fill (default: first column)")
	fromClipboard := fs.Bool("paste", false, "read from the system clipboard")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireArgs(fs, 1, 2); err != nil {
		return err
	}
	target := fs.Arg(0)

	var text string
	switch {
	case *fromClipboard:
		s, err := clip.System().ReadAll()
		if err != nil {
			return fmt.Errorf("reading clipboard: %w", err)
		}
		text = s
	case fs.NArg() == 2 && fs.Arg(1) != "-":
		data, err := os.ReadFile(fs.Arg(1))
		if err != nil {
			return fmt.Errorf("reading %s: %w", fs.Arg(1), err)
		}
		text = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	p, g, err := openGrid(target, *verbose)
	if err != nil {
		return err
	}
	defer g.Close()

	col := 0
	if *colKey != "" {
		col = -1
		for i, c := range p.Columns {
			if c.Key == *colKey {
				col = i
			}
		}
		if col < 0 {
			return fmt.Errorf("no column with key %q", *colKey)
		}
	}
	row := *at
	if row < 0 || row > g.Len() {
		row = g.Len()
	}
	before := len(g.Data())
	if !g.PasteAt(text, row, col) {
		fmt.Printf("%s: nothing to import\n", target)
		return nil
	}
	p.Rows = g.Data()
	if err := planfile.WriteFile(target, p); err != nil {
		return err
	}
	fmt.Printf("Written: %s (%d rows added)\n", target, len(p.Rows)-before)
	return nil
}

func cmdWorkdays(args []string, w io.Writer) error {
	fs, _ := newFlags("workdays", "<date> [<date>] [--add n | --sub n] [--holiday date]... [--norway]")
	add := fs.Int("add", 0, "print the day on which n working days starting at <date> end")
	sub := fs.Int("sub", 0, "print the day on which n working days ending at <date> start")
	holidays := fs.StringSlice("holiday", nil, "additional non-working day (yyyy-mm-dd)")
	norway := fs.Bool("norway", false, "treat Norwegian public holidays as non-working")
	calendarDays := fs.Bool("calendar-days", false, "count every day, weekends included")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireArgs(fs, 1, 2); err != nil {
		return err
	}

	first, ok := parseDate(fs.Arg(0))
	if !ok {
		return fmt.Errorf("invalid date %q", fs.Arg(0))
	}
	days := append([]string(nil), *holidays...)
	if *norway {
		for y := first.Year() - 1; y <= first.Year()+1; y++ {
			days = append(days, calendar.ExpandPeriods(calendar.Norwegian(y))...)
		}
	}
	cal, rejected := calendar.NewSet(days)
	if len(rejected) > 0 {
		return fmt.Errorf("invalid holiday %q", rejected[0])
	}
	if *calendarDays {
		cal = nil
	}

	switch {
	case fs.NArg() == 2:
		second, ok := parseDate(fs.Arg(1))
		if !ok {
			return fmt.Errorf("invalid date %q", fs.Arg(1))
		}
		fmt.Fprintln(w, strconv.Itoa(cal.WorkingDaysBetween(first, second)))
	case *add > 0:
		fmt.Fprintln(w, calendar.FormatISO(cal.AddWorkingDays(first, *add)))
	case *sub > 0:
		fmt.Fprintln(w, calendar.FormatISO(cal.SubtractWorkingDays(first, *sub)))
	default:
		if cal.IsNonWorkingDay(first) {
			fmt.Fprintf(w, "%s is a non-working day\n", calendar.FormatISO(first))
		} else {
			fmt.Fprintf(w, "%s is a working day\n", calendar.FormatISO(first))
		}
	}
	return nil
}

func cmdHolidays(args []string, w io.Writer) error {
	fs, _ := newFlags("holidays", "<year> [--country no] [--dates]")
	country := fs.String("country", "no", "holiday calendar (only \"no\" is built in)")
	dates := fs.Bool("dates", false, "print plain ISO dates instead of YAML periods")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireArgs(fs, 1, 1); err != nil {
		return err
	}
	year, err := strconv.Atoi(fs.Arg(0))
	if err != nil || year < 1583 {
		return fmt.Errorf("invalid year %q", fs.Arg(0))
	}
	if *country != "no" {
		return fmt.Errorf("unknown holiday calendar %q", *country)
	}

	periods := calendar.Norwegian(year)
	if *dates {
		for _, d := range calendar.ExpandPeriods(periods) {
			fmt.Fprintln(w, d)
		}
		return nil
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"periods": periods}); err != nil {
		return err
	}
	return enc.Close()
}
