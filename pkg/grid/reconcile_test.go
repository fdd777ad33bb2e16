package grid

import (
	"testing"

	"github.com/ha1tch/plangrid/pkg/sheet"
)

func dated(start, end string) sheet.Row {
	r := sheet.Row{ID: "r"}
	r.Set("start", sheet.Text(start))
	r.Set("end", sheet.Text(end))
	return r
}

func TestEndEditRecomputesDurationInCalendarDays(t *testing.T) {
	g := New(planColumns(), []sheet.Row{dated("2025-03-01", "2025-03-01")}, WithCalendar(nil))
	if !g.SetCell(0, colEnd, "2025-03-05") {
		t.Fatal("edit not committed")
	}
	if got := g.DisplayValue(0, colDays); got != "5" {
		t.Errorf("duration = %q, want 5", got)
	}
}

func TestDurationEdits(t *testing.T) {
	tests := []struct {
		name      string
		holidays  []string
		row       sheet.Row
		raw       string
		wantStart string
		wantEnd   string
		wantDays  string
	}{
		{
			name:      "end from start",
			row:       dated("2025-11-06", ""),
			raw:       "5",
			wantStart: "2025-11-06", wantEnd: "2025-11-12", wantDays: "5",
		},
		{
			name:      "end skips holiday",
			holidays:  []string{"2025-11-10"},
			row:       dated("2025-11-06", ""),
			raw:       "5",
			wantStart: "2025-11-06", wantEnd: "2025-11-13", wantDays: "5",
		},
		{
			name:      "start from end",
			row:       dated("", "2025-11-12"),
			raw:       "5",
			wantStart: "2025-11-06", wantEnd: "2025-11-12", wantDays: "5",
		},
		{
			name:      "start wins over end",
			row:       dated("2025-11-06", "2025-12-24"),
			raw:       "1",
			wantStart: "2025-11-06", wantEnd: "2025-11-06", wantDays: "1",
		},
		{
			name:     "no dates",
			row:      dated("", ""),
			raw:      "5",
			wantDays: "5",
		},
		{
			name:      "negative keeps raw",
			row:       dated("2025-11-06", "2025-11-07"),
			raw:       "-3",
			wantStart: "2025-11-06", wantEnd: "2025-11-07", wantDays: "-3",
		},
		{
			name:      "fraction keeps raw",
			row:       dated("2025-11-06", "2025-11-07"),
			raw:       "2,5",
			wantStart: "2025-11-06", wantEnd: "2025-11-07", wantDays: "2.5",
		},
		{
			name:      "text clears",
			row:       dated("2025-11-06", "2025-11-07"),
			raw:       "soon",
			wantStart: "2025-11-06", wantEnd: "2025-11-07", wantDays: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(planColumns(), []sheet.Row{tt.row}, WithNonWorkingDays(tt.holidays))
			g.SetCell(0, colDays, tt.raw)
			got := [3]string{g.DisplayValue(0, colStart), g.DisplayValue(0, colEnd), g.DisplayValue(0, colDays)}
			want := [3]string{tt.wantStart, tt.wantEnd, tt.wantDays}
			if got != want {
				t.Errorf("start/end/days = %q, want %q", got, want)
			}
		})
	}
}

func TestDateEditsRecomputeDuration(t *testing.T) {
	g := New(planColumns(), []sheet.Row{dated("2025-11-06", "")})
	g.SetCell(0, colEnd, "2025-11-12")
	if got := g.DisplayValue(0, colDays); got != "5" {
		t.Fatalf("duration = %q, want 5 working days", got)
	}
	g.SetCell(0, colStart, "garbage")
	if got := g.DisplayValue(0, colDays); got != "" {
		t.Errorf("duration with missing start = %q, want empty", got)
	}
	g.SetCell(0, colStart, "2025-11-15") // Saturday
	g.SetCell(0, colEnd, "2025-11-16")   // Sunday
	if got := g.DisplayValue(0, colDays); got != "0" {
		t.Errorf("weekend-only span = %q, want 0", got)
	}
}

func TestSetNonWorkingDaysRecalendars(t *testing.T) {
	endOnly := dated("", "2025-11-12")
	endOnly.Set("days", sheet.Number(5))
	rows := []sheet.Row{
		dated("2025-11-06", ""),
		endOnly,
		dated("2025-11-06", "2025-11-07"),
	}
	g := New(planColumns(), rows)
	g.SetCell(0, colDays, "5")
	undo, _ := g.HistoryLen()

	rec := &recorder{}
	g.onChange = rec.record
	g.SetNonWorkingDays([]string{"2025-11-10"})

	if got := g.DisplayValue(0, colEnd); got != "2025-11-13" {
		t.Errorf("row 0 end = %q, want 2025-11-13", got)
	}
	if got := g.DisplayValue(1, colStart); got != "2025-11-05" {
		t.Errorf("row 1 start = %q, want 2025-11-05", got)
	}
	// Row 2 has no duration and is left alone.
	if got := g.DisplayValue(2, colEnd); got != "2025-11-07" {
		t.Errorf("row 2 end = %q, want unchanged", got)
	}
	if u, _ := g.HistoryLen(); u != undo+1 {
		t.Errorf("recalendar pushed %d entries, want 1", u-undo)
	}
	if len(rec.changes) != 1 || rec.changes[0].Kind != ChangeRecalendar {
		t.Errorf("changes = %+v", rec.changes)
	}

	// Same calendar again: nothing moves, nothing is recorded.
	g.SetNonWorkingDays([]string{"2025-11-10"})
	if u, _ := g.HistoryLen(); u != undo+1 {
		t.Error("no-op recalendar pushed history")
	}
}

func TestCalendarDefaultsToWeekends(t *testing.T) {
	g := New(planColumns(), nil)
	if !g.Calendar().IncludesWeekends() {
		t.Error("default calendar should treat weekends as non-working")
	}
	g = New(planColumns(), nil, WithNonWorkingDays([]string{"2025-12-25", "not a date"}))
	if got := g.Calendar().Dates(); len(got) != 1 || got[0] != "2025-12-25" {
		t.Errorf("holidays = %v", got)
	}
}
