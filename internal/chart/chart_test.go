package chart

import (
	"strings"
	"testing"

	"crmdash/internal/table"
)

type countingSink struct {
	drawn, disposed int
}

type countingHandle struct{ s *countingSink }

func (h countingHandle) Dispose() { h.s.disposed++ }

func (s *countingSink) Draw(Chart) Handle {
	s.drawn++
	return countingHandle{s}
}

func rows() []table.Row {
	return []table.Row{
		{"Location": "Pune", "Preferred Shift": "Day"},
		{"Location": " Pune ", "Preferred Shift": "Night"},
		{"Location": "Delhi"},
		{"Location": "  "},
	}
}

func TestDerive(t *testing.T) {
	cs := Derive(rows())
	if len(cs) != 2 {
		t.Fatalf("expected 2 charts, got %d", len(cs))
	}
	loc := cs[0]
	if loc.Kind != Bar || loc.Total != 4 {
		t.Fatalf("location chart = %+v", loc)
	}
	want := []Point{
		{"Pune", 2, "(50.0% of total)"},
		{"Delhi", 1, "(25.0% of total)"},
		{"Unknown", 1, "(25.0% of total)"},
	}
	if len(loc.Points) != len(want) {
		t.Fatalf("points = %+v", loc.Points)
	}
	for i := range want {
		if loc.Points[i] != want[i] {
			t.Fatalf("point %d = %+v, want %+v", i, loc.Points[i], want[i])
		}
	}
	shift := cs[1]
	if shift.Kind != HorizontalBar || shift.Points[2].Label != "Unknown" || shift.Points[2].Value != 2 {
		t.Fatalf("shift chart = %+v", shift)
	}
	if !strings.Contains(loc.Title, "Total: 4") {
		t.Fatalf("title = %q", loc.Title)
	}
}

func TestRenderDisposesPrevious(t *testing.T) {
	s := &countingSink{}
	e := NewEngine(s)
	if !e.Render("Home", rows()) {
		t.Fatalf("expected render on Home")
	}
	if !e.Render("Home", rows()) {
		t.Fatalf("expected second render")
	}
	if s.drawn != 4 || s.disposed != 2 || e.Live() != 2 {
		t.Fatalf("drawn=%d disposed=%d live=%d", s.drawn, s.disposed, e.Live())
	}
}

func TestRenderInactive(t *testing.T) {
	s := &countingSink{}
	e := NewEngine(s)
	if e.Render("Leads", rows()) {
		t.Fatalf("charts must not render outside Home")
	}
	if e.Render("Home", nil) {
		t.Fatalf("charts must not render with no rows")
	}
	if s.drawn != 0 {
		t.Fatalf("drawn = %d", s.drawn)
	}
	if !Active("My Home") {
		t.Fatalf("tab containing Home should be active")
	}
}

func TestTermSinkNoLeak(t *testing.T) {
	sink := NewTermSink()
	e := NewEngine(sink)
	for i := 0; i < 3; i++ {
		e.Render("Home", rows())
	}
	if sink.Live() != 2 {
		t.Fatalf("live renderings = %d", sink.Live())
	}
	v := sink.View()
	if !strings.Contains(v, "Applicants by Location") || !strings.Contains(v, "Applicants by Preferred Shift") {
		t.Fatalf("view missing titles:\n%s", v)
	}
	e.Dispose()
	if sink.Live() != 0 {
		t.Fatalf("dispose left %d renderings", sink.Live())
	}
}
