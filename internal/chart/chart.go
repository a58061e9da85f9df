package chart

import (
	"fmt"
	"strings"

	"crmdash/internal/stats"
	"crmdash/internal/table"
)

type Kind int

const (
	Bar Kind = iota
	HorizontalBar
)

type Point struct {
	Label   string
	Value   int
	Tooltip string
}

type Chart struct {
	Title  string
	Kind   Kind
	Total  int
	Points []Point
}

// Handle is a live rendering owned by a Sink.
type Handle interface {
	Dispose()
}

// Sink turns chart data into a rendering.
type Sink interface {
	Draw(c Chart) Handle
}

// Percent formats n as a share of total for tooltips.
func Percent(n, total int) string {
	if total == 0 {
		return "(0.0% of total)"
	}
	return fmt.Sprintf("(%.1f%% of total)", float64(n)/float64(total)*100)
}

func grouped(rows []table.Row, col, title string, kind Kind) Chart {
	c := Chart{
		Title: fmt.Sprintf("%s (Total: %d)", title, len(rows)),
		Kind:  kind,
		Total: len(rows),
	}
	for _, g := range stats.GroupCounts(rows, col, table.Unknown) {
		c.Points = append(c.Points, Point{Label: g.Key, Value: g.N, Tooltip: Percent(g.N, len(rows))})
	}
	return c
}

// Derive builds the location and preferred shift charts.
func Derive(rows []table.Row) []Chart {
	return []Chart{
		grouped(rows, table.ColLocation, "Applicants by Location", Bar),
		grouped(rows, table.ColShift, "Applicants by Preferred Shift", HorizontalBar),
	}
}

// Active reports whether charts are shown for tab.
func Active(tab string) bool { return strings.Contains(tab, "Home") }

// Engine keeps the current chart handles and replaces them on each render.
type Engine struct {
	sink    Sink
	handles []Handle
	last    []Chart
}

func NewEngine(sink Sink) *Engine { return &Engine{sink: sink} }

// Render redraws charts for tab. It returns false and leaves existing charts
// alone when the tab has no charts or there are no rows.
func (e *Engine) Render(tab string, rows []table.Row) bool {
	if !Active(tab) || len(rows) == 0 {
		return false
	}
	e.Dispose()
	e.last = Derive(rows)
	for _, c := range e.last {
		if h := e.sink.Draw(c); h != nil {
			e.handles = append(e.handles, h)
		}
	}
	return true
}

// Dispose releases every live chart.
func (e *Engine) Dispose() {
	for _, h := range e.handles {
		h.Dispose()
	}
	e.handles = nil
}

// Charts returns the data of the last render.
func (e *Engine) Charts() []Chart { return e.last }

func (e *Engine) Live() int { return len(e.handles) }
