// Package report renders dashboard data as console tables for the CLI.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"crmdash/internal/chart"
	"crmdash/internal/stats"
	"crmdash/internal/view"
)

// Formatter writes stat cards and lead grids.
type Formatter struct {
	EnableColors bool
	// Width overrides terminal detection when positive.
	Width int
}

func NewFormatter() *Formatter { return &Formatter{EnableColors: true} }

func (f *Formatter) newWriter(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false
	return tw
}

// Stats renders the visible cards of res, then its breakdowns.
func (f *Formatter) Stats(w io.Writer, tab string, res stats.Result) error {
	tw := f.newWriter(w)
	tw.SetTitle(tab + " Dashboard")
	tw.AppendHeader(table.Row{"Metric", "Value"})
	for _, s := range res.Slots() {
		if !s.Visible {
			continue
		}
		tw.AppendRow(table.Row{s.Label, f.color(s.Value, text.FgHiCyan)})
	}
	tw.Render()
	for _, b := range []struct {
		title  string
		counts []stats.Count
	}{
		{"Contacted", res.ContactedCounts},
		{"Sources", res.SourceCounts},
	} {
		if len(b.counts) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("failed writing spacer newline: %w", err)
		}
		bt := f.newWriter(w)
		bt.SetTitle(b.title)
		bt.AppendHeader(table.Row{"Value", "Applicants"})
		for _, c := range b.counts {
			bt.AppendRow(table.Row{c.Key, c.N})
		}
		bt.Render()
	}
	return nil
}

// Grid renders a table view, without the Actions column.
func (f *Formatter) Grid(w io.Writer, g view.Grid) error {
	tw := f.newWriter(w)
	cols := g.Columns()
	header := table.Row{view.ColSrNo}
	for _, c := range cols {
		header = append(header, c)
	}
	tw.AppendHeader(header)
	if width := f.width(w); width > 0 && len(cols) > 0 {
		per := (width - 8) / len(cols)
		per = max(per, 6)
		configs := make([]table.ColumnConfig, 0, len(cols))
		for i := range cols {
			configs = append(configs, table.ColumnConfig{Number: i + 2, WidthMax: per, Transformer: truncTransformer(per)})
		}
		tw.SetColumnConfigs(configs)
	}
	for _, r := range g.Rows {
		row := table.Row{strconv.Itoa(r.SrNo)}
		for _, c := range r.Cells {
			if c.Mailto {
				row = append(row, f.color(c.Text, text.Underline))
				continue
			}
			row = append(row, c.Text)
		}
		tw.AppendRow(row)
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d rows", len(g.Rows))})
	tw.Render()
	return nil
}

// Charts renders each chart as a table of counts with their share of total.
func (f *Formatter) Charts(w io.Writer, charts []chart.Chart) error {
	for i, c := range charts {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return fmt.Errorf("failed writing spacer newline: %w", err)
			}
		}
		tw := f.newWriter(w)
		tw.SetTitle(c.Title)
		tw.AppendHeader(table.Row{"Label", "Applicants", "Share"})
		for _, p := range c.Points {
			tw.AppendRow(table.Row{p.Label, p.Value, strings.Trim(p.Tooltip, "()")})
		}
		tw.Render()
	}
	return nil
}

func (f *Formatter) width(w io.Writer) int {
	if f.Width > 0 {
		return f.Width
	}
	if fd, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(fd.Fd())); err == nil {
			return width
		}
	}
	return -1
}

func (f *Formatter) color(s string, c text.Color) string {
	if !f.EnableColors {
		return s
	}
	return text.Colors{c}.Sprint(s)
}

func truncTransformer(max int) text.Transformer {
	return func(val interface{}) string {
		s := fmt.Sprint(val)
		if utf8.RuneCountInString(s) <= max {
			return s
		}
		if max <= 1 {
			return "…"
		}
		rs := []rune(s)
		return strings.TrimSpace(string(rs[:max-1])) + "…"
	}
}
