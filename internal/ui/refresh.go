package ui

import (
	"strconv"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/table"

	"crmdash/internal/view"
)

// chrome is the number of lines around the table: tabs, header, two rows of
// cards, table title, input line and status line.
const chrome = 14

// refresh re-reads the session and rebuilds the table, keeping the cursor.
func (m *Model) refresh() {
	m.st = m.sess.State()
	cur := m.tbl.Cursor()
	m.applyColumns(m.st.Grid.Header)
	rows := make([]table.Row, 0, len(m.st.Grid.Rows))
	m.rowIndex = m.rowIndex[:0]
	for _, gr := range m.st.Grid.Rows {
		row := make(table.Row, 0, len(gr.Cells)+2)
		row = append(row, strconv.Itoa(gr.SrNo))
		for _, c := range gr.Cells {
			row = append(row, c.Text)
		}
		row = append(row, actionsHint)
		rows = append(rows, row)
		m.rowIndex = append(m.rowIndex, gr.Index)
	}
	m.tbl.SetRows(rows)
	if n := len(rows); n == 0 {
		m.tbl.SetCursor(0)
	} else if cur >= n {
		m.tbl.SetCursor(n - 1)
	}
	if m.termWidth > 0 {
		m.sink.Width = max(20, m.termWidth-4)
	}
}

const actionsHint = "⏎ e x"

// selected returns the store index of the row under the cursor.
func (m *Model) selected() (int, bool) {
	cur := m.tbl.Cursor()
	if cur < 0 || cur >= len(m.rowIndex) {
		return -1, false
	}
	return m.rowIndex[cur], true
}

func (m *Model) applyColumns(header []string) {
	widths := m.computeWidths(header)
	cs := make([]table.Column, 0, len(header))
	for i, c := range header {
		cs = append(cs, table.Column{Title: c, Width: widths[i]})
	}
	// Rows must never be wider than the columns, so clear them first.
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cs)
	h := m.termHeight - chrome
	if h < 3 {
		h = 3
	}
	m.tbl.SetHeight(h)
	if m.termWidth > 0 {
		m.tbl.SetWidth(m.termWidth)
	}
}

// computeWidths sizes Sr. No. and Actions to fit and shares the rest of the
// terminal width between data columns, capped by their longest value.
func (m *Model) computeWidths(header []string) []int {
	widths := make([]int, len(header))
	if len(header) == 0 {
		return widths
	}
	tableW := m.termWidth
	if tableW <= 0 {
		tableW = 120
	}
	avail := tableW - len(header) // one padding cell per column
	longest := make([]int, len(header))
	for i, h := range header {
		longest[i] = utf8.RuneCountInString(h)
	}
	for _, gr := range m.st.Grid.Rows {
		for j, c := range gr.Cells {
			if n := utf8.RuneCountInString(c.Text); n > longest[j+1] {
				longest[j+1] = n
			}
		}
	}
	data := 0
	for i, h := range header {
		switch h {
		case view.ColSrNo:
			widths[i] = utf8.RuneCountInString(view.ColSrNo)
			avail -= widths[i]
		case view.ColActions:
			widths[i] = max(utf8.RuneCountInString(view.ColActions), utf8.RuneCountInString(actionsHint))
			avail -= widths[i]
		default:
			data++
		}
	}
	if data == 0 {
		return widths
	}
	per := avail / data
	if per < 6 {
		per = 6
	}
	spare := 0
	for i, h := range header {
		if h == view.ColSrNo || h == view.ColActions {
			continue
		}
		if longest[i] < per {
			widths[i] = longest[i]
			spare += per - longest[i]
		} else {
			widths[i] = per
		}
	}
	// Hand width unused by short columns to truncated ones, left to right.
	for i, h := range header {
		if spare <= 0 {
			break
		}
		if h == view.ColSrNo || h == view.ColActions || longest[i] <= widths[i] {
			continue
		}
		add := min(spare, longest[i]-widths[i])
		widths[i] += add
		spare -= add
	}
	return widths
}
