package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"crmdash/internal/filter"
	"crmdash/internal/stats"
	"crmdash/internal/table"
	"crmdash/internal/util/logx"
	"crmdash/internal/view"
)

// statusOptions are the status dropdown entries, matched against row text.
var statusOptions = []string{filter.AllStatus, table.PlacedValue, "Yes", "No"}

func overlay(base, overlay string) string {
	bLines := strings.Split(base, "\n")
	oLines := strings.Split(overlay, "\n")
	maxLen := max(len(bLines), len(oLines))
	for len(bLines) < maxLen {
		bLines = append(bLines, "")
	}
	for len(oLines) < maxLen {
		oLines = append(oLines, "")
	}
	out := make([]string, maxLen)
	for i := 0; i < maxLen; i++ {
		// Whitespace-only overlay lines are transparent
		if strings.TrimSpace(oLines[i]) != "" {
			out[i] = oLines[i]
		} else {
			out[i] = bLines[i]
		}
	}
	return strings.Join(out, "\n")
}

func (m *Model) buildHelpItems() []helpItem {
	km := m.keymap
	return []helpItem{
		{group: "Navigation", text: "Next tab", key: km.NextTab},
		{group: "Navigation", text: "Previous tab", key: km.PrevTab},
		{group: "Navigation", text: "Go to top", key: km.Top},
		{group: "Navigation", text: "Go to bottom", key: km.Bottom},

		{group: "Filter", text: "Search", key: km.Search},
		{group: "Filter", text: "Status", key: km.Status},
		{group: "Filter", text: "Job domain", key: km.Domain},
		{group: "Filter", text: "Expression filter", key: km.Expr},
		{group: "Filter", text: "Contacted breakdown", key: km.Contacted},
		{group: "Filter", text: "Source breakdown", key: km.Sources},
		{group: "Filter", text: "Clear filters", key: km.ClearFilter},

		{group: "Row", text: "View", key: km.ViewRow},
		{group: "Row", text: "Edit", key: km.EditRow},
		{group: "Row", text: "Delete", key: km.DeleteRow},

		{group: "Data", text: "Import CSV or Excel", key: km.Import},
		{group: "Data", text: "Sort by column", key: km.Sort},
		{group: "Data", text: "Refresh from backend", key: km.Refresh},
		{group: "Data", text: "Export visible rows", key: km.Export},

		{group: "Control", text: "Application logs", key: km.AppLogs},
		{group: "Control", text: "Help", key: km.Help},
		{group: "Control", text: "Quit", key: km.Quit},
	}
}

func (m *Model) openHelpModal() {
	m.modalActive = true
	m.modalKind = modalHelp
	m.modalTitle = "Help"
	m.helpItems = m.buildHelpItems()
	m.helpSel = 0
	m.modalBody = m.renderHelp()
	m.resizeModal()
}

func (m *Model) openRowModal(r table.Row) {
	m.modalActive = true
	m.modalKind = modalRow
	m.modalTitle = "Viewing: " + table.ValueOr(r, table.ColName, "Record")
	body := colorizeRow(r, m.st.Schema, m.styles)
	if email := view.RenderCell(r[table.ColEmail]); email.Mailto {
		body += "\n\n" + m.styles.TableStyles.Mailto.Render(email.Href())
	}
	m.modalBody = body
	m.resizeModal()
}

func (m *Model) openConfirmModal(prompt string) {
	m.modalActive = true
	m.modalKind = modalConfirm
	m.modalTitle = "Confirm delete"
	m.modalBody = prompt
	m.resizeModal()
}

func (m *Model) openAppLogsModal() {
	m.modalActive = true
	m.modalKind = modalLogs
	m.modalTitle = "Application Logs"
	m.modalBody = logx.Dump()
	m.resizeModal()
	m.modalVP.GotoBottom()
}

// openPicker shows a dropdown for kind built from the current table.
func (m *Model) openPicker(kind pickerKind) {
	rows, schema := m.sess.Store().Get()
	crit := m.sess.Filter().Criteria()
	var items []pickItem
	current := ""
	switch kind {
	case pickStatus:
		m.modalTitle = "Status"
		for _, s := range statusOptions {
			items = append(items, pickItem{label: s, value: s})
		}
		current = crit.Status
	case pickDomain:
		m.modalTitle = "Preferred Job Domain"
		for _, d := range view.DomainOptions(rows) {
			items = append(items, pickItem{label: d, value: d})
		}
		current = crit.Domain
	case pickSource:
		m.modalTitle = "Sources"
		items = append(items, pickItem{label: "all sources"})
		for _, c := range stats.GroupCounts(rows, table.ColSource, table.Unknown) {
			items = append(items, pickItem{label: c.Key, value: c.Key, count: c.N})
		}
		current = crit.Source
	case pickContacted:
		m.modalTitle = "Contacted"
		items = append(items, pickItem{label: "all"})
		for _, c := range stats.Compute(rows, stats.TabContacted).ContactedCounts {
			items = append(items, pickItem{label: c.Key, value: c.Key, count: c.N})
		}
		current = crit.Contacted
	case pickSort:
		m.modalTitle = "Sort by"
		for _, c := range schema {
			items = append(items, pickItem{label: c, value: c})
		}
	}
	m.picker = kind
	m.pickItems = items
	m.pickSel = 0
	for i, it := range items {
		if it.value != "" && strings.EqualFold(it.value, current) {
			m.pickSel = i
		}
	}
	m.modalActive = true
	m.modalKind = modalPicker
	m.modalBody = m.renderPicker()
	m.resizeModal()
}

// choosePick applies the selected dropdown entry.
func (m *Model) choosePick() tea.Cmd {
	m.modalActive = false
	if m.pickSel < 0 || m.pickSel >= len(m.pickItems) {
		return nil
	}
	it := m.pickItems[m.pickSel]
	f := m.sess.Filter()
	var err error
	switch m.picker {
	case pickStatus:
		err = f.SetStatus(it.value)
	case pickDomain:
		err = f.SetDomain(it.value)
	case pickSource:
		err = f.DrillSource(it.value)
	case pickContacted:
		err = f.DrillContacted(it.value)
	case pickSort:
		return m.sortCmd(it.value)
	}
	if err != nil {
		return m.notifyErr("Filter", err)
	}
	m.refresh()
	return m.notify(view.Notice{Level: view.Info, Text: fmt.Sprintf("%s: %s (%d of %d)", m.modalTitle, it.label, m.st.Shown, m.st.Total)})
}

func (m *Model) resizeModal() {
	w := m.termWidth - 6
	h := m.termHeight - 6
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.modalVP = viewport.New(w-4, h-4)
	m.modalVP.SetContent(m.modalBody)
}
