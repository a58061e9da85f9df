package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"crmdash/internal/dashboard"
	"crmdash/internal/ingest"
	"crmdash/internal/nav"
	"crmdash/internal/view"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		m.refresh()
		if m.modalActive {
			m.resizeModal()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.modalActive {
			return m, m.updateModal(msg)
		}
		if m.inlineMode != inlineNone {
			return m, m.updateInline(msg)
		}
		if cmd, ok := m.shortcut(msg); ok {
			return m, cmd
		}
	case startedMsg:
		m.netBusy = max(0, m.netBusy-1)
		m.refresh()
		return m, nil
	case eventMsg:
		m.refresh()
		return m, m.waitEvent()
	case gatewayMsg:
		m.netBusy = max(0, m.netBusy-1)
		err := m.sess.Apply(msg.ticket, msg.op, msg.res, msg.err)
		if errors.Is(err, ingest.ErrStale) {
			return m, nil
		}
		m.refresh()
		return m, m.notify(dashboard.Outcome(msg.op, msg.column, err))
	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = view.Notice{}
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *Model) updateModal(msg tea.KeyMsg) tea.Cmd {
	switch m.modalKind {
	case modalConfirm:
		switch {
		case msg.String() == "y" || msg.Type == tea.KeyEnter:
			m.modalActive = false
			n, err := m.sess.Actions().Confirm()
			m.refresh()
			if err != nil && n.Text == "" {
				return m.notifyErr("Delete failed", err)
			}
			return m.notify(n)
		case msg.String() == "n" || msg.Type == tea.KeyEsc:
			m.modalActive = false
			m.sess.Actions().Cancel()
			return m.notify(view.Notice{Level: view.Info, Text: "Delete cancelled"})
		}
		return nil
	case modalHelp:
		switch {
		case msg.Type == tea.KeyUp:
			if m.helpSel > 0 {
				m.helpSel--
			}
		case msg.Type == tea.KeyDown:
			if m.helpSel+1 < len(m.helpItems) {
				m.helpSel++
			}
		case msg.Type == tea.KeyEnter:
			m.modalActive = false
			if len(m.helpItems) > 0 {
				return keyCmd(m.helpItems[m.helpSel].key)
			}
		case msg.Type == tea.KeyEsc || msg.String() == "q" || msg.String() == "?":
			m.modalActive = false
		}
		return nil
	case modalPicker:
		switch {
		case msg.Type == tea.KeyUp:
			if m.pickSel > 0 {
				m.pickSel--
			}
		case msg.Type == tea.KeyDown:
			if m.pickSel+1 < len(m.pickItems) {
				m.pickSel++
			}
		case msg.Type == tea.KeyEnter:
			return m.choosePick()
		case msg.Type == tea.KeyEsc || msg.String() == "q":
			m.modalActive = false
		}
		return nil
	}
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter || msg.String() == "q" {
		m.modalActive = false
		return nil
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return cmd
}

// shortcut handles a key outside modals and prompts. ok is false for keys
// that belong to the table (cursor movement).
func (m *Model) shortcut(msg tea.KeyMsg) (tea.Cmd, bool) {
	km := m.keymap
	switch {
	case keyMatches(msg, km.Quit):
		return tea.Quit, true
	case keyMatches(msg, km.Help):
		m.openHelpModal()
	case keyMatches(msg, km.NextTab):
		m.selectTab(nav.Next(m.sess.Nav().Active(), 1))
	case keyMatches(msg, km.PrevTab):
		m.selectTab(nav.Next(m.sess.Nav().Active(), -1))
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '8':
		m.selectTab(nav.Tabs[msg.Runes[0]-'1'])
	case keyMatches(msg, km.Search):
		m.startInline(inlineSearch, "/", m.rawSearch(), "search... (text or /regex/)")
	case keyMatches(msg, km.Expr):
		m.startInline(inlineExpr, "filter: ", m.sess.Filter().Criteria().Expr, `Contacted == "Yes" && Source != "Unknown"`)
	case keyMatches(msg, km.Import):
		m.startInline(inlineImport, "import: ", "", "path/to/leads.csv or leads.xlsx")
	case keyMatches(msg, km.Export):
		m.startInline(inlineExport, "export to: ", m.cfg.Export.Out, "leads.csv, leads.json or leads.xlsx")
	case keyMatches(msg, km.Status):
		m.openPicker(pickStatus)
	case keyMatches(msg, km.Domain):
		m.openPicker(pickDomain)
	case keyMatches(msg, km.Sources):
		m.openPicker(pickSource)
	case keyMatches(msg, km.Contacted):
		m.openPicker(pickContacted)
	case keyMatches(msg, km.Sort):
		if m.st.Total == 0 {
			return m.notify(view.Notice{Level: view.Warning, Text: "No data to sort"}), true
		}
		m.openPicker(pickSort)
	case keyMatches(msg, km.ClearFilter):
		m.sess.Filter().Clear()
		m.refresh()
		return m.notify(view.Notice{Level: view.Info, Text: "Filters cleared"}), true
	case keyMatches(msg, km.Refresh):
		return m.fetchCmd(), true
	case keyMatches(msg, km.AppLogs):
		m.openAppLogsModal()
	case keyMatches(msg, km.Top):
		m.tbl.GotoTop()
	case keyMatches(msg, km.Bottom):
		m.tbl.GotoBottom()
	case keyMatches(msg, km.ViewRow), keyMatches(msg, km.EditRow), keyMatches(msg, km.DeleteRow):
		return m.rowAction(msg), true
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) selectTab(tab string) {
	m.sess.Select(tab)
	m.refresh()
}

// rawSearch rebuilds the search box value from the active criteria.
func (m *Model) rawSearch() string {
	c := m.sess.Filter().Criteria()
	if c.UseRegex {
		return "/" + c.Query + "/"
	}
	return c.Query
}

func (m *Model) rowAction(msg tea.KeyMsg) tea.Cmd {
	if !m.st.Screen.ShowTable {
		return nil
	}
	i, ok := m.selected()
	if !ok {
		return nil
	}
	acts := m.sess.Actions()
	switch {
	case keyMatches(msg, m.keymap.ViewRow):
		n, err := acts.View(i)
		if err != nil {
			return m.notifyErr("View", err)
		}
		if r, ok := m.sess.Row(i); ok {
			m.openRowModal(r)
		}
		return m.notify(n)
	case keyMatches(msg, m.keymap.EditRow):
		n, err := acts.Edit(i)
		if err != nil {
			return m.notifyErr("Edit", err)
		}
		return m.notify(n)
	default:
		prompt, err := acts.RequestDelete(i)
		if err != nil {
			return m.notifyErr("Delete", err)
		}
		m.openConfirmModal(prompt)
		return nil
	}
}
