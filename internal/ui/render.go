package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"crmdash/internal/filter"
	"crmdash/internal/nav"
	"crmdash/internal/stats"
	"crmdash/internal/view"
)

func (m *Model) View() string {
	v := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		m.styles.Header.Render(m.st.Screen.Header),
		m.renderCards(),
		m.renderBody(),
		m.renderInputLine(),
		m.renderStatus(),
	)
	if m.modalActive {
		// Dim the background content while keeping it visible
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

func (m *Model) renderTabs() string {
	active := m.st.Screen.Tab
	parts := make([]string, 0, len(nav.Tabs)+1)
	for _, t := range nav.Tabs {
		if t == active {
			parts = append(parts, m.styles.TabActive.Render(t))
		} else {
			parts = append(parts, m.styles.TabInactive.Render(t))
		}
	}
	if nav.Index(active) < 0 && active != "" {
		parts = append(parts, m.styles.TabActive.Render(active))
	}
	return strings.Join(parts, "  ")
}

// renderCards draws the visible card slots, four per line.
func (m *Model) renderCards() string {
	var cards []string
	for _, s := range m.st.Screen.Stats.Slots() {
		if !s.Visible {
			continue
		}
		cards = append(cards, m.renderCard(s.Card))
	}
	if len(cards) == 0 {
		return ""
	}
	var lines []string
	for i := 0; i < len(cards); i += 4 {
		end := min(i+4, len(cards))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderCard(c stats.Card) string {
	w := 18
	if m.termWidth > 0 {
		w = max(14, m.termWidth/4-4)
	}
	label := c.Label
	if c.Tooltip != "" {
		label += " ⓘ"
	}
	body := m.styles.CardValue.Render(c.Value) + "\n" + m.styles.CardLabel.Render(label)
	return m.styles.Card.Width(w).Render(body)
}

func (m *Model) renderBody() string {
	if m.st.Screen.ShowCharts {
		if m.st.Total == 0 {
			return m.styles.Help.Render("No data to chart. Import a CSV or Excel file with [i] or refresh with [r].")
		}
		return m.sink.View()
	}
	title := fmt.Sprintf("%s  (%d of %d)", m.st.Screen.TableTitle, m.st.Shown, m.st.Total)
	return lipgloss.JoinVertical(lipgloss.Left, m.styles.Header.Render(title), m.tbl.View())
}

func (m *Model) renderInputLine() string {
	switch m.inlineMode {
	case inlineSearch:
		return m.input.View() + m.styles.Help.Render("    [enter]=keep [esc]=clear  /regex/ supported")
	case inlineExpr:
		return m.input.View() + m.styles.Help.Render("    [enter]=apply [esc]=cancel  e.g. Source == \"Referral\"")
	case inlineImport, inlineExport:
		return m.input.View() + m.styles.Help.Render("    [enter]=run [esc]=cancel")
	}
	if s := filterSummary(m.sess.Filter().Criteria()); s != "" {
		return m.styles.Help.Render(s + "    [F]=clear filters")
	}
	if m.termWidth > 0 {
		return strings.Repeat(" ", m.termWidth)
	}
	return ""
}

func filterSummary(c filter.Criteria) string {
	var parts []string
	if c.Query != "" {
		q := c.Query
		if c.UseRegex {
			q = "/" + q + "/"
		}
		parts = append(parts, "search: "+q)
	}
	if c.Status != "" && !strings.EqualFold(c.Status, filter.AllStatus) {
		parts = append(parts, "status: "+c.Status)
	}
	if c.Domain != "" && c.Domain != view.AllDomains {
		parts = append(parts, "domain: "+c.Domain)
	}
	if c.Source != "" {
		parts = append(parts, "source: "+c.Source)
	}
	if c.Contacted != "" {
		parts = append(parts, "contacted: "+c.Contacted)
	}
	if c.Expr != "" {
		parts = append(parts, "expr: "+c.Expr)
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderStatus() string {
	busy := ""
	if m.netBusy > 0 {
		busy = m.spin.View() + " "
	}
	status := m.styles.Status.Render(fmt.Sprintf("%s[%s] rows:%d rev:%d | [?]=help", busy, m.cfg.Storage.Backend, m.st.Total, m.st.Revision))
	if m.notice.Text == "" {
		return status
	}
	st, ok := m.styles.Notice[m.notice.Level]
	if !ok {
		st = m.styles.Base
	}
	text := m.notice.Text
	if m.termWidth > 0 {
		text = truncateRunes(text, max(10, m.termWidth-lipgloss.Width(status)-3))
	}
	return status + " | " + st.Render(text)
}

func (m *Model) renderHelp() string {
	if len(m.helpItems) == 0 {
		m.helpItems = m.buildHelpItems()
	}
	if m.helpSel < 0 {
		m.helpSel = 0
	}
	if m.helpSel >= len(m.helpItems) {
		m.helpSel = len(m.helpItems) - 1
	}
	lines := []string{"Shortcuts:"}
	currentGroup := ""
	lineIndexOfSel := 0
	for i, it := range m.helpItems {
		if it.group != currentGroup {
			currentGroup = it.group
			lines = append(lines, "", currentGroup+":")
		}
		prefix := "  "
		if i == m.helpSel {
			prefix = "> "
			lineIndexOfSel = len(lines)
		}
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, keyLabel(it.key), it.text))
	}
	m.keepVisible(lineIndexOfSel)
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPicker() string {
	maxc := 0
	for _, it := range m.pickItems {
		maxc = max(maxc, it.count)
	}
	var b strings.Builder
	for i, it := range m.pickItems {
		prefix := "  "
		if i == m.pickSel {
			prefix = "> "
		}
		b.WriteString(prefix)
		b.WriteString(it.label)
		if it.count > 0 {
			fmt.Fprintf(&b, "  %s (%s)", colorBar(int(20*float64(it.count)/float64(maxc)), float64(it.count), float64(maxc)), stats.FormatCount(it.count))
		}
		b.WriteString("\n")
	}
	m.keepVisible(m.pickSel)
	return strings.TrimRight(b.String(), "\n")
}

// keepVisible scrolls the modal viewport so line stays on screen.
func (m *Model) keepVisible(line int) {
	if m.modalVP.Height <= 0 {
		return
	}
	top := m.modalVP.YOffset
	bottom := top + m.modalVP.Height - 1
	if line <= top {
		m.modalVP.YOffset = max(0, line-1)
	} else if line >= bottom {
		m.modalVP.YOffset = max(0, line-m.modalVP.Height+2)
	}
}

func (m *Model) renderModal() string {
	content := ""
	switch m.modalKind {
	case modalHelp:
		m.modalVP.SetContent(m.renderHelp())
		content = m.modalVP.View() + "\n[esc]=close  [enter]=run"
	case modalPicker:
		m.modalVP.SetContent(m.renderPicker())
		content = m.modalVP.View() + "\n[↑/↓]=navigate  [enter]=select  [esc]=close"
	case modalConfirm:
		content = m.modalBody + "\n\n[y]=delete  [n/esc]=cancel"
	case modalLogs:
		content = m.modalVP.View() + "\n[esc/enter]=close"
	default:
		content = m.modalVP.View() + "\n[esc/enter]=close"
	}
	boxW := m.termWidth - 6
	if boxW < 20 {
		boxW = 20
	}
	title := m.styles.PopupTitle.Render(m.modalTitle)
	body := m.styles.PopupBox.Width(boxW).Render(title + "\n" + content)
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, body)
}

// colorBar returns a bar shading from yellow to red as val approaches top.
func colorBar(width int, val, top float64) string {
	if width <= 0 {
		return ""
	}
	r := 0.0
	if top > 0 {
		r = val / top
	}
	color := 226 - int(r*30)
	if color < 196 {
		color = 196
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, strings.Repeat("▇", width))
}

func truncateRunes(s string, w int) string {
	rs := []rune(s)
	if len(rs) <= w {
		return s
	}
	if w <= 1 {
		return "…"
	}
	return string(rs[:w-1]) + "…"
}
