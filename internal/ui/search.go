package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"crmdash/internal/export"
	"crmdash/internal/util/logx"
	"crmdash/internal/view"
)

func (m *Model) startInline(mode inlineMode, prompt, value, placeholder string) {
	m.inlineMode = mode
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) stopInline() {
	m.inlineMode = inlineNone
	m.input.Blur()
}

// updateInline routes a key to the bottom input line. Search is applied as
// the user types; the other prompts act on enter.
func (m *Model) updateInline(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		if m.inlineMode == inlineSearch {
			_ = m.sess.Filter().SetSearch("")
			m.refresh()
		}
		m.stopInline()
		return nil
	case tea.KeyEnter:
		q := strings.TrimSpace(m.input.Value())
		mode := m.inlineMode
		m.stopInline()
		switch mode {
		case inlineExpr:
			if err := m.sess.Filter().SetExpr(q); err != nil {
				return m.notifyErr("Invalid filter", err)
			}
			m.refresh()
			if q == "" {
				return nil
			}
			return m.notify(view.Notice{Level: view.Info, Text: fmt.Sprintf("Filter: %s (%d of %d)", q, m.st.Shown, m.st.Total)})
		case inlineImport:
			if q == "" {
				return nil
			}
			return m.importCmd(q)
		case inlineExport:
			if q == "" {
				return nil
			}
			return m.exportTo(q)
		}
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.inlineMode == inlineSearch {
		// An unfinished regex does not compile; keep the last good search.
		if err := m.sess.Filter().SetSearch(m.input.Value()); err == nil {
			m.refresh()
		}
	}
	return cmd
}

// exportTo writes the rows that pass the active filters. The format follows
// the configured one unless the extension says otherwise.
func (m *Model) exportTo(path string) tea.Cmd {
	format := m.cfg.Export.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".ndjson":
		format = "json"
	case ".csv":
		format = "csv"
	case ".xlsx":
		format = "xlsx"
	}
	rows, schema := m.sess.VisibleRows()
	if err := export.ToFile(path, format, rows, schema); err != nil {
		return m.notifyErr("Export failed", err)
	}
	logx.Infof("export: wrote %d rows to %s (%s)", len(rows), path, format)
	return m.notify(view.Notice{Level: view.Success, Text: fmt.Sprintf("Exported %d rows to %s", len(rows), path)})
}
