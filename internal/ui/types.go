package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"crmdash/internal/chart"
	"crmdash/internal/config"
	"crmdash/internal/dashboard"
	"crmdash/internal/ingest"
	"crmdash/internal/view"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalRow
	modalConfirm
	modalPicker
	modalLogs
)

type inlineMode int

const (
	inlineNone inlineMode = iota
	inlineSearch
	inlineExpr
	inlineImport
	inlineExport
)

type pickerKind int

const (
	pickStatus pickerKind = iota
	pickDomain
	pickSource
	pickContacted
	pickSort
)

type Model struct {
	ctx    context.Context
	cfg    *config.Config
	sess   *dashboard.Session
	sink   *chart.TermSink
	events chan dashboard.Event

	// Last rendering of the session; rowIndex maps table cursor to store index.
	st       dashboard.State
	rowIndex []int

	// UI
	tbl        table.Model
	input      textinput.Model
	spin       spinner.Model
	styles     Styles
	keymap     KeyMap
	termWidth  int
	termHeight int

	inlineMode inlineMode
	netBusy    int

	// Notification line; noticeSeq lets a newer notice outlive older timers.
	notice    view.Notice
	noticeSeq int

	// Modal popup
	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string

	// Help menu state
	helpItems []helpItem
	helpSel   int

	// Dropdown state
	picker    pickerKind
	pickItems []pickItem
	pickSel   int
}

type helpItem struct {
	group string
	text  string
	key   tea.Key
}

// pickItem is one dropdown entry. An empty value clears the predicate.
type pickItem struct {
	label string
	value string
	count int
}

// gatewayMsg carries a finished backend request back into Update.
type gatewayMsg struct {
	ticket dashboard.Ticket
	op     dashboard.Op
	column string
	res    ingest.Result
	err    error
}

type eventMsg dashboard.Event

type startedMsg struct{}

type noticeExpiredMsg struct{ seq int }

func keyCmd(k tea.Key) tea.Cmd {
	return func() tea.Msg {
		if k.Type == tea.KeyRunes {
			return tea.KeyMsg{Type: k.Type, Runes: k.Runes}
		}
		return tea.KeyMsg{Type: k.Type}
	}
}

func keyLabel(k tea.Key) string {
	switch k.Type {
	case tea.KeyRunes:
		if len(k.Runes) == 1 {
			r := k.Runes[0]
			if r == ' ' {
				return "space"
			}
			return string(r)
		}
		return strings.ToLower(string(k.Runes))
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeyTab:
		return "tab"
	case tea.KeyShiftTab:
		return "shift-tab"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyPgUp:
		return "pgup"
	case tea.KeyPgDown:
		return "pgdown"
	default:
		return strings.ToLower(k.String())
	}
}
