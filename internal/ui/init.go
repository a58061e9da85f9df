package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"crmdash/internal/chart"
	"crmdash/internal/config"
	"crmdash/internal/dashboard"
)

func initialModel(ctx context.Context, cfg *config.Config, sess *dashboard.Session, sink *chart.TermSink) *Model {
	m := &Model{
		ctx:    ctx,
		cfg:    cfg,
		sess:   sess,
		sink:   sink,
		events: make(chan dashboard.Event, 16),
		styles: NewStyles(cfg.Theme == config.ThemeDark),
		keymap: DefaultKeyMap(),
		input:  textinput.New(),
		spin:   spinner.New(),
	}
	m.spin.Spinner = spinner.Dot
	m.input.CharLimit = 256
	m.modalVP = viewport.New(80, 20)

	m.tbl = table.New(table.WithFocused(true), table.WithHeight(10))
	// Remove default padding to make width math exact
	ts := table.DefaultStyles()
	ts.Header = m.styles.TableStyles.Header.PaddingRight(1)
	ts.Cell = m.styles.TableStyles.Cell.PaddingRight(1)
	ts.Selected = m.styles.TableStyles.Selected
	m.tbl.SetStyles(ts)

	sess.Subscribe(func(ev dashboard.Event) {
		// Update redraws from the store, so a dropped event only delays a redraw.
		select {
		case m.events <- ev:
		default:
		}
	})
	m.refresh()
	return m
}

// Run starts the dashboard and blocks until the user quits.
func Run(ctx context.Context, cfg *config.Config, sess *dashboard.Session, sink *chart.TermSink) error {
	m := initialModel(ctx, cfg, sess, sink)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	if m.cfg.Follow != "" {
		m.sess.Follow(m.ctx, m.cfg.Follow)
	}
	m.netBusy++
	return tea.Batch(m.startCmd(), m.waitEvent(), m.spin.Tick)
}
