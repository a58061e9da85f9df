package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"crmdash/internal/dashboard"
	"crmdash/internal/ingest"
	"crmdash/internal/util"
	"crmdash/internal/util/logx"
	"crmdash/internal/view"
)

const noticeTTL = 3 * time.Second

// startCmd restores the saved table or loads it from the backend.
func (m *Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		m.sess.Start(m.ctx)
		return startedMsg{}
	}
}

// waitEvent delivers the next session mutation to Update.
func (m *Model) waitEvent() tea.Cmd {
	ch := m.events
	return func() tea.Msg {
		select {
		case ev := <-ch:
			return eventMsg(ev)
		case <-m.ctx.Done():
			return nil
		}
	}
}

// request takes a ticket on the UI goroutine and runs the backend call as a
// command. The answer is applied in Update, which drops stale tickets.
func (m *Model) request(op dashboard.Op, column string, run func(ctx context.Context) (ingest.Result, error)) tea.Cmd {
	t, err := m.sess.Begin()
	if err != nil {
		return m.notify(dashboard.Outcome(op, column, err))
	}
	m.netBusy++
	logx.Debugf("ui: %s request ticket=%d", op, t)
	ctx := m.ctx
	return func() tea.Msg {
		res, err := run(ctx)
		return gatewayMsg{ticket: t, op: op, column: column, res: res, err: err}
	}
}

func (m *Model) fetchCmd() tea.Cmd {
	gw := m.sess.Gateway()
	return m.request(dashboard.OpFetch, "", gw.Fetch)
}

func (m *Model) importCmd(path string) tea.Cmd {
	gw := m.sess.Gateway()
	return m.request(dashboard.OpUpload, "", func(ctx context.Context) (ingest.Result, error) {
		f, err := os.Open(path)
		if err != nil {
			return ingest.Result{}, &ingest.IngestionError{Op: "upload", Err: err}
		}
		defer f.Close()
		return gw.Upload(ctx, filepath.Base(path), f)
	})
}

func (m *Model) sortCmd(column string) tea.Cmd {
	rows, err := m.sess.SortInput()
	if errors.Is(err, dashboard.ErrNoRows) {
		return m.notify(view.Notice{Level: view.Warning, Text: "No data to sort"})
	}
	gw := m.sess.Gateway()
	return m.request(dashboard.OpSort, column, func(ctx context.Context) (ingest.Result, error) {
		return gw.Sort(ctx, rows, column, "asc")
	})
}

// notify shows n until a newer notice replaces it or noticeTTL passes.
func (m *Model) notify(n view.Notice) tea.Cmd {
	if n.Text == "" {
		return nil
	}
	text := util.RedactPII(n.Text)
	switch n.Level {
	case view.Error:
		logx.Errorf("ui: %s", text)
	case view.Warning:
		logx.Warnf("ui: %s", text)
	default:
		logx.Infof("ui: %s", text)
	}
	m.noticeSeq++
	m.notice = n
	seq := m.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{seq: seq} })
}

func (m *Model) notifyErr(prefix string, err error) tea.Cmd {
	if errors.Is(err, view.ErrConfirmationPending) {
		return m.notify(dashboard.Outcome(dashboard.OpFetch, "", err))
	}
	return m.notify(view.Notice{Level: view.Error, Text: fmt.Sprintf("%s: %v", prefix, err)})
}
