package view

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"crmdash/internal/table"
)

var (
	ErrConfirmationPending = errors.New("view: a delete confirmation is pending")
	ErrNoConfirmation      = errors.New("view: nothing to confirm")
)

type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// Notice is a transient user notification.
type Notice struct {
	Level Level
	Text  string
}

// Target is what row actions read from and delete through.
type Target interface {
	Row(i int) (table.Row, bool)
	Delete(i int) (table.Row, error)
}

// Actions handles the per-row buttons. A requested delete stays pending until
// Confirm or Cancel; meanwhile Guard rejects other mutations.
type Actions struct {
	mu      sync.Mutex
	target  Target
	pending *pendingDelete
}

type pendingDelete struct {
	index      int
	name       string
	confirming bool
}

func NewActions(t Target) *Actions { return &Actions{target: t} }

func displayName(r table.Row, fallback string) string {
	if n := r[table.ColName]; n != "" {
		return n
	}
	return fallback
}

func (a *Actions) row(i int) (table.Row, error) {
	r, ok := a.target.Row(i)
	if !ok {
		return nil, fmt.Errorf("%w: %d", table.ErrIndexOutOfRange, i)
	}
	return r, nil
}

// View shows the full row contents.
func (a *Actions) View(i int) (Notice, error) {
	r, err := a.row(i)
	if err != nil {
		return Notice{}, err
	}
	r[table.ColPlaced] = table.Placed(r)
	b, _ := json.Marshal(r)
	return Notice{Level: Info, Text: "Viewing: " + string(b)}, nil
}

// Edit is a hook point only; the row is not changed.
func (a *Actions) Edit(i int) (Notice, error) {
	r, err := a.row(i)
	if err != nil {
		return Notice{}, err
	}
	return Notice{Level: Success, Text: "Editing: " + displayName(r, "Record")}, nil
}

// RequestDelete opens the confirmation for row i and returns its prompt.
func (a *Actions) RequestDelete(i int) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending != nil {
		return "", ErrConfirmationPending
	}
	r, err := a.row(i)
	if err != nil {
		return "", err
	}
	a.pending = &pendingDelete{index: i, name: displayName(r, "")}
	if a.pending.name == "" {
		return "Are you sure you want to delete this record?", nil
	}
	return fmt.Sprintf("Are you sure you want to delete %s?", a.pending.name), nil
}

// Pending reports whether a confirmation is open and for which row.
func (a *Actions) Pending() (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending == nil {
		return -1, false
	}
	return a.pending.index, true
}

// Guard returns ErrConfirmationPending while a confirmation is open.
func (a *Actions) Guard() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending != nil {
		return ErrConfirmationPending
	}
	return nil
}

// Confirm deletes the pending row. The confirmation stays open until the
// delete returns, so Guard keeps refusing other mutations meanwhile.
func (a *Actions) Confirm() (Notice, error) {
	a.mu.Lock()
	p := a.pending
	if p == nil || p.confirming {
		a.mu.Unlock()
		return Notice{}, ErrNoConfirmation
	}
	p.confirming = true
	a.mu.Unlock()

	r, err := a.target.Delete(p.index)

	a.mu.Lock()
	if a.pending == p {
		a.pending = nil
	}
	a.mu.Unlock()
	if err != nil {
		return Notice{Level: Error, Text: "Delete failed: " + err.Error()}, err
	}
	return Notice{Level: Success, Text: "Deleted: " + displayName(r, "Record")}, nil
}

// Cancel discards the pending confirmation.
func (a *Actions) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = nil
}
