package view

import (
	"errors"
	"strings"
	"testing"

	"crmdash/internal/table"
)

// fakeTarget deletes straight from a Store.
type fakeTarget struct{ s *table.Store }

func (f fakeTarget) Row(i int) (table.Row, bool)      { return f.s.At(i) }
func (f fakeTarget) Delete(i int) (table.Row, error) { return f.s.DeleteAt(i) }

func store() *table.Store {
	s := table.NewStore()
	s.Replace([]table.Row{
		{"Name": "X", "Email": "x@example.com", "Contacted": "Yes", "Preferred Job Domain": "IT"},
		{"Name": "Y", "Contacted": "No", "Preferred Job Domain": "Sales"},
		{"Name": "Z", "Preferred Job Domain": "IT"},
	}, table.Schema{"Name", "Email", "Contacted", "Preferred Job Domain"})
	return s
}

func TestRenderGrid(t *testing.T) {
	rows, sch := store().Get()
	g := Render(rows, sch, nil)
	wantHeader := []string{"Sr. No.", "Name", "Email", "Contacted", "Preferred Job Domain", "Placed", "Actions"}
	if strings.Join(g.Header, "|") != strings.Join(wantHeader, "|") {
		t.Fatalf("header = %v", g.Header)
	}
	if len(g.Rows) != 3 {
		t.Fatalf("rows = %d", len(g.Rows))
	}
	first := g.Rows[0]
	if !first.Cells[1].Mailto || first.Cells[1].Href() != "mailto:x@example.com" {
		t.Fatalf("email cell = %+v", first.Cells[1])
	}
	if first.Cells[0].Mailto {
		t.Fatalf("plain cell rendered as mail link")
	}
	if first.Cells[4].Text != "Placed" || g.Rows[1].Cells[4].Text != "" {
		t.Fatalf("placed cells wrong")
	}
	if g.Rows[1].Cells[1].Text != "" {
		t.Fatalf("absent value should render empty")
	}
}

func TestRenderVisibility(t *testing.T) {
	rows, sch := store().Get()
	g := Render(rows, sch, []bool{false, true, false})
	if len(g.Rows) != 1 || g.Rows[0].Index != 1 || g.Rows[0].SrNo != 2 {
		t.Fatalf("rows = %+v", g.Rows)
	}
}

func TestDeleteThenRenderHasNoGaps(t *testing.T) {
	s := store()
	a := NewActions(fakeTarget{s})
	prompt, err := a.RequestDelete(1)
	if err != nil || !strings.Contains(prompt, "Y") {
		t.Fatalf("prompt=%q err=%v", prompt, err)
	}
	n, err := a.Confirm()
	if err != nil || n.Text != "Deleted: Y" {
		t.Fatalf("confirm = %+v, %v", n, err)
	}
	rows, sch := s.Get()
	g := Render(rows, sch, nil)
	if len(g.Rows) != 2 {
		t.Fatalf("rows = %d", len(g.Rows))
	}
	for i, r := range g.Rows {
		if r.SrNo != i+1 {
			t.Fatalf("Sr. No. gap at %d: %d", i, r.SrNo)
		}
	}
}

func TestPendingConfirmationBlocks(t *testing.T) {
	s := store()
	a := NewActions(fakeTarget{s})
	if _, err := a.RequestDelete(0); err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := a.RequestDelete(1); !errors.Is(err, ErrConfirmationPending) {
		t.Fatalf("second request err = %v", err)
	}
	if !errors.Is(a.Guard(), ErrConfirmationPending) {
		t.Fatalf("guard should block")
	}
	a.Cancel()
	if a.Guard() != nil {
		t.Fatalf("guard after cancel")
	}
	if s.Len() != 3 {
		t.Fatalf("cancel must not delete")
	}
	if _, err := a.Confirm(); !errors.Is(err, ErrNoConfirmation) {
		t.Fatalf("confirm without pending err = %v", err)
	}
}

func TestViewAndEdit(t *testing.T) {
	a := NewActions(fakeTarget{store()})
	n, err := a.View(0)
	if err != nil || !strings.HasPrefix(n.Text, "Viewing: {") || !strings.Contains(n.Text, `"Placed":"Placed"`) {
		t.Fatalf("view = %+v %v", n, err)
	}
	n, err = a.Edit(2)
	if err != nil || n.Text != "Editing: Z" {
		t.Fatalf("edit = %+v %v", n, err)
	}
	if _, err := a.View(9); !errors.Is(err, table.ErrIndexOutOfRange) {
		t.Fatalf("view out of range err = %v", err)
	}
}

func TestDomainOptions(t *testing.T) {
	rows, _ := store().Get()
	got := DomainOptions(rows)
	if strings.Join(got, ",") != "all,IT,Sales" {
		t.Fatalf("options = %v", got)
	}
	if got := DomainOptions(nil); len(got) != 1 {
		t.Fatalf("empty options = %v", got)
	}
}

func TestRowText(t *testing.T) {
	txt := RowText(0, table.Row{"Name": "X", "Contacted": "Yes"}, table.Schema{"Name", "Contacted", "Placed"})
	if txt != "1 x yes placed" {
		t.Fatalf("row text = %q", txt)
	}
}

type guardingTarget struct {
	fakeTarget
	a       *Actions
	guarded error
}

func (g *guardingTarget) Delete(i int) (table.Row, error) {
	g.guarded = g.a.Guard()
	return g.fakeTarget.Delete(i)
}

func TestConfirmationOpenUntilDeleteReturns(t *testing.T) {
	s := table.NewStore()
	s.Replace([]table.Row{{"Name": "X"}, {"Name": "Y"}}, table.Schema{"Name"})
	g := &guardingTarget{fakeTarget: fakeTarget{s}}
	a := NewActions(g)
	g.a = a
	if _, err := a.RequestDelete(0); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Confirm(); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(g.guarded, ErrConfirmationPending) {
		t.Fatalf("guard during delete = %v", g.guarded)
	}
	if a.Guard() != nil {
		t.Fatalf("confirmation still open after delete")
	}
	if _, err := a.Confirm(); !errors.Is(err, ErrNoConfirmation) {
		t.Fatalf("second confirm err = %v", err)
	}
}
