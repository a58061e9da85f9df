package dashboard

import (
	"crmdash/internal/filter"
	"crmdash/internal/nav"
	"crmdash/internal/table"
	"crmdash/internal/view"
)

// State is one consistent rendering of the dashboard.
type State struct {
	Screen   nav.Screen
	Grid     view.Grid
	Schema   table.Schema
	Total    int
	Shown    int
	Domains  []string
	Revision uint64
}

// Select switches tab and returns the new state.
func (s *Session) Select(tab string) State {
	s.nav.Select(tab)
	return s.State()
}

// State renders the active tab from the current store and filters.
func (s *Session) State() State {
	rows, schema := s.store.Get()
	vis := s.filter.Apply(rows, schema)
	return State{
		Screen:   s.nav.Refresh(),
		Grid:     view.Render(rows, schema, vis),
		Schema:   schema,
		Total:    len(rows),
		Shown:    filter.Count(vis),
		Domains:  view.DomainOptions(rows),
		Revision: s.store.Revision(),
	}
}

// VisibleRows returns the rows that pass the active filters, for export.
func (s *Session) VisibleRows() ([]table.Row, table.Schema) {
	rows, schema := s.store.Get()
	vis := s.filter.Apply(rows, schema)
	out := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		if vis[i] {
			out = append(out, r)
		}
	}
	return out, schema
}
