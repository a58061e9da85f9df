package view

import (
	"strconv"
	"strings"

	"crmdash/internal/table"
)

const (
	ColSrNo    = "Sr. No."
	ColActions = "Actions"
	// AllDomains is the domain dropdown sentinel.
	AllDomains = "all"
)

// Action is a per-row button.
type Action string

const (
	ActView   Action = "view"
	ActEdit   Action = "edit"
	ActDelete Action = "delete"
)

var RowActions = []Action{ActView, ActEdit, ActDelete}

type Cell struct {
	Text   string
	Mailto bool
}

// Href is the link target for mail cells.
func (c Cell) Href() string {
	if !c.Mailto {
		return ""
	}
	return "mailto:" + c.Text
}

type GridRow struct {
	// Index is the row position in the store; actions are keyed by it.
	Index int
	SrNo  int
	Cells []Cell
}

type Grid struct {
	Header []string
	Rows   []GridRow
}

// Columns returns the data columns between Sr. No. and Actions.
func (g Grid) Columns() []string {
	if len(g.Header) < 2 {
		return nil
	}
	return g.Header[1 : len(g.Header)-1]
}

func RenderCell(v string) Cell {
	return Cell{Text: v, Mailto: strings.Contains(v, "@")}
}

// Render lays rows out under the schema. visible may be nil to show every row;
// otherwise rows whose flag is false are skipped.
func Render(rows []table.Row, schema table.Schema, visible []bool) Grid {
	g := Grid{Header: make([]string, 0, len(schema)+2)}
	g.Header = append(g.Header, ColSrNo)
	g.Header = append(g.Header, schema...)
	g.Header = append(g.Header, ColActions)
	for i, r := range rows {
		if visible != nil && (i >= len(visible) || !visible[i]) {
			continue
		}
		gr := GridRow{Index: i, SrNo: i + 1, Cells: make([]Cell, len(schema))}
		for j, col := range schema {
			gr.Cells[j] = RenderCell(table.Value(r, col))
		}
		g.Rows = append(g.Rows, gr)
	}
	return g
}

// RowText is the lower-cased text of a rendered row: Sr. No. then every cell.
func RowText(i int, r table.Row, schema table.Schema) string {
	parts := make([]string, 0, len(schema)+1)
	parts = append(parts, strconv.Itoa(i+1))
	for _, col := range schema {
		parts = append(parts, table.Value(r, col))
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// DomainOptions returns the domain dropdown entries: the sentinel followed by
// every distinct non-empty Preferred Job Domain in first-seen order.
func DomainOptions(rows []table.Row) []string {
	out := []string{AllDomains}
	seen := map[string]bool{}
	for _, r := range rows {
		d := strings.TrimSpace(r[table.ColDomain])
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
