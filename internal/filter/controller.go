package filter

import (
	"sync"

	"crmdash/internal/table"
)

// Controller holds the active criteria. Setting one predicate keeps the others.
type Controller struct {
	mu   sync.Mutex
	c    Criteria
	eval *Evaluator
}

func NewController() *Controller {
	ev, _ := NewEvaluator(Criteria{})
	return &Controller{eval: ev}
}

func (f *Controller) Criteria() Criteria {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.c
}

// update applies fn to a copy and only keeps it when it compiles.
func (f *Controller) update(fn func(c *Criteria)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := f.c
	fn(&next)
	ev, err := NewEvaluator(next)
	if err != nil {
		return err
	}
	f.c = next
	f.eval = ev
	return nil
}

// SetSearch takes the raw search box value; /pattern/ selects regex.
func (f *Controller) SetSearch(q string) error {
	pat, re := ParseQuery(q)
	return f.update(func(c *Criteria) { c.Query, c.UseRegex = pat, re })
}

func (f *Controller) SetStatus(s string) error {
	return f.update(func(c *Criteria) { c.Status = s })
}

func (f *Controller) SetDomain(d string) error {
	return f.update(func(c *Criteria) { c.Domain = d })
}

// DrillSource narrows to one source; "" clears it.
func (f *Controller) DrillSource(s string) error {
	return f.update(func(c *Criteria) { c.Source = s })
}

// DrillContacted narrows to one Contacted value; "" clears it.
func (f *Controller) DrillContacted(v string) error {
	return f.update(func(c *Criteria) { c.Contacted = v })
}

func (f *Controller) SetExpr(expr string) error {
	return f.update(func(c *Criteria) { c.Expr = expr })
}

func (f *Controller) Clear() {
	_ = f.update(func(c *Criteria) { *c = Criteria{} })
}

// Apply computes visibility for rows without touching them.
func (f *Controller) Apply(rows []table.Row, schema table.Schema) []bool {
	f.mu.Lock()
	ev := f.eval
	f.mu.Unlock()
	return ev.Visible(rows, schema)
}
