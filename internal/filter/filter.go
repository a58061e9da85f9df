package filter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"crmdash/internal/table"
	"crmdash/internal/view"
)

// AllStatus is the status dropdown sentinel.
const AllStatus = "all status"

type Criteria struct {
	Query     string // plain contains or regex if /.../
	UseRegex  bool
	Status    string // row text contains, unless AllStatus
	Domain    string // exact Preferred Job Domain, unless view.AllDomains
	Source    string // drill-down: exact trimmed Source
	Contacted string // drill-down: Contacted, case-insensitive
	Expr      string // govaluate expression
}

// ParseQuery splits a search box value into its pattern and regex flag.
func ParseQuery(q string) (string, bool) {
	if len(q) >= 2 && strings.HasPrefix(q, "/") && strings.HasSuffix(q, "/") {
		return q[1 : len(q)-1], true
	}
	return q, false
}

// Active reports whether any predicate narrows the rows.
func (c Criteria) Active() bool {
	return c.Query != "" || statusActive(c.Status) || domainActive(c.Domain) ||
		c.Source != "" || c.Contacted != "" || strings.TrimSpace(c.Expr) != ""
}

func statusActive(s string) bool {
	return s != "" && !strings.EqualFold(strings.TrimSpace(s), AllStatus)
}

func domainActive(d string) bool {
	return d != "" && d != view.AllDomains
}

type Evaluator struct {
	c    Criteria
	re   *regexp.Regexp
	expr *govaluate.EvaluableExpression
}

func NewEvaluator(c Criteria) (*Evaluator, error) {
	var re *regexp.Regexp
	var expr *govaluate.EvaluableExpression
	var err error
	if c.UseRegex && c.Query != "" {
		re, err = regexp.Compile("(?i)" + c.Query)
		if err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(c.Expr) != "" {
		expr, err = govaluate.NewEvaluableExpression(c.Expr)
		if err != nil {
			return nil, err
		}
	}
	return &Evaluator{c: c, re: re, expr: expr}, nil
}

// Match reports whether row i passes every active predicate.
func (e *Evaluator) Match(i int, r table.Row, schema table.Schema) bool {
	c := e.c
	needText := c.Query != "" || statusActive(c.Status)
	var text string
	if needText {
		text = view.RowText(i, r, schema)
	}
	if c.Query != "" {
		if e.re != nil {
			if !e.re.MatchString(text) {
				return false
			}
		} else if !strings.Contains(text, strings.ToLower(c.Query)) {
			return false
		}
	}
	if statusActive(c.Status) && !strings.Contains(text, strings.ToLower(strings.TrimSpace(c.Status))) {
		return false
	}
	if domainActive(c.Domain) && r[table.ColDomain] != c.Domain {
		return false
	}
	if c.Source != "" && table.ValueOr(r, table.ColSource, table.Unknown) != c.Source {
		return false
	}
	if c.Contacted != "" && !strings.EqualFold(strings.TrimSpace(r[table.ColContacted]), c.Contacted) {
		return false
	}
	if e.expr != nil {
		result, err := e.expr.Evaluate(Params(r, schema))
		if err != nil {
			return false
		}
		b, ok := result.(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}

// Visible returns one flag per row.
func (e *Evaluator) Visible(rows []table.Row, schema table.Schema) []bool {
	out := make([]bool, len(rows))
	for i, r := range rows {
		out[i] = e.Match(i, r, schema)
	}
	return out
}

// Params exposes a row to expressions. Columns are available under their own
// name (use [Preferred Job Domain] in expressions) and with spaces replaced by
// underscores. Numeric cells are passed as numbers.
func Params(r table.Row, schema table.Schema) map[string]any {
	params := make(map[string]any, len(schema)*2)
	for _, col := range schema {
		var v any = table.Value(r, col)
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.(string)), 64); err == nil {
			v = f
		}
		params[col] = v
		if alias := strings.ReplaceAll(col, " ", "_"); alias != col {
			params[alias] = v
		}
	}
	return params
}

// Count returns how many flags are set.
func Count(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
