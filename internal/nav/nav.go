package nav

import (
	"sync"

	"crmdash/internal/chart"
	"crmdash/internal/stats"
	"crmdash/internal/table"
)

const Home = "Home"

// Tabs is the fixed navigation list. Any other label is accepted too.
var Tabs = []string{Home, "Leads", "Accounts", "Contacted", "Contacts", "Deals", "Tasks", "All Info"}

// Screen is everything shown for the active tab.
type Screen struct {
	Tab        string
	Header     string
	TableTitle string
	ShowCharts bool
	ShowTable  bool
	Stats      stats.Result
	Charts     []chart.Chart
}

// Source is the read side of the table store.
type Source interface {
	Get() ([]table.Row, table.Schema)
}

type Controller struct {
	mu     sync.Mutex
	src    Source
	charts *chart.Engine
	active string
}

func NewController(src Source, charts *chart.Engine) *Controller {
	return &Controller{src: src, charts: charts, active: Home}
}

func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Select makes name the active tab and recomputes its screen. No tab is rejected.
func (c *Controller) Select(name string) Screen {
	c.mu.Lock()
	c.active = name
	c.mu.Unlock()
	return c.Refresh()
}

// Refresh recomputes the screen of the active tab from the current store.
func (c *Controller) Refresh() Screen {
	tab := c.Active()
	rows, _ := c.src.Get()
	sc := Screen{
		Tab:        tab,
		Header:     tab + " Dashboard",
		TableTitle: "Recent " + tab,
		ShowCharts: tab == Home,
		Stats:      stats.Compute(rows, tab),
	}
	sc.ShowTable = !sc.ShowCharts
	if sc.ShowCharts && c.charts != nil {
		if c.charts.Render(tab, rows) {
			sc.Charts = c.charts.Charts()
		}
	}
	return sc
}

// Index returns the position of tab in Tabs or -1.
func Index(tab string) int {
	for i, t := range Tabs {
		if t == tab {
			return i
		}
	}
	return -1
}

// Next cycles through Tabs; an unlisted tab goes back to Home.
func Next(tab string, step int) string {
	i := Index(tab)
	if i < 0 {
		return Home
	}
	n := len(Tabs)
	return Tabs[((i+step)%n+n)%n]
}
