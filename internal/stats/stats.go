package stats

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"crmdash/internal/table"
)

// FormFee is the per-applicant form fee in rupees.
const FormFee = 99

// SlotCount is the number of stat cards on the dashboard.
const SlotCount = 8

const (
	TabAccounts  = "Accounts"
	TabContacted = "Contacted"
)

// Labels used by the card slots.
const (
	LabelTotal        = "Total Applicants"
	LabelPlaced       = "Placed"
	LabelContacted    = "Contacted"
	LabelSources      = "Sources"
	LabelNotContacted = "Not Contacted Yet"
	LabelConversion   = "Conversion Rate"
	LabelRevenue      = "Total Revenue"
	LabelTopSource    = "Top Source"
)

type Card struct {
	Value string
	Label string
	// Tooltip is optional hover text.
	Tooltip string
}

// Slot is one fixed card position; hidden slots carry no data.
type Slot struct {
	Card
	Visible bool
}

// Count is one grouped value with its count.
type Count struct {
	Key string
	N   int
}

type Result struct {
	Tab   string
	Cards []Card
	// ContactedCounts is set on the Contacted tab: Yes then No.
	ContactedCounts []Count
	// SourceCounts is set on the default tab, in first-appearance order.
	SourceCounts []Count
}

// Slots pads Cards to SlotCount so stale values from another tab never linger.
func (r Result) Slots() []Slot {
	out := make([]Slot, SlotCount)
	for i := 0; i < SlotCount && i < len(r.Cards); i++ {
		out[i] = Slot{Card: r.Cards[i], Visible: true}
	}
	return out
}

// Card returns the card with the given label.
func (r Result) Card(label string) (Card, bool) {
	for _, c := range r.Cards {
		if c.Label == label {
			return c, true
		}
	}
	return Card{}, false
}

var printer = message.NewPrinter(language.English)

// FormatCount groups thousands: 1234 -> "1,234".
func FormatCount(n int) string { return printer.Sprintf("%d", n) }

// FormatRupees prefixes the grouped amount with the rupee sign.
func FormatRupees(n int) string { return "₹" + FormatCount(n) }

// ConversionRate is placed/total as a percentage with one decimal, "0%" for no rows.
func ConversionRate(placed, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(placed)/float64(total)*100)
}

// TopSource returns the most frequent source; ties go to the first seen.
func TopSource(counts []Count) string {
	if len(counts) == 0 {
		return "N/A"
	}
	sorted := append([]Count(nil), counts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].N > sorted[j].N })
	return sorted[0].Key
}

// GroupCounts counts rows by col in first-appearance order. Blank values go to def.
func GroupCounts(rows []table.Row, col, def string) []Count {
	idx := map[string]int{}
	var out []Count
	for _, r := range rows {
		k := table.ValueOr(r, col, def)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, Count{Key: k})
		}
		out[i].N++
	}
	return out
}

// Compute derives the stat cards for tab from rows.
func Compute(rows []table.Row, tab string) Result {
	total := len(rows)
	var placed, yes, no int
	for _, r := range rows {
		if table.Placed(r) == table.PlacedValue {
			placed++
		}
		switch strings.ToLower(r[table.ColContacted]) {
		case "yes":
			yes++
		case "no":
			no++
		}
	}
	revenue := Card{
		Value:   FormatRupees(total * FormFee),
		Label:   LabelRevenue,
		Tooltip: fmt.Sprintf("Revenue = Applicants × ₹%d", FormFee),
	}
	res := Result{Tab: tab}
	switch tab {
	case TabAccounts:
		res.Cards = []Card{
			{Value: FormatCount(total), Label: LabelTotal},
			revenue,
		}
	case TabContacted:
		res.Cards = []Card{
			{Value: FormatCount(total), Label: LabelTotal},
			{Value: FormatCount(yes), Label: LabelContacted},
		}
		res.ContactedCounts = []Count{{Key: "Yes", N: yes}, {Key: "No", N: no}}
	default:
		sources := GroupCounts(rows, table.ColSource, table.Unknown)
		res.SourceCounts = sources
		res.Cards = []Card{
			{Value: FormatCount(total), Label: LabelTotal},
			{Value: FormatCount(placed), Label: LabelPlaced},
			{Value: FormatCount(yes), Label: LabelContacted},
			{Value: FormatCount(len(sources)), Label: LabelSources},
			{Value: FormatCount(no), Label: LabelNotContacted},
			{Value: ConversionRate(placed, total), Label: LabelConversion},
			revenue,
			{Value: TopSource(sources), Label: LabelTopSource},
		}
	}
	return res
}
