package stats

import (
	"testing"

	"crmdash/internal/table"
)

func twoRows() []table.Row {
	return []table.Row{
		{"Name": "X", "Contacted": "Yes", "Source": "Referral"},
		{"Name": "Y", "Contacted": "No", "Source": "Referral"},
	}
}

func value(t *testing.T, r Result, label string) string {
	t.Helper()
	c, ok := r.Card(label)
	if !ok {
		t.Fatalf("card %q missing from %+v", label, r.Cards)
	}
	return c.Value
}

func TestConversionRate(t *testing.T) {
	if got := ConversionRate(0, 0); got != "0%" {
		t.Fatalf("zero total: %q", got)
	}
	if got := ConversionRate(1, 4); got != "25.0%" {
		t.Fatalf("1/4: %q", got)
	}
	if got := ConversionRate(1, 3); got != "33.3%" {
		t.Fatalf("1/3: %q", got)
	}
}

func TestTopSourceTieBreak(t *testing.T) {
	if got := TopSource([]Count{{"A", 3}, {"B", 3}}); got != "A" {
		t.Fatalf("tie should go to first inserted, got %q", got)
	}
	if got := TopSource([]Count{{"A", 1}, {"B", 3}}); got != "B" {
		t.Fatalf("got %q", got)
	}
	if got := TopSource(nil); got != "N/A" {
		t.Fatalf("empty: %q", got)
	}
}

func TestLeadsTab(t *testing.T) {
	r := Compute(twoRows(), "Leads")
	checks := map[string]string{
		LabelTotal:        "2",
		LabelPlaced:       "1",
		LabelContacted:    "1",
		LabelSources:      "1",
		LabelNotContacted: "1",
		LabelConversion:   "50.0%",
		LabelRevenue:      "₹198",
		LabelTopSource:    "Referral",
	}
	for label, want := range checks {
		if got := value(t, r, label); got != want {
			t.Fatalf("%s = %q, want %q", label, got, want)
		}
	}
	if len(r.SourceCounts) != 1 || r.SourceCounts[0] != (Count{"Referral", 2}) {
		t.Fatalf("source counts = %v", r.SourceCounts)
	}
	for i, s := range r.Slots() {
		if !s.Visible {
			t.Fatalf("slot %d hidden on default tab", i)
		}
	}
}

func TestAccountsTab(t *testing.T) {
	r := Compute(twoRows(), "Accounts")
	if value(t, r, LabelTotal) != "2" || value(t, r, LabelRevenue) != "₹198" {
		t.Fatalf("accounts cards = %+v", r.Cards)
	}
	slots := r.Slots()
	for i := 2; i < SlotCount; i++ {
		if slots[i].Visible || slots[i].Value != "" {
			t.Fatalf("slot %d should be hidden and empty: %+v", i, slots[i])
		}
	}
}

func TestContactedTab(t *testing.T) {
	rows := append(twoRows(), table.Row{"Contacted": "YES"}, table.Row{})
	r := Compute(rows, "Contacted")
	if value(t, r, LabelContacted) != "2" {
		t.Fatalf("contacted = %+v", r.Cards)
	}
	want := []Count{{"Yes", 2}, {"No", 1}}
	if len(r.ContactedCounts) != 2 || r.ContactedCounts[0] != want[0] || r.ContactedCounts[1] != want[1] {
		t.Fatalf("contacted counts = %v", r.ContactedCounts)
	}
	if len(r.Cards) != 2 {
		t.Fatalf("contacted tab should have 2 cards, got %d", len(r.Cards))
	}
}

func TestEmptyUnknownTab(t *testing.T) {
	r := Compute(nil, "Pipeline")
	if value(t, r, LabelTotal) != "0" || value(t, r, LabelConversion) != "0%" || value(t, r, LabelTopSource) != "N/A" {
		t.Fatalf("empty cards = %+v", r.Cards)
	}
}

func TestBlankSourceIsUnknown(t *testing.T) {
	rows := []table.Row{{"Source": ""}, {"Source": "  "}, {}, {"Source": "Web"}}
	got := GroupCounts(rows, table.ColSource, table.Unknown)
	if len(got) != 2 || got[0] != (Count{"Unknown", 3}) || got[1] != (Count{"Web", 1}) {
		t.Fatalf("group counts = %v", got)
	}
}

func TestGrouping(t *testing.T) {
	if FormatCount(1234567) != "1,234,567" {
		t.Fatalf("FormatCount = %q", FormatCount(1234567))
	}
	rows := make([]table.Row, 1000)
	for i := range rows {
		rows[i] = table.Row{}
	}
	r := Compute(rows, "Accounts")
	if value(t, r, LabelRevenue) != "₹99,000" {
		t.Fatalf("revenue = %q", value(t, r, LabelRevenue))
	}
}
