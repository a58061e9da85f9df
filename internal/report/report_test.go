package report

import (
	"bytes"
	"strings"
	"testing"

	"crmdash/internal/chart"
	"crmdash/internal/stats"
	"crmdash/internal/table"
	"crmdash/internal/view"
)

func leads() []table.Row {
	return []table.Row{
		{"Name": "X", "Email": "x@example.com", "Contacted": "Yes", "Source": "Referral", "Location": "Pune"},
		{"Name": "Y", "Contacted": "No", "Source": "Referral"},
	}
}

func TestStatsHidesUnmappedSlots(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{}
	if err := f.Stats(&buf, "Accounts", stats.Compute(leads(), "Accounts")); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Total Revenue") || !strings.Contains(out, "₹198") {
		t.Fatalf("output:\n%s", out)
	}
	if strings.Contains(out, "Top Source") {
		t.Fatalf("hidden slot rendered:\n%s", out)
	}
}

func TestStatsBreakdown(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{}
	_ = f.Stats(&buf, "Leads", stats.Compute(leads(), "Leads"))
	if !strings.Contains(buf.String(), "Sources") || !strings.Contains(buf.String(), "Referral") {
		t.Fatalf("output:\n%s", buf.String())
	}
}

func TestGridAndCharts(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Width: 120}
	schema := table.Schema{"Name", "Email", "Contacted", "Placed"}
	if err := f.Grid(&buf, view.Render(leads(), schema, nil)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Sr. No.") || !strings.Contains(out, "x@example.com") || !strings.Contains(out, "2 rows") {
		t.Fatalf("grid:\n%s", out)
	}
	if strings.Contains(out, "Actions") {
		t.Fatalf("actions column printed")
	}
	buf.Reset()
	if err := f.Charts(&buf, chart.Derive(leads())); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "50.0% of total") {
		t.Fatalf("charts:\n%s", buf.String())
	}
}
