package filter

import (
	"testing"

	"crmdash/internal/table"
)

func fixture() ([]table.Row, table.Schema) {
	rows := []table.Row{
		{"Name": "X", "Contacted": "Yes", "Source": "Referral", "Preferred Job Domain": "IT", "Years of Experience": "5"},
		{"Name": "Y", "Contacted": "No", "Source": "Referral", "Preferred Job Domain": "Sales", "Years of Experience": "1"},
		{"Name": "Z", "Contacted": "no", "Source": " ", "Preferred Job Domain": "IT"},
	}
	return rows, table.Schema{"Name", "Contacted", "Source", "Preferred Job Domain", "Years of Experience", "Placed"}
}

func visible(t *testing.T, f *Controller) []bool {
	t.Helper()
	rows, sch := fixture()
	return f.Apply(rows, sch)
}

func expect(t *testing.T, got []bool, want ...bool) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("flags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("flags = %v, want %v", got, want)
		}
	}
}

func TestNoCriteriaShowsAll(t *testing.T) {
	f := NewController()
	expect(t, visible(t, f), true, true, true)
	if f.Criteria().Active() {
		t.Fatalf("empty criteria reported active")
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	f := NewController()
	// "y" matches "Yes" in X and the name "Y"
	_ = f.SetSearch("y")
	expect(t, visible(t, f), true, true, false)

	_ = f.SetSearch("REFERRAL")
	expect(t, visible(t, f), true, true, false)

	// Sr. No. is part of the row text
	_ = f.SetSearch("3")
	expect(t, visible(t, f), false, false, true)
}

func TestSearchRegex(t *testing.T) {
	f := NewController()
	if err := f.SetSearch("/^1 x/"); err != nil {
		t.Fatalf("regex: %v", err)
	}
	expect(t, visible(t, f), true, false, false)
	if err := f.SetSearch("/[/"); err == nil {
		t.Fatalf("expected compile error")
	}
	if f.Criteria().Query != "^1 x" {
		t.Fatalf("bad regex replaced previous criteria")
	}
}

func TestStatusSentinel(t *testing.T) {
	f := NewController()
	_ = f.SetStatus("All Status")
	expect(t, visible(t, f), true, true, true)
	_ = f.SetStatus("placed")
	expect(t, visible(t, f), true, false, false)
}

func TestFiltersCompose(t *testing.T) {
	f := NewController()
	_ = f.SetDomain("IT")
	expect(t, visible(t, f), true, false, true)
	_ = f.SetSearch("no")
	expect(t, visible(t, f), false, false, true)
	_ = f.SetDomain("all")
	expect(t, visible(t, f), false, true, true)
}

func TestDrillDowns(t *testing.T) {
	f := NewController()
	_ = f.DrillSource("Unknown")
	expect(t, visible(t, f), false, false, true)
	_ = f.DrillSource("")
	_ = f.DrillContacted("No")
	expect(t, visible(t, f), false, true, true)
	f.Clear()
	expect(t, visible(t, f), true, true, true)
}

func TestExpression(t *testing.T) {
	f := NewController()
	if err := f.SetExpr(`Source == "Referral" && Contacted == "Yes"`); err != nil {
		t.Fatalf("expr: %v", err)
	}
	expect(t, visible(t, f), true, false, false)
	if err := f.SetExpr(`Years_of_Experience > 2`); err != nil {
		t.Fatalf("expr: %v", err)
	}
	expect(t, visible(t, f), true, false, false)
	if err := f.SetExpr(`[Preferred Job Domain] == "Sales"`); err != nil {
		t.Fatalf("expr: %v", err)
	}
	expect(t, visible(t, f), false, true, false)
	if err := f.SetExpr(`Source ==`); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFilterDoesNotMutate(t *testing.T) {
	rows, sch := fixture()
	f := NewController()
	_ = f.SetSearch("x")
	f.Apply(rows, sch)
	if len(rows) != 3 || rows[0]["Name"] != "X" {
		t.Fatalf("rows mutated")
	}
	if Count([]bool{true, false, true}) != 2 {
		t.Fatalf("count")
	}
}
