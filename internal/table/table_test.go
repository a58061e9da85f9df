package table

import (
	"errors"
	"testing"
)

func TestPlacedProjection(t *testing.T) {
	cases := []struct {
		contacted string
		want      string
	}{
		{"Yes", PlacedValue},
		{"yes", PlacedValue},
		{"YES", PlacedValue},
		{"No", ""},
		{"", ""},
		{" yes", ""},
		{"y", ""},
	}
	for _, c := range cases {
		r := Row{ColContacted: c.contacted}
		if got := Placed(r); got != c.want {
			t.Fatalf("Placed(%q) = %q, want %q", c.contacted, got, c.want)
		}
		if got := Value(r, ColPlaced); got != c.want {
			t.Fatalf("Value(Placed) for %q = %q, want %q", c.contacted, got, c.want)
		}
	}
	if Placed(Row{}) != "" {
		t.Fatalf("missing Contacted should not be placed")
	}
}

func TestReplaceNormalizesSchemaAndPrunes(t *testing.T) {
	s := NewStore()
	s.Replace([]Row{
		{"Name": "X", "Contacted": "Yes", "id": "7", "Placed": "stale"},
	}, Schema{"Name", "Contacted", "Name", ""})

	rows, sch := s.Get()
	want := Schema{"Name", "Contacted", "Placed"}
	if len(sch) != len(want) {
		t.Fatalf("schema = %v, want %v", sch, want)
	}
	for i := range want {
		if sch[i] != want[i] {
			t.Fatalf("schema = %v, want %v", sch, want)
		}
	}
	if _, ok := rows[0]["id"]; ok {
		t.Fatalf("key outside schema kept: %v", rows[0])
	}
	if _, ok := rows[0]["Placed"]; ok {
		t.Fatalf("Placed must not be stored: %v", rows[0])
	}
	if Value(rows[0], ColPlaced) != PlacedValue {
		t.Fatalf("expected projected Placed")
	}
}

func TestReplaceKeepsExistingPlacedPosition(t *testing.T) {
	s := NewStore()
	s.Replace(nil, Schema{"Placed", "Name"})
	_, sch := s.Get()
	if len(sch) != 2 || sch[0] != "Placed" {
		t.Fatalf("unexpected schema %v", sch)
	}
}

func TestDeleteAtCompacts(t *testing.T) {
	s := NewStore()
	s.Replace([]Row{{"Name": "a"}, {"Name": "b"}, {"Name": "c"}}, Schema{"Name"})
	rev := s.Revision()

	removed, err := s.DeleteAt(1)
	if err != nil {
		t.Fatalf("DeleteAt: %v", err)
	}
	if removed["Name"] != "b" {
		t.Fatalf("removed %v", removed)
	}
	rows, _ := s.Get()
	if len(rows) != 2 || rows[0]["Name"] != "a" || rows[1]["Name"] != "c" {
		t.Fatalf("rows after delete: %v", rows)
	}
	if s.Revision() <= rev {
		t.Fatalf("revision not bumped")
	}
}

func TestDeleteAtOutOfRange(t *testing.T) {
	s := NewStore()
	s.Replace([]Row{{"Name": "a"}}, Schema{"Name"})
	for _, i := range []int{-1, 1, 5} {
		if _, err := s.DeleteAt(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("DeleteAt(%d) err = %v", i, err)
		}
	}
	if s.Len() != 1 {
		t.Fatalf("failed delete mutated store")
	}
}

func TestGetIsCopy(t *testing.T) {
	s := NewStore()
	s.Replace([]Row{{"Name": "a"}}, Schema{"Name"})
	rows, sch := s.Get()
	rows[0]["Name"] = "mutated"
	sch[0] = "Other"
	rows2, sch2 := s.Get()
	if rows2[0]["Name"] != "a" || sch2[0] != "Name" {
		t.Fatalf("store mutated through snapshot")
	}
}

func TestAppendPrunesToSchema(t *testing.T) {
	s := NewStore()
	s.Replace([]Row{{"Name": "a"}}, Schema{"Name", "Source"})
	s.Append(Row{"Name": "b", "Source": "Web", "Extra": "x"})
	r, ok := s.At(1)
	if !ok || r["Source"] != "Web" {
		t.Fatalf("append row = %v", r)
	}
	if _, ok := r["Extra"]; ok {
		t.Fatalf("extra key kept")
	}
}

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{float64(3), "3"},
		{2.5, "2.5"},
		{true, "true"},
	}
	for _, c := range cases {
		if got := Stringify(c.in); got != c.want {
			t.Fatalf("Stringify(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValueOrDefault(t *testing.T) {
	r := Row{"Location": "  "}
	if ValueOr(r, "Location", Unknown) != Unknown {
		t.Fatalf("blank should fall back")
	}
	if ValueOr(Row{"Location": " Pune "}, "Location", Unknown) != "Pune" {
		t.Fatalf("value should be trimmed")
	}
}
