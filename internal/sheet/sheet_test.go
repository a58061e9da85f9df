package sheet

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"crmdash/internal/table"
)

const leadsCSV = "\ufeffName,Contacted,Source,Years of Experience\n" +
	"X,Yes,Referral,10\n" +
	"\n" +
	"Y,No,Referral,9\n" +
	"Z,No\n"

func TestReadCSV(t *testing.T) {
	rows, schema, err := ReadCSV(strings.NewReader(leadsCSV))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Join(schema, ",") != "Name,Contacted,Source,Years of Experience" {
		t.Fatalf("schema = %v", schema)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	if _, ok := rows[2]["Source"]; ok {
		t.Fatalf("short record should leave Source absent: %v", rows[2])
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, _, err := ReadCSV(strings.NewReader("")); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("err = %v", err)
	}
}

func TestSortNumericAndEmptyLast(t *testing.T) {
	rows, _, _ := ReadCSV(strings.NewReader(leadsCSV))
	if err := Sort(rows, "Years of Experience", "asc"); err != nil {
		t.Fatalf("sort: %v", err)
	}
	got := rows[0]["Name"] + rows[1]["Name"] + rows[2]["Name"]
	if got != "YXZ" {
		t.Fatalf("asc order = %s", got)
	}
	_ = Sort(rows, "Years of Experience", "desc")
	got = rows[0]["Name"] + rows[1]["Name"] + rows[2]["Name"]
	if got != "XYZ" {
		t.Fatalf("desc order = %s", got)
	}
}

func TestSortStable(t *testing.T) {
	rows := []table.Row{{"Name": "a", "S": "k"}, {"Name": "b", "S": "j"}, {"Name": "c", "S": "k"}}
	_ = Sort(rows, "S", "asc")
	if rows[0]["Name"] != "b" || rows[1]["Name"] != "a" || rows[2]["Name"] != "c" {
		t.Fatalf("order = %v", rows)
	}
}

func TestSortUnknownColumn(t *testing.T) {
	rows := []table.Row{{"Name": "a"}}
	if err := Sort(rows, "Nope", "asc"); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	rows := []table.Row{{"Name": "Q, Jr.", "Contacted": "yes"}}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows, table.Schema{"Name", "Contacted", "Placed"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, _, err := ReadCSV(&buf)
	if err != nil || got[0]["Name"] != "Q, Jr." || got[0]["Placed"] != "Placed" {
		t.Fatalf("got %v err %v", got, err)
	}
}

func TestAppendCSVHasNoHeader(t *testing.T) {
	var buf bytes.Buffer
	schema := table.Schema{"Name", "Contacted"}
	if err := AppendCSV(&buf, []table.Row{{"Name": "a", "Contacted": "No"}}, schema); err != nil {
		t.Fatalf("append: %v", err)
	}
	if got := buf.String(); got != "a,No\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFilterContains(t *testing.T) {
	rows, _, _ := ReadCSV(strings.NewReader(leadsCSV))
	got, err := FilterContains(rows, "Contacted", "NO")
	if err != nil || len(got) != 2 {
		t.Fatalf("got %v err %v", got, err)
	}
}
