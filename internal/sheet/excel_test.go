package sheet

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"crmdash/internal/table"
)

func TestExcelRoundTrip(t *testing.T) {
	rows := []table.Row{
		{"Name": "X", "Contacted": "Yes", "Years of Experience": "10"},
		{"Name": "Y", "Contacted": "No"},
	}
	schema := table.Schema{"Name", "Contacted", "Years of Experience", "Placed"}
	var buf bytes.Buffer
	if err := WriteExcel(&buf, rows, schema); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, sch, err := Read("leads.XLSX", &buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(sch) != 4 || sch[2] != "Years of Experience" {
		t.Fatalf("schema = %v", sch)
	}
	if len(got) != 2 || got[0]["Years of Experience"] != "10" || got[0]["Placed"] != "Placed" {
		t.Fatalf("rows = %v", got)
	}
	if got[1]["Years of Experience"] != "" || got[1]["Placed"] != "" {
		t.Fatalf("second row = %v", got[1])
	}
}

func TestReadExcelSkipsBlankRowsAndUsesFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	name := f.GetSheetName(0)
	_ = f.SetSheetRow(name, "A1", &[]any{" Name ", "Source"})
	_ = f.SetSheetRow(name, "A2", &[]any{"X", "Referral"})
	_ = f.SetSheetRow(name, "A4", &[]any{"Y", 42})
	if _, err := f.NewSheet("Other"); err != nil {
		t.Fatal(err)
	}
	_ = f.SetSheetRow("Other", "A1", &[]any{"Ignored"})
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	rows, schema, err := ReadExcel(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if schema[0] != "Name" || len(rows) != 2 || rows[1]["Source"] != "42" {
		t.Fatalf("schema=%v rows=%v", schema, rows)
	}
}

func TestReadRejectsUnknownFormat(t *testing.T) {
	if _, _, err := Read("leads.txt", strings.NewReader("Name\nX\n")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v", err)
	}
	if _, _, err := Read("leads.xls", strings.NewReader("Name\nX\n")); err == nil {
		t.Fatalf("csv bytes are not a workbook")
	}
	if Supported("a.pdf") || !Supported("a.xls") || !Supported("a.csv") {
		t.Fatalf("Supported mismatch")
	}
}
