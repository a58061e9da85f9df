package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"crmdash/internal/sheet"
	"crmdash/internal/table"
	"crmdash/internal/view"
)

var ErrNoRows = errors.New("no rows")

// ToFile writes rows to path in format csv, json (one object per line) or xlsx.
func ToFile(path, format string, rows []table.Row, schema table.Schema) error {
	if len(rows) == 0 {
		return ErrNoRows
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, format, rows, schema); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func Write(w io.Writer, format string, rows []table.Row, schema table.Schema) error {
	switch format {
	case "csv", "":
		return ToCSV(w, rows, schema)
	case "json", "ndjson":
		return ToNDJSON(w, rows, schema)
	case "xlsx":
		return ToXLSX(w, rows, schema)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// ToCSV writes a Sr. No. column followed by the schema columns.
func ToCSV(w io.Writer, rows []table.Row, schema table.Schema) error {
	cw := csv.NewWriter(w)
	header := append([]string{view.ColSrNo}, schema...)
	if err := cw.Write(header); err != nil {
		return err
	}
	rec := make([]string, len(header))
	for i, r := range rows {
		rec[0] = strconv.Itoa(i + 1)
		for j, c := range schema {
			rec[j+1] = table.Value(r, c)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToNDJSON writes one JSON object per row with every schema column present.
func ToNDJSON(w io.Writer, rows []table.Row, schema table.Schema) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		obj := make(map[string]string, len(schema))
		for _, c := range schema {
			obj[c] = table.Value(r, c)
		}
		b, _ := json.Marshal(obj)
		if _, err := bw.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ToXLSX writes a workbook laid out like ToCSV.
func ToXLSX(w io.Writer, rows []table.Row, schema table.Schema) error {
	numbered := make([]table.Row, len(rows))
	for i, r := range rows {
		n := make(table.Row, len(schema)+1)
		for _, c := range schema {
			n[c] = table.Value(r, c)
		}
		n[view.ColSrNo] = strconv.Itoa(i + 1)
		numbered[i] = n
	}
	return sheet.WriteExcel(w, numbered, append(table.Schema{view.ColSrNo}, schema...))
}
