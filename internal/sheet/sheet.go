// Package sheet reads lead spreadsheets and orders rows. Both the reference
// server and the offline gateway use it.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"crmdash/internal/table"
)

// ApplicantColumns is the column set served by the backend.
var ApplicantColumns = table.Schema{
	"Name", "Email", "Location", "Preferred Location", "Experience Level", "Designation",
	"Qualification", "Preferred Job Domain", "Skills", "Specialist Skill", "Years of Experience",
	"Expected Salary", "Availability", "Preferred Shift", "Job Type", "Source",
	"Contacted", "Skills Count", "Salary Package",
}

var (
	ErrNoHeader       = errors.New("sheet: missing header row")
	ErrColumnNotFound = errors.New("sheet: column not found")
)

// ReadCSV parses a CSV document with a header row. Short records leave the
// missing cells absent; extra cells are dropped.
func ReadCSV(r io.Reader) ([]table.Row, table.Schema, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrNoHeader
	}
	if err != nil {
		return nil, nil, fmt.Errorf("sheet: header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	schema := make(table.Schema, len(header))
	for i, h := range header {
		schema[i] = strings.TrimSpace(h)
	}
	var rows []table.Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("sheet: %w", err)
		}
		if blank(rec) {
			continue
		}
		rows = append(rows, Record(schema, rec))
	}
	return rows, schema, nil
}

// Record maps one CSV record onto the header.
func Record(schema table.Schema, rec []string) table.Row {
	row := make(table.Row, len(schema))
	for i, col := range schema {
		if col == "" || i >= len(rec) {
			continue
		}
		row[col] = strings.TrimSpace(rec[i])
	}
	return row
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// WriteCSV writes schema as header followed by rows.
func WriteCSV(w io.Writer, rows []table.Row, schema table.Schema) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(schema); err != nil {
		return err
	}
	return writeRecords(cw, rows, schema)
}

// AppendCSV writes rows without a header, for files that already have one.
func AppendCSV(w io.Writer, rows []table.Row, schema table.Schema) error {
	return writeRecords(csv.NewWriter(w), rows, schema)
}

func writeRecords(cw *csv.Writer, rows []table.Row, schema table.Schema) error {
	rec := make([]string, len(schema))
	for _, r := range rows {
		for i, col := range schema {
			rec[i] = table.Value(r, col)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// HasColumn reports whether any row carries col.
func HasColumn(rows []table.Row, col string) bool {
	for _, r := range rows {
		if _, ok := r[col]; ok {
			return true
		}
	}
	return false
}

// Sort orders rows by col in place, stable. Numbers compare numerically when
// both cells parse; empty cells always go last.
func Sort(rows []table.Row, col, order string) error {
	if col == "" {
		return errors.New("sheet: no sort column specified")
	}
	if col != table.ColPlaced && !HasColumn(rows, col) {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, col)
	}
	desc := strings.EqualFold(order, "desc")
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := table.Value(rows[i], col), table.Value(rows[j], col)
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		c := Compare(a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})
	return nil
}

// Compare orders two cells: numerically if both are numbers, else by string.
func Compare(a, b string) int {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

// FilterContains keeps rows whose col contains value, case-insensitive.
func FilterContains(rows []table.Row, col, value string) ([]table.Row, error) {
	if !HasColumn(rows, col) {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, col)
	}
	v := strings.ToLower(value)
	out := []table.Row{}
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r[col]), v) {
			out = append(out, r)
		}
	}
	return out, nil
}
