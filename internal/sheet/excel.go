package sheet

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"crmdash/internal/table"
)

// ErrUnsupportedFormat is returned by Read for names that are neither CSV nor Excel.
var ErrUnsupportedFormat = errors.New("sheet: unsupported file format")

// Supported reports whether filename has an extension Read accepts.
func Supported(filename string) bool {
	return IsExcel(filename) || strings.EqualFold(filepath.Ext(filename), ".csv")
}

// IsExcel reports whether filename names an Excel workbook.
func IsExcel(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xls":
		return true
	}
	return false
}

// Read parses r as CSV or as an Excel workbook depending on filename.
func Read(filename string, r io.Reader) ([]table.Row, table.Schema, error) {
	switch {
	case IsExcel(filename):
		return ReadExcel(r)
	case strings.EqualFold(filepath.Ext(filename), ".csv"):
		return ReadCSV(r)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// ReadExcel reads the first worksheet of a workbook. The first row is the
// header, like ReadCSV. Legacy binary .xls files fail to open.
func ReadExcel(r io.Reader) ([]table.Row, table.Schema, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("sheet: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrNoHeader
	}
	recs, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("sheet: read %s: %w", sheets[0], err)
	}
	if len(recs) == 0 {
		return nil, nil, ErrNoHeader
	}
	schema := make(table.Schema, len(recs[0]))
	for i, h := range recs[0] {
		schema[i] = strings.TrimSpace(h)
	}
	var rows []table.Row
	for _, rec := range recs[1:] {
		if blank(rec) {
			continue
		}
		rows = append(rows, Record(schema, rec))
	}
	return rows, schema, nil
}

// WriteExcel writes schema and rows to a single-sheet workbook.
func WriteExcel(w io.Writer, rows []table.Row, schema table.Schema) error {
	f := excelize.NewFile()
	defer f.Close()
	name := f.GetSheetName(0)
	header := make([]any, len(schema))
	for i, c := range schema {
		header[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	rec := make([]any, len(schema))
	for i, r := range rows {
		for j, c := range schema {
			rec[j] = table.Value(r, c)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &rec); err != nil {
			return err
		}
	}
	return f.Write(w)
}
