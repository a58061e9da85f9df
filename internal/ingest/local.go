package ingest

import (
	"context"
	"errors"
	"io"
	"os"

	"crmdash/internal/sheet"
	"crmdash/internal/table"
)

// LocalGateway serves the gateway contract in-process from CSV or Excel files.
type LocalGateway struct {
	// Path is read by Fetch; empty means no data.
	Path string
}

func NewLocalGateway(path string) *LocalGateway { return &LocalGateway{Path: path} }

func (g *LocalGateway) Fetch(ctx context.Context) (Result, error) {
	if g.Path == "" {
		return Result{Rows: []table.Row{}, Schema: table.Schema{}.Normalize()}, nil
	}
	f, err := os.Open(g.Path)
	if err != nil {
		return Result{}, &IngestionError{Op: "fetch", Err: err}
	}
	defer f.Close()
	return readSheet(ctx, "fetch", g.Path, f)
}

func (g *LocalGateway) Upload(ctx context.Context, filename string, r io.Reader) (Result, error) {
	if filename == "" {
		return Result{}, &IngestionError{Op: "upload", Msg: "No file selected"}
	}
	if !sheet.Supported(filename) {
		return Result{}, &IngestionError{Op: "upload", Msg: "Invalid file format. Please upload CSV or Excel files only."}
	}
	res, err := readSheet(ctx, "upload", filename, r)
	if err == nil {
		res.Message = "File uploaded and data saved!"
	}
	return res, err
}

func (g *LocalGateway) Sort(ctx context.Context, rows []table.Row, column, order string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, &IngestionError{Op: "sort", Err: err}
	}
	if len(rows) == 0 {
		return Result{}, &IngestionError{Op: "sort", Msg: "No data provided"}
	}
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	if err := sheet.Sort(out, column, order); err != nil {
		msg := err.Error()
		if errors.Is(err, sheet.ErrColumnNotFound) {
			msg = `Column "` + column + `" not found`
		}
		return Result{}, &IngestionError{Op: "sort", Msg: msg}
	}
	return Result{Rows: out}, nil
}

func readSheet(ctx context.Context, op, filename string, r io.Reader) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, &IngestionError{Op: op, Err: err}
	}
	read := sheet.ReadCSV
	if sheet.IsExcel(filename) {
		read = sheet.ReadExcel
	}
	rows, schema, err := read(r)
	if err != nil {
		return Result{}, &IngestionError{Op: op, Err: err}
	}
	if rows == nil {
		rows = []table.Row{}
	}
	return Result{Rows: rows, Schema: schema.Normalize()}, nil
}
