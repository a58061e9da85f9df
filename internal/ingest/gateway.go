package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"crmdash/internal/table"
	"crmdash/internal/version"
)

// ErrStale marks a response that was superseded by a newer request or a local change.
var ErrStale = errors.New("ingest: stale response discarded")

// IngestionError is a transport, HTTP, decode or success=false failure.
type IngestionError struct {
	Op     string // fetch|upload|sort
	Status int    // HTTP status, 0 when none
	Msg    string
	Err    error
}

func (e *IngestionError) Error() string {
	var b strings.Builder
	b.WriteString("ingest: ")
	b.WriteString(e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *IngestionError) Unwrap() error { return e.Err }

// Reason is the short text shown to the user.
func (e *IngestionError) Reason() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return "unknown error"
}

// Result is a normalized backend answer. Schema is nil when the endpoint does not
// return columns (sort).
type Result struct {
	Rows    []table.Row
	Schema  table.Schema
	Message string
}

// Gateway talks to the data backend.
type Gateway interface {
	Fetch(ctx context.Context) (Result, error)
	Upload(ctx context.Context, filename string, r io.Reader) (Result, error)
	Sort(ctx context.Context, rows []table.Row, column, order string) (Result, error)
}

type payload struct {
	Success bool             `json:"success"`
	Data    []map[string]any `json:"data"`
	Columns []string         `json:"columns"`
	Message string           `json:"message,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// SortRequest is the body of POST /api/sort-data.
type SortRequest struct {
	Data       []table.Row `json:"data"`
	SortColumn string      `json:"sort_column"`
	SortOrder  string      `json:"sort_order"`
}

// Normalize stringifies cells and makes sure the schema carries Placed.
func Normalize(data []map[string]any, columns []string) Result {
	res := Result{Rows: make([]table.Row, 0, len(data))}
	for _, m := range data {
		res.Rows = append(res.Rows, table.RowFromAny(m))
	}
	if columns != nil {
		res.Schema = table.Schema(columns).Normalize()
	}
	return res
}

// HTTPGateway calls the backend REST endpoints.
type HTTPGateway struct {
	client *resty.Client
}

func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("User-Agent", version.UserAgent())
	return &HTTPGateway{client: c}
}

func (g *HTTPGateway) Fetch(ctx context.Context) (Result, error) {
	resp, err := g.client.R().SetContext(ctx).Get("/api/get-data")
	return decode("fetch", resp, err)
}

func (g *HTTPGateway) Upload(ctx context.Context, filename string, r io.Reader) (Result, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, r).
		Post("/api/upload-csv")
	return decode("upload", resp, err)
}

func (g *HTTPGateway) Sort(ctx context.Context, rows []table.Row, column, order string) (Result, error) {
	if order == "" {
		order = "asc"
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(SortRequest{Data: withPlaced(rows), SortColumn: column, SortOrder: order}).
		Post("/api/sort-data")
	return decode("sort", resp, err)
}

// withPlaced adds the projected Placed cell so the backend can sort on it.
func withPlaced(rows []table.Row) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		c := r.Clone()
		c[table.ColPlaced] = table.Placed(r)
		out[i] = c
	}
	return out
}

func decode(op string, resp *resty.Response, err error) (Result, error) {
	if err != nil {
		return Result{}, &IngestionError{Op: op, Err: err}
	}
	var p payload
	decErr := json.Unmarshal(resp.Body(), &p)
	if resp.IsError() {
		ie := &IngestionError{Op: op, Status: resp.StatusCode()}
		if decErr == nil {
			ie.Msg = firstNonEmpty(p.Error, p.Message)
		}
		return Result{}, ie
	}
	if decErr != nil {
		return Result{}, &IngestionError{Op: op, Status: resp.StatusCode(), Err: fmt.Errorf("decode response: %w", decErr)}
	}
	if !p.Success {
		return Result{}, &IngestionError{Op: op, Status: resp.StatusCode(), Msg: firstNonEmpty(p.Error, p.Message, "request was not successful")}
	}
	res := Normalize(p.Data, p.Columns)
	res.Message = p.Message
	return res, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
