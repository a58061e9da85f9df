package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"crmdash/internal/sheet"
	"crmdash/internal/table"
	"crmdash/internal/util/logx"
)

const maxUploadSize = 10 << 20 // 10MB
const maxBodySize = 20 << 20   // 20MB

type Deps struct {
	Applicants *Applicants
	// Upload limits POST /api/upload-csv; nil disables limiting.
	Upload *ClientLimiter
}

func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)

	r.Route("/api", func(r chi.Router) {
		r.Get("/get-data", handleGetData(deps))
		r.Group(func(r chi.Router) {
			if deps.Upload != nil {
				r.Use(deps.Upload.Middleware)
			}
			r.Post("/upload-csv", handleUpload(deps))
		})
		r.Post("/sort-data", handleSort())
		r.Post("/filter-data", handleFilter())
		r.Delete("/delete-record/{id}", handleDelete(deps))
		r.Put("/update-record/{id}", handleUpdate(deps))
	})
	return r
}

// requestID tags every request with a uuid and logs it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		start := time.Now()
		next.ServeHTTP(w, r)
		logx.Infof("server: %s %s id=%s took=%s", r.Method, r.URL.Path, id, time.Since(start).Round(time.Millisecond))
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, format string, args ...any) {
	writeJSON(w, code, map[string]any{
		"success": false,
		"error":   fmt.Sprintf(format, args...),
	})
}

func handleGetData(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := deps.Applicants.All()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "Error fetching data: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    rows,
			"columns": sheet.ApplicantColumns,
		})
	}
}

func handleUpload(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		f, hdr, err := r.FormFile("file")
		if err != nil {
			httpError(w, http.StatusBadRequest, "No file provided")
			return
		}
		defer f.Close()
		if hdr.Filename == "" {
			httpError(w, http.StatusBadRequest, "No file selected")
			return
		}
		if !sheet.Supported(hdr.Filename) {
			httpError(w, http.StatusBadRequest, "Invalid file format. Please upload CSV or Excel files only.")
			return
		}
		rows, _, err := sheet.Read(hdr.Filename, f)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "Error processing file: %v", err)
			return
		}
		if err := deps.Applicants.Insert(rows); err != nil {
			httpError(w, http.StatusInternalServerError, "Error processing file: %v", err)
			return
		}
		all, err := deps.Applicants.All()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "Error processing file: %v", err)
			return
		}
		logx.Infof("server: imported %d applicants from %s", len(rows), hdr.Filename)
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"message":    "File uploaded and data saved!",
			"data":       all,
			"columns":    sheet.ApplicantColumns,
			"total_rows": len(all),
		})
	}
}

type sortRequest struct {
	Data       []map[string]any `json:"data"`
	SortColumn string           `json:"sort_column"`
	SortOrder  string           `json:"sort_order"`
}

func rowsOf(data []map[string]any) []table.Row {
	rows := make([]table.Row, len(data))
	for i, m := range data {
		rows[i] = table.RowFromAny(m)
	}
	return rows
}

func handleSort() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		var req sortRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}
		if len(req.Data) == 0 {
			httpError(w, http.StatusBadRequest, "No data provided")
			return
		}
		if req.SortColumn == "" {
			httpError(w, http.StatusBadRequest, "No sort column specified")
			return
		}
		if req.SortOrder == "" {
			req.SortOrder = "asc"
		}
		rows := rowsOf(req.Data)
		if err := sheet.Sort(rows, req.SortColumn, req.SortOrder); err != nil {
			if errors.Is(err, sheet.ErrColumnNotFound) {
				httpError(w, http.StatusBadRequest, "Column %q not found", req.SortColumn)
				return
			}
			httpError(w, http.StatusInternalServerError, "Error sorting data: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"data":       rows,
			"sorted_by":  req.SortColumn,
			"sort_order": req.SortOrder,
		})
	}
}

type filterRequest struct {
	Data         []map[string]any `json:"data"`
	FilterColumn string           `json:"filter_column"`
	FilterValue  any              `json:"filter_value"`
}

func handleFilter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		var req filterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}
		if len(req.Data) == 0 {
			httpError(w, http.StatusBadRequest, "No data provided")
			return
		}
		if req.FilterColumn == "" || req.FilterValue == nil {
			httpError(w, http.StatusBadRequest, "Filter column and value must be specified")
			return
		}
		rows := rowsOf(req.Data)
		var out []table.Row
		var err error
		if s, ok := req.FilterValue.(string); ok {
			out, err = sheet.FilterContains(rows, req.FilterColumn, s)
		} else {
			want := table.Stringify(req.FilterValue)
			if !sheet.HasColumn(rows, req.FilterColumn) {
				err = fmt.Errorf("%w: %q", sheet.ErrColumnNotFound, req.FilterColumn)
			}
			out = []table.Row{}
			for _, row := range rows {
				if row[req.FilterColumn] == want {
					out = append(out, row)
				}
			}
		}
		if err != nil {
			httpError(w, http.StatusBadRequest, "Column %q not found", req.FilterColumn)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"data":         out,
			"filtered_by":  req.FilterColumn,
			"filter_value": req.FilterValue,
			"total_rows":   len(out),
		})
	}
}

func handleDelete(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(chi.URLParam(r, "id"))
		if err != nil {
			httpError(w, http.StatusNotFound, "Record not found")
			return
		}
		ok, err := deps.Applicants.Delete(id)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "%v", err)
			return
		}
		if !ok {
			httpError(w, http.StatusNotFound, "Record not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": fmt.Sprintf("Record %d deleted", id)})
	}
}

func handleUpdate(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(chi.URLParam(r, "id"))
		if err != nil {
			httpError(w, http.StatusNotFound, "Record not found")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}
		ok, err := deps.Applicants.Update(id, table.RowFromAny(fields))
		if err != nil {
			httpError(w, http.StatusInternalServerError, "%v", err)
			return
		}
		if !ok {
			httpError(w, http.StatusNotFound, "Record not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": fmt.Sprintf("Record %d updated", id)})
	}
}

// Serve runs the HTTP server until ctx ends, then shuts it down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logx.Infof("server: listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logx.Infof("server: shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
