package server

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"crmdash/internal/sheet"
	"crmdash/internal/table"
)

// ColID is the record id added to every served row.
const ColID = "id"

// Applicants is the SQLite-backed applicant table.
type Applicants struct {
	db *sql.DB
}

func dbColumn(col string) string {
	return strings.ToLower(strings.ReplaceAll(col, " ", "_"))
}

// OpenApplicants opens (or creates) the database at path. ":memory:" is accepted.
func OpenApplicants(path string) (*Applicants, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	defs := make([]string, 0, len(sheet.ApplicantColumns))
	for _, c := range sheet.ApplicantColumns {
		defs = append(defs, dbColumn(c)+" TEXT")
	}
	ddl := "CREATE TABLE IF NOT EXISTS applicants (id INTEGER PRIMARY KEY AUTOINCREMENT, " + strings.Join(defs, ", ") + ")"
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating applicants table: %w", err)
	}
	return &Applicants{db: db}, nil
}

func (a *Applicants) Close() error { return a.db.Close() }

// Insert stores rows in one transaction. Cells outside the applicant columns are ignored.
func (a *Applicants) Insert(rows []table.Row) error {
	cols := make([]string, len(sheet.ApplicantColumns))
	marks := make([]string, len(cols))
	for i, c := range sheet.ApplicantColumns {
		cols[i] = dbColumn(c)
		marks[i] = "?"
	}
	q := "INSERT INTO applicants (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	stmt, err := tx.Prepare(q)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()
	args := make([]any, len(cols))
	for _, r := range rows {
		for i, c := range sheet.ApplicantColumns {
			v, ok := r[c]
			if !ok {
				args[i] = nil
				continue
			}
			args[i] = v
		}
		if _, err := stmt.Exec(args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting applicant: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// All returns every applicant in id order, with the id as a cell.
func (a *Applicants) All() ([]table.Row, error) {
	cols := make([]string, len(sheet.ApplicantColumns))
	for i, c := range sheet.ApplicantColumns {
		cols[i] = dbColumn(c)
	}
	rs, err := a.db.Query("SELECT id, " + strings.Join(cols, ", ") + " FROM applicants ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing applicants: %w", err)
	}
	defer rs.Close()
	out := []table.Row{}
	vals := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols)+1)
	var id int64
	dest[0] = &id
	for i := range vals {
		dest[i+1] = &vals[i]
	}
	for rs.Next() {
		if err := rs.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning applicant: %w", err)
		}
		row := table.Row{ColID: strconv.FormatInt(id, 10)}
		for i, c := range sheet.ApplicantColumns {
			row[c] = vals[i].String
		}
		out = append(out, row)
	}
	return out, rs.Err()
}

// Delete removes one applicant and reports whether it existed.
func (a *Applicants) Delete(id int64) (bool, error) {
	res, err := a.db.Exec("DELETE FROM applicants WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting applicant %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Update sets the given applicant columns; unknown keys are ignored.
func (a *Applicants) Update(id int64, fields table.Row) (bool, error) {
	var exists int
	err := a.db.QueryRow("SELECT COUNT(*) FROM applicants WHERE id = ?", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("looking up applicant %d: %w", id, err)
	}
	if exists == 0 {
		return false, nil
	}
	var sets []string
	var args []any
	for _, c := range sheet.ApplicantColumns {
		if v, ok := fields[c]; ok {
			sets = append(sets, dbColumn(c)+" = ?")
			args = append(args, v)
		}
	}
	if len(sets) == 0 {
		return true, nil
	}
	args = append(args, id)
	if _, err := a.db.Exec("UPDATE applicants SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		return false, fmt.Errorf("updating applicant %d: %w", id, err)
	}
	return true, nil
}

var errBadID = errors.New("invalid record id")

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}
