package table

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Conventional column names. None of them is required.
const (
	ColName      = "Name"
	ColEmail     = "Email"
	ColContacted = "Contacted"
	ColSource    = "Source"
	ColLocation  = "Location"
	ColShift     = "Preferred Shift"
	ColDomain    = "Preferred Job Domain"
	ColPlaced    = "Placed"
)

const (
	PlacedValue = "Placed"
	Unknown     = "Unknown"
)

var ErrIndexOutOfRange = errors.New("table: row index out of range")

// Row maps column name to cell value; an absent key reads as "".
type Row map[string]string

func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Placed is the derived placement marker. It is never stored.
func Placed(r Row) string {
	if strings.EqualFold(r[ColContacted], "yes") {
		return PlacedValue
	}
	return ""
}

// Value returns the cell for col, projecting Placed.
func Value(r Row, col string) string {
	if col == ColPlaced {
		return Placed(r)
	}
	return r[col]
}

// ValueOr returns the trimmed cell or def when it is blank.
func ValueOr(r Row, col, def string) string {
	v := strings.TrimSpace(Value(r, col))
	if v == "" {
		return def
	}
	return v
}

// Schema is the ordered list of column names.
type Schema []string

func (s Schema) Has(col string) bool { return s.Index(col) >= 0 }

func (s Schema) Index(col string) int {
	for i, c := range s {
		if c == col {
			return i
		}
	}
	return -1
}

// Normalize drops blank and duplicate names and guarantees a trailing Placed column
// when the source did not carry one.
func (s Schema) Normalize() Schema {
	out := make(Schema, 0, len(s)+1)
	seen := make(map[string]bool, len(s))
	for _, c := range s {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	if !seen[ColPlaced] {
		out = append(out, ColPlaced)
	}
	return out
}

// Store owns the canonical rows and schema.
type Store struct {
	mu       sync.RWMutex
	rows     []Row
	schema   Schema
	revision uint64
}

func NewStore() *Store { return &Store{} }

// Replace swaps rows and schema together. Row keys outside the schema and the
// derived Placed key are dropped.
func (s *Store) Replace(rows []Row, schema Schema) {
	sch := schema.Normalize()
	kept := make([]Row, 0, len(rows))
	for _, r := range rows {
		kept = append(kept, prune(r, sch))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = kept
	s.schema = sch
	s.revision++
}

// Append adds rows at the end, keeping the schema.
func (s *Store) Append(rows ...Row) {
	if len(rows) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.schema) == 0 {
		s.schema = Schema{}.Normalize()
	}
	for _, r := range rows {
		s.rows = append(s.rows, prune(r, s.schema))
	}
	s.revision++
}

// DeleteAt removes row i and shifts later rows down by one.
func (s *Store) DeleteAt(i int) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.rows) {
		return nil, fmt.Errorf("%w: %d (rows=%d)", ErrIndexOutOfRange, i, len(s.rows))
	}
	removed := s.rows[i]
	copy(s.rows[i:], s.rows[i+1:])
	s.rows[len(s.rows)-1] = nil
	s.rows = s.rows[:len(s.rows)-1]
	s.revision++
	return removed, nil
}

// Get returns copies of rows and schema.
func (s *Store) Get() ([]Row, Schema) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]Row, len(s.rows))
	for i, r := range s.rows {
		rows[i] = r.Clone()
	}
	return rows, append(Schema(nil), s.schema...)
}

func (s *Store) At(i int) (Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.rows) {
		return nil, false
	}
	return s.rows[i].Clone(), true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func prune(r Row, sch Schema) Row {
	out := make(Row, len(r))
	for k, v := range r {
		if k == ColPlaced || !sch.Has(k) {
			continue
		}
		out[k] = v
	}
	return out
}

// Stringify converts a decoded JSON cell to its display string. null becomes "".
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// RowFromAny builds a Row from a decoded JSON object.
func RowFromAny(m map[string]any) Row {
	r := make(Row, len(m))
	for k, v := range m {
		r[k] = Stringify(v)
	}
	return r
}
