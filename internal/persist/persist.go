package persist

import (
	"encoding/json"
	"fmt"

	"crmdash/internal/table"
	"crmdash/internal/util/logx"
)

// Versioned storage keys. A schema change needs a new suffix.
const (
	KeyData    = "crm.table.data.v1"
	KeyColumns = "crm.table.columns.v1"
)

// Storage is a durable string key/value store.
type Storage interface {
	// GetItem returns ok=false when the key is absent.
	GetItem(key string) (string, bool, error)
	// SetItems writes all pairs together or none of them.
	SetItems(items map[string]string) error
	Close() error
}

// Adapter stores the table snapshot under the paired keys.
type Adapter struct {
	st Storage
}

func NewAdapter(st Storage) *Adapter { return &Adapter{st: st} }

// Save is best effort: failures are logged and the in-memory table stays authoritative.
func (a *Adapter) Save(rows []table.Row, schema table.Schema) {
	if err := a.save(rows, schema); err != nil {
		logx.Warnf("persist: snapshot not saved: %v", err)
	}
}

func (a *Adapter) save(rows []table.Row, schema table.Schema) error {
	if rows == nil {
		rows = []table.Row{}
	}
	if schema == nil {
		schema = table.Schema{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	cols, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("encode columns: %w", err)
	}
	return a.st.SetItems(map[string]string{
		KeyData:    string(data),
		KeyColumns: string(cols),
	})
}

// Restore returns ok=false unless both halves are present and decode.
func (a *Adapter) Restore() ([]table.Row, table.Schema, bool) {
	data, ok, err := a.st.GetItem(KeyData)
	if err != nil {
		logx.Warnf("persist: read %s: %v", KeyData, err)
		return nil, nil, false
	}
	if !ok {
		return nil, nil, false
	}
	cols, ok, err := a.st.GetItem(KeyColumns)
	if err != nil {
		logx.Warnf("persist: read %s: %v", KeyColumns, err)
		return nil, nil, false
	}
	if !ok {
		return nil, nil, false
	}
	var rows []table.Row
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		logx.Warnf("persist: decode %s: %v", KeyData, err)
		return nil, nil, false
	}
	var schema table.Schema
	if err := json.Unmarshal([]byte(cols), &schema); err != nil {
		logx.Warnf("persist: decode %s: %v", KeyColumns, err)
		return nil, nil, false
	}
	return rows, schema, true
}

func (a *Adapter) Close() error { return a.st.Close() }

// Open returns the storage backend by name: sqlite, file or memory.
func Open(backend, path string) (Storage, error) {
	switch backend {
	case "", "sqlite":
		return OpenSQLite(path)
	case "file":
		return OpenFile(path)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("persist: unknown backend %q", backend)
	}
}
