package persist

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"crmdash/internal/table"
)

func sample() ([]table.Row, table.Schema) {
	rows := []table.Row{
		{"Name": "X", "Contacted": "Yes", "Source": "Referral"},
		{"Name": "Y", "Contacted": "No", "Source": "Referral"},
	}
	return rows, table.Schema{"Name", "Contacted", "Source", "Placed"}
}

func backends(t *testing.T) map[string]Storage {
	t.Helper()
	dir := t.TempDir()
	sq, err := OpenSQLite(filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	fs, err := OpenFile(filepath.Join(dir, "state.json"))
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	t.Cleanup(func() {
		sq.Close()
		fs.Close()
	})
	return map[string]Storage{"memory": NewMemory(), "sqlite": sq, "file": fs}
}

func TestRoundTrip(t *testing.T) {
	for name, st := range backends(t) {
		a := NewAdapter(st)
		if _, _, ok := a.Restore(); ok {
			t.Fatalf("%s: restore on empty storage should be a no-op", name)
		}
		rows, schema := sample()
		a.Save(rows, schema)
		gotRows, gotSchema, ok := a.Restore()
		if !ok {
			t.Fatalf("%s: restore failed", name)
		}
		if !reflect.DeepEqual(gotRows, rows) || !reflect.DeepEqual(gotSchema, schema) {
			t.Fatalf("%s: got %v %v", name, gotRows, gotSchema)
		}
	}
}

func TestRestoreNeedsBothHalves(t *testing.T) {
	m := NewMemory()
	_ = m.SetItems(map[string]string{KeyData: `[{"Name":"X"}]`})
	if _, _, ok := NewAdapter(m).Restore(); ok {
		t.Fatalf("restore with missing columns key should fail")
	}

	m = NewMemory()
	_ = m.SetItems(map[string]string{KeyData: `[{"Name":"X"}]`, KeyColumns: `{not json`})
	if _, _, ok := NewAdapter(m).Restore(); ok {
		t.Fatalf("restore with corrupt columns should fail")
	}
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	m := NewMemory()
	m.Fail = errors.New("quota exceeded")
	a := NewAdapter(m)
	rows, schema := sample()
	a.Save(rows, schema)
	if _, _, ok := a.Restore(); ok {
		t.Fatalf("nothing should have been written")
	}
}

func TestFileBackendSurvivesReopen(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "state.json")
	st, err := OpenFile(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rows, schema := sample()
	NewAdapter(st).Save(rows, schema)
	st.Close()
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}

	st2, err := OpenFile(p)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st2.Close()
	got, _, ok := NewAdapter(st2).Restore()
	if !ok || len(got) != 2 {
		t.Fatalf("reopen restore: ok=%v rows=%v", ok, got)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("redis", ""); err == nil {
		t.Fatalf("expected error")
	}
}
