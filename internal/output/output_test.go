package output

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDatabase(t *testing.T) *Database {
	t.Helper()
	path := filepath.Join(t.TempDir(), "output.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%s) error: %v", path, err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesTheThreeTables(t *testing.T) {
	db := openTestDatabase(t)
	for _, table := range []string{"settings", "times", "results"} {
		row := db.db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		var n int
		if err := row.Scan(&n); err != nil {
			t.Fatalf("querying sqlite_master for %s: %v", table, err)
		}
		if n != 1 {
			t.Errorf("table %s should exist, found %d", table, n)
		}
	}
}

func TestSetSettingAndRecordTimeInsertRows(t *testing.T) {
	db := openTestDatabase(t)
	if err := db.SetSetting("domain", "interval"); err != nil {
		t.Fatalf("SetSetting error: %v", err)
	}
	if err := db.RecordTime("pointer-analysis", 2500*time.Millisecond); err != nil {
		t.Fatalf("RecordTime error: %v", err)
	}

	var v string
	if err := db.db.QueryRow(`SELECT v FROM settings WHERE k = ?`, "domain").Scan(&v); err != nil {
		t.Fatalf("reading back setting: %v", err)
	}
	if v != "interval" {
		t.Errorf("setting v = %q, want %q", v, "interval")
	}

	var seconds float64
	if err := db.db.QueryRow(`SELECT seconds FROM times WHERE k = ?`, "pointer-analysis").Scan(&seconds); err != nil {
		t.Fatalf("reading back time: %v", err)
	}
	if seconds != 2.5 {
		t.Errorf("seconds = %v, want 2.5", seconds)
	}
}

func TestRecordResultAndRecordResultsBothPersist(t *testing.T) {
	db := openTestDatabase(t)
	if err := db.RecordResult(Result{CheckKind: "dbz", Status: StatusOK, StatementID: 1, CallContext: "main", Message: ""}); err != nil {
		t.Fatalf("RecordResult error: %v", err)
	}
	batch := []Result{
		{CheckKind: "nullity", Status: StatusWarn, StatementID: 2, CallContext: "main", Message: "possibly null"},
		{CheckKind: "boa", Status: StatusError, StatementID: 3, CallContext: "main", Message: "out of bounds"},
	}
	if err := db.RecordResults(batch); err != nil {
		t.Fatalf("RecordResults error: %v", err)
	}

	var n int
	if err := db.db.QueryRow(`SELECT count(*) FROM results`).Scan(&n); err != nil {
		t.Fatalf("counting results: %v", err)
	}
	if n != 3 {
		t.Errorf("results count = %d, want 3", n)
	}
	if db.resultCount != 3 {
		t.Errorf("resultCount = %d, want 3", db.resultCount)
	}
}

func TestRecordResultsWithEmptySliceIsANoOp(t *testing.T) {
	db := openTestDatabase(t)
	if err := db.RecordResults(nil); err != nil {
		t.Fatalf("RecordResults(nil) error: %v", err)
	}
	if db.resultCount != 0 {
		t.Errorf("resultCount = %d, want 0", db.resultCount)
	}
}

func TestOpenDriverRejectsUnknownKind(t *testing.T) {
	if _, err := OpenDriver("oracle", "dsn"); err == nil {
		t.Error("OpenDriver should reject an unregistered database kind")
	}
}

func TestSummaryMentionsResultCount(t *testing.T) {
	db := openTestDatabase(t)
	if err := db.RecordResult(Result{CheckKind: "dbz", Status: StatusOK, StatementID: 1, CallContext: "main"}); err != nil {
		t.Fatalf("RecordResult error: %v", err)
	}
	summary := db.Summary()
	if summary == "" {
		t.Error("Summary() should not be empty")
	}
}
