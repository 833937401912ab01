// internal/output/output.go
// Package output is the analyzer's one persisted-state sink (spec §6.3):
// a SQLite database with `settings`, `times` and `results` tables,
// opened with journal_mode=off and synchronous=off for fast bulk
// insertion under a single-writer discipline. Grounded on
// sentra/internal/database/db_manager.go's DBManager — a thin,
// mutex-guarded wrapper around database/sql with a multi-driver
// registry — reshaped from Sentra's general-purpose "connect to
// anything" manager into one purpose-built database plus an optional
// side door (OpenDriver) for routing results at an alternate sink.
package output

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	_ "github.com/denisenkom/go-mssqldb" // registers "mssql"
	_ "github.com/go-sql-driver/mysql"   // registers "mysql"
	_ "github.com/lib/pq"                // registers "postgres"
	_ "github.com/mattn/go-sqlite3"      // registers "sqlite3"
	_ "modernc.org/sqlite"               // registers "sqlite", pure Go, CGO-free
)

// Status is the finite result classification spec §6.3 names for a row
// in the `results` table.
type Status string

const (
	StatusOK          Status = "ok"
	StatusWarn        Status = "warn"
	StatusError       Status = "error"
	StatusUnreachable Status = "unreachable"
)

// Result is one row of the `results` table: a single checker's verdict
// at one statement, under one call context.
type Result struct {
	CheckKind   string
	Status      Status
	StatementID int
	CallContext string
	Message     string
}

// driverNames maps the kind strings OpenDriver accepts to the name each
// package registers with database/sql via its blank import's init().
// sqlite's default path always uses "sqlite" (modernc, pure Go); "sqlite3"
// names the CGO-backed mattn driver kept registered for parity with
// db_manager.go's driver set but never opened by Open.
var driverNames = map[string]string{
	"sqlite":     "sqlite",
	"sqlite3":    "sqlite3",
	"postgres":   "postgres",
	"postgresql": "postgres",
	"mysql":      "mysql",
	"mssql":      "mssql",
	"sqlserver":  "mssql",
}

// OpenDriver opens a database/sql handle against one of the registered
// alternate drivers, for experiments that route results somewhere other
// than the default SQLite output file.
func OpenDriver(kind, dsn string) (*sql.DB, error) {
	name, ok := driverNames[kind]
	if !ok {
		return nil, fmt.Errorf("output: unsupported database kind %q", kind)
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("output: failed to open %s: %w", kind, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("output: failed to ping %s: %w", kind, err)
	}
	return db, nil
}

// Database is the analyzer's default output sink: one SQLite file
// holding settings, times and results, written from a single goroutine
// at a time via mu.
type Database struct {
	db   *sql.DB
	path string
	mu   sync.Mutex

	resultCount int
	opened      time.Time
}

// Open creates path if absent (an existing file's rows are kept), applies
// the bulk-insertion pragmas spec §6.3 requires, and creates the three
// tables if absent.
func Open(path string) (*Database, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("output: failed to open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // sqlite is single-writer; one connection avoids SQLITE_BUSY entirely

	for _, pragma := range []string{
		"PRAGMA journal_mode = OFF",
		"PRAGMA synchronous = OFF",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("output: failed to set %q: %w", pragma, err)
		}
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS settings (k TEXT, v TEXT)`,
		`CREATE TABLE IF NOT EXISTS times (k TEXT, seconds REAL)`,
		`CREATE TABLE IF NOT EXISTS results (
			check_kind TEXT,
			status TEXT,
			statement_id INTEGER,
			call_context TEXT,
			message TEXT
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("output: failed to create schema: %w", err)
		}
	}

	return &Database{db: db, path: path, opened: time.Now()}, nil
}

// SetSetting records one key/value row in `settings` (a CLI flag, the
// analyzer's version, the domain/strategy chosen for this run, ...).
func (d *Database) SetSetting(k, v string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.db.Exec(`INSERT INTO settings (k, v) VALUES (?, ?)`, k, v)
	if err != nil {
		return fmt.Errorf("output: failed to record setting %s: %w", k, err)
	}
	return nil
}

// RecordTime records one named phase's elapsed duration in `times`.
func (d *Database) RecordTime(k string, elapsed time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.db.Exec(`INSERT INTO times (k, seconds) VALUES (?, ?)`, k, elapsed.Seconds())
	if err != nil {
		return fmt.Errorf("output: failed to record time %s: %w", k, err)
	}
	return nil
}

// RecordResult appends one row to `results`.
func (d *Database) RecordResult(r Result) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.db.Exec(
		`INSERT INTO results (check_kind, status, statement_id, call_context, message)
		 VALUES (?, ?, ?, ?, ?)`,
		r.CheckKind, string(r.Status), r.StatementID, r.CallContext, r.Message,
	)
	if err != nil {
		return fmt.Errorf("output: failed to record result: %w", err)
	}
	d.resultCount++
	return nil
}

// RecordResults writes a batch of results in a single transaction, the
// fast path a checker's end-of-run flush should use instead of calling
// RecordResult in a loop.
func (d *Database) RecordResults(rs []Result) error {
	if len(rs) == 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("output: failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO results (check_kind, status, statement_id, call_context, message)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("output: failed to prepare batch insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rs {
		if _, err := stmt.Exec(r.CheckKind, string(r.Status), r.StatementID, r.CallContext, r.Message); err != nil {
			tx.Rollback()
			return fmt.Errorf("output: failed to insert result: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("output: failed to commit batch insert: %w", err)
	}
	d.resultCount += len(rs)
	return nil
}

// Summary formats a one-line, human-readable count of results written
// and the time elapsed since Open, for the CLI to print at exit.
func (d *Database) Summary() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fmt.Sprintf("%s written to %s in %s",
		humanize.Comma(int64(d.resultCount)), d.path, humanize.RelTime(d.opened, time.Now(), "", ""))
}

// Close closes the underlying connection.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.db.Close()
}
