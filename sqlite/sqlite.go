// Package sqlite stores output rows and run summaries in SQLite, as an
// alternative to the CSV export.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/fwojciec/casescrape"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
// Returns ECONFIG if the database cannot be opened or initialised.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return casescrape.Errorf(casescrape.ECONFIG, "failed to open database: %v", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return casescrape.Errorf(casescrape.ECONFIG, "failed to connect to database: %v", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		// Every autocommitted row insert reaches the disk before Write returns.
		"PRAGMA synchronous = FULL",
	}
	// WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return casescrape.Errorf(casescrape.ECONFIG, "failed to apply %q: %v", p, err)
		}
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return casescrape.Errorf(casescrape.ECONFIG, "failed to create schema: %v", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			site_url TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL DEFAULT '',
			case_count INTEGER NOT NULL DEFAULT 0,
			row_count INTEGER NOT NULL DEFAULT 0,
			skipped_count INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS case_rows (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			subcategory TEXT NOT NULL DEFAULT '',
			case_group TEXT NOT NULL DEFAULT '',
			case_title TEXT NOT NULL DEFAULT '',
			case_info TEXT NOT NULL DEFAULT '',
			clinical_info TEXT NOT NULL DEFAULT '',
			patient_sex TEXT NOT NULL DEFAULT '',
			patient_age TEXT NOT NULL DEFAULT '',
			body_part TEXT NOT NULL DEFAULT '',
			image_path TEXT NOT NULL DEFAULT '',
			image_caption TEXT NOT NULL DEFAULT '',
			source_url TEXT NOT NULL DEFAULT '',
			written_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_case_rows_run_id ON case_rows(run_id);
	`

	_, err := db.db.Exec(schema)
	return err
}
