// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/article-extract/pkg/types"
)

// SQLiteWriter writes a table to <dir>/<name>.sqlite. The database holds a
// single table named after the writer with one column per declared field.
// All rows of a run are inserted in one transaction committed by Close.
type SQLiteWriter struct {
	spec Spec
	path string
	db   *sql.DB
	tx   *sql.Tx
	stmt *sql.Stmt
}

// NewSQLite returns a closed SQLite writer for spec in dir.
func NewSQLite(spec Spec, dir string) *SQLiteWriter {
	return &SQLiteWriter{
		spec: spec,
		path: filePath(dir, spec.Name, ".sqlite"),
	}
}

func (w *SQLiteWriter) Name() string { return w.spec.Name }
func (w *SQLiteWriter) Spec() Spec   { return w.spec }
func (w *SQLiteWriter) Path() string { return w.path }

// Open replaces any existing database file, creates the table and starts
// the transaction rows are appended in.
func (w *SQLiteWriter) Open() error {
	if w.db != nil {
		return fmt.Errorf("%s already open", w.path)
	}
	if err := os.Remove(w.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing old %s: %w", w.path, err)
	}

	db, err := sql.Open("sqlite3", w.path)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", w.path, err)
	}

	table := quoteIdent(w.spec.Name)
	cols := make([]string, len(w.spec.Fields))
	marks := make([]string, len(w.spec.Fields))
	for i, f := range w.spec.Fields {
		cols[i] = quoteIdent(f)
		marks[i] = "?"
	}

	if _, err := db.Exec(fmt.Sprintf(`CREATE TABLE %s (%s)`, table, strings.Join(cols, ", "))); err != nil {
		db.Close()
		return fmt.Errorf("creating table %s: %w", w.spec.Name, err)
	}

	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return fmt.Errorf("beginning transaction: %w", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		table, strings.Join(cols, ", "), strings.Join(marks, ", ")))
	if err != nil {
		tx.Rollback()
		db.Close()
		return fmt.Errorf("preparing insert: %w", err)
	}

	w.db, w.tx, w.stmt = db, tx, stmt
	return nil
}

// Write inserts rec's rows for this table.
func (w *SQLiteWriter) Write(rec types.Record) error {
	if w.db == nil {
		return ErrNotOpen
	}
	args := make([]any, len(w.spec.Fields))
	for _, row := range rowsFor(w.spec, rec) {
		for i, f := range w.spec.Fields {
			args[i] = row[f]
		}
		if _, err := w.stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting %s row for %s: %w", w.spec.Name, rec.Source, err)
		}
	}
	return nil
}

// Close commits the rows written so far and closes the database.
func (w *SQLiteWriter) Close() error {
	if w.db == nil {
		return nil
	}
	var errs []error
	if err := w.stmt.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing statement: %w", err))
	}
	if err := w.tx.Commit(); err != nil {
		errs = append(errs, fmt.Errorf("committing %s: %w", w.path, err))
	}
	if err := w.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing database %s: %w", w.path, err))
	}
	w.db, w.tx, w.stmt = nil, nil, nil
	return errors.Join(errs...)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
