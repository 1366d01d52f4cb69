// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table persists extracted rows into one backing file per table.
//
// A Writer moves CLOSED -> OPEN -> CLOSED. Open creates or truncates the
// backing file and writes the column header once; Write appends the rows a
// record holds for this table; Close flushes buffered rows and releases the
// file. OpenAll opens a set of writers as one scope and hands back a single
// close function that releases every writer that was opened.
package table

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"

	"github.com/pdiddy/article-extract/pkg/types"
)

// ErrNotOpen is returned by Write on a writer that is not open.
var ErrNotOpen = errors.New("table writer is not open")

// Describer is what a table needs to know about the extractor feeding it.
// Every extract.Extractor satisfies it.
type Describer interface {
	Name() string
	Fields() []string
	Cardinality() types.Cardinality
}

// Spec describes one output table.
type Spec struct {
	Name        string
	Fields      []string
	Cardinality types.Cardinality
}

// SpecFor returns the table spec for an extractor.
func SpecFor(d Describer) Spec {
	return Spec{Name: d.Name(), Fields: d.Fields(), Cardinality: d.Cardinality()}
}

// Writer persists one table across records.
type Writer interface {
	// Name is the table name, the same as the extractor it is fed by.
	Name() string

	// Spec returns the table's columns and cardinality.
	Spec() Spec

	// Path returns the backing file.
	Path() string

	// Open creates or truncates the backing file and writes the header.
	Open() error

	// Write appends the rows rec holds for this table.
	Write(rec types.Record) error

	// Close flushes buffered rows and releases the backing file. Closing a
	// closed writer is a no-op.
	Close() error
}

// ForExtractor builds the writer for d's table in dir using the given
// backend. The CSV backend writes through fs; SQLite always uses the OS
// filesystem.
func ForExtractor(format types.OutputFormat, d Describer, dir string, fs afero.Fs) (Writer, error) {
	spec := SpecFor(d)
	switch format {
	case types.FormatCSV, "":
		return NewCSV(spec, dir, fs), nil
	case types.FormatSQLite:
		return NewSQLite(spec, dir), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q: use csv or sqlite", format)
	}
}

// OpenAll opens writers in order. If one fails to open, the writers opened
// before it are closed and the error is returned. On success closeAll
// closes every writer, last opened first, and reports all close errors;
// calling it again is a no-op.
func OpenAll(writers []Writer) (closeAll func() error, err error) {
	opened := make([]Writer, 0, len(writers))
	closeAll = func() error {
		var errs []error
		for i := len(opened) - 1; i >= 0; i-- {
			if err := opened[i].Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing %s table: %w", opened[i].Name(), err))
			}
		}
		opened = nil
		return errors.Join(errs...)
	}

	for _, w := range writers {
		if err := w.Open(); err != nil {
			openErr := fmt.Errorf("opening %s table: %w", w.Name(), err)
			return nil, errors.Join(openErr, closeAll())
		}
		opened = append(opened, w)
	}
	return closeAll, nil
}

// rowsFor returns the rows rec contributes to the table. One-cardinality
// tables always get exactly one row, all-null when the extractor produced
// nothing.
func rowsFor(spec Spec, rec types.Record) []types.Row {
	rows := rec.Parts[spec.Name]
	if spec.Cardinality != types.One {
		return rows
	}
	if len(rows) == 0 {
		return []types.Row{{}}
	}
	return rows[:1]
}

// filePath returns the backing file for a table with the given extension.
func filePath(dir, name, ext string) string {
	return filepath.Join(dir, name+ext)
}

// formatValue renders a field value as a CSV cell. Nulls are empty cells.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
