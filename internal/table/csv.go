// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/pdiddy/article-extract/pkg/types"
)

// CSVWriter writes a table to <dir>/<name>.csv with a header row of the
// declared fields.
type CSVWriter struct {
	spec Spec
	fs   afero.Fs
	path string
	file afero.File
	csv  *csv.Writer
}

// NewCSV returns a closed CSV writer for spec in dir.
func NewCSV(spec Spec, dir string, fs afero.Fs) *CSVWriter {
	return &CSVWriter{
		spec: spec,
		fs:   fs,
		path: filePath(dir, spec.Name, ".csv"),
	}
}

func (w *CSVWriter) Name() string { return w.spec.Name }
func (w *CSVWriter) Spec() Spec   { return w.spec }
func (w *CSVWriter) Path() string { return w.path }

// Open creates or truncates the CSV file and writes the header row.
func (w *CSVWriter) Open() error {
	if w.file != nil {
		return fmt.Errorf("%s already open", w.path)
	}
	f, err := w.fs.Create(w.path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", w.path, err)
	}
	w.file = f
	w.csv = csv.NewWriter(f)
	if err := w.csv.Write(w.spec.Fields); err != nil {
		w.Close()
		return fmt.Errorf("writing header to %s: %w", w.path, err)
	}
	return nil
}

// Write appends rec's rows for this table.
func (w *CSVWriter) Write(rec types.Record) error {
	if w.file == nil {
		return ErrNotOpen
	}
	cells := make([]string, len(w.spec.Fields))
	for _, row := range rowsFor(w.spec, rec) {
		for i, f := range w.spec.Fields {
			cells[i] = formatValue(row[f])
		}
		if err := w.csv.Write(cells); err != nil {
			return fmt.Errorf("writing %s row for %s: %w", w.spec.Name, rec.Source, err)
		}
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (w *CSVWriter) Close() error {
	if w.file == nil {
		return nil
	}
	w.csv.Flush()
	flushErr := w.csv.Error()
	closeErr := w.file.Close()
	w.file, w.csv = nil, nil

	if flushErr != nil {
		flushErr = fmt.Errorf("flushing %s: %w", w.path, flushErr)
	}
	if closeErr != nil {
		closeErr = fmt.Errorf("closing %s: %w", w.path, closeErr)
	}
	return errors.Join(flushErr, closeErr)
}
