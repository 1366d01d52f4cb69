// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Cardinality describes how many rows an extractor contributes per document.
type Cardinality int

const (
	// One means exactly one row per document. Missing data and extractor
	// failures still produce one row, with null fields.
	One Cardinality = iota

	// Many means zero or more rows per document (e.g. coordinates).
	Many
)

// String returns the name used in schema manifests.
func (c Cardinality) String() string {
	switch c {
	case One:
		return "one"
	case Many:
		return "many"
	default:
		return "unknown"
	}
}

// MarshalText lets Cardinality serialize by name in YAML and JSON.
func (c Cardinality) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Row maps a field name to a scalar value. Absent values are nil, never
// missing keys.
type Row map[string]any

// Record holds everything extracted from one article, keyed by extractor name.
// Every registered extractor has an entry, even when it produced no rows.
type Record struct {
	// Source identifies the document the record was built from (its path
	// relative to the corpus root). Used in diagnostics only.
	Source string

	// Parts maps extractor name to that extractor's rows.
	Parts map[string][]Row
}

// Rows returns the rows produced by the named extractor.
func (r Record) Rows(name string) []Row {
	return r.Parts[name]
}
