// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract derives fixed-shape field sets from parsed articles and
// assembles them into one record per article.
//
// Each Extractor declares a stable name and an ordered list of fields it
// promises to populate. Extractors for JATS articles (metadata, text and
// stereotactic coordinates) use compiled XPath expressions evaluated over
// the parsed XML tree.
package extract

import (
	"github.com/pdiddy/article-extract/internal/corpus"
	"github.com/pdiddy/article-extract/pkg/types"
)

// Extractor derives rows from one parsed article. Implementations return an
// error when the article cannot be processed at all; the Assembler turns
// that into an empty result so the failure stays local to the
// extractor/article pair.
type Extractor interface {
	// Name identifies the extractor and the table it feeds.
	Name() string

	// Fields lists the field names every row carries, in column order.
	Fields() []string

	// Cardinality tells writers how many rows to expect per article.
	Cardinality() types.Cardinality

	// Extract returns the rows for doc. Rows may leave fields nil but the
	// Assembler fills in any missing keys.
	Extract(doc *corpus.Document) ([]types.Row, error)
}

// Default returns the extractors used by a standard run, in registry order.
func Default() []Extractor {
	return []Extractor{
		NewCoordinateExtractor(),
		NewMetadataExtractor(),
		NewTextExtractor(),
	}
}

// NormalizeRows returns copies of rows restricted to fields, with every
// field present. Missing values become nil. It never returns nil.
func NormalizeRows(fields []string, rows []types.Row) []types.Row {
	out := make([]types.Row, 0, len(rows))
	for _, r := range rows {
		nr := make(types.Row, len(fields))
		for _, f := range fields {
			nr[f] = r[f]
		}
		out = append(out, nr)
	}
	return out
}
