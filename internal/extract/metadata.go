// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"github.com/antchfx/xpath"

	"github.com/pdiddy/article-extract/internal/corpus"
	"github.com/pdiddy/article-extract/pkg/types"
)

var (
	pmidExpr    = xpath.MustCompile(`//article-meta/article-id[@pub-id-type='pmid']`)
	doiExpr     = xpath.MustCompile(`//article-meta/article-id[@pub-id-type='doi']`)
	journalExpr = xpath.MustCompile(`//journal-meta//journal-title`)
	yearExpr    = xpath.MustCompile(`//article-meta/pub-date/year`)
	licenseExpr = xpath.MustCompile(`//article-meta/permissions/license`)
)

// MetadataExtractor reads bibliographic identifiers and citation fields.
type MetadataExtractor struct{}

// NewMetadataExtractor returns the "metadata" extractor.
func NewMetadataExtractor() *MetadataExtractor {
	return &MetadataExtractor{}
}

func (MetadataExtractor) Name() string { return "metadata" }

func (MetadataExtractor) Fields() []string {
	return []string{"pmcid", "pmid", "doi", "title", "journal", "publication_year", "license"}
}

func (MetadataExtractor) Cardinality() types.Cardinality { return types.One }

// Extract returns a single row. Fields missing from the article are nil.
func (MetadataExtractor) Extract(doc *corpus.Document) ([]types.Row, error) {
	top := doc.Tree
	row := types.Row{
		"pmcid":            nil,
		"pmid":             intOf(top, pmidExpr),
		"doi":              textOf(top, doiExpr),
		"title":            textOf(top, articleTitleExpr),
		"journal":          textOf(top, journalExpr),
		"publication_year": intOf(top, yearExpr),
		"license":          nil,
	}
	if id, err := articlePMCID(top); err == nil {
		row["pmcid"] = id
	}
	if n := first(top, licenseExpr); n != nil {
		switch {
		case attr(n, "href") != "":
			row["license"] = attr(n, "href")
		case attr(n, "license-type") != "":
			row["license"] = attr(n, "license-type")
		default:
			row["license"] = nonEmpty(normalizeSpace(n.InnerText()))
		}
	}
	return []types.Row{row}, nil
}
