// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/pdiddy/article-extract/internal/corpus"
	"github.com/pdiddy/article-extract/pkg/types"
)

var (
	keywordExpr  = xpath.MustCompile(`//article-meta/kwd-group/kwd`)
	abstractExpr = xpath.MustCompile(`//article-meta/abstract`)
	bodyExpr     = xpath.MustCompile(`/article/body`)
)

// TextExtractor reads the title, keywords, abstract and body text.
type TextExtractor struct{}

// NewTextExtractor returns the "text" extractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (TextExtractor) Name() string { return "text" }

func (TextExtractor) Fields() []string {
	return []string{"pmcid", "title", "keywords", "abstract", "body"}
}

func (TextExtractor) Cardinality() types.Cardinality { return types.One }

// Extract returns a single row. It fails when the article has no integer
// pmcid, since the text cannot be attributed.
func (TextExtractor) Extract(doc *corpus.Document) ([]types.Row, error) {
	top := doc.Tree
	id, err := articlePMCID(top)
	if err != nil {
		return nil, err
	}

	var keywords []string
	for _, k := range xmlquery.QuerySelectorAll(top, keywordExpr) {
		if s := normalizeSpace(k.InnerText()); s != "" {
			keywords = append(keywords, s)
		}
	}

	row := types.Row{
		"pmcid":    id,
		"title":    textOf(top, articleTitleExpr),
		"keywords": nonEmpty(strings.Join(keywords, "\n")),
		"abstract": nil,
		"body":     nil,
	}
	if n := first(top, abstractExpr); n != nil {
		row["abstract"] = nonEmpty(blockText(n))
	}
	if n := first(top, bodyExpr); n != nil {
		row["body"] = nonEmpty(blockText(n))
	}
	return []types.Row{row}, nil
}
