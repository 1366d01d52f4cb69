// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Expressions shared by the JATS extractors.
var (
	pmcidExpr        = xpath.MustCompile(`//article-meta/article-id[@pub-id-type='pmc' or @pub-id-type='pmcid']`)
	articleTitleExpr = xpath.MustCompile(`//article-meta/title-group/article-title`)
)

var errNoPMCID = errors.New("article has no pmc article-id")

// first returns the first node matching expr below top, or nil.
func first(top *xmlquery.Node, expr *xpath.Expr) *xmlquery.Node {
	return xmlquery.QuerySelector(top, expr)
}

// textOf returns the whitespace-normalized text of the first match, or nil
// when nothing matches or the text is empty.
func textOf(top *xmlquery.Node, expr *xpath.Expr) any {
	n := first(top, expr)
	if n == nil {
		return nil
	}
	return nonEmpty(normalizeSpace(n.InnerText()))
}

// intOf returns the first match parsed as an integer, or nil.
func intOf(top *xmlquery.Node, expr *xpath.Expr) any {
	n := first(top, expr)
	if n == nil {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(n.InnerText()))
	if err != nil {
		return nil
	}
	return v
}

// articlePMCID returns the PubMed Central id of the article as an integer.
// A leading "PMC" is accepted.
func articlePMCID(top *xmlquery.Node) (int, error) {
	n := first(top, pmcidExpr)
	if n == nil {
		return 0, errNoPMCID
	}
	raw := strings.TrimSpace(n.InnerText())
	raw = strings.TrimPrefix(strings.ToUpper(raw), "PMC")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid pmcid %q: %w", n.InnerText(), err)
	}
	return id, nil
}

// attr returns the value of the attribute with the given local name,
// ignoring any namespace prefix (e.g. xlink:href matches "href").
func attr(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// blockElements start a new line when rendering text.
var blockElements = map[string]bool{
	"sec":        true,
	"title":      true,
	"p":          true,
	"list-item":  true,
	"caption":    true,
	"table-wrap": true,
	"fig":        true,
	"tr":         true,
	"disp-quote": true,
}

// blockText renders the text below n with one line per block element and
// whitespace normalized within each line. Empty lines are dropped.
func blockText(n *xmlquery.Node) string {
	var b strings.Builder
	var walk func(*xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		switch n.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			b.WriteString(n.Data)
			return
		case xmlquery.CommentNode, xmlquery.DeclarationNode, xmlquery.AttributeNode:
			return
		}
		block := n.Type == xmlquery.ElementNode && blockElements[n.Data]
		if n.Type == xmlquery.ElementNode && (n.Data == "td" || n.Data == "th") {
			b.WriteByte(' ')
		}
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte('\n')
		}
	}
	walk(n)

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = normalizeSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
