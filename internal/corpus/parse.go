// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"errors"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
)

// errNoRootElement reports input that parsed but holds no element at all.
var errNoRootElement = errors.New("document has no root element")

// ParseDocument parses an XML article into a queryable tree.
func ParseDocument(r io.Reader) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	if RootElement(doc) == nil {
		return nil, errNoRootElement
	}
	return doc, nil
}

// RootElement returns the top-level element of a parsed document, or nil.
func RootElement(doc *xmlquery.Node) *xmlquery.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}
