// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/pdiddy/article-extract/internal/corpus"
	"github.com/pdiddy/article-extract/pkg/types"
)

var (
	tableWrapExpr = xpath.MustCompile(`//table-wrap`)
	labelExpr     = xpath.MustCompile(`./label`)
	rowExpr       = xpath.MustCompile(`.//tr`)
	cellExpr      = xpath.MustCompile(`./*[self::th or self::td]`)
)

// minusReplacer maps the dash characters found in published tables to an
// ASCII minus.
var minusReplacer = strings.NewReplacer("−", "-", "–", "-", "‒", "-", "‐", "-")

// decimalRe matches a plain decimal number. NaN, Inf and hex floats are
// not coordinates.
var decimalRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// CoordinateExtractor finds stereotactic coordinates in article tables.
//
// A table contributes coordinates when one of its rows has three adjacent
// header cells named x, y and z (case-insensitive, unit suffixes such as
// "x (mm)" tolerated). Every later row whose three cells in those columns
// parse as numbers becomes one coordinate.
type CoordinateExtractor struct{}

// NewCoordinateExtractor returns the "coordinates" extractor.
func NewCoordinateExtractor() *CoordinateExtractor {
	return &CoordinateExtractor{}
}

func (CoordinateExtractor) Name() string { return "coordinates" }

func (CoordinateExtractor) Fields() []string {
	return []string{"pmcid", "table_id", "table_label", "x", "y", "z"}
}

func (CoordinateExtractor) Cardinality() types.Cardinality { return types.Many }

// Extract returns one row per coordinate, possibly none.
func (CoordinateExtractor) Extract(doc *corpus.Document) ([]types.Row, error) {
	id, err := articlePMCID(doc.Tree)
	if err != nil {
		return nil, err
	}

	var rows []types.Row
	for _, wrap := range xmlquery.QuerySelectorAll(doc.Tree, tableWrapExpr) {
		tableID := nonEmpty(attr(wrap, "id"))
		tableLabel := textOf(wrap, labelExpr)
		for _, xyz := range tableCoordinates(wrap) {
			rows = append(rows, types.Row{
				"pmcid":       id,
				"table_id":    tableID,
				"table_label": tableLabel,
				"x":           xyz[0],
				"y":           xyz[1],
				"z":           xyz[2],
			})
		}
	}
	return rows, nil
}

// tableCoordinates returns the coordinate triples found in one table-wrap.
func tableCoordinates(wrap *xmlquery.Node) [][3]float64 {
	var (
		coords [][3]float64
		col    = -1
	)
	for _, tr := range xmlquery.QuerySelectorAll(wrap, rowExpr) {
		cells := rowCells(tr)
		if col < 0 {
			col = xyzColumn(cells)
			continue
		}
		if col+2 >= len(cells) {
			continue
		}
		var xyz [3]float64
		ok := true
		for i := range xyz {
			v, err := parseCoordinate(cells[col+i])
			if err != nil {
				ok = false
				break
			}
			xyz[i] = v
		}
		if ok {
			coords = append(coords, xyz)
		}
	}
	return coords
}

func rowCells(tr *xmlquery.Node) []string {
	nodes := xmlquery.QuerySelectorAll(tr, cellExpr)
	cells := make([]string, len(nodes))
	for i, n := range nodes {
		cells[i] = normalizeSpace(n.InnerText())
	}
	return cells
}

// xyzColumn returns the index of the x column of an adjacent x, y, z header
// triple, or -1.
func xyzColumn(cells []string) int {
	for i := 0; i+2 < len(cells); i++ {
		if headerName(cells[i]) == "x" && headerName(cells[i+1]) == "y" && headerName(cells[i+2]) == "z" {
			return i
		}
	}
	return -1
}

// headerName lowercases a header cell and drops any unit suffix.
func headerName(cell string) string {
	cell = strings.ToLower(strings.TrimSpace(cell))
	if i := strings.IndexAny(cell, " ([,"); i >= 0 {
		cell = cell[:i]
	}
	return cell
}

func parseCoordinate(cell string) (float64, error) {
	s := strings.TrimSpace(minusReplacer.Replace(cell))
	s = strings.TrimRight(s, "*†‡")
	s = strings.ReplaceAll(s, " ", "")
	if !decimalRe.MatchString(s) {
		return 0, fmt.Errorf("not a decimal coordinate: %q", cell)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("coordinate out of range: %q", cell)
	}
	return v, nil
}
