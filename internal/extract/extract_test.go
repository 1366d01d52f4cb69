// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-extract/internal/corpus"
	"github.com/pdiddy/article-extract/pkg/types"
)

const sampleArticle = `<?xml version="1.0" encoding="UTF-8"?>
<article xmlns:xlink="http://www.w3.org/1999/xlink">
  <front>
    <journal-meta>
      <journal-title-group><journal-title>NeuroImage</journal-title></journal-title-group>
    </journal-meta>
    <article-meta>
      <article-id pub-id-type="pmid">31234567</article-id>
      <article-id pub-id-type="pmc">PMC6543210</article-id>
      <article-id pub-id-type="doi">10.1016/j.neuroimage.2019.01.001</article-id>
      <title-group><article-title>Working   memory
        and the prefrontal cortex</article-title></title-group>
      <pub-date pub-type="epub"><day>3</day><month>2</month><year>2019</year></pub-date>
      <permissions>
        <license xlink:href="http://creativecommons.org/licenses/by/4.0/"><p>CC BY</p></license>
      </permissions>
      <abstract><p>We studied working memory.</p><p>Results were robust.</p></abstract>
      <kwd-group><kwd>fMRI</kwd><kwd> working memory </kwd></kwd-group>
    </article-meta>
  </front>
  <body>
    <sec><title>Introduction</title><p>Memory is   important.</p></sec>
    <sec><title>Results</title>
      <p>See table.</p>
      <table-wrap id="tbl1">
        <label>Table 1</label>
        <caption><p>Activation peaks</p></caption>
        <table>
          <thead><tr><th>Region</th><th>BA</th><th>x (mm)</th><th>Y</th><th>z</th><th>T</th></tr></thead>
          <tbody>
            <tr><td>DLPFC</td><td>46</td><td>−42</td><td>36</td><td>24</td><td>5.1</td></tr>
            <tr><td>Parietal</td><td>7</td><td>30</td><td>-60.5</td><td>48</td><td>4.2</td></tr>
            <tr><td colspan="6">Subcortical</td></tr>
            <tr><td>Caudate</td><td></td><td>n/a</td><td>10</td><td>8</td><td>3.9</td></tr>
          </tbody>
        </table>
      </table-wrap>
      <table-wrap id="tbl2">
        <label>Table 2</label>
        <table><tr><th>Group</th><th>N</th></tr><tr><td>A</td><td>12</td></tr></table>
      </table-wrap>
    </sec>
  </body>
</article>`

const bareArticle = `<article><front><article-meta>
<article-id pub-id-type="pmc">42</article-id>
</article-meta></front></article>`

func parseDoc(t *testing.T, content string) *corpus.Document {
	t.Helper()
	tree, err := corpus.ParseDocument(strings.NewReader(content))
	require.NoError(t, err)
	return &corpus.Document{Shard: "000", Name: "pmcid_1.xml", Path: "000/pmcid_1.xml", Tree: tree}
}

func TestMetadataExtractor(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    types.Row
	}{
		{
			name:    "full article",
			content: sampleArticle,
			want: types.Row{
				"pmcid":            6543210,
				"pmid":             31234567,
				"doi":              "10.1016/j.neuroimage.2019.01.001",
				"title":            "Working memory and the prefrontal cortex",
				"journal":          "NeuroImage",
				"publication_year": 2019,
				"license":          "http://creativecommons.org/licenses/by/4.0/",
			},
		},
		{
			name:    "missing fields are nil",
			content: bareArticle,
			want: types.Row{
				"pmcid":            42,
				"pmid":             nil,
				"doi":              nil,
				"title":            nil,
				"journal":          nil,
				"publication_year": nil,
				"license":          nil,
			},
		},
		{
			name:    "no pmcid",
			content: `<article><front><article-meta><title-group><article-title>T</article-title></title-group></article-meta></front></article>`,
			want: types.Row{
				"pmcid": nil, "pmid": nil, "doi": nil, "title": "T",
				"journal": nil, "publication_year": nil, "license": nil,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := NewMetadataExtractor().Extract(parseDoc(t, tt.content))
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, tt.want, rows[0])
		})
	}
}

func TestTextExtractor(t *testing.T) {
	rows, err := NewTextExtractor().Extract(parseDoc(t, sampleArticle))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, 6543210, row["pmcid"])
	assert.Equal(t, "Working memory and the prefrontal cortex", row["title"])
	assert.Equal(t, "fMRI\nworking memory", row["keywords"])
	assert.Equal(t, "We studied working memory.\nResults were robust.", row["abstract"])

	body, ok := row["body"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(body, "Introduction\nMemory is important.\nResults\nSee table.\n"), body)
	assert.Contains(t, body, "Activation peaks")
}

func TestTextExtractorEmptySections(t *testing.T) {
	rows, err := NewTextExtractor().Extract(parseDoc(t, bareArticle))
	require.NoError(t, err)
	assert.Equal(t, types.Row{
		"pmcid": 42, "title": nil, "keywords": nil, "abstract": nil, "body": nil,
	}, rows[0])
}

func TestTextExtractorRequiresPMCID(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing", `<article><front><article-meta/></front></article>`},
		{"not a number", `<article><front><article-meta><article-id pub-id-type="pmc">abc</article-id></article-meta></front></article>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTextExtractor().Extract(parseDoc(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestCoordinateExtractor(t *testing.T) {
	rows, err := NewCoordinateExtractor().Extract(parseDoc(t, sampleArticle))
	require.NoError(t, err)

	want := []types.Row{
		{"pmcid": 6543210, "table_id": "tbl1", "table_label": "Table 1", "x": -42.0, "y": 36.0, "z": 24.0},
		{"pmcid": 6543210, "table_id": "tbl1", "table_label": "Table 1", "x": 30.0, "y": -60.5, "z": 48.0},
	}
	assert.Equal(t, want, rows)
}

func TestCoordinateExtractorNoTables(t *testing.T) {
	rows, err := NewCoordinateExtractor().Extract(parseDoc(t, bareArticle))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCoordinateExtractorSkipsNonNumericCells(t *testing.T) {
	doc := parseDoc(t, `<article><front><article-meta>
<article-id pub-id-type="pmc">1</article-id>
</article-meta></front><body>
<table-wrap id="t1"><table>
<tr><th>x</th><th>y</th><th>z</th></tr>
<tr><td>NaN</td><td>Inf</td><td>nan</td></tr>
<tr><td>0x1p3</td><td>2</td><td>3</td></tr>
</table></table-wrap>
</body></article>`)

	rows, err := NewCoordinateExtractor().Extract(doc)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestHeaderName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"x", "x"},
		{" X ", "x"},
		{"x (mm)", "x"},
		{"y(mm)", "y"},
		{"z [MNI]", "z"},
		{"x,", "x"},
		{"Region", "region"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, headerName(tt.in), "headerName(%q)", tt.in)
	}
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12", 12, false},
		{"−42", -42, false},
		{"– 8.5", -8.5, false},
		{"14*", 14, false},
		{"n/a", 0, true},
		{"", 0, true},
		{"+3.5e1", 35, false},
		{".5", 0.5, false},
		{"NaN", 0, true},
		{"nan", 0, true},
		{"Inf", 0, true},
		{"-infinity", 0, true},
		{"0x1p3", 0, true},
		{"1e999", 0, true},
	}
	for _, tt := range tests {
		got, err := parseCoordinate(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "parseCoordinate(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "parseCoordinate(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

// fakeExtractor implements Extractor for testing.
type fakeExtractor struct {
	name  string
	card  types.Cardinality
	rows  []types.Row
	err   error
	panic bool
}

func (f *fakeExtractor) Name() string                   { return f.name }
func (f *fakeExtractor) Fields() []string               { return []string{"a", "b"} }
func (f *fakeExtractor) Cardinality() types.Cardinality { return f.card }

func (f *fakeExtractor) Extract(*corpus.Document) ([]types.Row, error) {
	if f.panic {
		panic("boom")
	}
	return f.rows, f.err
}

func TestAssemble(t *testing.T) {
	var logBuf bytes.Buffer
	a, err := NewAssembler([]Extractor{
		&fakeExtractor{name: "ok", rows: []types.Row{{"a": 1, "extra": true}}},
		&fakeExtractor{name: "empty", card: types.Many},
		&fakeExtractor{name: "fails", err: errors.New("transform failed")},
		&fakeExtractor{name: "panics", panic: true},
	}, slog.New(slog.NewTextHandler(&logBuf, nil)))
	require.NoError(t, err)

	rec := a.Assemble(parseDoc(t, bareArticle))

	assert.Equal(t, "000/pmcid_1.xml", rec.Source)
	assert.Len(t, rec.Parts, 4)
	assert.Equal(t, []types.Row{{"a": 1, "b": nil}}, rec.Rows("ok"))
	for _, name := range []string{"empty", "fails", "panics"} {
		rows, ok := rec.Parts[name]
		assert.True(t, ok, "missing part %s", name)
		assert.NotNil(t, rows, "part %s", name)
		assert.Empty(t, rows, "part %s", name)
	}

	assert.Equal(t, 2, a.Failures())
	logs := logBuf.String()
	assert.Contains(t, logs, "extractor=fails")
	assert.Contains(t, logs, "transform failed")
	assert.Contains(t, logs, "extractor=panics")
	assert.Contains(t, logs, "article=000/pmcid_1.xml")
}

func TestNewAssemblerRejectsBadRegistry(t *testing.T) {
	_, err := NewAssembler([]Extractor{&fakeExtractor{name: "a"}, &fakeExtractor{name: "a"}}, nil)
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewAssembler([]Extractor{&fakeExtractor{}}, nil)
	assert.ErrorContains(t, err, "empty name")
}

func TestDefaultRegistry(t *testing.T) {
	a, err := NewAssembler(Default(), nil)
	require.NoError(t, err)

	var names []string
	for _, e := range a.Extractors() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"coordinates", "metadata", "text"}, names)

	rec := a.Assemble(parseDoc(t, sampleArticle))
	assert.Len(t, rec.Rows("coordinates"), 2)
	assert.Len(t, rec.Rows("metadata"), 1)
	assert.Len(t, rec.Rows("text"), 1)
	assert.Zero(t, a.Failures())
}
