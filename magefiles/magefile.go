//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for article-extract developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "article-extract"
	cmdPkg  = "./cmd/article-extract"

	sampleDir = "sample/articles"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests for every package.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Extract builds the CLI and runs it over the sample corpus in both output formats.
func Extract() error {
	mg.Deps(Build, Sample)
	bin := filepath.Join(binDir, binName)
	if err := sh.RunV(bin, "extract", sampleDir); err != nil {
		return err
	}
	return sh.RunV(bin, "extract", sampleDir,
		"--articles-with-coords-only", "--format", "sqlite")
}

// Sample writes a small sharded corpus under sample/articles.
// One file per shard is deliberately malformed.
func Sample() error {
	articles := []struct {
		shard, pmcid string
		coords       [][3]string
	}{
		{"000", "1000", [][3]string{{"-42", "18", "6"}, {"38", "−22", "10"}}},
		{"000", "1001", nil},
		{"001", "1100", [][3]string{{"4", "52", "-8"}}},
		{"001", "1101", nil},
		{"00a", "1200", nil},
	}
	for _, a := range articles {
		dir := filepath.Join(sampleDir, a.shard)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		path := filepath.Join(dir, "pmcid_"+a.pmcid+".xml")
		if err := os.WriteFile(path, []byte(sampleArticle(a.pmcid, a.coords)), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	for _, shard := range []string{"000", "001"} {
		path := filepath.Join(sampleDir, shard, "pmcid_9999"+shard+".xml")
		if err := os.WriteFile(path, []byte("<article><front>"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	fmt.Printf("Sample corpus written to %s\n", sampleDir)
	return nil
}

func sampleArticle(pmcid string, coords [][3]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<article xmlns:xlink="http://www.w3.org/1999/xlink">
<front>
<journal-meta><journal-title-group><journal-title>NeuroImage</journal-title></journal-title-group></journal-meta>
<article-meta>
<article-id pub-id-type="pmc">%[1]s</article-id>
<article-id pub-id-type="pmid">%[1]s0</article-id>
<title-group><article-title>Sample article %[1]s</article-title></title-group>
<pub-date pub-type="epub"><year>2019</year></pub-date>
<kwd-group><kwd>fMRI</kwd><kwd>memory</kwd></kwd-group>
<abstract><p>Abstract of article %[1]s.</p></abstract>
</article-meta>
</front>
<body><sec><title>Methods</title><p>Body of article %[1]s.</p>
`, pmcid)
	if len(coords) > 0 {
		b.WriteString(`<table-wrap id="t1"><label>Table 1</label><table><thead><tr><th>Region</th><th>x</th><th>y</th><th>z</th></tr></thead><tbody>` + "\n")
		for _, c := range coords {
			fmt.Fprintf(&b, "<tr><td>region</td><td>%s</td><td>%s</td><td>%s</td></tr>\n", c[0], c[1], c[2])
		}
		b.WriteString("</tbody></table></table-wrap>\n")
	}
	b.WriteString("</sec></body>\n</article>\n")
	return b.String()
}

// Stats prints Go production and test line counts.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines counts non-blank lines in Go files below root, skipping
// underscore-prefixed directories. testOnly selects _test.go files.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				total++
			}
		}
		return nil
	})
	return total, err
}
