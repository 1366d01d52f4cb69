// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"log/slog"

	"github.com/pdiddy/article-extract/internal/corpus"
	"github.com/pdiddy/article-extract/pkg/types"
)

// Assembler runs a fixed, ordered set of extractors over each article and
// merges their output into one Record.
type Assembler struct {
	extractors []Extractor
	logger     *slog.Logger
	failures   int
}

// NewAssembler builds an Assembler over extractors. Names must be non-empty
// and unique. A nil logger falls back to slog.Default().
func NewAssembler(extractors []Extractor, logger *slog.Logger) (*Assembler, error) {
	seen := make(map[string]bool, len(extractors))
	for _, e := range extractors {
		name := e.Name()
		if name == "" {
			return nil, fmt.Errorf("extractor with empty name")
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate extractor name %q", name)
		}
		seen[name] = true
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{extractors: extractors, logger: logger}, nil
}

// Extractors returns the registered extractors in registry order.
func (a *Assembler) Extractors() []Extractor {
	return a.extractors
}

// Failures returns how many extractor/article pairs fell back to an empty
// result so far.
func (a *Assembler) Failures() int {
	return a.failures
}

// Assemble runs every extractor over doc. The returned record has an entry
// for every registered extractor; a failing extractor contributes no rows.
func (a *Assembler) Assemble(doc *corpus.Document) types.Record {
	rec := types.Record{
		Source: doc.Path,
		Parts:  make(map[string][]types.Row, len(a.extractors)),
	}
	for _, e := range a.extractors {
		rows, err := run(e, doc)
		if err != nil {
			a.failures++
			a.logger.Error("extractor failed",
				"extractor", e.Name(), "article", doc.Path, "error", err)
			rows = nil
		}
		rec.Parts[e.Name()] = NormalizeRows(e.Fields(), rows)
	}
	return rec
}

// run calls e.Extract, converting a panic into an error.
func run(e Extractor, doc *corpus.Document) (rows []types.Row, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return e.Extract(doc)
}
