// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs a full extraction: it streams the articles of a
// corpus through the extractors and fans each record out to one table
// writer per extractor, then records the run in info.json.
//
// Documents are processed one at a time in corpus order. All writers are
// opened before the first record and closed when the run ends, however it
// ends. info.json is written only after every writer closed cleanly, so its
// presence marks a finished run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/pdiddy/article-extract/internal/corpus"
	"github.com/pdiddy/article-extract/internal/extract"
	"github.com/pdiddy/article-extract/internal/table"
	"github.com/pdiddy/article-extract/pkg/types"
)

const (
	// InfoFile is the run summary written last.
	InfoFile = "info.json"

	// coordinatesTable is the extractor the coordinates-only filter looks at.
	coordinatesTable = "coordinates"
)

// WriterFactory builds the table writer for one extractor.
type WriterFactory func(format types.OutputFormat, d table.Describer, dir string, fs afero.Fs) (table.Writer, error)

// Result describes a finished run.
type Result struct {
	OutputDir string
	Info      types.RunInfo
}

type options struct {
	fs         afero.Fs
	logger     *slog.Logger
	out        io.Writer
	extractors []extract.Extractor
	newWriter  WriterFactory
	now        func() time.Time
}

// Option customises Run.
type Option func(*options)

// WithFs sets the filesystem the corpus is read from and CSV tables,
// schema.yaml and info.json are written to. Default: the OS filesystem.
func WithFs(fs afero.Fs) Option { return func(o *options) { o.fs = fs } }

// WithLogger sets the logger for progress and diagnostics.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithOutput sets where the batch summary is printed. Default: discarded.
func WithOutput(w io.Writer) Option { return func(o *options) { o.out = w } }

// WithExtractors replaces the default extractor registry.
func WithExtractors(exts ...extract.Extractor) Option {
	return func(o *options) { o.extractors = exts }
}

// WithWriterFactory replaces table.ForExtractor.
func WithWriterFactory(f WriterFactory) Option { return func(o *options) { o.newWriter = f } }

func defaultOptions() options {
	return options{
		fs:        afero.NewOsFs(),
		logger:    slog.Default(),
		out:       io.Discard,
		newWriter: table.ForExtractor,
		now:       time.Now,
	}
}

// OutputDir returns the directory a run writes to. An explicit outputDir
// wins; otherwise it is a sibling of articlesDir named after the subset.
// A relative articlesDir is resolved first, so "." never yields a
// directory inside the corpus.
func OutputDir(articlesDir, outputDir string, articlesWithCoordsOnly bool) string {
	if outputDir != "" {
		return outputDir
	}
	subset := "allArticles"
	if articlesWithCoordsOnly {
		subset = "articlesWithCoords"
	}
	root, err := filepath.Abs(articlesDir)
	if err != nil {
		root = filepath.Clean(articlesDir)
	}
	parent := filepath.Dir(root)
	return filepath.Join(parent, "subset_"+subset+"_extractedData")
}

// counts tracks the records of one run.
type counts struct {
	written  int
	filtered int
}

// Run extracts every article below cfg.ArticlesDir into tables in the
// output directory. Article parse failures and extractor failures are
// logged and counted; writer failures abort the run and are returned. No
// info.json is written for a failed run.
func Run(ctx context.Context, cfg types.ExtractionConfig, opts ...Option) (Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.extractors == nil {
		o.extractors = extract.Default()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if cfg.Format == "" {
		cfg.Format = types.FormatCSV
	}

	src, err := corpus.Open(o.fs, cfg.ArticlesDir,
		corpus.WithPattern(cfg.ArticlePattern),
		corpus.WithLogger(o.logger))
	if err != nil {
		return Result{}, err
	}

	asm, err := extract.NewAssembler(o.extractors, o.logger)
	if err != nil {
		return Result{}, err
	}
	if cfg.ArticlesWithCoordsOnly && !hasExtractor(o.extractors, coordinatesTable) {
		return Result{}, fmt.Errorf("articles_with_coords_only requires a %q extractor", coordinatesTable)
	}

	outDir := OutputDir(cfg.ArticlesDir, cfg.OutputDir, cfg.ArticlesWithCoordsOnly)
	if err := o.fs.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	// A summary left by an earlier run must not vouch for this one.
	infoPath := filepath.Join(outDir, InfoFile)
	if err := o.fs.Remove(infoPath); err != nil && !os.IsNotExist(err) {
		return Result{}, fmt.Errorf("removing stale %s: %w", infoPath, err)
	}

	writers := make([]table.Writer, 0, len(o.extractors))
	for _, e := range o.extractors {
		w, err := o.newWriter(cfg.Format, e, outDir, o.fs)
		if err != nil {
			return Result{}, err
		}
		writers = append(writers, w)
	}

	o.logger.Info("extracting data from articles",
		"articles_dir", cfg.ArticlesDir, "output_dir", outDir, "format", cfg.Format)

	c, err := writeTables(ctx, src, asm, writers, cfg, o.fs, outDir)
	if err != nil {
		return Result{}, err
	}

	info := types.RunInfo{
		NArticles:              c.written,
		NParseFailures:         src.Stats().Failed,
		NFilteredOut:           c.filtered,
		NExtractorFailures:     asm.Failures(),
		ArticlesWithCoordsOnly: cfg.ArticlesWithCoordsOnly,
		Format:                 cfg.Format,
		RunID:                  uuid.Must(uuid.NewV7()).String(),
		CompletedAt:            o.now().UTC(),
	}
	for _, w := range writers {
		info.Tables = append(info.Tables, w.Name())
	}
	if err := writeInfo(o.fs, infoPath, info); err != nil {
		return Result{}, err
	}

	o.logger.Info("done extracting article data", "output_dir", outDir, "n_articles", info.NArticles)
	fmt.Fprintf(o.out, "\nExtraction summary: %d written, %d filtered out, %d parse failures, %d extractor failures\n",
		info.NArticles, info.NFilteredOut, info.NParseFailures, info.NExtractorFailures)

	return Result{OutputDir: outDir, Info: info}, nil
}

// writeTables opens every writer, streams the corpus through them and
// closes them all before returning, whether the stream ended, failed or
// panicked.
func writeTables(ctx context.Context, src *corpus.Source, asm *extract.Assembler, writers []table.Writer,
	cfg types.ExtractionConfig, fs afero.Fs, outDir string) (c counts, err error) {
	closeAll, err := table.OpenAll(writers)
	if err != nil {
		return c, err
	}
	defer func() {
		if closeErr := closeAll(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if err := table.WriteSchema(fs, outDir, writers); err != nil {
		return c, err
	}

	for doc, err := range src.Documents(ctx) {
		if err != nil {
			return c, err
		}
		rec := asm.Assemble(doc)
		if cfg.ArticlesWithCoordsOnly && len(rec.Rows(coordinatesTable)) == 0 {
			c.filtered++
			continue
		}
		c.written++
		for _, w := range writers {
			if err := w.Write(rec); err != nil {
				return c, fmt.Errorf("writing %s: %w", doc.Path, err)
			}
		}
	}
	return c, nil
}

func hasExtractor(exts []extract.Extractor, name string) bool {
	for _, e := range exts {
		if e.Name() == name {
			return true
		}
	}
	return false
}
