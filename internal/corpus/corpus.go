// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus enumerates and parses the articles of a sharded corpus
// directory in a deterministic order.
//
// A corpus root holds shard subdirectories (conventionally 000 - fff), each
// holding article files such as pmcid_1234.xml. Shards are visited sorted by
// name and files within a shard sorted by name, so two traversals of an
// unchanged tree yield the same sequence regardless of how the filesystem
// enumerates entries.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/antchfx/xmlquery"
	"github.com/spf13/afero"

	"github.com/pdiddy/article-extract/pkg/types"
)

// defaultProgressEvery is the number of files between progress log lines.
const defaultProgressEvery = 20

// ErrNotExist is returned by Open when the corpus root is missing.
var ErrNotExist = errors.New("corpus root does not exist")

// Document is one parsed article. It is owned by whoever pulled it from
// the Source and is not retained by the Source.
type Document struct {
	// Shard is the name of the shard directory holding the article.
	Shard string

	// Name is the article file name within the shard.
	Name string

	// Path is Shard/Name, the article's identity within the corpus.
	Path string

	// Tree is the parsed XML document node.
	Tree *xmlquery.Node
}

// Stats counts the files visited by the most recent traversal.
type Stats struct {
	Processed int
	Failed    int
}

// Succeeded returns the number of files that parsed.
func (s Stats) Succeeded() int {
	return s.Processed - s.Failed
}

// Source iterates over the articles below a corpus root.
type Source struct {
	fs            afero.Fs
	root          string
	pattern       string
	progressEvery int
	logger        *slog.Logger
	stats         Stats
}

// Option customises a Source.
type Option func(*Source)

// WithPattern sets the glob article file names must match.
func WithPattern(pattern string) Option {
	return func(s *Source) {
		if pattern != "" {
			s.pattern = pattern
		}
	}
}

// WithLogger sets the logger used for parse failures and progress.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProgressEvery sets how many files are processed between progress
// lines. Values below 1 keep the default.
func WithProgressEvery(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.progressEvery = n
		}
	}
}

// Open checks that root exists and is a directory and returns a Source over it.
func Open(fs afero.Fs, root string, opts ...Option) (*Source, error) {
	info, err := fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, root)
		}
		return nil, fmt.Errorf("checking corpus root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus root %s is not a directory", root)
	}

	s := &Source{
		fs:            fs,
		root:          root,
		pattern:       types.DefaultArticlePattern,
		progressEvery: defaultProgressEvery,
		logger:        slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	if _, err := path.Match(s.pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid article pattern %q: %w", s.pattern, err)
	}
	return s, nil
}

// Root returns the corpus root directory.
func (s *Source) Root() string {
	return s.root
}

// Stats returns the counters of the most recent traversal.
func (s *Source) Stats() Stats {
	return s.stats
}

// Documents returns a single-pass sequence over the parsed articles.
// Files that fail to parse are counted, logged and skipped. A non-nil error
// is yielded only for conditions that end the traversal: an unreadable
// directory or a cancelled context. Each call restarts the traversal and
// resets Stats.
func (s *Source) Documents(ctx context.Context) iter.Seq2[*Document, error] {
	return func(yield func(*Document, error) bool) {
		s.stats = Stats{}

		shards, err := s.shards()
		if err != nil {
			yield(nil, err)
			return
		}

		for _, shard := range shards {
			files, err := s.articleFiles(shard)
			if err != nil {
				yield(nil, err)
				return
			}

			for _, name := range files {
				if err := ctx.Err(); err != nil {
					yield(nil, err)
					return
				}

				doc, err := s.parse(shard, name)
				s.stats.Processed++
				if err != nil {
					s.stats.Failed++
					s.logger.Error("failed to parse article",
						"path", filepath.Join(s.root, shard, name), "error", err)
				}
				if s.stats.Processed%s.progressEvery == 0 {
					s.logger.Info("extraction progress",
						"shard", shard,
						"processed", s.stats.Processed,
						"failures", s.stats.Failed)
				}

				if err == nil && !yield(doc, nil) {
					return
				}
			}
		}
	}
}

// shards returns the names of the subdirectories of root, sorted.
func (s *Source) shards() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		return nil, fmt.Errorf("reading corpus root %s: %w", s.root, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// articleFiles returns the sorted names of the article files in shard.
func (s *Source) articleFiles(shard string) ([]string, error) {
	dir := filepath.Join(s.root, shard)
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("reading shard %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := path.Match(s.pattern, e.Name()); ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Source) parse(shard, name string) (*Document, error) {
	f, err := s.fs.Open(filepath.Join(s.root, shard, name))
	if err != nil {
		return nil, fmt.Errorf("opening article: %w", err)
	}
	defer f.Close()

	tree, err := ParseDocument(f)
	if err != nil {
		return nil, err
	}
	return &Document{
		Shard: shard,
		Name:  name,
		Path:  path.Join(shard, name),
		Tree:  tree,
	}, nil
}
