// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OutputFormat selects the table writer backend.
type OutputFormat string

const (
	FormatCSV    OutputFormat = "csv"
	FormatSQLite OutputFormat = "sqlite"
)

// DefaultArticlePattern matches the article files inside each shard.
const DefaultArticlePattern = "pmcid_*.xml"

// ExtractionConfig holds settings for a data extraction run.
type ExtractionConfig struct {
	// ArticlesDir is the corpus root. It contains shard subdirectories
	// (conventionally 000 - fff), each holding article XML files.
	ArticlesDir string `json:"articles_dir" yaml:"articles_dir"`

	// OutputDir is where tables and info.json are written. When empty, a
	// sibling of ArticlesDir is derived from ArticlesWithCoordsOnly.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`

	// ArticlesWithCoordsOnly drops articles without stereotactic coordinates
	// from every table.
	ArticlesWithCoordsOnly bool `json:"articles_with_coords_only" yaml:"articles_with_coords_only"`

	// Format selects the table backend: csv (default) or sqlite.
	Format OutputFormat `json:"format" yaml:"format"`

	// ArticlePattern is the glob article file names must match
	// (default "pmcid_*.xml").
	ArticlePattern string `json:"article_pattern,omitempty" yaml:"article_pattern,omitempty"`
}
