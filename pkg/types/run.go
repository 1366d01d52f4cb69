// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunInfo is the run summary written to info.json once all tables are
// closed. Its presence marks a finished run.
type RunInfo struct {
	// NArticles is the number of records fed to every table writer.
	NArticles int `json:"n_articles" yaml:"n_articles"`

	// NParseFailures counts article files that could not be parsed.
	NParseFailures int `json:"n_parse_failures" yaml:"n_parse_failures"`

	// NFilteredOut counts parsed articles dropped by the coordinates-only filter.
	NFilteredOut int `json:"n_filtered_out" yaml:"n_filtered_out"`

	// NExtractorFailures counts extractor/document pairs that fell back to an
	// empty result.
	NExtractorFailures int `json:"n_extractor_failures" yaml:"n_extractor_failures"`

	ArticlesWithCoordsOnly bool         `json:"articles_with_coords_only" yaml:"articles_with_coords_only"`
	Format                 OutputFormat `json:"format" yaml:"format"`
	Tables                 []string     `json:"tables" yaml:"tables"`

	// RunID is a time-sortable identifier (UUIDv7) for this run.
	RunID string `json:"run_id" yaml:"run_id"`

	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`
}
