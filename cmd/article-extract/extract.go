// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/article-extract/internal/pipeline"
	"github.com/pdiddy/article-extract/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [articles-dir]",
	Short: "Extract article data into CSV or SQLite tables",
	Long: `Extract parses every article below articles-dir in a fixed order
(shards sorted by name, then files sorted by name) and writes metadata, text
and coordinates tables. Articles that fail to parse are skipped and counted.

Unless --output-dir is given, output goes to a sibling of articles-dir named
subset_allArticles_extractedData or subset_articlesWithCoords_extractedData.
info.json is written last; a directory without it holds an unfinished run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("output-dir", "", "directory for the extracted tables (default: derived from articles-dir)")
	extractCmd.Flags().Bool("articles-with-coords-only", false, "drop articles without stereotactic coordinates from every table")
	extractCmd.Flags().String("format", string(types.FormatCSV), "table format: csv or sqlite")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := extractionConfig(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := pipeline.Run(ctx, cfg, pipeline.WithOutput(os.Stdout))
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	fmt.Printf("Extracted %d articles to %s\n", res.Info.NArticles, res.OutputDir)
	return nil
}

// extractionConfig merges the positional argument with flags, config file
// and environment (in that order of precedence).
func extractionConfig(args []string) (types.ExtractionConfig, error) {
	articlesDir := viper.GetString("articles_dir")
	if len(args) > 0 {
		articlesDir = args[0]
	}
	if articlesDir == "" {
		return types.ExtractionConfig{}, fmt.Errorf("provide the articles directory as an argument or set articles_dir")
	}

	return types.ExtractionConfig{
		ArticlesDir:            articlesDir,
		OutputDir:              viper.GetString("output_dir"),
		ArticlesWithCoordsOnly: viper.GetBool("articles_with_coords_only"),
		Format:                 types.OutputFormat(viper.GetString("format")),
		ArticlePattern:         viper.GetString("pattern"),
	}, nil
}
