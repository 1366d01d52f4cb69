// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/article-extract/internal/corpus"
)

var articlesCmd = &cobra.Command{
	Use:   "articles [articles-dir]",
	Short: "List articles in the order extract visits them",
	Long: `Articles parses every article below articles-dir and prints its
shard/file path in traversal order, followed by the parse failure count.
Nothing is written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runArticles,
}

func init() {
	rootCmd.AddCommand(articlesCmd)
}

func runArticles(cmd *cobra.Command, args []string) error {
	articlesDir := viper.GetString("articles_dir")
	if len(args) > 0 {
		articlesDir = args[0]
	}
	if articlesDir == "" {
		return fmt.Errorf("provide the articles directory as an argument or set articles_dir")
	}

	src, err := corpus.Open(afero.NewOsFs(), articlesDir,
		corpus.WithPattern(viper.GetString("pattern")))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for doc, err := range src.Documents(cmd.Context()) {
		if err != nil {
			return err
		}
		fmt.Fprintln(out, doc.Path)
	}

	stats := src.Stats()
	fmt.Fprintf(out, "\n%d articles, %d parse failures\n", stats.Succeeded(), stats.Failed)
	return nil
}
