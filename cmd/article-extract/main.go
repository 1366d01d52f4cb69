// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the article-extract CLI.
//
// article-extract reduces a sharded corpus of JATS articles to metadata,
// text and coordinate tables for downstream meta-analysis.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/article-extract/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the article-extract CLI.
var rootCmd = &cobra.Command{
	Use:   "article-extract",
	Short: "Extract metadata, text and coordinates from an article corpus",
	Long: `article-extract walks a corpus directory of article XML files organised in
shard subdirectories (000 - fff) and writes one table per extractor
(metadata, text, coordinates) plus an info.json run summary.

Settings can also come from article-extract.yaml, ARTICLE_EXTRACT_* environment
variables, or a .env file in the working directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return setupLogger(viper.GetString("log_level"))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: article-extract.yaml in . or ~/.config/article-extract)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("pattern", types.DefaultArticlePattern, "glob article file names must match")
}

// bindFlags maps command-line flags onto their viper keys so flags override
// the config file and environment.
func bindFlags() {
	root := rootCmd.PersistentFlags()
	viper.BindPFlag("log_level", root.Lookup("log-level"))
	viper.BindPFlag("pattern", root.Lookup("pattern"))

	ext := extractCmd.Flags()
	viper.BindPFlag("output_dir", ext.Lookup("output-dir"))
	viper.BindPFlag("articles_with_coords_only", ext.Lookup("articles-with-coords-only"))
	viper.BindPFlag("format", ext.Lookup("format"))
}

// configPaths lists the directories searched for article-extract.yaml.
func configPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "article-extract"))
	}
	return paths
}

func initConfig() {
	bindFlags()
	viper.SetEnvPrefix("ARTICLE_EXTRACT")
	viper.AutomaticEnv()

	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("article-extract")
		viper.SetConfigType("yaml")
		for _, p := range configPaths() {
			viper.AddConfigPath(p)
		}
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	case !errors.As(err, &notFound):
		fmt.Fprintln(os.Stderr, "Ignoring config file:", err)
	}
}

// setupLogger installs a text logger on stderr as the slog default.
func setupLogger(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
