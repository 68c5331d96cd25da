// Package main is the entry point for the rag-search CLI: the HTTP/workflow
// server and a small client that asks it questions.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"rag-search/internal/common/config"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "rag-search",
	Short: "Answer questions from live web search results",
	Long: `rag-search searches the web for a query, scrapes the top result pages,
and asks an LLM to answer using the scraped text as context.

Run "rag-search serve" to start the API (and optionally the workflow worker),
then "rag-search ask" to query it.`,
	Version:       version,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: configs/config.yaml merged with config.<APP_ENVIRONMENT>.yaml)")
}

// loadConfig honours --config and falls back to the layered defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
