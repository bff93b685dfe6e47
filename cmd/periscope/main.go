package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hollis/periscope/internal/cli"
	"github.com/hollis/periscope/internal/config"
	"github.com/hollis/periscope/internal/logger"
	"github.com/hollis/periscope/internal/websearch"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "periscope",
		Short: "Periscope - Chat With a View of the Web",
		Long: `Periscope is a conversational assistant that raises a periscope to the web
when a question needs current information.

It can:
  • Hold natural language conversations backed by a local Ollama model
  • Detect questions that need fresh information and search the web for them
  • Query SearXNG, DuckDuckGo, Wikipedia or a custom JSON endpoint
  • Keep conversation history across sessions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			initLogger()
			defer logger.Close()
			logStartupInfo(cfg)

			// Start CLI
			return cli.Run(cfg)
		},
	}

	// search subcommand: one-shot query without entering the REPL
	var searchProvider string
	var searchCount int
	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run a single web search and print the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			initLogger()
			defer logger.Close()

			client := websearch.NewClient(searchClientConfig(cfg, searchProvider, searchCount))
			results := client.Search(cmd.Context(), strings.Join(args, " "))
			fmt.Println(websearch.FormatResults(results))
			return nil
		},
	}
	searchCmd.Flags().StringVarP(&searchProvider, "provider", "p", "", "search provider (searxng|duckduckgo|wikipedia|google|bing|custom)")
	searchCmd.Flags().IntVarP(&searchCount, "count", "n", 0, "maximum number of results")

	// config subcommand
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			fmt.Println(cfg.String())

			path, _ := config.ConfigPath()
			fmt.Printf("\nConfig file path: %s\n", path)
			return nil
		},
	}

	// version subcommand
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Periscope v%s\n", version)
		},
	}

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initLogger sets up the file logger. Logging is best effort: a failure
// is reported but never blocks startup.
func initLogger() {
	err := logger.Init(logger.Config{
		LogDir:  config.LogDir(),
		Level:   logger.INFO,
		MaxDays: 7,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
}

// searchClientConfig applies command line overrides to the configured
// search client settings. Empty or non-positive overrides leave the
// config file values in place.
func searchClientConfig(cfg *config.Config, provider string, count int) websearch.Config {
	sc := cli.SearchConfig(cfg)
	if provider != "" {
		sc.Provider = provider
	}
	if count > 0 {
		sc.ResultsCount = count
	}
	return sc
}

// logStartupInfo records the effective configuration at startup. The API
// key never reaches the log.
func logStartupInfo(cfg *config.Config) {
	logger.Info("periscope v%s starting", version)
	logger.Info("model: %s @ %s (temperature=%.1f, max_tokens=%d)",
		cfg.Model.Model, cfg.Model.BaseURL, cfg.Model.Temperature, cfg.Model.MaxTokens)
	logger.Info("web search: enabled=%v provider=%s base_url=%s results=%d timeout=%ds",
		cfg.WebSearch.Enabled, cfg.WebSearch.Provider, cfg.WebSearch.BaseURL,
		cfg.WebSearch.ResultsCount, cfg.WebSearch.TimeoutSeconds)
	logger.Info("history db: %s (context window: %d messages)",
		cfg.History.DBPath, cfg.History.MaxContextMessages)
}
