package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quill-lang/quilldoc/internal/config"
)

var (
	// configFlag is the CLI --config flag value
	configFlag string
	// searchPathFlag is the CLI --search-path flag value
	searchPathFlag []string
	// dbPathFlag is the CLI --db flag value
	dbPathFlag string
)

var rootCmd = &cobra.Command{
	Use:   "quilldoc",
	Short: "Quilldoc - documentation extraction for Quill modules",
	Long: `Quilldoc extracts structured documentation metadata (names, parameter
lists, docstrings, record slots) from Quill modules by observing a live load
pass: recognized definition forms are diverted into extraction handlers while
everything else loads normally.`,
	Version: fmt.Sprintf("%s (built %s)", version, buildTime),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Config file (default: ~/.quilldoc/config.yaml)")
	rootCmd.PersistentFlags().StringSliceVar(&searchPathFlag, "search-path", nil,
		"Module search path (repeatable; overrides config)")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "",
		"Catalogue database path (overrides config)")
}

// loadConfig resolves the effective configuration.
// Precedence: CLI flags > environment > config file > defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	if len(searchPathFlag) > 0 {
		cfg.SearchPaths = searchPathFlag
	}
	if dbPathFlag != "" {
		cfg.DatabasePath = dbPathFlag
	}
	return cfg, nil
}
