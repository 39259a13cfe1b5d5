// Package main provides the druggraph CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/matsen/druggraph/internal/config"
	"github.com/matsen/druggraph/internal/mention"
	"github.com/matsen/druggraph/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

// Global flags
var (
	humanOutput bool   // human-readable output instead of JSON
	configPath  string // explicit config file
	logLevel    string // overrides log_level from config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so cobra errors must be printed here
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "druggraph",
	Short: "Build and query a drug mention graph",
	Long: `druggraph finds drug names in PubMed article and clinical trial titles
and links them to the journals that published them.

The pipeline reads four raw files (drugs.csv, pubmed.csv, pubmed.json,
clinical_trials.csv), cleans and validates them, and writes a JSON mention
graph. Analysis commands answer questions over that graph, and an
ephemeral SQLite cache supports lookups by drug or journal.

All commands output JSON by default; use --human for readable text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./"+config.ConfigFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Version = Version
}

// mustLoadConfig loads and validates configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "invalid config: %v", err)
	}
	return cfg
}

// mustSetupLogger builds the command logger, exits on error.
// The caller is responsible for calling the returned cleanup function.
func mustSetupLogger(cfg *config.Config) (*log.Logger, func()) {
	logger, cleanup, err := newLogger(cfg, os.Stderr)
	if err != nil {
		exitWithError(ExitConfigError, "setting up logging: %v", err)
	}
	return logger, cleanup
}

// mustReadGraph reads the mention graph named by the config, exits on error.
// A missing graph is an error here; use mustReadGraphOrEmpty where an
// absent graph means no data.
func mustReadGraph(cfg *config.Config) []mention.Event {
	if _, err := os.Stat(cfg.OutputPath); errors.Is(err, os.ErrNotExist) {
		exitWithError(ExitDataError, "mention graph not found at %s\n\nRun 'druggraph run' to create it.", cfg.OutputPath)
	}
	events, err := storage.ReadGraph(cfg.OutputPath)
	if err != nil {
		exitWithError(ExitDataError, "reading mention graph: %v", err)
	}
	return events
}

// mustReadGraphOrEmpty reads the mention graph, treating a missing file as
// no data. Exits only if the graph exists but cannot be read.
func mustReadGraphOrEmpty(cfg *config.Config) []mention.Event {
	logger, cleanup := mustSetupLogger(cfg)
	defer cleanup()

	events, err := readGraphOrEmpty(cfg.OutputPath, logger)
	if err != nil {
		exitWithError(ExitDataError, "reading mention graph: %v", err)
	}
	return events
}

// readGraphOrEmpty reads the graph at path. A missing file is logged as a
// warning with a hint and read as an empty graph.
func readGraphOrEmpty(path string, logger log.FieldLogger) ([]mention.Event, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Warnf("Mention graph not found at %s; treating it as empty. Run 'druggraph run' to create it.", path)
		return nil, nil
	}
	return storage.ReadGraph(path)
}

// mustOpenDatabase opens the SQLite query cache, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(cfg *config.Config) *storage.DB {
	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(cfg.DBPath())
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}
