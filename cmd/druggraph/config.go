package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/druggraph/internal/config"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging defaults, the global config
($XDG_CONFIG_HOME/druggraph/config.yml), the project config file, .env,
and DRUGGRAPH_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the effective configuration to a config file",
	Long: `Write the effective configuration to a YAML config file
(default: ./` + config.ConfigFile + `). The MongoDB URI is not written, since it
often carries credentials; keep it in .env or DRUGGRAPH_MONGO_URI.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	RawDir          string `json:"raw_dir"`
	CleanedDir      string `json:"cleaned_dir"`
	OutputPath      string `json:"output_path"`
	CacheDir        string `json:"cache_dir"`
	Database        string `json:"database"`
	LogLevel        string `json:"log_level,omitempty"`
	LogFile         string `json:"log_file,omitempty"`
	MongoConfigured bool   `json:"mongo_configured"`
	MongoDatabase   string `json:"mongo_database,omitempty"`
	MongoCollection string `json:"mongo_collection,omitempty"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	if humanOutput {
		fmt.Printf("raw-dir:      %s\n", cfg.RawDir)
		fmt.Printf("cleaned-dir:  %s\n", cfg.CleanedDir)
		fmt.Printf("output:       %s\n", cfg.OutputPath)
		fmt.Printf("cache-dir:    %s\n", cfg.CacheDir)
		fmt.Printf("log-level:    %s\n", cfg.LogLevel)
		if cfg.LogFile != "" {
			fmt.Printf("log-file:     %s\n", cfg.LogFile)
		}
		if cfg.Mongo.URI != "" {
			fmt.Printf("mongo:        %s.%s\n", cfg.Mongo.Database, cfg.Mongo.Collection)
		} else {
			fmt.Println("mongo:        (not configured)")
		}
		return nil
	}

	outputJSON(ConfigResponse{
		RawDir:          cfg.RawDir,
		CleanedDir:      cfg.CleanedDir,
		OutputPath:      cfg.OutputPath,
		CacheDir:        cfg.CacheDir,
		Database:        cfg.DBPath(),
		LogLevel:        cfg.LogLevel,
		LogFile:         cfg.LogFile,
		MongoConfigured: cfg.Mongo.URI != "",
		MongoDatabase:   cfg.Mongo.Database,
		MongoCollection: cfg.Mongo.Collection,
	})
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ConfigFile
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !configInitForce {
		exitWithError(ExitConfigError, "%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		exitWithError(ExitError, "checking %s: %v", path, err)
	}

	cfg := mustLoadConfig()
	cfg.Mongo.URI = ""
	if err := cfg.Save(path); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Wrote %s\n", path)
	} else {
		outputJSON(StatusResponse{Status: "written", Path: path})
	}
	return nil
}
