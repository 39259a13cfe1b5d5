package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildJSONL string

func init() {
	rebuildCmd.Flags().StringVar(&rebuildJSONL, "jsonl", "", "Rebuild from a JSONL export instead of the graph file")
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query cache from the mention graph",
	Long: `Rebuild the SQLite query cache from the mention graph JSON file.

Use this after replacing the graph file by hand or if the cache becomes
corrupted. A missing graph produces an empty cache.

With --jsonl, the cache is loaded from a file written by
'druggraph export jsonl' instead.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status   string `json:"status"`
	Mentions int    `json:"mentions"`
	Source   string `json:"source"`
	Database string `json:"database"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	db := mustOpenDatabase(cfg)
	defer db.Close()

	source := cfg.OutputPath
	var (
		count int
		err   error
	)
	if rebuildJSONL != "" {
		source = rebuildJSONL
		count, err = db.RebuildFromJSONL(rebuildJSONL)
	} else {
		count, err = db.RebuildFromGraph(cfg.OutputPath)
	}
	if err != nil {
		exitWithError(ExitDataError, "rebuilding mentions database: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt query database with %d mentions from %s\n", count, source)
	} else {
		outputJSON(RebuildResult{
			Status:   "rebuilt",
			Mentions: count,
			Source:   source,
			Database: cfg.DBPath(),
		})
	}
	return nil
}
