package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matsen/druggraph/internal/mention"
	"github.com/matsen/druggraph/internal/storage"
)

// exportTimeout bounds a whole export, including connecting.
const exportTimeout = 2 * time.Minute

var exportVerify bool

func init() {
	exportMongoCmd.Flags().BoolVar(&exportVerify, "verify", false, "Read the collection back and check it matches the graph")
	exportCmd.AddCommand(exportJSONLCmd)
	exportCmd.AddCommand(exportMongoCmd)
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the mention graph to another store",
}

var exportJSONLCmd = &cobra.Command{
	Use:   "jsonl <path>",
	Short: "Write the mention graph as JSONL",
	Long: `Write the mention graph as JSONL, one mention per line, replacing the file.

Line-per-record output diffs cleanly under version control.`,
	Args: cobra.ExactArgs(1),
	RunE: runExportJSONL,
}

var exportMongoCmd = &cobra.Command{
	Use:   "mongo",
	Short: "Replace a MongoDB collection with the mention graph",
	Long: `Replace the contents of a MongoDB collection with the mention graph.

The target is configured with mongo.uri, mongo.database, and
mongo.collection in the config file, or with DRUGGRAPH_MONGO_URI.
Each mention becomes one document with the same fields as the graph JSON.

With --verify, the collection is read back after writing and compared with
the graph; a mismatch exits with code 1.`,
	Args: cobra.NoArgs,
	RunE: runExportMongo,
}

// ExportResult is the response for the export commands.
type ExportResult struct {
	Status     string `json:"status"`
	Exported   int    `json:"exported"`
	Path       string `json:"path,omitempty"`
	Database   string `json:"database,omitempty"`
	Collection string `json:"collection,omitempty"`
	Verified   bool   `json:"verified,omitempty"`
}

func runExportJSONL(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	events := mustReadGraph(cfg)

	path := args[0]
	if err := storage.WriteMentionsJSONL(path, events); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Exported %d mentions to %s\n", len(events), path)
	} else {
		outputJSON(ExportResult{Status: "exported", Exported: len(events), Path: path})
	}
	return nil
}

func runExportMongo(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if err := cfg.ValidateMongo(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	logger, cleanup := mustSetupLogger(cfg)
	defer cleanup()

	events := mustReadGraph(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	exporter, err := storage.NewMongoExporter(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
	if err != nil {
		exitWithError(ExitError, "connecting to MongoDB: %v", err)
	}
	defer exporter.Close(context.Background())

	logger.Infof("Exporting %d mentions to %s.%s", len(events), cfg.Mongo.Database, cfg.Mongo.Collection)
	n, err := exporter.Export(ctx, events)
	if err != nil {
		exitWithError(ExitError, "exporting to MongoDB: %v", err)
	}

	if exportVerify {
		stored, err := exporter.Fetch(ctx)
		if err != nil {
			exitWithError(ExitError, "verifying export: %v", err)
		}
		if i := firstMismatch(events, stored); i >= 0 {
			exitWithError(ExitError, "verifying export: collection differs from graph at mention %d (%d stored, %d in graph)", i+1, len(stored), len(events))
		}
		logger.Infof("Verified %d mentions in %s.%s", len(stored), cfg.Mongo.Database, cfg.Mongo.Collection)
	}

	if humanOutput {
		fmt.Printf("Exported %d mentions to %s.%s\n", n, cfg.Mongo.Database, cfg.Mongo.Collection)
		if exportVerify {
			fmt.Println("Verified collection matches the graph")
		}
	} else {
		outputJSON(ExportResult{
			Status:     "exported",
			Exported:   n,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
			Verified:   exportVerify,
		})
	}
	return nil
}

// firstMismatch returns the index of the first mention where stored differs
// from want, or -1 if they are equal.
func firstMismatch(want, stored []mention.Event) int {
	for i := range want {
		if i >= len(stored) || stored[i] != want[i] {
			return i
		}
	}
	if len(stored) > len(want) {
		return len(want)
	}
	return -1
}
