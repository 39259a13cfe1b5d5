package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/matsen/druggraph/internal/config"
	"github.com/matsen/druggraph/internal/ingest"
	"github.com/matsen/druggraph/internal/pipeline"
)

var (
	runNoCache bool
	runWatch   bool
)

func init() {
	runCmd.Flags().BoolVar(&runNoCache, "no-cache", false, "Do not refresh the SQLite query cache after the run")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "Keep running and re-run whenever a raw file changes")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline and write the mention graph",
	Long: `Run the full pipeline once.

Loads the raw drug, PubMed, and clinical trial files, removes hex escape
artifacts, drops drugs with invalid ATC codes and trials with invalid NCT
numbers, standardizes dates, saves the cleaned tables, finds drug mentions
in publication titles, and writes the mention graph.

A missing or unparseable input file stops the run (exit code 3). A
publication table without a required column only loses its own mentions;
the run continues and the problem is listed under "warnings".

Unless --no-cache is given, the SQLite query cache is refreshed from the
new graph so that 'druggraph mentions' sees it immediately.

With --watch, the pipeline runs again each time a raw file changes until
interrupted. Failed runs are reported and watching continues.

Only one run may use a cache directory at a time.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

// RunResult is the response for the run command.
type RunResult struct {
	Status string `json:"status"`
	pipeline.Summary
	Cached int `json:"cached,omitempty"`
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger, cleanup := mustSetupLogger(cfg)
	defer cleanup()

	unlock := mustLockRun(cfg)
	defer unlock()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if runWatch {
		err := pipeline.Watch(ctx, cfg, logger, func(res *pipeline.Result, err error) {
			if err != nil {
				logger.WithError(err).Error("Pipeline failed")
				return
			}
			if err := reportRun(cfg, res); err != nil {
				logger.WithError(err).Error("Refreshing query cache failed")
			}
		})
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		return nil
	}

	res, err := pipeline.Run(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Pipeline failed")
		if errors.Is(err, ingest.ErrDataLoad) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}
	if err := reportRun(cfg, res); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return nil
}

// reportRun refreshes the query cache unless disabled and prints the run summary.
func reportRun(cfg *config.Config, res *pipeline.Result) error {
	result := RunResult{Status: "completed", Summary: res.Summary}
	if !runNoCache {
		n, err := refreshCache(cfg, res)
		if err != nil {
			return err
		}
		result.Cached = n
	}

	if humanOutput {
		printSummaryHuman(res.Summary)
		if !runNoCache {
			fmt.Printf("Query cache refreshed with %d mentions\n", result.Cached)
		}
	} else {
		outputJSON(result)
	}
	return nil
}

func refreshCache(cfg *config.Config, res *pipeline.Result) (int, error) {
	db := mustOpenDatabase(cfg)
	defer db.Close()
	n, err := db.RebuildMentions(res.Events)
	if err != nil {
		return 0, fmt.Errorf("refreshing query cache: %w", err)
	}
	return n, nil
}

func printSummaryHuman(s pipeline.Summary) {
	fmt.Println(headingStyle.Render("Pipeline run"))
	fmt.Printf("Loaded %d drugs, %d PubMed articles (%d duplicates removed), %d clinical trials\n",
		s.DrugsLoaded, s.PubmedLoaded, s.PubmedDuplicates, s.TrialsLoaded)
	fmt.Printf("Removed %d drugs with invalid ATC codes and %d trials with invalid NCT numbers\n",
		s.InvalidATCCodes, s.InvalidNCTNumbers)
	fmt.Printf("Searched titles for %d drug names\n", s.VocabularySize)
	fmt.Printf("Found %d PubMed and %d clinical trial mentions", s.PubmedMentions, s.TrialMentions)
	if s.UndatedDropped > 0 {
		fmt.Printf(" (%d undated dropped)", s.UndatedDropped)
	}
	fmt.Println()
	for _, w := range s.Warnings {
		fmt.Println(warnStyle.Render("Warning: " + w))
	}
	fmt.Println(mutedStyle.Render("Cleaned tables: " + s.CleanedDir))
	fmt.Printf("Wrote %d mentions to %s\n", s.TotalMentions, s.OutputPath)
}
