package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/druggraph/internal/mention"
)

var (
	mentionsDrug    string
	mentionsJournal string
)

func init() {
	mentionsCmd.Flags().StringVar(&mentionsDrug, "drug", "", "Drug name (case-insensitive)")
	mentionsCmd.Flags().StringVar(&mentionsJournal, "journal", "", "Exact journal name")
	mentionsCmd.MarkFlagsMutuallyExclusive("drug", "journal")
	rootCmd.AddCommand(mentionsCmd)
}

var mentionsCmd = &cobra.Command{
	Use:   "mentions",
	Short: "Look up mentions in the query cache",
	Long: `Look up mention events by drug or by journal in the SQLite query cache.

With neither flag, every cached mention is listed. The cache is refreshed
by 'druggraph run' and 'druggraph rebuild'.`,
	Args: cobra.NoArgs,
	RunE: runMentions,
}

func runMentions(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	db := mustOpenDatabase(cfg)
	defer db.Close()

	var (
		events []mention.Event
		err    error
	)
	switch {
	case mentionsDrug != "":
		events, err = db.MentionsByDrug(mentionsDrug)
	case mentionsJournal != "":
		events, err = db.MentionsByJournal(mentionsJournal)
	default:
		events, err = db.AllMentions()
	}
	if err != nil {
		exitWithError(ExitError, "querying mentions: %v", err)
	}
	total, err := db.CountMentions()
	if err != nil {
		exitWithError(ExitError, "counting mentions: %v", err)
	}

	if humanOutput {
		printMentionsHuman(events, total)
	} else {
		if events == nil {
			events = []mention.Event{}
		}
		outputJSON(MentionsResponse{Count: len(events), Total: total, Mentions: events})
	}
	return nil
}
