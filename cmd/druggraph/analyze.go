package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/druggraph/internal/analysis"
	"github.com/matsen/druggraph/internal/mention"
)

var analyzeCapitalize bool

func init() {
	analyzeRelatedCmd.Flags().BoolVar(&analyzeCapitalize, "capitalize", false, "Render names with only the first letter upper case")

	analyzeCmd.AddCommand(analyzeJournalCmd)
	analyzeCmd.AddCommand(analyzeJournalsCmd)
	analyzeCmd.AddCommand(analyzeRelatedCmd)
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Answer questions over the mention graph",
	Long: `Answer questions over the mention graph written by 'druggraph run'.

An empty graph gives an empty answer, never an error.`,
}

var analyzeJournalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show the journal that mentions the most distinct drugs",
	Long: `Show the journal that mentions the most distinct drugs.

Ties go to the journal that appears first in the graph.`,
	Args: cobra.NoArgs,
	RunE: runAnalyzeJournal,
}

var analyzeJournalsCmd = &cobra.Command{
	Use:   "journals",
	Short: "List every journal with its distinct drug count",
	Args:  cobra.NoArgs,
	RunE:  runAnalyzeJournals,
}

var analyzeRelatedCmd = &cobra.Command{
	Use:   "related <drug>",
	Short: "List drugs sharing PubMed-only journals with a drug",
	Long: `List the drugs that appear in at least one journal where both they and
the given drug are mentioned only by PubMed articles, never by clinical
trials. Matching on the drug name ignores case.

Names are printed as they appear in the graph, or with only the first
letter upper case when --capitalize is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyzeRelated,
}

// JournalResult is the response for the analyze journal command.
// Journal is null when no journal mentions any drug.
type JournalResult struct {
	Journal   *string `json:"journal"`
	DrugCount int     `json:"drug_count"`
}

// JournalsResult is the response for the analyze journals command.
type JournalsResult struct {
	Count    int                     `json:"count"`
	Journals []analysis.JournalCount `json:"journals"`
}

// RelatedResult is the response for the analyze related command.
type RelatedResult struct {
	Drug               string   `json:"drug"`
	Related            []string `json:"related"`
	PubmedOnlyJournals []string `json:"pubmed_only_journals"`
	IndexedDrugs       int      `json:"indexed_drugs"`
}

// newJournalResult wraps the most-diverse journal of events.
func newJournalResult(events []mention.Event) JournalResult {
	journal, count := analysis.MostDiverseJournal(events)
	if count == 0 {
		return JournalResult{}
	}
	return JournalResult{Journal: &journal, DrugCount: count}
}

// newRelatedResult answers a related-drugs query over events.
func newRelatedResult(events []mention.Event, drug string, render analysis.Render) RelatedResult {
	idx := analysis.BuildIndex(events)
	result := RelatedResult{
		Drug:               drug,
		Related:            []string{},
		PubmedOnlyJournals: idx.PubmedOnlyJournals(drug),
		IndexedDrugs:       idx.Drugs(),
	}
	if drug != "" {
		result.Related = idx.RelatedDrugs(drug, render)
	}
	return result
}

func runAnalyzeJournal(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	events := mustReadGraphOrEmpty(cfg)

	result := newJournalResult(events)

	if humanOutput {
		if result.Journal == nil {
			fmt.Println("No journal mentions any drug")
			return nil
		}
		fmt.Printf("%s (%d distinct drugs)\n", headingStyle.Render(*result.Journal), result.DrugCount)
	} else {
		outputJSON(result)
	}
	return nil
}

func runAnalyzeJournals(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	events := mustReadGraphOrEmpty(cfg)

	counts := analysis.JournalDrugCounts(events)

	if humanOutput {
		if len(counts) == 0 {
			fmt.Println("No journals found")
			return nil
		}
		for _, c := range counts {
			fmt.Printf("%4d  %s\n", c.Drugs, c.Journal)
		}
	} else {
		if counts == nil {
			counts = []analysis.JournalCount{}
		}
		outputJSON(JournalsResult{Count: len(counts), Journals: counts})
	}
	return nil
}

func runAnalyzeRelated(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	events := mustReadGraphOrEmpty(cfg)

	render := analysis.RenderCanonical
	if analyzeCapitalize {
		render = analysis.RenderCapitalized
	}
	result := newRelatedResult(events, args[0], render)

	if humanOutput {
		printRelatedHuman(result)
	} else {
		outputJSON(result)
	}
	return nil
}

func printRelatedHuman(r RelatedResult) {
	if len(r.PubmedOnlyJournals) == 0 {
		fmt.Printf("%s has no PubMed-only journal among %d drugs in the graph\n", r.Drug, r.IndexedDrugs)
		return
	}
	fmt.Println(headingStyle.Render("PubMed-only journals for " + r.Drug))
	for _, j := range r.PubmedOnlyJournals {
		fmt.Printf("  %s\n", j)
	}
	if len(r.Related) == 0 {
		fmt.Println("No other drug shares these journals")
		return
	}
	fmt.Printf("Related: %s\n", strings.Join(r.Related, ", "))
}
