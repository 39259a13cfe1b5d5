// Package pipeline runs the batch job that turns raw drug, PubMed, and
// clinical trial sources into a mention graph.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/matsen/druggraph/internal/config"
	"github.com/matsen/druggraph/internal/ingest"
	"github.com/matsen/druggraph/internal/mention"
	"github.com/matsen/druggraph/internal/normalize"
	"github.com/matsen/druggraph/internal/storage"
	"github.com/matsen/druggraph/internal/table"
)

// Column names in the raw drug table.
const (
	drugColumn    = "drug"
	atcCodeColumn = "atccode"
)

// Summary reports what a run did at each stage.
type Summary struct {
	DrugsLoaded         int      `json:"drugs_loaded"`
	PubmedLoaded        int      `json:"pubmed_loaded"`
	PubmedDuplicates    int      `json:"pubmed_duplicates_removed"`
	TrialsLoaded        int      `json:"trials_loaded"`
	InvalidATCCodes     int      `json:"invalid_atc_codes_removed"`
	InvalidNCTNumbers   int      `json:"invalid_nct_numbers_removed"`
	VocabularySize      int      `json:"vocabulary_size"`
	PubmedMentions      int      `json:"pubmed_mentions"`
	TrialMentions       int      `json:"clinical_trial_mentions"`
	UndatedDropped      int      `json:"undated_mentions_dropped"`
	TotalMentions       int      `json:"total_mentions"`
	Warnings            []string `json:"warnings,omitempty"`
	CleanedDir          string   `json:"cleaned_dir"`
	OutputPath          string   `json:"output_path"`
	SkippedSourceTables []string `json:"skipped_sources,omitempty"`
}

// Result is the output of a run: the graph and its summary.
type Result struct {
	Events  []mention.Event
	Summary Summary
}

// Run executes every stage once: load, clean, validate, standardize dates,
// save cleaned tables, extract mentions, and write the graph.
//
// A load failure aborts the run and the returned error wraps
// ingest.ErrDataLoad. A publication table missing a required column only
// removes that source's mentions and is reported in Summary.Warnings.
func Run(ctx context.Context, cfg *config.Config, logger log.FieldLogger) (*Result, error) {
	logger.Info("Starting data pipeline")

	ds, err := ingest.Load(ingest.PathsIn(cfg.RawDir), logger)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sum := Summary{
		DrugsLoaded:      ds.Drugs.Len(),
		PubmedLoaded:     ds.Pubmed.Len(),
		PubmedDuplicates: ds.PubmedDuplicates,
		TrialsLoaded:     ds.Trials.Len(),
		CleanedDir:       cfg.CleanedDir,
		OutputPath:       cfg.OutputPath,
	}

	drugs, pubmed, trials := clean(ds, &sum, logger)

	if err := saveCleaned(cfg.CleanedDir, drugs, pubmed, trials, logger); err != nil {
		return nil, err
	}

	vocab := mention.NewVocabulary(drugs.Unique(drugColumn))
	sum.VocabularySize = len(vocab)
	logger.Infof("Prepared list of %d unique valid drug names for mention finding", len(vocab))

	logger.Info("Processing PubMed data for drug mentions")
	pubmedEvents := extract(pubmed, vocab, mention.SourcePubmed, &sum, logger)
	sum.PubmedMentions = len(pubmedEvents)

	logger.Info("Processing clinical trials data for drug mentions")
	trialEvents := extract(trials, vocab, mention.SourceClinicalTrial, &sum, logger)
	sum.TrialMentions = len(trialEvents)

	all := append(pubmedEvents, trialEvents...)
	events := mention.DropUndated(all)
	sum.UndatedDropped = len(all) - len(events)
	sum.TotalMentions = len(events)
	logger.WithField("mentions", len(events)).Infof("Total drug mentions found: %d", len(events))

	if len(events) == 0 {
		logger.Warn("No drug mentions were found in any publications; an empty graph will be produced")
	}

	if err := storage.WriteGraph(cfg.OutputPath, events); err != nil {
		return nil, fmt.Errorf("saving output graph: %w", err)
	}
	logger.Infof("Data pipeline completed; output saved to %s", cfg.OutputPath)

	return &Result{Events: events, Summary: sum}, nil
}

// clean applies text cleanup, code validation, and date standardization.
func clean(ds *ingest.Dataset, sum *Summary, logger log.FieldLogger) (drugs, pubmed, trials table.Table) {
	logger.Info("Applying hex escape correction to text fields")
	drugs = normalize.CleanText(ds.Drugs, drugColumn)
	pubmed = normalize.CleanText(ds.Pubmed, mention.TitleColumn(mention.SourcePubmed), mention.ColumnJournal)
	trials = normalize.CleanText(ds.Trials, mention.TitleColumn(mention.SourceClinicalTrial), mention.ColumnJournal)

	drugs, sum.InvalidATCCodes = normalize.KeepValid(drugs, atcCodeColumn, normalize.IsATCCode)
	logger.WithField("removed", sum.InvalidATCCodes).Infof("ATC codes checked: %d drugs removed", sum.InvalidATCCodes)

	trials, sum.InvalidNCTNumbers = normalize.KeepValid(trials, mention.ColumnID, normalize.IsNCTNumber)
	logger.WithField("removed", sum.InvalidNCTNumbers).Infof("NCT numbers checked: %d trials removed", sum.InvalidNCTNumbers)

	logger.Info("Applying date standardization to PubMed and clinical trials data")
	pubmed = normalize.StandardizeDates(pubmed, mention.ColumnDate)
	trials = normalize.StandardizeDates(trials, mention.ColumnDate)

	return drugs, pubmed, trials
}

func saveCleaned(dir string, drugs, pubmed, trials table.Table, logger log.FieldLogger) error {
	logger.Infof("Saving cleaned tables to %s", dir)
	files := []struct {
		name string
		t    table.Table
	}{
		{storage.DrugsCleanedFile, drugs},
		{storage.PubmedCleanedFile, pubmed},
		{storage.TrialsCleanedFile, trials},
	}
	for _, f := range files {
		if err := storage.WriteTableCSV(filepath.Join(dir, f.name), f.t); err != nil {
			return fmt.Errorf("saving cleaned table: %w", err)
		}
	}
	return nil
}

// extract runs the mention extractor for one source. A missing column is
// logged and recorded, and the source contributes nothing.
func extract(t table.Table, vocab mention.Vocabulary, source mention.SourceType, sum *Summary, logger log.FieldLogger) []mention.Event {
	events, err := mention.Extract(t, vocab, source)
	if err != nil {
		logger.WithField("source", source).Warnf("Skipping %s mentions: %v", source, err)
		sum.Warnings = append(sum.Warnings, err.Error())
		sum.SkippedSourceTables = append(sum.SkippedSourceTables, string(source))
		return nil
	}
	logger.WithField("source", source).Infof("Found %d %s mentions", len(events), source)
	return events
}
