package ingest

import (
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/matsen/druggraph/internal/table"
)

// Raw source file names inside the raw data directory.
const (
	DrugsFile          = "drugs.csv"
	PubmedCSVFile      = "pubmed.csv"
	PubmedJSONFile     = "pubmed.json"
	ClinicalTrialsFile = "clinical_trials.csv"
)

// Paths locates the raw source files.
type Paths struct {
	Drugs          string
	PubmedCSV      string
	PubmedJSON     string
	ClinicalTrials string
}

// PathsIn returns the standard source file paths under rawDir.
func PathsIn(rawDir string) Paths {
	return Paths{
		Drugs:          filepath.Join(rawDir, DrugsFile),
		PubmedCSV:      filepath.Join(rawDir, PubmedCSVFile),
		PubmedJSON:     filepath.Join(rawDir, PubmedJSONFile),
		ClinicalTrials: filepath.Join(rawDir, ClinicalTrialsFile),
	}
}

// Dataset holds the three raw tables of a run.
type Dataset struct {
	Drugs  table.Table
	Pubmed table.Table
	Trials table.Table

	// PubmedDuplicates is the number of PubMed rows dropped by the id merge.
	PubmedDuplicates int
}

// Load reads every source. Any missing or unparseable file returns an
// error wrapping ErrDataLoad.
func Load(p Paths, logger log.FieldLogger) (*Dataset, error) {
	logger.Infof("Loading drugs data from %s", p.Drugs)
	drugs, err := ReadCSV(p.Drugs)
	if err != nil {
		return nil, err
	}

	logger.Infof("Loading clinical trials data from %s", p.ClinicalTrials)
	trials, err := ReadCSV(p.ClinicalTrials)
	if err != nil {
		return nil, err
	}

	logger.Infof("Loading PubMed CSV data from %s", p.PubmedCSV)
	pubmedCSV, err := ReadCSV(p.PubmedCSV)
	if err != nil {
		return nil, err
	}
	if !pubmedCSV.HasColumn("id") {
		logger.Warnf("'id' column not found in %s; de-duplication might be affected", p.PubmedCSV)
	}

	logger.Infof("Loading PubMed JSON data from %s", p.PubmedJSON)
	pubmedJSON, err := ReadJSONRecords(p.PubmedJSON)
	if err != nil {
		return nil, err
	}
	if !pubmedJSON.HasColumn("id") {
		logger.Warnf("'id' column not found in %s; de-duplication might be affected", p.PubmedJSON)
	}

	logger.Info("Merging PubMed CSV and JSON data")
	pubmed, removed := MergePubmed(pubmedCSV, pubmedJSON)
	if pubmed.HasColumn("id") {
		logger.WithField("removed", removed).Infof("De-duplicated PubMed data: %d duplicates removed, %d articles remain", removed, pubmed.Len())
	} else {
		logger.Warn("'id' column not present in merged PubMed data; skipping de-duplication")
	}

	logger.WithFields(log.Fields{
		"drugs":  drugs.Len(),
		"pubmed": pubmed.Len(),
		"trials": trials.Len(),
	}).Info("Data loading complete")

	return &Dataset{
		Drugs:            drugs,
		Pubmed:           pubmed,
		Trials:           trials,
		PubmedDuplicates: removed,
	}, nil
}

// MergePubmed concatenates the CSV and JSON PubMed tables and keeps the first
// row for each id. Returns the merged table and the number of rows removed.
func MergePubmed(csvTable, jsonTable table.Table) (table.Table, int) {
	merged := table.Concat(csvTable, jsonTable)
	if !merged.HasColumn("id") {
		return merged, 0
	}
	return merged.DropDuplicates("id")
}
