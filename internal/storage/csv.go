package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/druggraph/internal/table"
)

// Cleaned table file names inside the cleaned data directory.
const (
	DrugsCleanedFile  = "drugs_cleaned.csv"
	PubmedCleanedFile = "pubmed_cleaned.csv"
	TrialsCleanedFile = "clinical_trials_cleaned.csv"
)

// WriteTableCSV writes a table as CSV with a header row. Null cells are
// written empty. Fields containing commas, quotes, or newlines are quoted.
func WriteTableCSV(path string, t table.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, c := range t.Columns {
			record[j] = row.Value(c)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}
