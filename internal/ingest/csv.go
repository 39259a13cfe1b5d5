// Package ingest loads the raw drug, PubMed, and clinical trial sources
// into tables.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matsen/druggraph/internal/table"
)

// ErrDataLoad marks a failure to read a required input. A pipeline run
// cannot continue past it.
var ErrDataLoad = errors.New("data load failed")

// ReadCSV reads a CSV file with a header row. Empty cells are null.
func ReadCSV(path string) (table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return table.Table{}, fmt.Errorf("%w: opening %s: %w", ErrDataLoad, path, err)
	}
	defer f.Close()

	t, err := parseCSV(f)
	if err != nil {
		return table.Table{}, fmt.Errorf("%w: parsing %s: %w", ErrDataLoad, path, err)
	}
	return t, nil
}

func parseCSV(r io.Reader) (table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return table.Table{}, nil
	}
	if err != nil {
		return table.Table{}, fmt.Errorf("reading header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows []table.Row
	lineNum := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			return table.Table{}, fmt.Errorf("reading line %d: %w", lineNum, err)
		}
		row := make(table.Row, len(columns))
		for i, c := range columns {
			if i >= len(rec) || rec[i] == "" {
				continue // Null cell
			}
			row[c] = rec[i]
		}
		rows = append(rows, row)
	}

	return table.New(columns, rows), nil
}
