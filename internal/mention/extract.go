package mention

import (
	"fmt"
	"strings"

	"github.com/matsen/druggraph/internal/table"
)

// Columns read from every publication table besides the title column.
const (
	ColumnID      = "id"
	ColumnJournal = "journal"
	ColumnDate    = "date"
)

// TitleColumn returns the column holding the title for a source type.
func TitleColumn(source SourceType) string {
	if source == SourceClinicalTrial {
		return "scientific_title"
	}
	return "title"
}

// Extract scans every publication title for every vocabulary entry and
// returns one event per (publication, entry) match.
//
// Matching is a case-insensitive substring test with no word boundaries, so
// a drug name inside a longer word still matches. Null title, journal, and id
// read as empty strings. Publications with an empty title or a null date
// produce no events. Events are ordered by row, then by vocabulary order.
//
// If a required column is absent the result is empty and the returned error
// wraps ErrMissingColumn. The input table is not modified.
func Extract(t table.Table, vocab Vocabulary, source SourceType) ([]Event, error) {
	titleCol := TitleColumn(source)
	if missing := t.MissingColumns(titleCol, ColumnJournal, ColumnID, ColumnDate); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %q not found in %s data", ErrMissingColumn, missing[0], source)
	}

	var events []Event
	for _, row := range t.Rows {
		title := row.Value(titleCol)
		date := row.Value(ColumnDate)
		if title == "" || date == "" {
			continue
		}

		upperTitle := strings.ToUpper(title)
		for _, entry := range vocab {
			if !strings.Contains(upperTitle, entry.Upper) {
				continue
			}
			events = append(events, Event{
				Drug:             entry.Canonical,
				Journal:          row.Value(ColumnJournal),
				Date:             date,
				SourceType:       source,
				PublicationID:    row.Value(ColumnID),
				PublicationTitle: title,
			})
		}
	}
	return events, nil
}
