// Package normalize cleans and validates raw drug, publication, and trial
// tables before mention extraction.
package normalize

import (
	"strings"
	"time"
)

// DateLayout is the canonical date format written to cleaned tables and the
// mention graph.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order. Day-first slashes come before ISO so
// that "01/02/2020" is read as 1 February.
var dateLayouts = []string{
	"2/1/2006",
	"2 January 2006",
	"2006-1-2",
}

// StandardizeDate converts a raw date string to YYYY-MM-DD.
// Returns false if the string matches none of the accepted formats.
func StandardizeDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), true
		}
	}
	return "", false
}
