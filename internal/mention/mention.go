// Package mention defines drug mention events and extracts them from
// publication titles.
package mention

import (
	"errors"
	"strings"
)

// SourceType identifies the kind of publication an event came from.
type SourceType string

const (
	SourcePubmed        SourceType = "pubmed"
	SourceClinicalTrial SourceType = "clinical_trial"
)

// Valid reports whether s is a known source type.
func (s SourceType) Valid() bool {
	return s == SourcePubmed || s == SourceClinicalTrial
}

// Event records one drug named in one publication title.
type Event struct {
	Drug             string     `json:"drug" bson:"drug"`
	Journal          string     `json:"journal" bson:"journal"`
	Date             string     `json:"date" bson:"date"`
	SourceType       SourceType `json:"source_type" bson:"source_type"`
	PublicationID    string     `json:"publication_id" bson:"publication_id"`
	PublicationTitle string     `json:"publication_title" bson:"publication_title"`
}

// ErrMissingColumn is returned by Extract when the publication table lacks a
// required column. Callers treat it as a warning: the source contributes no
// events and the run continues.
var ErrMissingColumn = errors.New("missing required column")

// Entry is a drug name in its canonical casing together with its uppercase
// match key.
type Entry struct {
	Canonical string
	Upper     string
}

// Vocabulary is an ordered list of drug entries, unique by canonical name.
type Vocabulary []Entry

// NewVocabulary builds a vocabulary from drug names. Empty names and
// repeated canonical names are dropped; first occurrence wins.
func NewVocabulary(names []string) Vocabulary {
	seen := make(map[string]bool, len(names))
	vocab := make(Vocabulary, 0, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		vocab = append(vocab, Entry{Canonical: name, Upper: strings.ToUpper(name)})
	}
	return vocab
}

// DropUndated returns the events that carry a date.
func DropUndated(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Date != "" {
			out = append(out, e)
		}
	}
	return out
}
