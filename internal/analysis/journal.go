// Package analysis answers ad-hoc questions over a mention graph.
package analysis

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/matsen/druggraph/internal/mention"
)

// JournalCount is a journal with the number of distinct drugs it mentions.
type JournalCount struct {
	Journal string `json:"journal"`
	Drugs   int    `json:"drugs"`
}

// JournalDrugCounts returns every journal with its distinct drug count, in
// the order journals first appear in events. Drug names are compared in
// their canonical casing. Events without a journal or drug are ignored.
func JournalDrugCounts(events []mention.Event) []JournalCount {
	journals := linkedhashmap.New() // journal -> mapset.Set[string]
	for _, e := range events {
		if e.Journal == "" || e.Drug == "" {
			continue
		}
		drugs, found := journals.Get(e.Journal)
		if !found {
			drugs = mapset.NewThreadUnsafeSet[string]()
			journals.Put(e.Journal, drugs)
		}
		drugs.(mapset.Set[string]).Add(e.Drug)
	}

	counts := make([]JournalCount, 0, journals.Size())
	it := journals.Iterator()
	for it.Next() {
		counts = append(counts, JournalCount{
			Journal: it.Key().(string),
			Drugs:   it.Value().(mapset.Set[string]).Cardinality(),
		})
	}
	return counts
}

// MostDiverseJournal returns the journal mentioning the most distinct drugs
// and that count. Ties go to the journal seen first. Returns ("", 0) when no
// event has both a journal and a drug.
func MostDiverseJournal(events []mention.Event) (string, int) {
	var leader string
	var best int
	for _, jc := range JournalDrugCounts(events) {
		if jc.Drugs > best {
			leader, best = jc.Journal, jc.Drugs
		}
	}
	return leader, best
}
