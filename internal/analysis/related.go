package analysis

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/matsen/druggraph/internal/mention"
)

// Render selects how related drug names are written.
type Render int

const (
	// RenderCanonical returns the drug name as first seen in the graph.
	RenderCanonical Render = iota
	// RenderCapitalized returns the uppercase key with only the first
	// letter kept upper.
	RenderCapitalized
)

type sourceSet = mapset.Set[mention.SourceType]

// SourceIndex maps each drug (by uppercase key) to the journals that mention
// it and the source types observed there. Build one with an IndexBuilder.
// A SourceIndex is read-only.
type SourceIndex struct {
	drugs     map[string]map[string]sourceSet
	canonical map[string]string
}

// IndexBuilder accumulates events into a SourceIndex.
type IndexBuilder struct {
	drugs     map[string]map[string]sourceSet
	canonical map[string]string
}

// NewIndexBuilder returns an empty builder.
func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{
		drugs:     make(map[string]map[string]sourceSet),
		canonical: make(map[string]string),
	}
}

// Add merges one event into the builder. Events missing a drug, journal,
// or source type are ignored.
func (b *IndexBuilder) Add(e mention.Event) *IndexBuilder {
	if e.Drug == "" || e.Journal == "" || e.SourceType == "" {
		return b
	}
	key := strings.ToUpper(e.Drug)

	journals, ok := b.drugs[key]
	if !ok {
		journals = make(map[string]sourceSet)
		b.drugs[key] = journals
		b.canonical[key] = e.Drug
	}
	sources, ok := journals[e.Journal]
	if !ok {
		sources = mapset.NewThreadUnsafeSet[mention.SourceType]()
		journals[e.Journal] = sources
	}
	sources.Add(e.SourceType)
	return b
}

// AddAll merges every event.
func (b *IndexBuilder) AddAll(events []mention.Event) *IndexBuilder {
	for _, e := range events {
		b.Add(e)
	}
	return b
}

// Build finalizes the index. The builder is reset and may be reused.
func (b *IndexBuilder) Build() *SourceIndex {
	idx := &SourceIndex{drugs: b.drugs, canonical: b.canonical}
	b.drugs = make(map[string]map[string]sourceSet)
	b.canonical = make(map[string]string)
	return idx
}

// BuildIndex builds a SourceIndex from a mention graph.
func BuildIndex(events []mention.Event) *SourceIndex {
	return NewIndexBuilder().AddAll(events).Build()
}

// Drugs returns the number of distinct drugs in the index.
func (idx *SourceIndex) Drugs() int {
	return len(idx.drugs)
}

// pubmedOnly reports whether a drug's mentions in a journal all come from
// PubMed: pubmed observed and clinical_trial never observed.
func pubmedOnly(sources sourceSet) bool {
	return sources.Contains(mention.SourcePubmed) && !sources.Contains(mention.SourceClinicalTrial)
}

// PubmedOnlyJournals returns, sorted, the journals where drug is mentioned
// by PubMed articles and never by clinical trials. drug is matched
// case-insensitively.
func (idx *SourceIndex) PubmedOnlyJournals(drug string) []string {
	journals := idx.pubmedOnlyJournals(strings.ToUpper(drug))
	out := journals.ToSlice()
	sort.Strings(out)
	return out
}

func (idx *SourceIndex) pubmedOnlyJournals(key string) mapset.Set[string] {
	out := mapset.NewThreadUnsafeSet[string]()
	for journal, sources := range idx.drugs[key] {
		if pubmedOnly(sources) {
			out.Add(journal)
		}
	}
	return out
}

// RelatedDrugs returns the drugs that share at least one journal with target
// where both drugs are mentioned only by PubMed articles. The target itself
// is never included. An unknown target, or one without PubMed-only journals,
// yields an empty result. Names are sorted after rendering.
func (idx *SourceIndex) RelatedDrugs(target string, render Render) []string {
	targetKey := strings.ToUpper(target)
	targetJournals := idx.pubmedOnlyJournals(targetKey)
	if targetJournals.Cardinality() == 0 {
		return []string{}
	}

	related := mapset.NewThreadUnsafeSet[string]()
	for key, journals := range idx.drugs {
		if key == targetKey {
			continue
		}
		shared := false
		targetJournals.Each(func(journal string) bool {
			if sources, ok := journals[journal]; ok && pubmedOnly(sources) {
				shared = true
				return true // stop
			}
			return false
		})
		if shared {
			related.Add(idx.render(key, render))
		}
	}

	out := related.ToSlice()
	sort.Strings(out)
	return out
}

func (idx *SourceIndex) render(key string, render Render) string {
	if render == RenderCapitalized {
		return Capitalize(key)
	}
	return idx.canonical[key]
}

// RelatedDrugs builds an index over events and queries it for target.
func RelatedDrugs(events []mention.Event, target string, render Render) []string {
	if target == "" {
		return []string{}
	}
	return BuildIndex(events).RelatedDrugs(target, render)
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
