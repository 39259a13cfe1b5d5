package mention

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/matsen/druggraph/internal/table"
)

func pubmedTable(rows ...table.Row) table.Table {
	return table.New([]string{"id", "title", "date", "journal"}, rows)
}

func TestNewVocabulary(t *testing.T) {
	vocab := NewVocabulary([]string{"Ethanol", "ATROPINE", "", "Ethanol", "ethanol"})
	want := Vocabulary{
		{Canonical: "Ethanol", Upper: "ETHANOL"},
		{Canonical: "ATROPINE", Upper: "ATROPINE"},
		{Canonical: "ethanol", Upper: "ETHANOL"},
	}
	if !reflect.DeepEqual(vocab, want) {
		t.Errorf("NewVocabulary() = %+v, want %+v", vocab, want)
	}
	for _, e := range vocab {
		if e.Upper != strings.ToUpper(e.Canonical) {
			t.Errorf("entry %q has upper %q", e.Canonical, e.Upper)
		}
	}
}

func TestExtract_SubstringRule(t *testing.T) {
	vocab := NewVocabulary([]string{"Ethanol", "ATROPINE", "TETRACYCLINE", "OL"})

	tests := []struct {
		title string
		want  []string
	}{
		{"Ethanol use in trials", []string{"Ethanol", "OL"}},
		{"atropine and tetracycline", []string{"ATROPINE", "TETRACYCLINE"}},
		{"Methanolysis of nothing", []string{"Ethanol", "OL"}},
		{"nothing relevant here", nil},
		{"PARACETAMOL", []string{"OL"}},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			events, err := Extract(pubmedTable(table.Row{"id": "1", "title": tt.title, "date": "2020-01-01", "journal": "J"}), vocab, SourcePubmed)
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, e := range events {
				got = append(got, e.Drug)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("drugs = %v, want %v", got, tt.want)
			}
			// Cross-check against the literal rule for every entry.
			for _, entry := range vocab {
				matched := strings.Contains(strings.ToUpper(tt.title), entry.Upper)
				found := false
				for _, d := range got {
					if d == entry.Canonical {
						found = true
					}
				}
				if matched != found {
					t.Errorf("entry %q: matched=%v found=%v", entry.Canonical, matched, found)
				}
			}
		})
	}
}

func TestExtract_EventFields(t *testing.T) {
	vocab := NewVocabulary([]string{"DIPHENHYDRAMINE"})
	tbl := table.New([]string{"id", "scientific_title", "date", "journal"}, []table.Row{
		{"id": "NCT01967433", "scientific_title": "Use of Diphenhydramine as an Adjunctive Sedative", "date": "2020-01-01", "journal": "Journal of emergency nursing"},
	})

	events, err := Extract(tbl, vocab, SourceClinicalTrial)
	if err != nil {
		t.Fatal(err)
	}
	want := []Event{{
		Drug:             "DIPHENHYDRAMINE",
		Journal:          "Journal of emergency nursing",
		Date:             "2020-01-01",
		SourceType:       SourceClinicalTrial,
		PublicationID:    "NCT01967433",
		PublicationTitle: "Use of Diphenhydramine as an Adjunctive Sedative",
	}}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("Extract() = %+v, want %+v", events, want)
	}
}

func TestExtract_SkipsEmptyTitleAndMissingDate(t *testing.T) {
	vocab := NewVocabulary([]string{"ATROPINE"})
	tbl := pubmedTable(
		table.Row{"id": "1", "date": "2020-01-01", "journal": "J"},
		table.Row{"id": "2", "title": "", "date": "2020-01-01", "journal": "J"},
		table.Row{"id": "3", "title": "Atropine dosing", "journal": "J"},
		table.Row{"id": "4", "title": "Atropine dosing", "date": "2020-01-01"},
		table.Row{"title": "Atropine again", "date": "2020-01-02", "journal": "J"},
	)

	events, err := Extract(tbl, vocab, SourcePubmed)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(events), events)
	}
	if events[0].PublicationID != "4" || events[0].Journal != "" {
		t.Errorf("null journal should read as empty string, got %+v", events[0])
	}
	if events[1].PublicationID != "" {
		t.Errorf("null id should read as empty string, got %q", events[1].PublicationID)
	}
	if _, ok := tbl.Rows[0].Get("title"); ok {
		t.Error("input table was modified")
	}
}

func TestExtract_MissingColumn(t *testing.T) {
	vocab := NewVocabulary([]string{"ATROPINE"})
	for _, drop := range []string{"title", "journal", "id", "date"} {
		t.Run(drop, func(t *testing.T) {
			var cols []string
			for _, c := range []string{"id", "title", "date", "journal"} {
				if c != drop {
					cols = append(cols, c)
				}
			}
			tbl := table.New(cols, []table.Row{{"id": "1", "title": "Atropine", "date": "2020-01-01", "journal": "J"}})
			events, err := Extract(tbl, vocab, SourcePubmed)
			if !errors.Is(err, ErrMissingColumn) {
				t.Errorf("expected ErrMissingColumn, got %v", err)
			}
			if len(events) != 0 {
				t.Errorf("expected no events, got %d", len(events))
			}
		})
	}

	// A PubMed-shaped table read as trials lacks scientific_title.
	_, err := Extract(pubmedTable(), vocab, SourceClinicalTrial)
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn for trials, got %v", err)
	}
}

func TestExtract_Ordering(t *testing.T) {
	vocab := NewVocabulary([]string{"B", "A"})
	tbl := pubmedTable(
		table.Row{"id": "1", "title": "a b", "date": "2020-01-01", "journal": "J"},
		table.Row{"id": "2", "title": "b", "date": "2020-01-01", "journal": "J"},
	)
	events, err := Extract(tbl, vocab, SourcePubmed)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range events {
		got = append(got, e.PublicationID+":"+e.Drug)
	}
	want := []string{"1:B", "1:A", "2:B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestDropUndated(t *testing.T) {
	events := []Event{{Drug: "A", Date: "2020-01-01"}, {Drug: "B"}, {Drug: "C", Date: "2021-01-01"}}
	got := DropUndated(events)
	if len(got) != 2 || got[0].Drug != "A" || got[1].Drug != "C" {
		t.Errorf("DropUndated() = %+v", got)
	}
}

func TestTitleColumn(t *testing.T) {
	if TitleColumn(SourcePubmed) != "title" || TitleColumn(SourceClinicalTrial) != "scientific_title" {
		t.Error("unexpected title columns")
	}
	if !SourcePubmed.Valid() || SourceType("preprint").Valid() {
		t.Error("unexpected Valid() result")
	}
}
