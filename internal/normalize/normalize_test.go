package normalize

import (
	"testing"

	"github.com/matsen/druggraph/internal/table"
)

func TestStandardizeDate(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"01/01/2019", "2019-01-01", true},
		{"1/2/2020", "2020-02-01", true},
		{"25/05/2020", "2020-05-25", true},
		{"1 January 2020", "2020-01-01", true},
		{"27 April 2020", "2020-04-27", true},
		{"2020-01-01", "2020-01-01", true},
		{"  2020-03-09 ", "2020-03-09", true},
		{"", "", false},
		{"2020/01/01", "", false},
		{"32/01/2020", "", false},
		{"not a date", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := StandardizeDate(tt.raw)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("StandardizeDate(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIsATCCode(t *testing.T) {
	valid := []string{"A", "R", "A10", "N02", "A10B", "C09A", "A04AD", "A10BA", "S01ED", "A10BA02", "N02BE51"}
	for _, code := range valid {
		if !IsATCCode(code) {
			t.Errorf("IsATCCode(%q) = false, want true", code)
		}
	}

	invalid := []string{"A10BA02X", "A10BA2", "a10ba02", "6302001", "A1B", "A10BCDE", "", " ", "A0", "A00A0", "A!"}
	for _, code := range invalid {
		if IsATCCode(code) {
			t.Errorf("IsATCCode(%q) = true, want false", code)
		}
	}
}

func TestIsNCTNumber(t *testing.T) {
	tests := map[string]bool{
		"NCT01967433":  true,
		"NCT04189588":  true,
		"NCT0196743":   false,
		"NCT019674333": false,
		"nct01967433":  false,
		"":             false,
	}
	for id, want := range tests {
		if got := IsNCTNumber(id); got != want {
			t.Errorf("IsNCTNumber(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestCleanHexSequences(t *testing.T) {
	in := `Journal of emergency nursing\xc3\x28`
	if got := CleanHexSequences(in); got != "Journal of emergency nursing" {
		t.Errorf("got %q", got)
	}
	if got := CleanHexSequences(`no escapes`); got != "no escapes" {
		t.Errorf("got %q", got)
	}
}

func TestKeepValid(t *testing.T) {
	tbl := table.New([]string{"id"}, []table.Row{
		{"id": "NCT01967433"},
		{"id": "bad"},
		{},
	})
	out, dropped := KeepValid(tbl, "id", IsNCTNumber)
	if dropped != 2 || out.Len() != 1 {
		t.Errorf("dropped=%d kept=%d, want 2 and 1", dropped, out.Len())
	}
}

func TestStandardizeDates_NullsUnparseable(t *testing.T) {
	tbl := table.New([]string{"date"}, []table.Row{
		{"date": "1 January 2020"},
		{"date": "garbage"},
	})
	out := StandardizeDates(tbl, "date")
	if v, _ := out.Rows[0].Get("date"); v != "2020-01-01" {
		t.Errorf("got %q", v)
	}
	if _, ok := out.Rows[1].Get("date"); ok {
		t.Error("unparseable date should be null")
	}
	if tbl.Rows[0]["date"] != "1 January 2020" {
		t.Error("input mutated")
	}
}

func TestCleanText(t *testing.T) {
	tbl := table.New([]string{"journal"}, []table.Row{{"journal": `J\xc3\xb1`}})
	out := CleanText(tbl, "journal", "title")
	if out.Rows[0]["journal"] != "J" {
		t.Errorf("got %q", out.Rows[0]["journal"])
	}
}
