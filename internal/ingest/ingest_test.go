package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
)

const drugsCSV = `atccode,drug
A04AD,DIPHENHYDRAMINE
S03AA,TETRACYCLINE
V03AB,ETHANOL
`

const pubmedCSV = `id,title,date,journal
1,"A 44-year-old man with erythema of the face diphenhydramine, neck, and chest, weakness, and palpitations",01/01/2019,Journal of emergency nursing
2,An evaluation of benadryl,01/01/2019,Journal of emergency nursing
`

const pubmedJSON = `[
  {
    "id": 2,
    "title": "Duplicate of CSV row",
    "date": "01/01/2020",
    "journal": "Psychopharmacology"
  },
  {
    "id": 9,
    "title": "Gold nanoparticles synthesized from Euphorbia fischeriana root by green route method alleviates the isoprenaline hydrochloride induced myocardial infarction in rats.",
    "date": "01/01/2020",
    "journal": "Journal of photochemistry and photobiology. B, Biology",
  },
  {
    "id": "",
    "title": "Tetracycline resistance",
    "date": null,
    "journal": "The journal of maternal-fetal & neonatal medicine"
  },
]
`

const trialsCSV = `id,scientific_title,date,journal
NCT01967433,Use of Diphenhydramine as an Adjunctive Sedative for Colonoscopy in Patients Chronically on Opioids,1 January 2020,Journal of emergency nursing
NCT04189588,Phase 2 Study IV QUZYTTIR™ (Cetirizine Hydrochloride Injection) vs V Diphenhydramine,1 January 2020,
`

func writeRawDir(t *testing.T, skip string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		DrugsFile:          drugsCSV,
		PubmedCSVFile:      pubmedCSV,
		PubmedJSONFile:     pubmedJSON,
		ClinicalTrialsFile: trialsCSV,
	}
	for name, content := range files {
		if name == skip {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestReadCSV(t *testing.T) {
	dir := writeRawDir(t, "")
	tbl, err := ReadCSV(filepath.Join(dir, ClinicalTrialsFile))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if !reflect.DeepEqual(tbl.Columns, []string{"id", "scientific_title", "date", "journal"}) {
		t.Errorf("columns = %v", tbl.Columns)
	}
	if tbl.Len() != 2 {
		t.Fatalf("got %d rows, want 2", tbl.Len())
	}
	if _, ok := tbl.Rows[1].Get("journal"); ok {
		t.Error("empty cell should be null")
	}
	if got := tbl.Rows[1].Value("scientific_title"); got != "Phase 2 Study IV QUZYTTIR™ (Cetirizine Hydrochloride Injection) vs V Diphenhydramine" {
		t.Errorf("non-ASCII title mangled: %q", got)
	}
}

func TestReadCSV_StripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.csv")
	if err := os.WriteFile(path, []byte("\ufeffid,drug\n1,X\n"), 0644); err != nil {
		t.Fatal(err)
	}
	tbl, err := ReadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if !tbl.HasColumn("id") {
		t.Errorf("columns = %q", tbl.Columns)
	}
}

func TestReadJSONRecords_RepairsTrailingCommas(t *testing.T) {
	dir := writeRawDir(t, "")
	tbl, err := ReadJSONRecords(filepath.Join(dir, PubmedJSONFile))
	if err != nil {
		t.Fatalf("ReadJSONRecords failed: %v", err)
	}
	if !reflect.DeepEqual(tbl.Columns, []string{"id", "title", "date", "journal"}) {
		t.Errorf("columns = %v", tbl.Columns)
	}
	if tbl.Len() != 3 {
		t.Fatalf("got %d rows, want 3", tbl.Len())
	}
	if got := tbl.Rows[0].Value("id"); got != "2" {
		t.Errorf("numeric id rendered as %q, want %q", got, "2")
	}
	if got, ok := tbl.Rows[2].Get("id"); !ok || got != "" {
		t.Errorf("empty string id should stay non-null, got (%q, %v)", got, ok)
	}
	if _, ok := tbl.Rows[2].Get("date"); ok {
		t.Error("JSON null should be read as null")
	}
}

func TestReadJSONRecords_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`[{"id": 1,, }`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadJSONRecords(path)
	if !errors.Is(err, ErrDataLoad) {
		t.Errorf("expected ErrDataLoad, got %v", err)
	}
}

func TestRepairTrailingCommas(t *testing.T) {
	in := "[{\"a\": 1,\n}, {\"b\": [1, 2, ]},\n]"
	want := "[{\"a\": 1}, {\"b\": [1, 2]}]"
	if got := string(RepairTrailingCommas([]byte(in))); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	dir := writeRawDir(t, "")
	logger, hook := test.NewNullLogger()

	ds, err := Load(PathsIn(dir), logger)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ds.Drugs.Len() != 3 {
		t.Errorf("drugs = %d, want 3", ds.Drugs.Len())
	}
	if ds.Trials.Len() != 2 {
		t.Errorf("trials = %d, want 2", ds.Trials.Len())
	}
	// CSV ids 1,2 plus JSON ids 2,9,"" with the JSON id 2 dropped.
	if ds.Pubmed.Len() != 4 || ds.PubmedDuplicates != 1 {
		t.Errorf("pubmed = %d (removed %d), want 4 (removed 1)", ds.Pubmed.Len(), ds.PubmedDuplicates)
	}
	if got := ds.Pubmed.Rows[1].Value("title"); got != "An evaluation of benadryl" {
		t.Errorf("expected CSV row to win the merge, got %q", got)
	}
	if len(hook.AllEntries()) == 0 {
		t.Error("expected stage log entries")
	}
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	for _, name := range []string{DrugsFile, PubmedCSVFile, PubmedJSONFile, ClinicalTrialsFile} {
		t.Run(name, func(t *testing.T) {
			dir := writeRawDir(t, name)
			logger, _ := test.NewNullLogger()
			_, err := Load(PathsIn(dir), logger)
			if !errors.Is(err, ErrDataLoad) {
				t.Errorf("expected ErrDataLoad, got %v", err)
			}
		})
	}
}
