package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadMentionsJSONL_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mentions.jsonl")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	events, err := ReadMentionsJSONL(path)
	if err != nil {
		t.Fatalf("ReadMentionsJSONL() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("ReadMentionsJSONL() returned %d events, want 0", len(events))
	}
}

func TestReadMentionsJSONL_NonExistentFile(t *testing.T) {
	events, err := ReadMentionsJSONL("/nonexistent/path/mentions.jsonl")
	if err != nil {
		t.Fatalf("ReadMentionsJSONL() error = %v (should return nil for nonexistent file)", err)
	}
	if len(events) != 0 {
		t.Errorf("ReadMentionsJSONL() returned %v, want none", events)
	}
}

func TestMentionsJSONL_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "mentions.jsonl")
	events := sampleEvents()

	if err := WriteMentionsJSONL(path, events); err != nil {
		t.Fatalf("WriteMentionsJSONL() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != len(events) {
		t.Errorf("got %d lines, want %d", len(lines), len(events))
	}

	got, err := ReadMentionsJSONL(path)
	if err != nil {
		t.Fatalf("ReadMentionsJSONL() error = %v", err)
	}
	if !reflect.DeepEqual(got, events) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, events)
	}
}

func TestReadMentionsJSONL_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mentions.jsonl")
	content := `{"drug":"ATROPINE","journal":"J","date":"2020-01-03","source_type":"pubmed","publication_id":"","publication_title":"atropine"}` + "\n\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	events, err := ReadMentionsJSONL(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Drug != "ATROPINE" {
		t.Errorf("ReadMentionsJSONL() = %+v", events)
	}
}

func TestReadMentionsJSONL_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mentions.jsonl")
	if err := os.WriteFile(path, []byte("{\"drug\":\"A\",\"source_type\":\"pubmed\"}\nnot json\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadMentionsJSONL(path)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line 2 parse error, got %v", err)
	}
}

func TestReadMentionsJSONL_UnknownSourceType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mentions.jsonl")
	content := `{"drug":"A","source_type":"pubmed"}` + "\n" + `{"drug":"B","source_type":"preprint"}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadMentionsJSONL(path)
	if err == nil || !strings.Contains(err.Error(), "line 2") || !strings.Contains(err.Error(), "preprint") {
		t.Errorf("expected unknown source_type error on line 2, got %v", err)
	}
}
