// Package storage persists mention graphs and cleaned tables, and maintains
// the SQLite query cache built from them.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/druggraph/internal/mention"
)

// GraphFile is the default file name of the mention graph.
const GraphFile = "drug_journal_mentions_graph.json"

// ReadGraph reads a mention graph from a JSON array file.
// A missing or empty file returns no events and no error. A mention with an
// unknown source_type is an error.
func ReadGraph(path string) ([]mention.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Missing file is an empty graph
		}
		return nil, fmt.Errorf("reading graph file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var events []mention.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parsing graph file %s: %w", path, err)
	}
	for i, e := range events {
		if !e.SourceType.Valid() {
			return nil, fmt.Errorf("parsing graph file %s: mention %d: unknown source_type %q", path, i+1, e.SourceType)
		}
	}
	return events, nil
}

// WriteGraph writes events as a pretty-printed JSON array, replacing any
// existing file. Non-ASCII and HTML characters are written unescaped.
// Parent directories are created as needed.
func WriteGraph(path string, events []mention.Event) error {
	if events == nil {
		events = []mention.Event{} // Encode as [] rather than null
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating graph file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(events); err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}

	return f.Close()
}
