package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/druggraph/internal/mention"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadMentionsJSONL reads mention events from a JSONL file, one event per line.
// A missing file returns no events and no error.
func ReadMentionsJSONL(path string) ([]mention.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening mentions file: %w", err)
	}
	defer f.Close()

	var events []mention.Event
	scanner := bufio.NewScanner(f)

	// Increase buffer size for long titles
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var e mention.Event
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		if !e.SourceType.Valid() {
			return nil, fmt.Errorf("line %d: unknown source_type %q", lineNum, e.SourceType)
		}
		events = append(events, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading mentions file: %w", err)
	}

	return events, nil
}

// WriteMentionsJSONL writes events to a JSONL file, replacing existing content.
// Non-ASCII characters are written unescaped.
func WriteMentionsJSONL(path string, events []mention.Event) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating mentions file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w) // Encode appends the newline
	enc.SetEscapeHTML(false)
	for i, e := range events {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("encoding mention %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing mentions file: %w", err)
	}

	return f.Close()
}
