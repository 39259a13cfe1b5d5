package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/matsen/druggraph/internal/table"
)

var trailingComma = regexp.MustCompile(`,\s*([\]}])`)

// RepairTrailingCommas removes commas that directly precede a closing
// bracket or brace, which some exporters emit after the last element.
func RepairTrailingCommas(data []byte) []byte {
	return trailingComma.ReplaceAll(data, []byte("$1"))
}

// ReadJSONRecords reads a JSON array of flat objects into a table.
// Trailing commas are repaired before parsing. Numbers and booleans are
// kept as their literal text and JSON null is read as null. Columns are
// ordered by first appearance.
func ReadJSONRecords(path string) (table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return table.Table{}, fmt.Errorf("%w: reading %s: %w", ErrDataLoad, path, err)
	}

	t, err := parseJSONRecords(RepairTrailingCommas(data))
	if err != nil {
		return table.Table{}, fmt.Errorf("%w: parsing %s: %w", ErrDataLoad, path, err)
	}
	return t, nil
}

func parseJSONRecords(data []byte) (table.Table, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return table.Table{}, err
	}

	var columns []string
	seen := make(map[string]bool)
	rows := make([]table.Row, 0, len(raws))

	for i, raw := range raws {
		keys, row, err := decodeObject(raw)
		if err != nil {
			return table.Table{}, fmt.Errorf("record %d: %w", i+1, err)
		}
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
		rows = append(rows, row)
	}

	return table.New(columns, rows), nil
}

// decodeObject walks a JSON object token by token so key order survives.
func decodeObject(raw json.RawMessage) ([]string, table.Row, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	row := make(table.Row)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected key, got %v", tok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", key, err)
		}
		keys = append(keys, key)
		if s, ok := cellString(value); ok {
			row[key] = s
		}
	}
	return keys, row, nil
}

// cellString renders a decoded JSON value as a cell. Returns false for null.
func cellString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
}
