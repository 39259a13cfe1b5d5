package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/druggraph/internal/mention"
)

// Column widths for human-readable tables.
const (
	JournalColumnWidth = 50
	TitleMaxLen        = 70
)

// outputJSON writes a value as formatted JSON to stdout.
// Non-ASCII characters are kept as is.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MentionsResponse is the response for commands that list mention events.
// Total is the number of mentions in the cache.
type MentionsResponse struct {
	Count    int             `json:"count"`
	Total    int             `json:"total"`
	Mentions []mention.Event `json:"mentions"`
}

// printMentionsHuman prints mention events one per line, then how many of
// the total cached mentions matched.
func printMentionsHuman(events []mention.Event, total int) {
	if len(events) == 0 {
		fmt.Printf("No mentions found (%d cached)\n", total)
		return
	}
	for _, e := range events {
		fmt.Printf("%s  %-14s  %-*s  %s\n",
			e.Date, e.SourceType, JournalColumnWidth, truncateString(e.Journal, JournalColumnWidth), e.Drug)
		fmt.Println(mutedStyle.Render(fmt.Sprintf("    [%s] %s", displayID(e.PublicationID), truncateString(e.PublicationTitle, TitleMaxLen))))
	}
	fmt.Printf("\n%d of %d cached mention(s)\n", len(events), total)
}

func displayID(id string) string {
	if id == "" {
		return "-"
	}
	return id
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
