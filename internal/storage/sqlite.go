package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/matsen/druggraph/internal/mention"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectMentionFields contains the standard field list for SELECT queries.
const selectMentionFields = `drug, journal, date, source_type, publication_id, publication_title`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- seq preserves graph order
		CREATE TABLE IF NOT EXISTS mentions (
			seq INTEGER PRIMARY KEY,
			drug TEXT NOT NULL,
			drug_upper TEXT NOT NULL,
			journal TEXT NOT NULL,
			date TEXT NOT NULL,
			source_type TEXT NOT NULL,
			publication_id TEXT NOT NULL,
			publication_title TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_mentions_drug ON mentions(drug_upper);
		CREATE INDEX IF NOT EXISTS idx_mentions_journal ON mentions(journal);
	`
	_, err := db.Exec(schema)
	return err
}

// RebuildFromGraph clears the mentions table and reloads it from a graph file.
func (d *DB) RebuildFromGraph(graphPath string) (int, error) {
	events, err := ReadGraph(graphPath)
	if err != nil {
		return 0, fmt.Errorf("reading graph: %w", err)
	}
	return d.RebuildMentions(events)
}

// RebuildFromJSONL clears the mentions table and reloads it from a JSONL export.
func (d *DB) RebuildFromJSONL(path string) (int, error) {
	events, err := ReadMentionsJSONL(path)
	if err != nil {
		return 0, fmt.Errorf("reading mentions JSONL: %w", err)
	}
	return d.RebuildMentions(events)
}

// RebuildMentions replaces the mentions table with events, in order.
func (d *DB) RebuildMentions(events []mention.Event) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM mentions"); err != nil {
		return 0, fmt.Errorf("clearing mentions table: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO mentions (
			seq, drug, drug_upper, journal, date,
			source_type, publication_id, publication_title
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing mentions insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range events {
		_, err := stmt.Exec(
			i, e.Drug, strings.ToUpper(e.Drug), e.Journal, e.Date,
			string(e.SourceType), e.PublicationID, e.PublicationTitle,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting mention %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing mentions: %w", err)
	}
	return len(events), nil
}

// MentionsByDrug returns the mentions of a drug, matched case-insensitively,
// in graph order.
func (d *DB) MentionsByDrug(drug string) ([]mention.Event, error) {
	rows, err := d.db.Query(`SELECT `+selectMentionFields+`
		FROM mentions
		WHERE drug_upper = ?
		ORDER BY seq
	`, strings.ToUpper(drug))
	if err != nil {
		return nil, fmt.Errorf("querying mentions by drug: %w", err)
	}
	defer rows.Close()

	return scanMentions(rows)
}

// MentionsByJournal returns the mentions published in a journal, in graph order.
func (d *DB) MentionsByJournal(journal string) ([]mention.Event, error) {
	rows, err := d.db.Query(`SELECT `+selectMentionFields+`
		FROM mentions
		WHERE journal = ?
		ORDER BY seq
	`, journal)
	if err != nil {
		return nil, fmt.Errorf("querying mentions by journal: %w", err)
	}
	defer rows.Close()

	return scanMentions(rows)
}

// AllMentions returns every mention in graph order.
func (d *DB) AllMentions() ([]mention.Event, error) {
	rows, err := d.db.Query(`SELECT ` + selectMentionFields + ` FROM mentions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying all mentions: %w", err)
	}
	defer rows.Close()

	return scanMentions(rows)
}

// CountMentions returns the total number of mentions.
func (d *DB) CountMentions() (int, error) {
	var count int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM mentions").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// scanMentions scans rows into a slice of events.
func scanMentions(rows *sql.Rows) ([]mention.Event, error) {
	var events []mention.Event
	for rows.Next() {
		var e mention.Event
		var source string
		err := rows.Scan(&e.Drug, &e.Journal, &e.Date, &source, &e.PublicationID, &e.PublicationTitle)
		if err != nil {
			return nil, err
		}
		e.SourceType = mention.SourceType(source)
		events = append(events, e)
	}
	return events, rows.Err()
}
