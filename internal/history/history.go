// Package history provides SQLite-backed storage of past lookups.
//
// Each completed lookup is stored as one row carrying the domain, the
// requested record types, and the full export JSON document, so past
// results can be listed and re-exported without re-querying. The store
// is an optional sink: the engine never depends on it.
package history

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jroosing/hydradig/internal/export"
	"github.com/jroosing/hydradig/internal/lookup"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps a SQLite database holding lookup history.
type Store struct {
	conn *sql.DB
}

// Open opens or creates the history database at the given path, creating
// the schema if needed.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	conn.SetMaxOpenConns(4)
	conn.SetConnMaxLifetime(time.Hour)

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Health checks database connectivity.
func (s *Store) Health() error {
	return s.conn.Ping()
}

// Save records one completed lookup.
func (s *Store) Save(res lookup.Result) error {
	types := make([]string, 0, len(res.Types))
	for _, rt := range res.Types {
		types = append(types, string(rt))
	}

	doc, err := json.Marshal(export.NewDocument(res, export.Options{IncludeTimestamp: true}))
	if err != nil {
		return fmt.Errorf("failed to encode lookup result: %w", err)
	}

	_, err = s.conn.Exec(
		`INSERT INTO lookups (domain, record_types, found, result_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		res.Domain.String(),
		strings.Join(types, ","),
		res.HasRecords(),
		string(doc),
		res.Time.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save lookup: %w", err)
	}
	return nil
}

// Entry is one stored lookup.
type Entry struct {
	ID          int64
	Domain      string
	RecordTypes []string
	Found       bool
	Document    export.Document
	CreatedAt   time.Time
}

// Recent returns up to limit stored lookups, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.conn.Query(
		`SELECT id, domain, record_types, found, result_json, created_at
		 FROM lookups ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			typeCSV string
			docJSON string
		)
		if err := rows.Scan(&e.ID, &e.Domain, &typeCSV, &e.Found, &docJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if typeCSV != "" {
			e.RecordTypes = strings.Split(typeCSV, ",")
		}
		if err := json.Unmarshal([]byte(docJSON), &e.Document); err != nil {
			return nil, fmt.Errorf("failed to decode stored result %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the total number of stored lookups.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM lookups`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}
