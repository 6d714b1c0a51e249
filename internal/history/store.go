// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a ledger of completed runs in SQLite so earlier
// curricula and reports can be listed and exported.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/crewforge/pkg/types"
)

// DefaultFile is the ledger file name inside the output directory.
const DefaultFile = "history.db"

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store manages the run ledger database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			topic TEXT NOT NULL,
			audience TEXT,
			created_at TEXT NOT NULL,
			json_path TEXT NOT NULL,
			doc_path TEXT,
			reused INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a run. A run with an existing ID is replaced.
func (s *Store) Record(ctx context.Context, r types.Run) error {
	if r.ID == "" {
		return fmt.Errorf("recording run: empty id")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, kind, topic, audience, created_at, json_path, doc_path, reused)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, string(r.Kind), r.Topic, r.Audience,
		r.CreatedAt.UTC().Format(timeLayout),
		r.JSONPath, r.DocPath, r.Reused,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", r.ID, err)
	}
	return nil
}
