// Package docstore implements the optional storage capability from
// §6: a put/get interface persisting EnhancementResults keyed by
// document identity. The core (internal/pipeline) is functional
// without it; this is a sqlite-backed implementation generalized from
// the teacher's storage/sqlite package.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/docenhance/pipeline/internal/pipeline"
)

// Store is the optional persistence capability. The coordinator never
// requires one; callers that want durable results wire it in at the
// CLI/batch layer.
type Store interface {
	Put(ctx context.Context, documentID string, result pipeline.Result) error
	Get(ctx context.Context, documentID string) (pipeline.Result, bool, error)
}

// SQLiteStore persists results in a local sqlite database, mirroring
// the teacher's SqliteStorage lifecycle (open, migrate, prepared
// statements).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if absent) a sqlite database at path
// and ensures its schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("docstore: open %s: %w", path, err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS enhancement_results (
	document_id TEXT PRIMARY KEY,
	payload     TEXT NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("docstore: migrate: %w", err)
	}
	return nil
}

// Put upserts result under documentID.
func (s *SQLiteStore) Put(ctx context.Context, documentID string, result pipeline.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("docstore: marshal: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO enhancement_results (document_id, payload, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(document_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at;`,
		documentID, string(payload), time.Now())
	if err != nil {
		return fmt.Errorf("docstore: put %s: %w", documentID, err)
	}
	return nil
}

// Get retrieves the result stored under documentID, if any.
func (s *SQLiteStore) Get(ctx context.Context, documentID string) (pipeline.Result, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM enhancement_results WHERE document_id = ?;`, documentID)
	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return pipeline.Result{}, false, nil
		}
		return pipeline.Result{}, false, fmt.Errorf("docstore: get %s: %w", documentID, err)
	}
	var result pipeline.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return pipeline.Result{}, false, fmt.Errorf("docstore: unmarshal %s: %w", documentID, err)
	}
	return result, true, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
