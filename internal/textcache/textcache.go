// Package textcache persists normalized resume text keyed by candidate and
// schema version, so repeated analysis of the same candidate against
// different roles skips re-running textnorm and docparse. A bump to
// schemaVersion (when textnorm's rules change) invalidates old rows without
// a migration.
package textcache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Record is a single cached normalized-text entry.
type Record struct {
	ID             uuid.UUID
	CandidateID    string
	SchemaVersion  int
	NormalizedText string
	CreatedAt      time.Time
}

// Store provides CRUD access to cached normalized text.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres using connStr and verifies connectivity.
func Open(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open textcache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping textcache database: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an already-open *sql.DB, useful for tests with a stub
// driver or a connection shared with other repositories.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the text_cache table if it does not already exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS text_cache (
			id              UUID PRIMARY KEY,
			candidate_id    TEXT NOT NULL,
			schema_version  INTEGER NOT NULL,
			normalized_text TEXT NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (candidate_id, schema_version)
		)`)
	if err != nil {
		return fmt.Errorf("ensure text_cache schema: %w", err)
	}
	return nil
}

// Get retrieves the cached normalized text for a candidate at a specific
// schema version. Returns ErrNotFound when no matching row exists, which
// callers treat as a cache miss and fall through to docparse+textnorm.
func (s *Store) Get(ctx context.Context, candidateID string, schemaVersion int) (*Record, error) {
	rec := &Record{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, candidate_id, schema_version, normalized_text, created_at
		FROM text_cache
		WHERE candidate_id = $1 AND schema_version = $2`,
		candidateID, schemaVersion,
	).Scan(&rec.ID, &rec.CandidateID, &rec.SchemaVersion, &rec.NormalizedText, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cached text for %s: %w", candidateID, err)
	}
	return rec, nil
}

// Put upserts the normalized text for a candidate at a schema version.
func (s *Store) Put(ctx context.Context, candidateID string, schemaVersion int, normalizedText string) (*Record, error) {
	rec := &Record{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO text_cache (id, candidate_id, schema_version, normalized_text)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (candidate_id, schema_version) DO UPDATE SET
			normalized_text = EXCLUDED.normalized_text,
			created_at      = NOW()
		RETURNING id, candidate_id, schema_version, normalized_text, created_at`,
		uuid.New(), candidateID, schemaVersion, normalizedText,
	).Scan(&rec.ID, &rec.CandidateID, &rec.SchemaVersion, &rec.NormalizedText, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("put cached text for %s: %w", candidateID, err)
	}
	return rec, nil
}

// InvalidateCandidate deletes every cached entry for a candidate across all
// schema versions, used when a resume is re-uploaded.
func (s *Store) InvalidateCandidate(ctx context.Context, candidateID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM text_cache WHERE candidate_id = $1`, candidateID)
	if err != nil {
		return fmt.Errorf("invalidate cached text for %s: %w", candidateID, err)
	}
	return nil
}

// ErrNotFound is returned when a requested cache entry does not exist.
var ErrNotFound = fmt.Errorf("text cache record not found")
