// Package postgres implements the listing store on PostgreSQL. The
// document lands in a jsonb column with the upsert key and lifecycle
// timestamps as real columns; INSERT ... ON CONFLICT gives the same
// atomic insert-or-update guarantee the Mongo backend has.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fyxed/rentcrawl/internal/store"
)

const upsertSQL = `
INSERT INTO listings (source, source_id, doc, approval_status, last_checked_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (source, source_id) DO UPDATE
SET doc = EXCLUDED.doc, last_checked_at = EXCLUDED.last_checked_at
RETURNING (xmax = 0) AS inserted`

// DB is the subset of pgxpool.Pool the store needs; pgxmock satisfies it
// in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Store writes listing rows into the listings table.
type Store struct {
	db DB
}

// Connect opens a pgx pool and verifies the connection.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: connect postgres: %v", store.ErrUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping postgres: %v", store.ErrUnavailable, err)
	}
	return &Store{db: pool}, nil
}

// NewWithDB wraps an existing pool-compatible handle (used by tests).
func NewWithDB(db DB) *Store {
	return &Store{db: db}
}

// Upsert implements store.Upserter.
func (s *Store) Upsert(ctx context.Context, key store.Key, set, setOnInsert map[string]any) (store.Result, error) {
	doc, err := json.Marshal(set)
	if err != nil {
		return "", fmt.Errorf("marshal listing doc: %w", err)
	}

	now := time.Now().UTC()
	lastChecked := timeField(set, "lastCheckedAt", now)
	createdAt := timeField(setOnInsert, "createdAt", now)
	approval, _ := setOnInsert["approvalStatus"].(string)
	if approval == "" {
		approval = "approved"
	}

	var inserted bool
	err = s.db.QueryRow(ctx, upsertSQL,
		key.Source, key.SourceID, doc, approval, lastChecked, createdAt,
	).Scan(&inserted)
	if err != nil {
		return "", fmt.Errorf("%w: upsert %s/%s: %v", store.ErrUnavailable, key.Source, key.SourceID, err)
	}
	if inserted {
		return store.ResultInserted, nil
	}
	return store.ResultUpdated, nil
}

// Ping verifies the pool is still alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.db.Close()
}

func timeField(m map[string]any, key string, fallback time.Time) time.Time {
	if m == nil {
		return fallback
	}
	if t, ok := m[key].(time.Time); ok {
		return t
	}
	return fallback
}
