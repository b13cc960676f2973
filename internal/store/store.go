// Package store defines the persistence contract for listing records and
// shared error values. Backends live in subpackages (mongo, postgres,
// memory); all of them must implement the upsert as a single atomic
// conditional write so concurrent crawl workers can never race the same
// key into duplicate documents.
package store

import (
	"context"
	"errors"
)

// Key uniquely identifies one logical listing across unlimited re-crawls.
type Key struct {
	Source   string
	SourceID string
}

// Result reports whether an upsert inserted a new document or updated an
// existing one.
type Result string

// Upsert outcomes.
const (
	ResultInserted Result = "inserted"
	ResultUpdated  Result = "updated"
)

// ErrUnavailable wraps backend connectivity failures. Upserts are
// idempotent, so callers may safely retry the same record later.
var ErrUnavailable = errors.New("store unavailable")

// Upserter is the single write operation the pipeline needs: update the
// document matching key with set, applying setOnInsert only when the
// document did not exist yet.
type Upserter interface {
	Upsert(ctx context.Context, key Key, set, setOnInsert map[string]any) (Result, error)
}
