// Package memory provides an in-memory Upserter for tests and local runs
// without a database.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/fyxed/rentcrawl/internal/store"
)

// Store keeps documents in a map guarded by a mutex, mirroring the
// set/setOnInsert semantics of the real backends.
type Store struct {
	mu   sync.Mutex
	docs map[store.Key]map[string]any
}

// New creates an empty Store.
func New() *Store {
	return &Store{docs: make(map[store.Key]map[string]any)}
}

// Upsert implements store.Upserter.
func (s *Store) Upsert(_ context.Context, key store.Key, set, setOnInsert map[string]any) (store.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[key]
	if !ok {
		doc = make(map[string]any, len(set)+len(setOnInsert))
		maps.Copy(doc, setOnInsert)
		maps.Copy(doc, set)
		s.docs[key] = doc
		return store.ResultInserted, nil
	}
	maps.Copy(doc, set)
	return store.ResultUpdated, nil
}

// Get returns a copy of the stored document for key.
func (s *Store) Get(key store.Key) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[key]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(doc))
	maps.Copy(out, doc)
	return out, true
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
