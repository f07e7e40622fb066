// Package session holds the process-wide session state: the live dataset,
// the filter state, the stored signature, and the derived view.
//
// The four fields only ever change together. Writers build a complete
// Snapshot and swap it in one operation, so a reader can never observe a
// dataset paired with a filter state computed against a different dataset.
package session

import (
	"context"
	"sync"

	"github.com/okian/salesdash/internal/domain/model"
	"github.com/okian/salesdash/internal/domain/signature"
	"github.com/okian/salesdash/internal/domain/view"
)

// Snapshot is one consistent generation of session state. Snapshots are
// immutable after Replace; mutations always produce a new one.
type Snapshot struct {
	Dataset     *model.Dataset
	FilterState model.FilterState
	Signature   signature.Signature
	View        *view.FilteredView
}

// Store provides atomic access to the current snapshot.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewStore creates an empty store. Snapshot returns ErrNoDataset until the
// first Replace.
func NewStore() *Store {
	return &Store{}
}

// Replace installs a new snapshot as a single atomic write.
func (s *Store) Replace(ctx context.Context, snap *Snapshot) {
	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()
}

// Snapshot returns the current snapshot. Callers must not mutate it.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoDataset
	}
	return s.current, nil
}

// Loaded reports whether a dataset has been established yet. Page-level
// consumers use this as their precondition check.
func (s *Store) Loaded(ctx context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}
