package sample

import (
	"context"
	"sync"
	"time"

	"github.com/okian/salesdash/internal/domain/model"
)

// memoKey identifies one deterministic generation.
type memoKey struct {
	seed     int64
	spanDays int
	anchor   time.Time
}

// Memoized caches generated datasets by (seed, span, anchor). Generation is
// pure, so entries never invalidate; the key space is tiny in practice (one
// entry per configured sample shape).
type Memoized struct {
	mu    sync.Mutex
	cache map[memoKey]*model.Dataset
}

// NewMemoized creates an empty memoization cache.
func NewMemoized() *Memoized {
	return &Memoized{cache: make(map[memoKey]*model.Dataset)}
}

// Generate returns the cached dataset for g's parameters, generating it on
// first use. Callers must treat the returned dataset as read-only.
func (m *Memoized) Generate(ctx context.Context, g *Generator) (*model.Dataset, error) {
	key := memoKey{seed: g.seed, spanDays: g.spanDays, anchor: g.anchor}

	m.mu.Lock()
	ds, ok := m.cache[key]
	m.mu.Unlock()
	if ok {
		return ds, nil
	}

	ds, err := g.Generate(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[key] = ds
	m.mu.Unlock()
	return ds, nil
}

// Size returns the number of cached datasets.
func (m *Memoized) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cache)
}
