// Package store provides the ObservationRepository implementations: an
// in-memory map for tests and ephemeral runs, a SQLite file for the
// local-first deployment, and Postgres for shared operator deployments.
package store

import (
	"context"
	"sort"
	"sync"

	"geoveil/internal/types"
)

// Memory is a thread-safe in-memory repository. Records are deep-copied on
// the way in and out so callers can never mutate stored state.
type Memory struct {
	mu      sync.RWMutex
	records map[string]*types.ObservationRecord
}

var _ types.ObservationRepository = (*Memory)(nil)

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]*types.ObservationRecord)}
}

// List returns all records ordered by creation time, oldest first.
func (m *Memory) List(ctx context.Context) ([]*types.ObservationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*types.ObservationRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Get returns the record with the given id.
func (m *Memory) Get(ctx context.Context, id string) (*types.ObservationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, notFound(id)
	}
	return rec.Clone(), nil
}

// Save inserts or replaces a record.
func (m *Memory) Save(ctx context.Context, rec *types.ObservationRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec.Clone()
	return nil
}

// Delete removes a record.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return notFound(id)
	}
	delete(m.records, id)
	return nil
}

func notFound(id string) error {
	return types.NewAppErrorWithDetails(types.ErrCodeNotFoundObservation,
		"observation not found", nil, map[string]any{"id": id})
}
