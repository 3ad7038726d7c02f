package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/wildvision/observation-store-service/internal/models"
)

// MemoryStore is an in-process document collection. It backs unit tests and
// the dev fallback when no DB_URL is configured. Listings preserve
// insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]models.Observation
	order []string
}

// NewMemoryStore creates an empty in-memory collection.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]models.Observation)}
}

// Insert stores one observation under a freshly generated identifier.
func (m *MemoryStore) Insert(_ context.Context, obs models.Observation) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	obs.ID = id
	m.byID[id] = obs
	m.order = append(m.order, id)

	return id, nil
}

// FindAll returns all observations in insertion order.
func (m *MemoryStore) FindAll(_ context.Context) ([]models.Observation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Observation, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}

	return out, nil
}

// FindByID returns the observation matching id in canonical form.
func (m *MemoryStore) FindByID(_ context.Context, id string) (models.Observation, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return models.Observation{}, ErrInvalidID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	obs, ok := m.byID[parsed.String()]
	if !ok {
		return models.Observation{}, ErrNotFound
	}

	return obs, nil
}

// DeleteByID removes the observation matching id, ErrNotFound when absent.
func (m *MemoryStore) DeleteByID(_ context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}
	key := parsed.String()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[key]; !ok {
		return ErrNotFound
	}
	delete(m.byID, key)
	for i, other := range m.order {
		if other == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	return nil
}

// Ping always succeeds: the collection lives in process memory.
func (m *MemoryStore) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryStore) Close() {}
