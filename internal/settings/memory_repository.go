package settings

import (
	"context"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	settings map[string]Settings
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		settings: make(map[string]Settings),
	}
}

// Get retrieves the settings stored for a client.
func (r *InMemoryRepository) Get(_ context.Context, clientID string) (*Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.settings[clientID]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

// Save creates or replaces the settings of a client.
func (r *InMemoryRepository) Save(_ context.Context, s *Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.UpdatedAt = time.Now()
	r.settings[s.ClientID] = *s
	return nil
}

// Count returns the number of stored clients.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.settings)
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
