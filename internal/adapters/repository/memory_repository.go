package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"
)

var _ domain.StateRepository = (*InMemoryStateRepository)(nil)

// InMemoryStateRepository keeps encoded blobs so callers never share
// memory with what was saved.
type InMemoryStateRepository struct {
	store map[string][]byte

	mu sync.RWMutex
}

func NewInMemoryStateRepository() *InMemoryStateRepository {
	return &InMemoryStateRepository{
		store: make(map[string][]byte),
	}
}

func (r *InMemoryStateRepository) Load(ctx context.Context, key string, dest any) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.store[key]
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (r *InMemoryStateRepository) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[key] = data
	return nil
}

// Raw exposes the stored encoding of key.
func (r *InMemoryStateRepository) Raw(key string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.store[key]
	return data, ok
}

func (r *InMemoryStateRepository) Put(key string, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[key] = raw
}
