// internal/store/memory.go
package store

import (
	"context"
	"sync"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
)

// MemoryStore is a mutex-guarded in-memory store. Production can swap a
// persistent implementation without touching engine logic.
type MemoryStore struct {
	mu      sync.RWMutex
	pending map[string]core.PendingAsset
	assets  map[string]core.Asset
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pending: make(map[string]core.PendingAsset),
		assets:  make(map[string]core.Asset),
	}
}

// PutPending creates or replaces a pending asset.
func (m *MemoryStore) PutPending(ctx context.Context, p core.PendingAsset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[p.ID] = p
	return nil
}

// PendingByID retrieves a pending asset by ID.
func (m *MemoryStore) PendingByID(ctx context.Context, id string) (*core.PendingAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.pending[id]
	if !ok {
		return nil, core.ErrPendingNotFound
	}
	return &p, nil
}

// ListPending returns all pending assets, rejected ones included.
func (m *MemoryStore) ListPending(ctx context.Context) ([]core.PendingAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]core.PendingAsset, 0, len(m.pending))
	for _, p := range m.pending {
		result = append(result, p)
	}
	return result, nil
}

// DeletePending removes a pending asset.
func (m *MemoryStore) DeletePending(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pending[id]; !ok {
		return core.ErrPendingNotFound
	}
	delete(m.pending, id)
	return nil
}

// PutAsset creates or replaces a confirmed asset.
func (m *MemoryStore) PutAsset(ctx context.Context, a core.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[a.ID] = a
	return nil
}

// AssetByID retrieves a confirmed asset by ID.
func (m *MemoryStore) AssetByID(ctx context.Context, id string) (*core.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.assets[id]
	if !ok {
		return nil, core.ErrAssetNotFound
	}
	return &a, nil
}

// ListAssets returns all confirmed assets.
func (m *MemoryStore) ListAssets(ctx context.Context) ([]core.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]core.Asset, 0, len(m.assets))
	for _, a := range m.assets {
		result = append(result, a)
	}
	return result, nil
}

// DeleteAsset removes a confirmed asset.
func (m *MemoryStore) DeleteAsset(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.assets[id]; !ok {
		return core.ErrAssetNotFound
	}
	delete(m.assets, id)
	return nil
}
