// Package subscription serializes access to the persisted owner record.
package subscription

import (
	"context"
	"fmt"
	"sync"

	"farofino/internal/model"
	"farofino/internal/storage"
)

// Manager guards the subscription record with a single-writer
// discipline: every mutation is a load-modify-save transaction under
// one mutex, so a manual check racing an automatic tick cannot lose
// updates.
type Manager struct {
	mu    sync.Mutex
	store storage.Storage
}

// NewManager creates a Manager over the given storage.
func NewManager(store storage.Storage) *Manager {
	return &Manager{store: store}
}

// Get returns the current subscription record.
func (m *Manager) Get(ctx context.Context) (model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Load(ctx)
}

// Update loads the record, applies mutate, and persists the result.
// If mutate returns an error, nothing is saved and that error is
// returned unchanged.
func (m *Manager) Update(ctx context.Context, mutate func(*model.Subscription) error) (model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, err := m.store.Load(ctx)
	if err != nil {
		return sub, fmt.Errorf("load subscription: %w", err)
	}
	if err := mutate(&sub); err != nil {
		return sub, err
	}
	if err := m.store.Save(ctx, sub); err != nil {
		return sub, fmt.Errorf("save subscription: %w", err)
	}
	return sub, nil
}
