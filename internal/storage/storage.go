// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"

	"farofino/internal/model"
)

// Storage is the interface for persisting the subscription record.
type Storage interface {
	// Load returns the subscription, or an empty default record when
	// nothing has been persisted yet.
	Load(ctx context.Context) (model.Subscription, error)

	// Save replaces the persisted record with the given subscription
	// in a single transaction.
	Save(ctx context.Context, sub model.Subscription) error

	Close() error
}
