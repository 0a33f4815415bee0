// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"

	"workshop_bot/internal/model"
)

// Storage persists whole per-user documents. Documents are loaded and
// saved as a unit; UpdateUser is the only safe way to mutate one when
// several writers (command handlers, the monitor loop) touch the same
// user.
type Storage interface {
	// LoadUser returns the user's document, creating and persisting a
	// default-empty one on first access.
	LoadUser(ctx context.Context, userID int64) (*model.UserDocument, error)
	// SaveUser overwrites the user's document.
	SaveUser(ctx context.Context, userID int64, doc *model.UserDocument) error
	// UpdateUser runs fn inside a per-user read-modify-write. The
	// document is saved only when fn returns nil. Different users'
	// updates proceed concurrently.
	UpdateUser(ctx context.Context, userID int64, fn func(*model.UserDocument) error) error
	// ListUserIDs returns the ids of all known users.
	ListUserIDs(ctx context.Context) ([]int64, error)

	Close() error
}
