package storage

import (
	"context"

	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
)

// OwnershipStore defines the item ownership collaborator.
type OwnershipStore interface {
	// GetItem retrieves an item by its ID.
	GetItem(ctx context.Context, itemID string) (*models.Item, error)

	// GetOwnedItems retrieves every item currently owned by a user.
	GetOwnedItems(ctx context.Context, userID string) ([]models.Item, error)

	// TransferOwnership moves a single item, provided fromUserID still owns it.
	TransferOwnership(ctx context.Context, itemID, fromUserID, toUserID string) (*models.Item, error)
}

// ProfileReader defines the identity lookup. Profiles are presentation only.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// ConnectionStore defines the interface for storing websocket connections by user.
type ConnectionStore interface {
	AddConnection(ctx context.Context, connectionID, userID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
	GetConnectionsForUser(ctx context.Context, userID string) ([]string, error)
}
