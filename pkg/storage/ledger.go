package storage

import (
	"context"

	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
)

// LedgerReader defines the interface for reading a session's request ledger.
type LedgerReader interface {
	// ListRequests retrieves every request of a session in creation order.
	ListRequests(ctx context.Context, sessionID string) ([]models.TradeRequest, error)

	// GetRequest retrieves the request identified by requester and target item.
	GetRequest(ctx context.Context, sessionID, requesterID, itemID string) (*models.TradeRequest, error)
}

// LedgerManager defines the ledger writes. Both are guarded by the session:
// they only apply while it is negotiating and the given side has not confirmed.
// The session's request count moves in the same write.
type LedgerManager interface {
	// PutRequest inserts a request. It returns ErrRequestExists for a duplicate,
	// ErrLedgerFull if the session already holds limit requests and
	// ErrSessionConflict if the session guard fails.
	PutRequest(ctx context.Context, req *models.TradeRequest, side models.Side, limit int) error

	// DeleteRequest removes a request. Removing an absent request is not an error.
	DeleteRequest(ctx context.Context, req *models.TradeRequest, side models.Side) error
}

// LedgerStore combines the reader and manager interfaces.
type LedgerStore interface {
	LedgerReader
	LedgerManager
}

// MessageStore defines the append-only conversation log.
type MessageStore interface {
	AppendMessage(ctx context.Context, msg *models.TradeMessage) error
	ListMessages(ctx context.Context, sessionID string) ([]models.TradeMessage, error)
}

// ReadMarkerStore tracks how far each participant has read a conversation.
type ReadMarkerStore interface {
	// GetReadMarker returns the last message id userID has read, or "" if none.
	GetReadMarker(ctx context.Context, sessionID, userID string) (string, error)

	// MarkRead advances the marker to messageID. A marker already at or past
	// messageID is left unchanged and is not an error.
	MarkRead(ctx context.Context, sessionID, userID, messageID string) error
}
