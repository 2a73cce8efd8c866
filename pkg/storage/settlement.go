package storage

import (
	"context"

	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
)

// SettlementStore defines the privileged interface for completing a session.
// Completion writes across the sessions, items and transfers tables atomically.
type SettlementStore interface {
	// CompleteSession moves the session to COMPLETED and executes every transfer
	// of the plan in one atomic write. It returns ErrSessionConflict if the
	// session changed since it was read, and ErrOwnershipChanged if an item
	// is no longer held by the expected owner. Nothing is written on failure.
	CompleteSession(ctx context.Context, session *models.Session, plan *models.Settlement) (*models.Session, error)

	// ListTransfers retrieves the transfer records of a completed session.
	ListTransfers(ctx context.Context, sessionID string) ([]models.Transfer, error)
}
