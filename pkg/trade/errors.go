package trade

import (
	"errors"
	"fmt"

	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
)

var (
	// ErrInvalidParticipant is returned when the caller is not a participant of the session.
	ErrInvalidParticipant = errors.New("caller is not a participant of this session")

	// ErrSessionClosed is returned when a mutation targets a completed or cancelled session.
	ErrSessionClosed = errors.New("this trade has ended")

	// ErrClaimLost is returned when another caller claimed a waiting session first.
	ErrClaimLost = storage.ErrClaimLost

	// ErrOwnershipInvalid is returned when a requested item is not held by the other participant.
	ErrOwnershipInvalid = errors.New("item is not owned by the other participant")

	// ErrTransientStore is returned when the underlying store failed. The operation is safe to retry.
	ErrTransientStore = errors.New("temporary storage failure")

	ErrSessionNotFound       = storage.ErrSessionNotFound
	ErrSessionNotNegotiating = errors.New("session is not negotiating yet")
	ErrConfirmationLocked    = errors.New("requests cannot change after confirming")
	ErrLedgerFull            = errors.New("too many requests in this session")
	ErrInvalidMessage        = errors.New("invalid message")
	ErrFeedUnavailable       = errors.New("session feed is not available")
)

func transient(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, ErrTransientStore, err)
}
