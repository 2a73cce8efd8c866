package storage

import (
	"context"

	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
)

// SessionReader defines the interface for reading trade sessions.
type SessionReader interface {
	// GetSession retrieves a session by its ID with a strongly consistent read.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// ListSessionsByParticipant retrieves every session the user takes part in, newest first.
	ListSessionsByParticipant(ctx context.Context, userID string) ([]models.Session, error)

	// ListWaitingSessions retrieves waiting sessions oldest first, skipping those
	// created by excludeUserID. At most limit sessions are returned.
	ListWaitingSessions(ctx context.Context, excludeUserID string, limit int) ([]models.Session, error)
}

// SessionManager defines the conditional writes that move a session through its lifecycle.
// Every method fails without side effects when its precondition does not hold.
type SessionManager interface {
	// CreateSession inserts a new session. The ID must be unused.
	CreateSession(ctx context.Context, session *models.Session) error

	// ClaimSession pairs userID into a waiting session as participant B.
	// It returns ErrClaimLost if the session is no longer claimable.
	ClaimSession(ctx context.Context, sessionID, userID string) (*models.Session, error)

	// ClaimAndWithdraw claims sessionID for userID and withdraws userID's own
	// waiting session ownSessionID in a single atomic write. It returns
	// ErrSessionConflict if the own session is no longer waiting (it was
	// claimed or cancelled), and ErrClaimLost if sessionID is not claimable.
	ClaimAndWithdraw(ctx context.Context, sessionID, ownSessionID, userID string) (*models.Session, error)

	// CancelSession moves a session in the expected status to CANCELLED.
	// It returns ErrSessionConflict if the status differs.
	CancelSession(ctx context.Context, sessionID string, expected models.SessionStatus, cancelledBy string, reason models.CancelReason) (*models.Session, error)

	// SetConfirmation sets the confirmation flag of a side on a negotiating session.
	// It returns ErrSessionConflict if the session is not negotiating or the flag is already set.
	SetConfirmation(ctx context.Context, sessionID string, side models.Side) (*models.Session, error)
}

// SessionStore combines the reader and manager interfaces.
type SessionStore interface {
	SessionReader
	SessionManager
}
