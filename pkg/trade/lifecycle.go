package trade

import (
	"context"
	"errors"

	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
)

// Cancel ends a session that has not completed. Either participant may
// cancel at any time, whether or not they confirmed.
func (s *Service) Cancel(ctx context.Context, sessionID, userID string) (*models.Session, error) {
	session, _, err := s.participantSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		if session.IsTerminal() {
			return nil, ErrSessionClosed
		}

		cancelled, err := s.store.CancelSession(ctx, sessionID, session.Status, userID, models.CancelReasonUser)
		if err == nil {
			s.transitioned(cancelled)
			s.publishSession(ctx, cancelled)
			s.postSystemMessage(ctx, cancelled, userID, models.SystemCancelled)
			s.notify(ctx, cancelled.Partner(userID), models.NotifyCancelled, cancelled, userID)
			s.log.Info("session cancelled", "sessionId", sessionID, "by", userID)
			return cancelled, nil
		}
		if !errors.Is(err, storage.ErrSessionConflict) {
			return nil, transient("cancel session", err)
		}
		if attempt >= maxCancelAttempts {
			return nil, transient("cancel session", err)
		}

		// The status moved on underneath us, typically a claim.
		if session, err = s.loadSession(ctx, sessionID); err != nil {
			return nil, err
		}
	}
}
