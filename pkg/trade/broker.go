package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
	"github.com/google/uuid"
)

// StartMatching pairs userID with the oldest waiting session of another user,
// or leaves userID waiting in a new session of their own.
//
// Two seekers that miss each other in the pool both create a waiting
// session. Whichever of them then sees the other's session, now or on a
// later call, claims it and withdraws its own in one atomic write, so the
// pair converges on a single session.
func (s *Service) StartMatching(ctx context.Context, userID string) (*models.MatchResult, error) {
	if userID == "" {
		return nil, ErrInvalidParticipant
	}

	existing, err := s.waitingSessionOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// The pool may have caught up with a seeker we missed last time.
		return s.settleWaiting(ctx, userID, existing)
	}

	claimed, err := s.claimOldest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if claimed != nil {
		return &models.MatchResult{Session: claimed, Matched: true}, nil
	}

	own, err := s.createSession(ctx, userID, "", models.RANDOM)
	if err != nil {
		return nil, err
	}
	return s.settleWaiting(ctx, userID, own)
}

// settleWaiting looks for another waiting session while userID holds own.
// A candidate is claimed and own withdrawn in one atomic write. Candidates
// are tried oldest first regardless of whether they are older than own.
func (s *Service) settleWaiting(ctx context.Context, userID string, own *models.Session) (*models.MatchResult, error) {
	for round := 1; round <= s.opts.MaxMatchRounds; round++ {
		pool, err := s.store.ListWaitingSessions(ctx, userID, s.opts.MatchCandidateLimit)
		if err != nil {
			return nil, transient("list waiting sessions", err)
		}
		if len(pool) == 0 {
			break
		}

		for _, candidate := range pool {
			claimed, err := s.store.ClaimAndWithdraw(ctx, candidate.Id, own.Id, userID)
			switch {
			case err == nil:
				s.log.Debug("withdrew waiting session in favour of another", "sessionId", own.Id, "round", round)
				s.paired(ctx, claimed, userID)
				return &models.MatchResult{Session: claimed, Matched: true}, nil
			case errors.Is(err, storage.ErrClaimLost):
				s.metrics.ClaimConflicts.Inc()
			case errors.Is(err, storage.ErrSessionConflict):
				// Our own session was claimed first.
				current, err := s.loadSession(ctx, own.Id)
				if err != nil {
					return nil, err
				}
				return &models.MatchResult{Session: current, Matched: current.Status == models.NEGOTIATING}, nil
			default:
				return nil, transient("claim session", err)
			}
		}
	}
	return &models.MatchResult{Session: own}, nil
}

func (s *Service) waitingSessionOf(ctx context.Context, userID string) (*models.Session, error) {
	sessions, err := s.store.ListSessionsByParticipant(ctx, userID)
	if err != nil {
		return nil, transient("list sessions", err)
	}
	for i := range sessions {
		if sessions[i].Status == models.WAITING && sessions[i].ParticipantA == userID {
			return &sessions[i], nil
		}
	}
	return nil, nil
}

// claimOldest tries the waiting pool oldest first and returns the claimed
// session, or nil when every candidate was lost or the pool is empty.
func (s *Service) claimOldest(ctx context.Context, userID string) (*models.Session, error) {
	candidates, err := s.store.ListWaitingSessions(ctx, userID, s.opts.MatchCandidateLimit)
	if err != nil {
		return nil, transient("list waiting sessions", err)
	}

	for _, candidate := range candidates {
		claimed, err := s.store.ClaimSession(ctx, candidate.Id, userID)
		if errors.Is(err, storage.ErrClaimLost) {
			s.metrics.ClaimConflicts.Inc()
			continue
		}
		if err != nil {
			return nil, transient("claim session", err)
		}

		s.paired(ctx, claimed, userID)
		return claimed, nil
	}
	return nil, nil
}

func (s *Service) paired(ctx context.Context, claimed *models.Session, userID string) {
	s.transitioned(claimed)
	s.publishSession(ctx, claimed)
	s.notify(ctx, claimed.ParticipantA, models.NotifyMatched, claimed, userID)
	s.log.Info("session claimed", "sessionId", claimed.Id, "participantB", userID)
}

func (s *Service) createSession(ctx context.Context, userID, partnerID string, origin models.SessionOrigin) (*models.Session, error) {
	now := s.now()
	session := &models.Session{
		Id:           uuid.New().String(),
		ParticipantA: userID,
		ParticipantB: partnerID,
		Origin:       origin,
		Status:       models.WAITING,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if partnerID != "" {
		session.Status = models.NEGOTIATING
	}
	session.OrderKey = models.OrderKey(now, session.Id)

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, transient("create session", err)
	}
	s.metrics.SessionsCreated.WithLabelValues(string(origin)).Inc()
	return session, nil
}

// CancelMatching withdraws the caller's waiting session. A session that has
// already been paired is returned unchanged; use Cancel to end it.
func (s *Service) CancelMatching(ctx context.Context, sessionID, userID string) (*models.Session, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ParticipantA != userID {
		return nil, ErrInvalidParticipant
	}

	switch session.Status {
	case models.NEGOTIATING:
		return session, nil
	case models.COMPLETED, models.CANCELLED:
		return nil, ErrSessionClosed
	}

	cancelled, err := s.store.CancelSession(ctx, sessionID, models.WAITING, userID, models.CancelReasonUser)
	if errors.Is(err, storage.ErrSessionConflict) {
		current, err := s.loadSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if current.IsTerminal() {
			return nil, ErrSessionClosed
		}
		return current, nil
	}
	if err != nil {
		return nil, transient("cancel matching", err)
	}

	s.transitioned(cancelled)
	s.publishSession(ctx, cancelled)
	return cancelled, nil
}

// InviteDirect opens a negotiating session between userID and partnerID. An
// active session between the same pair is returned instead of a new one.
func (s *Service) InviteDirect(ctx context.Context, userID, partnerID string) (*models.Session, error) {
	if userID == "" || partnerID == "" || userID == partnerID {
		return nil, ErrInvalidParticipant
	}

	sessions, err := s.store.ListSessionsByParticipant(ctx, userID)
	if err != nil {
		return nil, transient("list sessions", err)
	}
	for i := range sessions {
		if sessions[i].Status.IsActive() && sessions[i].Partner(userID) == partnerID {
			return &sessions[i], nil
		}
	}

	session, err := s.createSession(ctx, userID, partnerID, models.INVITE)
	if err != nil {
		return nil, err
	}
	s.publishSession(ctx, session)
	s.notify(ctx, partnerID, models.NotifyInvited, session, userID)
	s.log.Info("direct invitation created", "sessionId", session.Id)
	return session, nil
}

// ListSessions returns the user's sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, userID string) ([]models.Session, error) {
	if userID == "" {
		return nil, ErrInvalidParticipant
	}
	sessions, err := s.store.ListSessionsByParticipant(ctx, userID)
	if err != nil {
		return nil, transient("list sessions", err)
	}
	return sessions, nil
}

// ExpireWaitingSessions cancels waiting sessions older than maxAge and
// returns how many were cancelled. A single pass looks at up to limit of
// the oldest sessions.
func (s *Service) ExpireWaitingSessions(ctx context.Context, maxAge time.Duration, limit int) (int, error) {
	if maxAge <= 0 {
		return 0, fmt.Errorf("max age must be positive")
	}
	pool, err := s.store.ListWaitingSessions(ctx, "", limit)
	if err != nil {
		return 0, transient("list waiting sessions", err)
	}

	cutoff := s.now().Add(-maxAge)
	expired := 0
	for i := range pool {
		if !pool[i].CreatedAt.Before(cutoff) {
			break
		}
		cancelled, err := s.store.CancelSession(ctx, pool[i].Id, models.WAITING, "", models.CancelReasonExpired)
		if errors.Is(err, storage.ErrSessionConflict) {
			continue
		}
		if err != nil {
			return expired, transient("expire session", err)
		}
		expired++
		s.transitioned(cancelled)
		s.publishSession(ctx, cancelled)
		s.notify(ctx, cancelled.ParticipantA, models.NotifyCancelled, cancelled, "")
	}
	return expired, nil
}
