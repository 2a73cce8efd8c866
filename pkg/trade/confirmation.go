package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
	"github.com/google/uuid"
)

// Confirm accepts the current ledger on behalf of userID. Confirmation is
// sticky. When both sides have confirmed the session settles: every
// requested item still held by the expected owner changes hands and the
// session completes, in one atomic write.
func (s *Service) Confirm(ctx context.Context, sessionID, userID string) (*models.ConfirmResult, error) {
	session, side, err := s.participantSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.COMPLETED {
		return &models.ConfirmResult{Session: session, Confirmed: true, Completed: true}, nil
	}
	if err := requireNegotiating(session); err != nil {
		return nil, err
	}

	result := &models.ConfirmResult{Confirmed: true}
	if !session.ConfirmedOn(side) {
		updated, err := s.store.SetConfirmation(ctx, sessionID, side)
		switch {
		case err == nil:
			session = updated
			result.Changed = true
			s.publishSession(ctx, session)
			s.postSystemMessage(ctx, session, userID, models.SystemConfirmed)
			s.notify(ctx, session.Partner(userID), models.NotifyPartnerConfirmed, session, userID)
		case errors.Is(err, storage.ErrSessionConflict):
			if session, err = s.loadSession(ctx, sessionID); err != nil {
				return nil, err
			}
			if session.Status == models.COMPLETED {
				return &models.ConfirmResult{Session: session, Confirmed: true, Completed: true}, nil
			}
			if err := requireNegotiating(session); err != nil {
				return nil, err
			}
			if !session.ConfirmedOn(side) {
				return nil, transient("set confirmation", storage.ErrSessionConflict)
			}
		default:
			return nil, transient("set confirmation", err)
		}
	}

	result.Session = session
	if !session.BothConfirmed() {
		return result, nil
	}
	return s.settle(ctx, session, userID, result)
}

// settle completes a session whose participants have both confirmed. A
// transfer whose item moved between planning and commit invalidates the
// plan, which is then rebuilt.
func (s *Service) settle(ctx context.Context, session *models.Session, userID string, result *models.ConfirmResult) (*models.ConfirmResult, error) {
	for attempt := 1; attempt <= maxSettlementAttempts; attempt++ {
		plan, err := s.planSettlement(ctx, session)
		if err != nil {
			return nil, err
		}

		completed, err := s.store.CompleteSession(ctx, session, plan)
		switch {
		case err == nil:
			s.metrics.Settlements.WithLabelValues("completed").Inc()
			s.metrics.SkippedTransfers.Add(float64(len(plan.Skipped)))
			s.transitioned(completed)
			s.publishSession(ctx, completed)
			for _, req := range plan.Skipped {
				s.postSystemMessage(ctx, completed, userID, models.ItemUnavailableMessage(req.TargetItemId))
			}
			s.postSystemMessage(ctx, completed, userID, models.SystemCompleted)
			for _, participant := range completed.Participants() {
				s.notify(ctx, participant, models.NotifyCompleted, completed, userID)
			}
			s.log.Info("session completed", "sessionId", completed.Id, "transfers", len(plan.Transfers), "skipped", len(plan.Skipped))

			result.Session = completed
			result.Completed = true
			result.Transfers = plan.Transfers
			result.Skipped = plan.Skipped
			return result, nil

		case errors.Is(err, storage.ErrOwnershipChanged):
			s.metrics.Settlements.WithLabelValues("replanned").Inc()
			s.log.Warn("ownership changed during settlement, rebuilding plan", "sessionId", session.Id, "attempt", attempt)

		case errors.Is(err, storage.ErrSessionConflict):
			current, loadErr := s.loadSession(ctx, session.Id)
			if loadErr != nil {
				return nil, loadErr
			}
			switch {
			case current.Status == models.COMPLETED:
				// A concurrent confirmation settled the session.
				result.Session = current
				result.Completed = true
				return result, nil
			case current.IsTerminal():
				return nil, ErrSessionClosed
			case current.Status != models.NEGOTIATING || !current.BothConfirmed():
				return nil, transient("complete session", err)
			}
			session = current

		default:
			s.metrics.Settlements.WithLabelValues("failed").Inc()
			return nil, transient("complete session", err)
		}
	}

	s.metrics.Settlements.WithLabelValues("failed").Inc()
	return nil, fmt.Errorf("failed to settle session after %d attempts: %w", maxSettlementAttempts, ErrTransientStore)
}

// planSettlement re-reads every requested item. Requests whose item is no
// longer held by the other participant are skipped rather than failing the
// whole settlement.
func (s *Service) planSettlement(ctx context.Context, session *models.Session) (*models.Settlement, error) {
	ledger, err := s.store.ListRequests(ctx, session.Id)
	if err != nil {
		return nil, transient("list requests", err)
	}

	plan := &models.Settlement{}
	planned := map[string]bool{}
	now := s.now()
	for _, req := range ledger {
		holder := session.Partner(req.RequesterId)
		if planned[req.TargetItemId] || holder == "" {
			plan.Skipped = append(plan.Skipped, req)
			continue
		}

		item, err := s.store.GetItem(ctx, req.TargetItemId)
		if errors.Is(err, storage.ErrItemNotFound) {
			plan.Skipped = append(plan.Skipped, req)
			continue
		}
		if err != nil {
			return nil, transient("get item", err)
		}
		if item.OwnerId != holder {
			plan.Skipped = append(plan.Skipped, req)
			continue
		}

		planned[req.TargetItemId] = true
		plan.Transfers = append(plan.Transfers, models.Transfer{
			EntryId:    uuid.New().String(),
			SessionId:  session.Id,
			RequestId:  req.Id,
			ItemId:     req.TargetItemId,
			FromUserId: holder,
			ToUserId:   req.RequesterId,
			Timestamp:  now,
		})
	}
	return plan, nil
}
