package trade

import (
	"context"
	"errors"

	"github.com/elmo3159/Pokeseal-sub000/pkg/feed"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
	"github.com/google/uuid"
)

// ledgerSession loads a session whose ledger userID wants to change.
func (s *Service) ledgerSession(ctx context.Context, sessionID, userID string) (*models.Session, models.Side, error) {
	session, side, err := s.participantSession(ctx, sessionID, userID)
	if err != nil {
		return nil, "", err
	}
	if err := requireNegotiating(session); err != nil {
		return nil, "", err
	}
	if session.ConfirmedOn(side) {
		return nil, "", ErrConfirmationLocked
	}
	return session, side, nil
}

// AddRequest records that userID wants itemID, which the other participant
// must currently own. Adding an existing request returns it unchanged. The
// ledger limit is enforced by the store in the same write as the insert.
func (s *Service) AddRequest(ctx context.Context, sessionID, userID, itemID string) (*models.TradeRequest, error) {
	session, side, err := s.ledgerSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetRequest(ctx, sessionID, userID, itemID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrRequestNotFound) {
		return nil, transient("get request", err)
	}

	item, err := s.store.GetItem(ctx, itemID)
	if errors.Is(err, storage.ErrItemNotFound) {
		return nil, ErrOwnershipInvalid
	}
	if err != nil {
		return nil, transient("get item", err)
	}
	if item.OwnerId != session.Partner(userID) {
		return nil, ErrOwnershipInvalid
	}

	req := &models.TradeRequest{
		Id:           uuid.New().String(),
		SessionId:    sessionID,
		RequesterId:  userID,
		TargetItemId: itemID,
		CreatedAt:    s.now(),
	}
	err = s.store.PutRequest(ctx, req, side, s.opts.MaxRequestsPerSession)
	switch {
	case errors.Is(err, storage.ErrLedgerFull):
		return nil, ErrLedgerFull
	case errors.Is(err, storage.ErrRequestExists):
		// A concurrent duplicate won.
		existing, err := s.store.GetRequest(ctx, sessionID, userID, itemID)
		if err != nil {
			return nil, transient("get request", err)
		}
		return existing, nil
	case errors.Is(err, storage.ErrSessionConflict):
		return nil, s.explainConflict(ctx, sessionID, side, err)
	case err != nil:
		return nil, transient("put request", err)
	}

	s.publish(ctx, feed.NewRequestEvent(feed.RequestAdded, req), session)
	return req, nil
}

// RemoveRequest withdraws userID's request for itemID. Removing a request
// that does not exist is a no-op.
func (s *Service) RemoveRequest(ctx context.Context, sessionID, userID, itemID string) error {
	session, side, err := s.ledgerSession(ctx, sessionID, userID)
	if err != nil {
		return err
	}

	existing, err := s.store.GetRequest(ctx, sessionID, userID, itemID)
	if errors.Is(err, storage.ErrRequestNotFound) {
		return nil
	}
	if err != nil {
		return transient("get request", err)
	}

	err = s.store.DeleteRequest(ctx, existing, side)
	if errors.Is(err, storage.ErrSessionConflict) {
		return s.explainConflict(ctx, sessionID, side, err)
	}
	if err != nil {
		return transient("delete request", err)
	}

	s.publish(ctx, feed.NewRequestEvent(feed.RequestRemoved, existing), session)
	return nil
}
