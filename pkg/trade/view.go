package trade

import (
	"context"

	"github.com/elmo3159/Pokeseal-sub000/pkg/feed"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"golang.org/x/sync/errgroup"
)

// GetSession assembles the session as seen by userID. It is always read
// from the store and is the source of truth for clients that missed feed
// events. Fetching the view marks the conversation read; UnreadCount is
// what was unread before this call.
func (s *Service) GetSession(ctx context.Context, sessionID, userID string) (*models.SessionView, error) {
	session, _, err := s.participantSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	var (
		ledger   []models.TradeRequest
		messages []models.TradeMessage
		lastRead string
		partner  *models.Profile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if ledger, err = s.store.ListRequests(gctx, sessionID); err != nil {
			return transient("list requests", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if messages, err = s.store.ListMessages(gctx, sessionID); err != nil {
			return transient("list messages", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if lastRead, err = s.store.GetReadMarker(gctx, sessionID, userID); err != nil {
			return transient("get read marker", err)
		}
		return nil
	})
	if partnerID := session.Partner(userID); partnerID != "" {
		g.Go(func() error {
			profile, err := s.store.GetProfile(gctx, partnerID)
			if err != nil {
				s.log.Debug("partner profile unavailable", "userId", partnerID, "error", err)
				profile = &models.Profile{UserId: partnerID}
			}
			partner = profile
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &models.SessionView{
		Partner:         partner,
		MyRequests:      []models.TradeRequest{},
		PartnerRequests: []models.TradeRequest{},
		Messages:        messages,
		UnreadCount:     models.CountUnread(messages, userID, lastRead),
	}
	if view.Messages == nil {
		view.Messages = []models.TradeMessage{}
	}
	view.ApplySession(session, userID)
	for _, req := range ledger {
		if req.RequesterId == userID {
			view.MyRequests = append(view.MyRequests, req)
		} else {
			view.PartnerRequests = append(view.PartnerRequests, req)
		}
	}
	if n := len(view.Messages); n > 0 && view.Messages[n-1].Id > lastRead {
		if err := s.store.MarkRead(ctx, sessionID, userID, view.Messages[n-1].Id); err != nil {
			s.log.Warn("failed to mark messages read", "sessionId", sessionID, "userId", userID, "error", err)
		}
	}
	return view, nil
}

// UnreadSummary counts the messages userID has not read in each of their
// active sessions.
func (s *Service) UnreadSummary(ctx context.Context, userID string) (*models.UnreadSummary, error) {
	if userID == "" {
		return nil, ErrInvalidParticipant
	}
	sessions, err := s.store.ListSessionsByParticipant(ctx, userID)
	if err != nil {
		return nil, transient("list sessions", err)
	}

	var active []string
	for _, session := range sessions {
		if session.Status == models.NEGOTIATING {
			active = append(active, session.Id)
		}
	}

	counts := make([]int, len(active))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(unreadConcurrency)
	for i, sessionID := range active {
		g.Go(func() error {
			messages, err := s.store.ListMessages(gctx, sessionID)
			if err != nil {
				return transient("list messages", err)
			}
			lastRead, err := s.store.GetReadMarker(gctx, sessionID, userID)
			if err != nil {
				return transient("get read marker", err)
			}
			counts[i] = models.CountUnread(messages, userID, lastRead)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &models.UnreadSummary{Sessions: map[string]int{}}
	for i, sessionID := range active {
		if counts[i] > 0 {
			summary.Sessions[sessionID] = counts[i]
			summary.Total += counts[i]
		}
	}
	return summary, nil
}

// Subscribe opens a feed subscription for a participant of the session.
func (s *Service) Subscribe(ctx context.Context, sessionID, userID string) (*feed.Subscription, error) {
	if s.hub == nil {
		return nil, ErrFeedUnavailable
	}
	if _, _, err := s.participantSession(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	return s.hub.Subscribe(sessionID), nil
}

// GetOwnedItems lists the items a user currently holds.
func (s *Service) GetOwnedItems(ctx context.Context, userID string) ([]models.Item, error) {
	items, err := s.store.GetOwnedItems(ctx, userID)
	if err != nil {
		return nil, transient("get owned items", err)
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}
