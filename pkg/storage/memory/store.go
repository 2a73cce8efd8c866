// Package memory is an in-process implementation of the storage interfaces.
// Every operation runs under a single lock, which gives it the same
// all-or-nothing conditional semantics as the DynamoDB store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
)

// Store keeps all state in maps guarded by one mutex.
type Store struct {
	locker sync.Mutex
	now    func() time.Time

	sessions    map[string]models.Session
	requests    map[string]map[string]models.TradeRequest
	messages    map[string][]models.TradeMessage
	items       map[string]models.Item
	profiles    map[string]models.Profile
	transfers   map[string][]models.Transfer
	connections map[string]models.Connection
	reads       map[string]string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		now:         time.Now,
		sessions:    map[string]models.Session{},
		requests:    map[string]map[string]models.TradeRequest{},
		messages:    map[string][]models.TradeMessage{},
		items:       map[string]models.Item{},
		profiles:    map[string]models.Profile{},
		transfers:   map[string][]models.Transfer{},
		connections: map[string]models.Connection{},
		reads:       map[string]string{},
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// Seed loads collaborator state (items and profiles), replacing entries with the same ID.
func (s *Store) Seed(items []models.Item, profiles []models.Profile) {
	s.locker.Lock()
	defer s.locker.Unlock()

	for _, item := range items {
		s.items[item.Id] = item
	}
	for _, p := range profiles {
		s.profiles[p.UserId] = p
	}
}

func (s *Store) GetSession(_ context.Context, sessionID string) (*models.Session, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, storage.ErrSessionNotFound
	}
	return &session, nil
}

func (s *Store) ListSessionsByParticipant(_ context.Context, userID string) ([]models.Session, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	var out []models.Session
	for _, session := range s.sessions {
		if session.IsParticipant(userID) {
			out = append(out, session)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderKey > out[j].OrderKey })
	return out, nil
}

func (s *Store) ListWaitingSessions(_ context.Context, excludeUserID string, limit int) ([]models.Session, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	var out []models.Session
	for _, session := range s.sessions {
		if session.Status != models.WAITING || session.ParticipantB != "" {
			continue
		}
		if excludeUserID != "" && session.ParticipantA == excludeUserID {
			continue
		}
		out = append(out, session)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderKey < out[j].OrderKey })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CreateSession(_ context.Context, session *models.Session) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	if _, ok := s.sessions[session.Id]; ok {
		return storage.ErrSessionExists
	}
	if session.OrderKey == "" {
		session.OrderKey = models.OrderKey(session.CreatedAt, session.Id)
	}
	s.sessions[session.Id] = *session
	return nil
}

func (s *Store) ClaimSession(_ context.Context, sessionID, userID string) (*models.Session, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	return s.claim(sessionID, userID)
}

// claim must be called with the lock held.
func (s *Store) claim(sessionID, userID string) (*models.Session, error) {
	session, ok := s.sessions[sessionID]
	if !ok || session.Status != models.WAITING || session.ParticipantB != "" || session.ParticipantA == userID {
		return nil, storage.ErrClaimLost
	}

	session.ParticipantB = userID
	session.Status = models.NEGOTIATING
	s.touch(&session)
	s.sessions[sessionID] = session
	return &session, nil
}

func (s *Store) ClaimAndWithdraw(_ context.Context, sessionID, ownSessionID, userID string) (*models.Session, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	own, ok := s.sessions[ownSessionID]
	if !ok || own.Status != models.WAITING || own.ParticipantB != "" || own.ParticipantA != userID {
		return nil, storage.ErrSessionConflict
	}
	claimed, err := s.claim(sessionID, userID)
	if err != nil {
		return nil, err
	}

	own.Status = models.CANCELLED
	own.CancelledBy = userID
	own.CancelReason = models.CancelReasonSuperseded
	s.touch(&own)
	s.sessions[ownSessionID] = own
	return claimed, nil
}

func (s *Store) CancelSession(_ context.Context, sessionID string, expected models.SessionStatus, cancelledBy string, reason models.CancelReason) (*models.Session, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok || session.Status != expected || !models.CanTransition(expected, models.CANCELLED) {
		return nil, storage.ErrSessionConflict
	}

	session.Status = models.CANCELLED
	session.CancelledBy = cancelledBy
	session.CancelReason = reason
	s.touch(&session)
	s.sessions[sessionID] = session
	return &session, nil
}

func (s *Store) SetConfirmation(_ context.Context, sessionID string, side models.Side) (*models.Session, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok || session.Status != models.NEGOTIATING || session.ConfirmedOn(side) {
		return nil, storage.ErrSessionConflict
	}

	if side == models.SideA {
		session.ConfirmedA = true
	} else {
		session.ConfirmedB = true
	}
	s.touch(&session)
	s.sessions[sessionID] = session
	return &session, nil
}

// touch bumps the optimistic-lock version of a session being written.
func (s *Store) touch(session *models.Session) {
	session.Version++
	session.UpdatedAt = s.now().UTC()
}

// ledgerGuard reports whether the ledger of a session may be written by side.
func (s *Store) ledgerGuard(sessionID string, side models.Side) bool {
	session, ok := s.sessions[sessionID]
	return ok && session.Status == models.NEGOTIATING && !session.ConfirmedOn(side)
}

func (s *Store) ListRequests(_ context.Context, sessionID string) ([]models.TradeRequest, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	out := make([]models.TradeRequest, 0, len(s.requests[sessionID]))
	for _, req := range s.requests[sessionID] {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].RequestKey < out[j].RequestKey
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) GetRequest(_ context.Context, sessionID, requesterID, itemID string) (*models.TradeRequest, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	req, ok := s.requests[sessionID][models.RequestKey(requesterID, itemID)]
	if !ok {
		return nil, storage.ErrRequestNotFound
	}
	return &req, nil
}

func (s *Store) PutRequest(_ context.Context, req *models.TradeRequest, side models.Side, limit int) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	if !s.ledgerGuard(req.SessionId, side) {
		return storage.ErrSessionConflict
	}
	key := models.RequestKey(req.RequesterId, req.TargetItemId)
	ledger, ok := s.requests[req.SessionId]
	if !ok {
		ledger = map[string]models.TradeRequest{}
		s.requests[req.SessionId] = ledger
	}
	if _, exists := ledger[key]; exists {
		return storage.ErrRequestExists
	}
	if len(ledger) >= limit {
		return storage.ErrLedgerFull
	}
	req.RequestKey = key
	ledger[key] = *req
	s.countRequests(req.SessionId)
	return nil
}

func (s *Store) countRequests(sessionID string) {
	session := s.sessions[sessionID]
	session.RequestCount = len(s.requests[sessionID])
	s.sessions[sessionID] = session
}

func (s *Store) DeleteRequest(_ context.Context, req *models.TradeRequest, side models.Side) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	if !s.ledgerGuard(req.SessionId, side) {
		return storage.ErrSessionConflict
	}
	delete(s.requests[req.SessionId], models.RequestKey(req.RequesterId, req.TargetItemId))
	s.countRequests(req.SessionId)
	return nil
}

func (s *Store) AppendMessage(_ context.Context, msg *models.TradeMessage) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	for _, existing := range s.messages[msg.SessionId] {
		if existing.Id == msg.Id {
			return storage.ErrMessageExists
		}
	}
	s.messages[msg.SessionId] = append(s.messages[msg.SessionId], *msg)
	return nil
}

func (s *Store) ListMessages(_ context.Context, sessionID string) ([]models.TradeMessage, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	out := append([]models.TradeMessage(nil), s.messages[sessionID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func readKey(sessionID, userID string) string {
	return sessionID + "#" + userID
}

func (s *Store) GetReadMarker(_ context.Context, sessionID, userID string) (string, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	return s.reads[readKey(sessionID, userID)], nil
}

func (s *Store) MarkRead(_ context.Context, sessionID, userID, messageID string) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	key := readKey(sessionID, userID)
	if messageID > s.reads[key] {
		s.reads[key] = messageID
	}
	return nil
}

func (s *Store) GetItem(_ context.Context, itemID string) (*models.Item, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	item, ok := s.items[itemID]
	if !ok {
		return nil, storage.ErrItemNotFound
	}
	return &item, nil
}

func (s *Store) GetOwnedItems(_ context.Context, userID string) ([]models.Item, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	var out []models.Item
	for _, item := range s.items {
		if item.OwnerId == userID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func (s *Store) TransferOwnership(_ context.Context, itemID, fromUserID, toUserID string) (*models.Item, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	item, ok := s.items[itemID]
	if !ok {
		return nil, storage.ErrItemNotFound
	}
	if item.OwnerId != fromUserID {
		return nil, storage.ErrOwnershipChanged
	}
	s.moveItem(&item, toUserID)
	return &item, nil
}

func (s *Store) moveItem(item *models.Item, toUserID string) {
	item.OwnerId = toUserID
	item.Placement = ""
	item.UpdatedAt = s.now().UTC()
	s.items[item.Id] = *item
}

func (s *Store) CompleteSession(_ context.Context, session *models.Session, plan *models.Settlement) (*models.Session, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	current, ok := s.sessions[session.Id]
	if !ok || current.Status != models.NEGOTIATING || !current.BothConfirmed() || current.Version != session.Version {
		return nil, storage.ErrSessionConflict
	}

	// Validate every guard before writing anything.
	for _, t := range plan.Transfers {
		item, ok := s.items[t.ItemId]
		if !ok || item.OwnerId != t.FromUserId {
			return nil, storage.ErrOwnershipChanged
		}
	}

	for _, t := range plan.Transfers {
		item := s.items[t.ItemId]
		s.moveItem(&item, t.ToUserId)
		s.transfers[session.Id] = append(s.transfers[session.Id], t)
	}

	completedAt := s.now().UTC()
	current.Status = models.COMPLETED
	current.CompletedAt = &completedAt
	s.touch(&current)
	s.sessions[current.Id] = current
	return &current, nil
}

func (s *Store) ListTransfers(_ context.Context, sessionID string) ([]models.Transfer, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	return append([]models.Transfer(nil), s.transfers[sessionID]...), nil
}

func (s *Store) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, storage.ErrProfileNotFound
	}
	return &p, nil
}

func (s *Store) AddConnection(_ context.Context, connectionID, userID string) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	s.connections[connectionID] = models.Connection{ConnectionId: connectionID, UserId: userID, ConnectedAt: s.now().UTC()}
	return nil
}

func (s *Store) RemoveConnection(_ context.Context, connectionID string) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	delete(s.connections, connectionID)
	return nil
}

func (s *Store) GetConnectionsForUser(_ context.Context, userID string) ([]string, error) {
	s.locker.Lock()
	defer s.locker.Unlock()

	var out []string
	for id, conn := range s.connections {
		if conn.UserId == userID {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}
