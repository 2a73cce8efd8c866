// Package trade implements the trade negotiation protocol: pairing users into
// sessions, the request ledger, dual confirmation with atomic settlement, and
// the session conversation.
package trade

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/elmo3159/Pokeseal-sub000/pkg/feed"
	"github.com/elmo3159/Pokeseal-sub000/pkg/metrics"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/notifier"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
)

// API is the set of operations the trade service offers to its callers.
type API interface {
	StartMatching(ctx context.Context, userID string) (*models.MatchResult, error)
	CancelMatching(ctx context.Context, sessionID, userID string) (*models.Session, error)
	InviteDirect(ctx context.Context, userID, partnerID string) (*models.Session, error)
	ListSessions(ctx context.Context, userID string) ([]models.Session, error)
	GetSession(ctx context.Context, sessionID, userID string) (*models.SessionView, error)
	AddRequest(ctx context.Context, sessionID, userID, itemID string) (*models.TradeRequest, error)
	RemoveRequest(ctx context.Context, sessionID, userID, itemID string) error
	SendMessage(ctx context.Context, sessionID, userID string, msgType models.MessageType, content string) (*models.TradeMessage, error)
	Confirm(ctx context.Context, sessionID, userID string) (*models.ConfirmResult, error)
	Cancel(ctx context.Context, sessionID, userID string) (*models.Session, error)
	Subscribe(ctx context.Context, sessionID, userID string) (*feed.Subscription, error)
	GetOwnedItems(ctx context.Context, userID string) ([]models.Item, error)
	UnreadSummary(ctx context.Context, userID string) (*models.UnreadSummary, error)
}

// Deps are the collaborators of the Service. Only Store is required.
type Deps struct {
	Store     storage.ApiStore
	Publisher feed.Publisher
	Hub       *feed.Hub
	Notifier  notifier.Notifier
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Options tune the protocol limits.
type Options struct {
	MaxRequestsPerSession int
	MatchCandidateLimit   int
	MaxMatchRounds        int
	Clock                 func() time.Time
}

const (
	defaultMaxRequests    = 40
	defaultCandidateLimit = 10
	defaultMatchRounds    = 3
	maxSettlementAttempts = 3
	maxCancelAttempts     = 3
	unreadConcurrency     = 8
)

// Service implements API on top of an ApiStore.
type Service struct {
	store     storage.ApiStore
	publisher feed.Publisher
	hub       *feed.Hub
	notifier  notifier.Notifier
	metrics   *metrics.Metrics
	log       *slog.Logger
	opts      Options
}

var _ API = (*Service)(nil)

// NewService creates a Service, filling unset dependencies and options with defaults.
func NewService(deps Deps, opts Options) *Service {
	if deps.Publisher == nil {
		if deps.Hub != nil {
			deps.Publisher = deps.Hub
		} else {
			deps.Publisher = feed.MultiPublisher{}
		}
	}
	if deps.Notifier == nil {
		deps.Notifier = notifier.Noop{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(nil)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if opts.MaxRequestsPerSession <= 0 {
		opts.MaxRequestsPerSession = defaultMaxRequests
	}
	if opts.MatchCandidateLimit <= 0 {
		opts.MatchCandidateLimit = defaultCandidateLimit
	}
	if opts.MaxMatchRounds <= 0 {
		opts.MaxMatchRounds = defaultMatchRounds
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Service{
		store:     deps.Store,
		publisher: deps.Publisher,
		hub:       deps.Hub,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		log:       deps.Logger,
		opts:      opts,
	}
}

func (s *Service) now() time.Time {
	return s.opts.Clock().UTC()
}

func (s *Service) loadSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, transient("get session", err)
	}
	return session, nil
}

// participantSession loads a session and resolves the caller's side.
func (s *Service) participantSession(ctx context.Context, sessionID, userID string) (*models.Session, models.Side, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	side, ok := session.SideOf(userID)
	if !ok {
		return nil, "", ErrInvalidParticipant
	}
	return session, side, nil
}

func requireNegotiating(session *models.Session) error {
	switch {
	case session.IsTerminal():
		return ErrSessionClosed
	case session.Status != models.NEGOTIATING:
		return ErrSessionNotNegotiating
	}
	return nil
}

// explainConflict re-reads a session after a guarded write on it failed and
// reports the precondition that no longer holds.
func (s *Service) explainConflict(ctx context.Context, sessionID string, side models.Side, cause error) error {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := requireNegotiating(session); err != nil {
		return err
	}
	if session.ConfirmedOn(side) {
		return ErrConfirmationLocked
	}
	return transient("write session", cause)
}

// publish delivers an event to the session's participants. Feed failures
// never fail the operation that produced the event.
func (s *Service) publish(ctx context.Context, evt feed.Event, session *models.Session) {
	evt.Audience = session.Participants()
	s.metrics.FeedEvents.WithLabelValues(string(evt.Kind)).Inc()
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Warn("failed to publish feed event", "sessionId", evt.SessionId, "kind", evt.Kind, "error", err)
	}
}

func (s *Service) publishSession(ctx context.Context, session *models.Session) {
	s.publish(ctx, feed.NewSessionEvent(session), session)
}

// notify is fire-and-forget.
func (s *Service) notify(ctx context.Context, userID string, kind models.NotificationKind, session *models.Session, actorID string) {
	if userID == "" {
		return
	}
	n := models.Notification{
		UserId:    userID,
		Kind:      kind,
		SessionId: session.Id,
		ActorId:   actorID,
		CreatedAt: s.now(),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Warn("failed to notify user", "userId", userID, "kind", kind, "error", err)
	}
}

func (s *Service) transitioned(session *models.Session) {
	s.metrics.Transitions.WithLabelValues(string(session.Status)).Inc()
}
