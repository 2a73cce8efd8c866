// Package feed publishes session mutations to the participants of a session.
// Delivery is at-least-once and ordered per session; subscribers must
// tolerate duplicates and treat GetSession as the source of truth.
package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/oklog/ulid/v2"
)

// EventKind tags the payload carried by an Event.
type EventKind string

const (
	SessionStateChanged EventKind = "SESSION_STATE_CHANGED"
	RequestAdded        EventKind = "REQUEST_ADDED"
	RequestRemoved      EventKind = "REQUEST_REMOVED"
	MessagePosted       EventKind = "MESSAGE_POSTED"
)

// Event is a tagged union: exactly one of Session, Request or Message is
// set, according to Kind. Each carries the full updated sub-resource.
type Event struct {
	Id        string               `json:"id"`
	Kind      EventKind            `json:"kind"`
	SessionId string               `json:"session_id"`
	Seq       uint64               `json:"seq"`
	At        time.Time            `json:"at"`
	Session   *models.Session      `json:"session,omitempty"`
	Request   *models.TradeRequest `json:"request,omitempty"`
	Message   *models.TradeMessage `json:"message,omitempty"`

	// Audience lists the users the event is addressed to.
	Audience []string `json:"-"`
}

var ErrInvalidEvent = errors.New("invalid feed event")

func newEvent(kind EventKind, sessionID string) Event {
	return Event{
		Id:        ulid.Make().String(),
		Kind:      kind,
		SessionId: sessionID,
		At:        time.Now().UTC(),
	}
}

// NewSessionEvent announces a session state change.
func NewSessionEvent(session *models.Session) Event {
	evt := newEvent(SessionStateChanged, session.Id)
	s := *session
	evt.Session = &s
	return evt
}

// NewRequestEvent announces a ledger change. kind is RequestAdded or RequestRemoved.
func NewRequestEvent(kind EventKind, req *models.TradeRequest) Event {
	evt := newEvent(kind, req.SessionId)
	r := *req
	evt.Request = &r
	return evt
}

// NewMessageEvent announces a new conversation entry.
func NewMessageEvent(msg *models.TradeMessage) Event {
	evt := newEvent(MessagePosted, msg.SessionId)
	m := *msg
	evt.Message = &m
	return evt
}

// Validate checks that the payload matches the kind.
func (e Event) Validate() error {
	if e.Id == "" || e.SessionId == "" {
		return fmt.Errorf("%w: missing id or session id", ErrInvalidEvent)
	}
	var ok bool
	switch e.Kind {
	case SessionStateChanged:
		ok = e.Session != nil && e.Request == nil && e.Message == nil
	case RequestAdded, RequestRemoved:
		ok = e.Request != nil && e.Session == nil && e.Message == nil
	case MessagePosted:
		ok = e.Message != nil && e.Session == nil && e.Request == nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, e.Kind)
	}
	if !ok {
		return fmt.Errorf("%w: payload does not match kind %s", ErrInvalidEvent, e.Kind)
	}
	return nil
}

// Publisher defines the interface for publishing session events.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// MultiPublisher publishes to every publisher in order and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, evt Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
