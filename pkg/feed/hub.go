package feed

import (
	"context"
	"log/slog"
	"sync"
)

const defaultBuffer = 64

// Hub fans events out to in-process subscribers of a session. Publishing
// holds the lock, so every subscriber sees a session's events in the order
// they were published, numbered by a per-session sequence. The sequence
// restarts once a session has no subscribers left.
type Hub struct {
	mu     sync.Mutex
	buffer int
	seq    map[string]uint64
	subs   map[string]map[*Subscription]struct{}

	// OnDrop is called when a lagging subscriber is disconnected.
	OnDrop func(sessionID string)
}

// NewHub creates a Hub whose subscriptions buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		buffer: buffer,
		seq:    map[string]uint64{},
		subs:   map[string]map[*Subscription]struct{}{},
	}
}

// Subscription receives the events of one session until it is closed.
type Subscription struct {
	SessionID string

	hub    *Hub
	ch     chan Event
	closed bool
}

// Events returns the delivery channel. It is closed when the subscription
// ends, including when the hub drops a subscriber that fell behind; the
// receiver should then resynchronise from a fresh read.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close ends the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	s.hub.remove(s)
}

// Subscribe registers a subscriber for a session.
func (h *Hub) Subscribe(sessionID string) *Subscription {
	sub := &Subscription{SessionID: sessionID, hub: h, ch: make(chan Event, h.buffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = map[*Subscription]struct{}{}
	}
	h.subs[sessionID][sub] = struct{}{}
	return sub
}

// Publish delivers evt to every subscriber of its session without blocking.
// A subscriber whose buffer is full is disconnected rather than silently
// skipping an event.
func (h *Hub) Publish(_ context.Context, evt Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subs[evt.SessionId]
	if len(subs) == 0 {
		return nil
	}
	h.seq[evt.SessionId]++
	evt.Seq = h.seq[evt.SessionId]

	for sub := range subs {
		select {
		case sub.ch <- evt:
		default:
			slog.Warn("dropping lagging feed subscriber", "sessionId", evt.SessionId)
			h.remove(sub)
			if h.OnDrop != nil {
				h.OnDrop(evt.SessionId)
			}
		}
	}
	return nil
}

// Subscribers returns the number of live subscribers of a session.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[sessionID])
}

// remove must be called with h.mu held.
func (h *Hub) remove(sub *Subscription) {
	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.ch)
	delete(h.subs[sub.SessionID], sub)
	if len(h.subs[sub.SessionID]) == 0 {
		delete(h.subs, sub.SessionID)
		delete(h.seq, sub.SessionID)
	}
}
