package trade

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/elmo3159/Pokeseal-sub000/pkg/feed"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage/memory"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store *memory.Store
	hub   *feed.Hub
	clock *testClock
	svc   *Service
}

func seedItems() []models.Item {
	return []models.Item{
		{Id: "alice-1", OwnerId: "alice", StickerId: "st-1", Placement: "page1:3"},
		{Id: "alice-2", OwnerId: "alice", StickerId: "st-2"},
		{Id: "bob-1", OwnerId: "bob", StickerId: "st-3", Placement: "page2:1"},
		{Id: "bob-2", OwnerId: "bob", StickerId: "st-4"},
		{Id: "carol-1", OwnerId: "carol", StickerId: "st-5"},
	}
}

func seedProfiles() []models.Profile {
	return []models.Profile{
		{UserId: "alice", Name: "Alice"},
		{UserId: "bob", Name: "Bob", Avatar: "bob.png"},
	}
}

// newFixture builds a Service over a seeded memory store. deps may override
// the collaborators; the store is always the fixture's unless deps.Store is set.
func newFixture(t *testing.T, deps Deps, opts Options) *fixture {
	t.Helper()
	store := memory.New()
	store.Seed(seedItems(), seedProfiles())

	f := &fixture{store: store, hub: feed.NewHub(64), clock: newTestClock()}
	if deps.Store == nil {
		deps.Store = store
	}
	if deps.Hub == nil {
		deps.Hub = f.hub
	} else {
		f.hub = deps.Hub
	}
	if opts.Clock == nil {
		opts.Clock = f.clock.Now
	}
	f.svc = NewService(deps, opts)
	return f
}

func (f *fixture) invite(t *testing.T, from, to string) *models.Session {
	t.Helper()
	session, err := f.svc.InviteDirect(context.Background(), from, to)
	require.NoError(t, err)
	return session
}

// drain returns the events buffered on a subscription.
func drain(sub *feed.Subscription) []feed.Event {
	var events []feed.Event
	for {
		select {
		case evt, ok := <-sub.Events():
			if !ok {
				return events
			}
			events = append(events, evt)
		default:
			return events
		}
	}
}

func kinds(events []feed.Event) []feed.EventKind {
	out := make([]feed.EventKind, len(events))
	for i, evt := range events {
		out[i] = evt.Kind
	}
	return out
}

// waiting puts a waiting session of userID straight into the store.
func (f *fixture) waiting(t *testing.T, userID string) *models.Session {
	t.Helper()
	now := f.clock.Now()
	session := &models.Session{
		Id:           "waiting-" + userID,
		ParticipantA: userID,
		Origin:       models.RANDOM,
		Status:       models.WAITING,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.store.CreateSession(context.Background(), session))
	return session
}
