package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		session := f.invite(t, "alice", "bob")
		_, err := f.svc.AddRequest(ctx, session.Id, "alice", "bob-1")
		require.NoError(t, err)
		_, err = f.svc.AddRequest(ctx, session.Id, "bob", "alice-1")
		require.NoError(t, err)
		_, err = f.svc.SendMessage(ctx, session.Id, "bob", models.STAMP, "thanks")
		require.NoError(t, err)
		_, err = f.svc.Confirm(ctx, session.Id, "bob")
		require.NoError(t, err)

		view, err := f.svc.GetSession(ctx, session.Id, "alice")

		require.NoError(t, err)
		assert.Equal(t, models.SideA, view.MySide)
		assert.False(t, view.MyConfirmed)
		assert.True(t, view.PartnerConfirmed)
		assert.True(t, view.Paired)
		require.NotNil(t, view.Partner)
		assert.Equal(t, "Bob", view.Partner.Name)
		require.Len(t, view.MyRequests, 1)
		assert.Equal(t, "bob-1", view.MyRequests[0].TargetItemId)
		require.Len(t, view.PartnerRequests, 1)
		assert.Equal(t, "alice-1", view.PartnerRequests[0].TargetItemId)
		assert.Len(t, view.Messages, 2)
		assert.Equal(t, 2, view.UnreadCount)
	})

	t.Run("Fetching Marks Messages Read", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		session := f.invite(t, "alice", "bob")
		_, err := f.svc.SendMessage(ctx, session.Id, "bob", models.TEXT, "hi")
		require.NoError(t, err)

		first, err := f.svc.GetSession(ctx, session.Id, "alice")
		require.NoError(t, err)
		again, err := f.svc.GetSession(ctx, session.Id, "alice")
		require.NoError(t, err)
		own, err := f.svc.GetSession(ctx, session.Id, "bob")
		require.NoError(t, err)

		assert.Equal(t, 1, first.UnreadCount)
		assert.Zero(t, again.UnreadCount)
		assert.Zero(t, own.UnreadCount, "own messages are never unread")

		_, err = f.svc.SendMessage(ctx, session.Id, "alice", models.STAMP, "ok")
		require.NoError(t, err)
		_, err = f.svc.SendMessage(ctx, session.Id, "bob", models.STAMP, "thanks")
		require.NoError(t, err)

		view, err := f.svc.GetSession(ctx, session.Id, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, view.UnreadCount)
		assert.Len(t, view.Messages, 3)
	})

	t.Run("Partner Without Profile", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		session := f.invite(t, "bob", "carol")

		view, err := f.svc.GetSession(ctx, session.Id, "bob")

		require.NoError(t, err)
		require.NotNil(t, view.Partner)
		assert.Equal(t, "carol", view.Partner.UserId)
		assert.Empty(t, view.Partner.Name)
	})

	t.Run("Waiting Session Hides Partner", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		session := f.waiting(t, "alice")

		view, err := f.svc.GetSession(ctx, session.Id, "alice")

		require.NoError(t, err)
		assert.False(t, view.Paired)
		assert.Nil(t, view.Partner)
		assert.NotNil(t, view.MyRequests)
		assert.NotNil(t, view.Messages)
	})

	t.Run("Not A Participant", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		session := f.invite(t, "alice", "bob")

		_, err := f.svc.GetSession(ctx, session.Id, "carol")

		assert.ErrorIs(t, err, ErrInvalidParticipant)
	})
}

// failingMessagesStore fails every conversation read.
type failingMessagesStore struct {
	*memory.Store
}

func (s *failingMessagesStore) ListMessages(context.Context, string) ([]models.TradeMessage, error) {
	return nil, errors.New("read timeout")
}

func TestUnreadSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("Counts Active Sessions", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		withBob := f.invite(t, "alice", "bob")
		withCarol := f.invite(t, "carol", "alice")
		closed := f.invite(t, "alice", "dave")
		_, err := f.svc.SendMessage(ctx, withBob.Id, "bob", models.TEXT, "hi")
		require.NoError(t, err)
		_, err = f.svc.SendMessage(ctx, withBob.Id, "bob", models.STAMP, "please")
		require.NoError(t, err)
		_, err = f.svc.SendMessage(ctx, withBob.Id, "alice", models.STAMP, "ok")
		require.NoError(t, err)
		_, err = f.svc.SendMessage(ctx, withCarol.Id, "carol", models.STAMP, "cute")
		require.NoError(t, err)
		_, err = f.svc.SendMessage(ctx, closed.Id, "dave", models.TEXT, "bye")
		require.NoError(t, err)
		_, err = f.svc.Cancel(ctx, closed.Id, "dave")
		require.NoError(t, err)
		f.waiting(t, "alice")

		summary, err := f.svc.UnreadSummary(ctx, "alice")

		require.NoError(t, err)
		assert.Equal(t, 3, summary.Total)
		assert.Equal(t, map[string]int{withBob.Id: 2, withCarol.Id: 1}, summary.Sessions)

		_, err = f.svc.GetSession(ctx, withBob.Id, "alice")
		require.NoError(t, err)

		summary, err = f.svc.UnreadSummary(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Total)
		assert.Equal(t, map[string]int{withCarol.Id: 1}, summary.Sessions)
	})

	t.Run("Nothing Unread", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})

		summary, err := f.svc.UnreadSummary(ctx, "alice")

		require.NoError(t, err)
		assert.Zero(t, summary.Total)
		assert.NotNil(t, summary.Sessions)
	})

	t.Run("Invalid User", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})

		_, err := f.svc.UnreadSummary(ctx, "")

		assert.ErrorIs(t, err, ErrInvalidParticipant)
	})

	t.Run("Store Failure", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		f.invite(t, "alice", "bob")
		svc := NewService(Deps{Store: &failingMessagesStore{Store: f.store}}, Options{})

		_, err := svc.UnreadSummary(ctx, "alice")

		assert.ErrorIs(t, err, ErrTransientStore)
	})
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		session := f.invite(t, "alice", "bob")

		sub, err := f.svc.Subscribe(ctx, session.Id, "bob")

		require.NoError(t, err)
		defer sub.Close()
		assert.Equal(t, 1, f.hub.Subscribers(session.Id))
	})

	t.Run("Not A Participant", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		session := f.invite(t, "alice", "bob")

		_, err := f.svc.Subscribe(ctx, session.Id, "carol")

		assert.ErrorIs(t, err, ErrInvalidParticipant)
	})

	t.Run("No Hub", func(t *testing.T) {
		svc := NewService(Deps{Store: memory.New()}, Options{})

		_, err := svc.Subscribe(ctx, "s1", "alice")

		assert.ErrorIs(t, err, ErrFeedUnavailable)
	})
}

func TestGetOwnedItems(t *testing.T) {
	f := newFixture(t, Deps{}, Options{})

	items, err := f.svc.GetOwnedItems(context.Background(), "bob")

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "bob-1", items[0].Id)

	none, err := f.svc.GetOwnedItems(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
}
