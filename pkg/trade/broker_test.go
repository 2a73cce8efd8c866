package trade

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/notifier/mocks"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage"
	"github.com/elmo3159/Pokeseal-sub000/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// lossyStore loses every claim on the listed sessions.
type lossyStore struct {
	*memory.Store
	lose map[string]bool
}

func (s *lossyStore) ClaimSession(ctx context.Context, sessionID, userID string) (*models.Session, error) {
	if s.lose[sessionID] {
		return nil, storage.ErrClaimLost
	}
	return s.Store.ClaimSession(ctx, sessionID, userID)
}

// laggingStore hides the waiting pool while hidden is set, like an index
// that has not caught up yet.
type laggingStore struct {
	*memory.Store
	hidden bool
}

func (s *laggingStore) ListWaitingSessions(ctx context.Context, excludeUserID string, limit int) ([]models.Session, error) {
	if s.hidden {
		return nil, nil
	}
	return s.Store.ListWaitingSessions(ctx, excludeUserID, limit)
}

func TestStartMatching(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates Waiting Session", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})

		result, err := f.svc.StartMatching(ctx, "alice")

		require.NoError(t, err)
		assert.False(t, result.Matched)
		assert.Equal(t, models.WAITING, result.Session.Status)
		assert.Equal(t, "alice", result.Session.ParticipantA)
		assert.Empty(t, result.Session.ParticipantB)
		assert.Equal(t, models.RANDOM, result.Session.Origin)
	})

	t.Run("Returns Existing Waiting Session", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})

		first, err := f.svc.StartMatching(ctx, "alice")
		require.NoError(t, err)
		second, err := f.svc.StartMatching(ctx, "alice")
		require.NoError(t, err)

		assert.Equal(t, first.Session.Id, second.Session.Id)
		sessions, _ := f.store.ListSessionsByParticipant(ctx, "alice")
		assert.Len(t, sessions, 1)
	})

	t.Run("Claims Oldest Waiting Session", func(t *testing.T) {
		mockNotifier := new(mocks.Notifier)
		mockNotifier.On("Notify", mock.Anything, mock.Anything).Return(nil)
		f := newFixture(t, Deps{Notifier: mockNotifier}, Options{})

		alice := f.waiting(t, "alice")
		f.clock.Advance(time.Second)
		f.waiting(t, "carol")

		result, err := f.svc.StartMatching(ctx, "bob")

		require.NoError(t, err)
		assert.True(t, result.Matched)
		assert.Equal(t, alice.Id, result.Session.Id)
		assert.Equal(t, models.NEGOTIATING, result.Session.Status)
		assert.Equal(t, "bob", result.Session.ParticipantB)
		mockNotifier.AssertCalled(t, "Notify", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
			return n.UserId == "alice" && n.Kind == models.NotifyMatched && n.ActorId == "bob"
		}))
	})

	t.Run("Lost Claim Tries Next Candidate", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		alice := f.waiting(t, "alice")
		carol := f.waiting(t, "carol")
		store := &lossyStore{Store: f.store, lose: map[string]bool{alice.Id: true}}
		f.svc = NewService(Deps{Store: store, Hub: f.hub}, Options{Clock: f.clock.Now})

		result, err := f.svc.StartMatching(ctx, "bob")

		require.NoError(t, err)
		assert.True(t, result.Matched)
		assert.Equal(t, carol.Id, result.Session.Id)
	})

	t.Run("Seekers That Missed Each Other Pair On Retry", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		store := &laggingStore{Store: f.store, hidden: true}
		f.svc = NewService(Deps{Store: store, Hub: f.hub}, Options{Clock: f.clock.Now})

		alice, err := f.svc.StartMatching(ctx, "alice")
		require.NoError(t, err)
		f.clock.Advance(time.Second)
		bob, err := f.svc.StartMatching(ctx, "bob")
		require.NoError(t, err)
		require.False(t, alice.Matched)
		require.False(t, bob.Matched)
		require.NotEqual(t, alice.Session.Id, bob.Session.Id)

		store.hidden = false
		result, err := f.svc.StartMatching(ctx, "alice")

		require.NoError(t, err)
		assert.True(t, result.Matched)
		assert.Equal(t, bob.Session.Id, result.Session.Id)
		assert.ElementsMatch(t, []string{"alice", "bob"}, result.Session.Participants())

		withdrawn, err := f.store.GetSession(ctx, alice.Session.Id)
		require.NoError(t, err)
		assert.Equal(t, models.CANCELLED, withdrawn.Status)
		assert.Equal(t, models.CancelReasonSuperseded, withdrawn.CancelReason)

		again, err := f.svc.StartMatching(ctx, "bob")
		require.NoError(t, err)
		assert.False(t, again.Matched)
		assert.NotEqual(t, bob.Session.Id, again.Session.Id, "bob is no longer waiting in the paired session")
	})

	t.Run("Invalid User", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})

		_, err := f.svc.StartMatching(ctx, "")

		assert.ErrorIs(t, err, ErrInvalidParticipant)
	})

	t.Run("Concurrent Seekers Pair Exactly Once", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			f := newFixture(t, Deps{}, Options{})

			var wg sync.WaitGroup
			results := make([]*models.MatchResult, 2)
			errs := make([]error, 2)
			for n, user := range []string{"alice", "bob"} {
				wg.Add(1)
				go func(n int, user string) {
					defer wg.Done()
					results[n], errs[n] = f.svc.StartMatching(ctx, user)
				}(n, user)
			}
			wg.Wait()
			require.NoError(t, errs[0])
			require.NoError(t, errs[1])

			sessions, err := f.store.ListSessionsByParticipant(ctx, "alice")
			require.NoError(t, err)
			more, err := f.store.ListSessionsByParticipant(ctx, "bob")
			require.NoError(t, err)
			sessions = append(sessions, more...)

			paired := map[string]bool{}
			for _, session := range sessions {
				assert.NotEqual(t, models.WAITING, session.Status, "no seeker is left waiting")
				if session.Status == models.NEGOTIATING {
					paired[session.Id] = true
					assert.ElementsMatch(t, []string{"alice", "bob"}, session.Participants())
				}
			}
			assert.Len(t, paired, 1)
			assert.True(t, results[0].Matched || results[1].Matched)
		}
	})
}

func TestCancelMatching(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		waiting, err := f.svc.StartMatching(ctx, "alice")
		require.NoError(t, err)

		cancelled, err := f.svc.CancelMatching(ctx, waiting.Session.Id, "alice")

		require.NoError(t, err)
		assert.Equal(t, models.CANCELLED, cancelled.Status)
		assert.Equal(t, models.CancelReasonUser, cancelled.CancelReason)

		result, err := f.svc.StartMatching(ctx, "bob")
		require.NoError(t, err)
		assert.False(t, result.Matched)
	})

	t.Run("Not Creator", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		waiting, err := f.svc.StartMatching(ctx, "alice")
		require.NoError(t, err)

		_, err = f.svc.CancelMatching(ctx, waiting.Session.Id, "bob")

		assert.ErrorIs(t, err, ErrInvalidParticipant)
	})

	t.Run("Already Paired Is No-op", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		waiting, err := f.svc.StartMatching(ctx, "alice")
		require.NoError(t, err)
		_, err = f.svc.StartMatching(ctx, "bob")
		require.NoError(t, err)

		session, err := f.svc.CancelMatching(ctx, waiting.Session.Id, "alice")

		require.NoError(t, err)
		assert.Equal(t, models.NEGOTIATING, session.Status)
	})

	t.Run("Already Cancelled", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		waiting, err := f.svc.StartMatching(ctx, "alice")
		require.NoError(t, err)
		_, err = f.svc.CancelMatching(ctx, waiting.Session.Id, "alice")
		require.NoError(t, err)

		_, err = f.svc.CancelMatching(ctx, waiting.Session.Id, "alice")

		assert.ErrorIs(t, err, ErrSessionClosed)
	})

	t.Run("Not Found", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})

		_, err := f.svc.CancelMatching(ctx, "missing", "alice")

		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestInviteDirect(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockNotifier := new(mocks.Notifier)
		mockNotifier.On("Notify", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
			return n.UserId == "bob" && n.Kind == models.NotifyInvited && n.ActorId == "alice"
		})).Return(nil).Once()
		f := newFixture(t, Deps{Notifier: mockNotifier}, Options{})

		session, err := f.svc.InviteDirect(ctx, "alice", "bob")

		require.NoError(t, err)
		assert.Equal(t, models.NEGOTIATING, session.Status)
		assert.Equal(t, models.INVITE, session.Origin)
		assert.Equal(t, "alice", session.ParticipantA)
		assert.Equal(t, "bob", session.ParticipantB)
		mockNotifier.AssertExpectations(t)
	})

	t.Run("Self Invite", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})

		_, err := f.svc.InviteDirect(ctx, "alice", "alice")

		assert.ErrorIs(t, err, ErrInvalidParticipant)
	})

	t.Run("Returns Active Session Between Pair", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		first := f.invite(t, "alice", "bob")

		again, err := f.svc.InviteDirect(ctx, "bob", "alice")

		require.NoError(t, err)
		assert.Equal(t, first.Id, again.Id)
	})

	t.Run("New Session After Cancel", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		first := f.invite(t, "alice", "bob")
		_, err := f.svc.Cancel(ctx, first.Id, "bob")
		require.NoError(t, err)

		again, err := f.svc.InviteDirect(ctx, "alice", "bob")

		require.NoError(t, err)
		assert.NotEqual(t, first.Id, again.Id)
	})
}

func TestListSessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Deps{}, Options{})
	older := f.invite(t, "alice", "bob")
	f.clock.Advance(time.Minute)
	newer := f.invite(t, "carol", "alice")

	sessions, err := f.svc.ListSessions(ctx, "alice")

	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, newer.Id, sessions[0].Id)
	assert.Equal(t, older.Id, sessions[1].Id)
}

func TestExpireWaitingSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})
		stale := f.waiting(t, "alice")
		f.clock.Advance(20 * time.Minute)
		fresh := f.waiting(t, "carol")

		expired, err := f.svc.ExpireWaitingSessions(ctx, 15*time.Minute, 10)

		require.NoError(t, err)
		assert.Equal(t, 1, expired)
		session, _ := f.store.GetSession(ctx, stale.Id)
		assert.Equal(t, models.CANCELLED, session.Status)
		assert.Equal(t, models.CancelReasonExpired, session.CancelReason)
		session, _ = f.store.GetSession(ctx, fresh.Id)
		assert.Equal(t, models.WAITING, session.Status)
	})

	t.Run("Invalid Age", func(t *testing.T) {
		f := newFixture(t, Deps{}, Options{})

		_, err := f.svc.ExpireWaitingSessions(ctx, 0, 10)

		assert.Error(t, err)
	})
}
