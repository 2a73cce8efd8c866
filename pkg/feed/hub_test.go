package feed

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageEvent(sessionID string, n int) Event {
	return NewMessageEvent(&models.TradeMessage{Id: fmt.Sprintf("m%03d", n), SessionId: sessionID, Type: models.TEXT, Content: "hi"})
}

func TestHub(t *testing.T) {
	ctx := context.Background()

	t.Run("Delivers In Order With Sequence", func(t *testing.T) {
		hub := NewHub(16)
		sub := hub.Subscribe("s1")
		defer sub.Close()

		for i := 1; i <= 5; i++ {
			require.NoError(t, hub.Publish(ctx, messageEvent("s1", i)))
		}

		for i := 1; i <= 5; i++ {
			evt := <-sub.Events()
			assert.Equal(t, uint64(i), evt.Seq)
			assert.Equal(t, fmt.Sprintf("m%03d", i), evt.Message.Id)
		}
	})

	t.Run("Scoped To Session", func(t *testing.T) {
		hub := NewHub(16)
		sub := hub.Subscribe("s1")
		defer sub.Close()

		require.NoError(t, hub.Publish(ctx, messageEvent("s2", 1)))
		require.NoError(t, hub.Publish(ctx, messageEvent("s1", 2)))

		evt := <-sub.Events()
		assert.Equal(t, "s1", evt.SessionId)
		assert.Len(t, sub.Events(), 0)
	})

	t.Run("Drops Lagging Subscriber", func(t *testing.T) {
		hub := NewHub(2)
		dropped := 0
		hub.OnDrop = func(string) { dropped++ }
		slow := hub.Subscribe("s1")
		fast := hub.Subscribe("s1")

		for i := 1; i <= 3; i++ {
			require.NoError(t, hub.Publish(ctx, messageEvent("s1", i)))
			if i < 3 {
				<-fast.Events()
			}
		}

		assert.Equal(t, 1, dropped)
		<-slow.Events()
		<-slow.Events()
		_, open := <-slow.Events()
		assert.False(t, open)
		assert.Equal(t, 1, hub.Subscribers("s1"))
		evt := <-fast.Events()
		assert.Equal(t, uint64(3), evt.Seq)
		fast.Close()
	})

	t.Run("Close Is Idempotent", func(t *testing.T) {
		hub := NewHub(1)
		sub := hub.Subscribe("s1")

		sub.Close()
		sub.Close()

		assert.Equal(t, 0, hub.Subscribers("s1"))
	})

	t.Run("Concurrent Publishers Keep Per Session FIFO", func(t *testing.T) {
		hub := NewHub(1000)
		sub := hub.Subscribe("s1")
		defer sub.Close()

		var wg sync.WaitGroup
		for p := 0; p < 4; p++ {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					_ = hub.Publish(ctx, messageEvent("s1", p*100+i))
				}
			}(p)
		}
		wg.Wait()

		var last uint64
		for i := 0; i < 200; i++ {
			evt := <-sub.Events()
			assert.Equal(t, last+1, evt.Seq)
			last = evt.Seq
		}
	})
}

func TestEventValidate(t *testing.T) {
	session := &models.Session{Id: "s1"}

	assert.NoError(t, NewSessionEvent(session).Validate())
	assert.NoError(t, NewRequestEvent(RequestRemoved, &models.TradeRequest{SessionId: "s1"}).Validate())
	assert.NoError(t, messageEvent("s1", 1).Validate())

	bad := NewSessionEvent(session)
	bad.Message = &models.TradeMessage{}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidEvent)

	unknown := NewSessionEvent(session)
	unknown.Kind = "OTHER"
	assert.ErrorIs(t, unknown.Validate(), ErrInvalidEvent)
}

type recordingPublisher struct {
	events []Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, evt Event) error {
	r.events = append(r.events, evt)
	return r.err
}

func TestMultiPublisher(t *testing.T) {
	ok := &recordingPublisher{}
	failing := &recordingPublisher{err: fmt.Errorf("down")}

	err := MultiPublisher{failing, ok}.Publish(context.Background(), messageEvent("s1", 1))

	assert.Error(t, err)
	assert.Len(t, ok.events, 1)
	assert.Len(t, failing.events, 1)
}
