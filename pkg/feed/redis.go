package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultChannelPrefix namespaces the per-session Redis channels.
const DefaultChannelPrefix = "trade:feed:"

// RedisPublisher publishes events to a per-session Redis channel so every
// API instance can relay them to its own subscribers.
type RedisPublisher struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisPublisher creates a RedisPublisher.
func NewRedisPublisher(client redis.UniversalClient, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &RedisPublisher{client: client, prefix: prefix}
}

var _ Publisher = (*RedisPublisher)(nil)

func (p *RedisPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, p.prefix+evt.SessionId, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event to redis: %w", err)
	}
	return nil
}

// RedisRelay forwards events from Redis into a local Hub.
type RedisRelay struct {
	client redis.UniversalClient
	prefix string
	local  Publisher
	pubsub *redis.PubSub
	done   chan struct{}
}

// NewRedisRelay creates a relay that republishes into local.
func NewRedisRelay(client redis.UniversalClient, prefix string, local Publisher) *RedisRelay {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &RedisRelay{client: client, prefix: prefix, local: local, done: make(chan struct{})}
}

// Start subscribes to every session channel and returns once the
// subscription is confirmed. Events are relayed until ctx is done or Close
// is called.
func (r *RedisRelay) Start(ctx context.Context) error {
	r.pubsub = r.client.PSubscribe(ctx, r.prefix+"*")
	if _, err := r.pubsub.Receive(ctx); err != nil {
		r.pubsub.Close()
		return fmt.Errorf("failed to subscribe to redis feed: %w", err)
	}

	go func() {
		defer close(r.done)
		ch := r.pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				r.relay(ctx, msg.Payload)
			}
		}
	}()
	return nil
}

func (r *RedisRelay) relay(ctx context.Context, payload string) {
	var evt Event
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		slog.Error("failed to decode relayed event", "error", err)
		return
	}
	if err := evt.Validate(); err != nil {
		slog.Error("dropping invalid relayed event", "error", err)
		return
	}
	if err := r.local.Publish(ctx, evt); err != nil {
		slog.Error("failed to relay event", "sessionId", evt.SessionId, "error", err)
	}
}

// Close stops the relay and waits for it to exit.
func (r *RedisRelay) Close() error {
	if r.pubsub == nil {
		return nil
	}
	err := r.pubsub.Close()
	<-r.done
	return err
}
