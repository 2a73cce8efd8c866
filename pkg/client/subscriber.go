package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/elmo3159/Pokeseal-sub000/pkg/feed"
	"github.com/elmo3159/Pokeseal-sub000/pkg/middleware"
	"github.com/gorilla/websocket"
)

const defaultRetryDelay = time.Second

// FeedSubscriber streams a session's change feed into a Reconciler and
// resynchronises whenever the stream is interrupted.
type FeedSubscriber struct {
	BaseURL    string
	UserID     string
	Reconciler *Reconciler
	Dialer     *websocket.Dialer
	RetryDelay time.Duration
	Logger     *slog.Logger
}

// NewFeedSubscriber creates a FeedSubscriber. baseURL is the REST base URL;
// its scheme is switched to ws or wss.
func NewFeedSubscriber(baseURL, userID string, r *Reconciler) *FeedSubscriber {
	return &FeedSubscriber{
		BaseURL:    baseURL,
		UserID:     userID,
		Reconciler: r,
		Dialer:     websocket.DefaultDialer,
		RetryDelay: defaultRetryDelay,
		Logger:     slog.Default(),
	}
}

func (f *FeedSubscriber) feedURL() (string, error) {
	u, err := url.Parse(strings.TrimRight(f.BaseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("failed to parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/sessions/" + url.PathEscape(f.Reconciler.SessionID()) + "/feed"
	return u.String(), nil
}

// Run follows the feed until ctx is done or the session ends. Each
// connection is followed by a Sync, so events missed while disconnected are
// recovered from the server's truth.
func (f *FeedSubscriber) Run(ctx context.Context) error {
	target, err := f.feedURL()
	if err != nil {
		return err
	}

	for {
		err := f.follow(ctx, target)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var permanent *APIError
		if errors.As(err, &permanent) {
			return err
		}
		if f.Reconciler.State().View.Status.IsTerminal() {
			return nil
		}
		f.Logger.Warn("feed interrupted, reconnecting", "sessionId", f.Reconciler.SessionID(), "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.RetryDelay):
		}
	}
}

func (f *FeedSubscriber) follow(ctx context.Context, target string) error {
	header := http.Header{}
	header.Set(middleware.UserIDHeader, f.UserID)

	conn, resp, err := f.Dialer.DialContext(ctx, target, header)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusServiceUnavailable {
			return &APIError{Status: resp.StatusCode, Message: "feed subscription refused"}
		}
		return fmt.Errorf("failed to dial feed: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := f.Reconciler.Sync(ctx); err != nil {
		return err
	}

	for {
		var evt feed.Event
		if err := conn.ReadJSON(&evt); err != nil {
			return fmt.Errorf("failed to read feed: %w", err)
		}
		if err := evt.Validate(); err != nil {
			f.Logger.Warn("ignoring invalid feed event", "error", err)
			continue
		}
		f.Reconciler.ApplyEvent(evt)
		if evt.Kind == feed.SessionStateChanged && evt.Session.IsTerminal() {
			return nil
		}
	}
}
