// Package notifier delivers trade notifications to users outside the
// session feed, for example to wake a client that is not subscribed.
package notifier

import (
	"context"

	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
)

// Notifier defines the interface for a component that delivers a notification.
type Notifier interface {
	// Notify enqueues n for asynchronous delivery.
	Notify(ctx context.Context, n models.Notification) error
}

// Noop discards every notification.
type Noop struct{}

var _ Notifier = Noop{}

func (Noop) Notify(context.Context, models.Notification) error { return nil }
