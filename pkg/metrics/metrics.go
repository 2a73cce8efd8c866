// Package metrics holds the Prometheus collectors for the trade service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trade"

type Metrics struct {
	SessionsCreated    *prometheus.CounterVec
	Transitions        *prometheus.CounterVec
	ClaimConflicts     prometheus.Counter
	Settlements        *prometheus.CounterVec
	SkippedTransfers   prometheus.Counter
	FeedEvents         *prometheus.CounterVec
	DroppedSubscribers prometheus.Counter
}

// New registers the collectors with reg. A nil reg creates unregistered
// collectors, which is convenient in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SessionsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Sessions created, by origin.",
		}, []string{"origin"}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_transitions_total",
			Help:      "Session status transitions, by target status.",
		}, []string{"status"}),
		ClaimConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claim_conflicts_total",
			Help:      "Waiting sessions lost to a concurrent claimer.",
		}),
		Settlements: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_total",
			Help:      "Settlement attempts, by outcome.",
		}, []string{"outcome"}),
		SkippedTransfers: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_transfers_total",
			Help:      "Requested items skipped at settlement because ownership changed.",
		}),
		FeedEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_events_total",
			Help:      "Feed events published, by kind.",
		}, []string{"kind"}),
		DroppedSubscribers: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_dropped_subscribers_total",
			Help:      "Feed subscribers disconnected for lagging.",
		}),
	}
}
