package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reaction pipeline metrics
var (
	// ReactionEventsTotal counts gateway reaction events by action
	// (add/remove) and terminal outcome of the state machine.
	ReactionEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaction_events_total",
			Help: "Reaction events by action and terminal outcome",
		},
		[]string{"action", "outcome"},
	)

	// RoleMutationsTotal counts role add/remove calls issued to the platform.
	RoleMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "role_mutations_total",
			Help: "Role mutations issued by direction and status",
		},
		[]string{"direction", "status"},
	)

	// RateLimitDenialsTotal counts events stopped at the rate check.
	RateLimitDenialsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limit_denials_total",
			Help: "Reaction events denied by the per-user token bucket",
		},
	)

	// RateLimitNotificationsTotal counts rate-limit warning DMs by status.
	RateLimitNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_notifications_total",
			Help: "Rate limit warning messages by delivery status",
		},
		[]string{"status"},
	)

	// RateLimitBuckets tracks the size of the limiter's bucket map. The map
	// is never evicted, so this gauge only grows within a process lifetime.
	RateLimitBuckets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limit_buckets",
			Help: "Distinct users currently tracked by the rate limiter",
		},
	)
)

// Bootstrap metrics
var (
	// BootstrapEmbedsCreatedTotal counts category embeds created because no
	// existing message carried the expected title.
	BootstrapEmbedsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bootstrap_embeds_created_total",
			Help: "Role assignment embeds created during bootstrap",
		},
	)

	// BootstrapReactionsAddedTotal counts seed reactions added during bootstrap.
	BootstrapReactionsAddedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bootstrap_reactions_added_total",
			Help: "Seed reactions added to role assignment messages during bootstrap",
		},
	)
)
