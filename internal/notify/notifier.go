// Package notify delivers best-effort rate limit warnings over direct
// messages. Delivery is guarded by a circuit breaker so a burst of failing
// sends (users with DMs disabled, platform outages) stops consuming API
// budget; failures are logged and swallowed, never escalated.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/The-Expanse-Discord/Protomolecule/internal/domain"
	"github.com/The-Expanse-Discord/Protomolecule/internal/metrics"
	"github.com/sony/gobreaker"
)

// Notifier sends rate limit warnings through a DirectMessenger.
type Notifier struct {
	dm      domain.DirectMessenger
	breaker *gobreaker.CircuitBreaker
}

// New creates a notifier. The breaker opens after five consecutive send
// failures and probes again after a minute.
func New(dm domain.DirectMessenger) *Notifier {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "direct-messages",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Direct message breaker state change", "from", from.String(), "to", to.String())
		},
	})
	return &Notifier{dm: dm, breaker: breaker}
}

// WarnRateLimited tells a user how long to wait before changing more roles.
// Intended to be called in its own goroutine; it never returns an error.
func (n *Notifier) WarnRateLimited(ctx context.Context, userID string, wait time.Duration) {
	seconds := int64(wait.Round(time.Second) / time.Second)
	content := fmt.Sprintf("Roles are being changed too quickly, please wait %d seconds before setting more roles.", seconds)

	_, err := n.breaker.Execute(func() (any, error) {
		return nil, n.dm.SendDirectMessage(ctx, userID, content)
	})
	if err != nil {
		metrics.RateLimitNotificationsTotal.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "Failed to send rate limit warning", "user_id", userID, "error", err)
		return
	}
	metrics.RateLimitNotificationsTotal.WithLabelValues("ok").Inc()
}
