// Package roles implements the reaction-driven role assignment engine: a
// read-only registry of tracked messages built at startup, a coordinator
// that turns reaction events into idempotent role mutations, and the
// bootstrap protocol that seeds the role assignment embeds.
package roles

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/The-Expanse-Discord/Protomolecule/internal/domain"
	"github.com/The-Expanse-Discord/Protomolecule/internal/metrics"
	"github.com/The-Expanse-Discord/Protomolecule/internal/ratelimit"
)

// costPerRoleChange is the token cost of one role mutation. With a
// one-second refill interval this amounts to one second per role change.
const costPerRoleChange = 1

// Notifier delivers best-effort rate limit warnings to users.
type Notifier interface {
	WarnRateLimited(ctx context.Context, userID string, wait time.Duration)
}

// Coordinator consumes reaction events and issues role mutations. Every
// event terminates in exactly one outcome; no failure escapes the per-event
// boundary or affects the gateway's liveness.
type Coordinator struct {
	chat     domain.ChatService
	registry *Registry
	limiter  *ratelimit.Limiter
	notifier Notifier
	ready    atomic.Bool
}

// NewCoordinator wires the engine together. The registry must already be
// populated by Bootstrap before events arrive.
func NewCoordinator(chat domain.ChatService, registry *Registry, limiter *ratelimit.Limiter, notifier Notifier) *Coordinator {
	return &Coordinator{
		chat:     chat,
		registry: registry,
		limiter:  limiter,
		notifier: notifier,
	}
}

// SetReady flips the ready gate. Events delivered before the gateway has
// reached a ready state are discarded.
func (c *Coordinator) SetReady(ready bool) {
	c.ready.Store(ready)
}

// Ready reports whether the coordinator is accepting events.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// HandleReaction runs one reaction event through the state machine. It never
// returns an error: configuration problems cannot occur here, and transient
// platform failures are logged and swallowed.
func (c *Coordinator) HandleReaction(ctx context.Context, ev domain.ReactionEvent) {
	action := ev.Direction.String()
	finish := func(outcome string) {
		metrics.ReactionEventsTotal.WithLabelValues(action, outcome).Inc()
	}

	log := slog.With(
		"guild_id", ev.GuildID,
		"user_id", ev.UserID,
		"emoji", ev.EmojiName,
		"action", action,
	)

	if !c.ready.Load() {
		finish("not_ready")
		return
	}

	user, err := c.chat.User(ctx, ev.UserID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch reacting user", "error", err)
		finish("error")
		return
	}
	if user.Bot {
		finish("bot")
		return
	}

	if !c.registry.IsTracked(ev.GuildID, ev.MessageID) {
		finish("untracked")
		return
	}

	if !c.limiter.TryRemoveTokens(ev.UserID, costPerRoleChange) {
		metrics.RateLimitDenialsTotal.Inc()
		wait := time.Duration(c.limiter.IntervalsUntil(ev.UserID, costPerRoleChange)) * c.limiter.Interval()
		// Fire and forget: the warning must never block event processing.
		go c.notifier.WarnRateLimited(context.WithoutCancel(ctx), ev.UserID, wait)
		finish("rate_limited")
		return
	}
	metrics.RateLimitBuckets.Set(float64(c.limiter.Len()))

	message, err := c.chat.Message(ctx, ev.ChannelID, ev.MessageID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch message", "error", err)
		finish("error")
		return
	}
	if _, ok := message.ReactionFor(ev.EmojiKey()); !ok {
		log.DebugContext(ctx, "No reaction matching emoji on message")
		finish("no_reaction")
		return
	}

	guildRoles, err := c.chat.GuildRoles(ctx, ev.GuildID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch guild roles", "error", err)
		finish("error")
		return
	}
	role, ok := ResolveRole(guildRoles, ev.EmojiName)
	if !ok {
		finish("no_role")
		return
	}

	// Always fetch authoritative member state; local caches may be stale.
	member, err := c.chat.Member(ctx, ev.GuildID, ev.UserID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch member", "error", err)
		finish("error")
		return
	}

	// The platform treats re-adding a held role (or removing an absent one)
	// as a no-op, so no membership pre-check is needed.
	switch ev.Direction {
	case domain.Grant:
		log.InfoContext(ctx, "Adding role to member", "role", role.Name, "member", member.DisplayName)
		err = c.chat.AddRole(ctx, ev.GuildID, ev.UserID, role.ID)
	case domain.Revoke:
		log.InfoContext(ctx, "Removing role from member", "role", role.Name, "member", member.DisplayName)
		err = c.chat.RemoveRole(ctx, ev.GuildID, ev.UserID, role.ID)
	}
	if err != nil {
		metrics.RoleMutationsTotal.WithLabelValues(action, "error").Inc()
		log.ErrorContext(ctx, "Failed to mutate role", "role", role.Name, "error", err)
		finish("error")
		return
	}
	metrics.RoleMutationsTotal.WithLabelValues(action, "ok").Inc()
	finish("ok")
}
