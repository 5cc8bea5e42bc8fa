package discord

import (
	"context"
	"log/slog"

	"github.com/The-Expanse-Discord/Protomolecule/internal/domain"
	"github.com/The-Expanse-Discord/Protomolecule/internal/platform/correlation"
	"github.com/bwmarrin/discordgo"
)

// Coordinator is the engine surface the gateway drives.
type Coordinator interface {
	HandleReaction(ctx context.Context, ev domain.ReactionEvent)
	SetReady(ready bool)
}

// Gateway translates discordgo gateway events into domain reaction events.
// Each event is handed to the coordinator in its own goroutine so a slow
// platform call never blocks delivery of the next event.
type Gateway struct {
	session     *discordgo.Session
	coordinator Coordinator
}

// NewGateway creates a gateway feeding the coordinator and configures the
// session's intents for reaction handling.
func NewGateway(session *discordgo.Session, coordinator Coordinator) *Gateway {
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildEmojis |
		discordgo.IntentsDirectMessages
	return &Gateway{session: session, coordinator: coordinator}
}

// Listen registers the gateway handlers. Must be called before the session
// is opened.
func (g *Gateway) Listen() {
	g.session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Ready) {
		slog.Info("Gateway ready")
		g.coordinator.SetReady(true)
	})
	g.session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
		slog.Warn("Gateway disconnected")
		g.coordinator.SetReady(false)
	})
	g.session.AddHandler(func(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
		g.dispatch(r.MessageReaction, domain.Grant)
	})
	g.session.AddHandler(func(_ *discordgo.Session, r *discordgo.MessageReactionRemove) {
		g.dispatch(r.MessageReaction, domain.Revoke)
	})
}

func (g *Gateway) dispatch(r *discordgo.MessageReaction, direction domain.Direction) {
	// A payload whose emoji carries neither an ID nor a name is malformed;
	// discard it without further processing.
	if r.Emoji.ID == "" && r.Emoji.Name == "" {
		return
	}

	ev := domain.ReactionEvent{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		EmojiID:   r.Emoji.ID,
		EmojiName: r.Emoji.Name,
		Direction: direction,
	}

	ctx := correlation.WithID(context.Background(), correlation.NewID())
	go g.coordinator.HandleReaction(ctx, ev)
}
