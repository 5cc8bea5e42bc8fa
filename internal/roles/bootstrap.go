package roles

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/The-Expanse-Discord/Protomolecule/internal/domain"
	"github.com/The-Expanse-Discord/Protomolecule/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// historyFetchLimit is how many recent messages bootstrap inspects when
// looking for existing role assignment embeds.
const historyFetchLimit = 20

// Bootstrap runs the one-time initialization protocol: per configured guild
// it builds the emoji lookup (failing fast when a catalog emoji is missing
// from the guild), then locates or creates each category embed and seeds any
// missing reactions. The protocol is idempotent: running it against an
// already-initialized channel creates no duplicate embeds or reactions.
//
// Guilds are set up in parallel, and within a guild the category embeds are
// ensured in parallel. A missing emoji is a deployment misconfiguration and
// aborts the whole bootstrap.
func Bootstrap(ctx context.Context, chat domain.ChatService, catalog Catalog, guildChannels map[string]string) (*Registry, error) {
	registry := NewRegistry(guildChannels)

	g, ctx := errgroup.WithContext(ctx)
	for guildID, channelID := range guildChannels {
		g.Go(func() error {
			return bootstrapGuild(ctx, chat, catalog, registry, guildID, channelID)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return registry, nil
}

func bootstrapGuild(ctx context.Context, chat domain.ChatService, catalog Catalog, registry *Registry, guildID, channelID string) error {
	emoji, err := findEmoji(ctx, chat, catalog, guildID)
	if err != nil {
		return err
	}
	registry.setEmoji(guildID, emoji)

	history, err := chat.ChannelMessages(ctx, channelID, historyFetchLimit)
	if err != nil {
		return fmt.Errorf("fetch history for channel %s: %w", channelID, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, category := range catalog.Categories {
		g.Go(func() error {
			messageID, err := ensureCategory(ctx, chat, catalog, category, emoji, channelID, history)
			if err != nil {
				return err
			}
			registry.trackMessage(guildID, messageID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("bootstrap guild %s: %w", guildID, err)
	}

	slog.InfoContext(ctx, "Guild bootstrap complete", "guild_id", guildID, "channel_id", channelID)
	return nil
}

// findEmoji builds the name-to-emoji lookup for a guild and verifies every
// emoji the catalog requires is present.
func findEmoji(ctx context.Context, chat domain.ChatService, catalog Catalog, guildID string) (map[string]domain.Emoji, error) {
	guildEmoji, err := chat.GuildEmojis(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("fetch emoji for guild %s: %w", guildID, err)
	}

	lookup := make(map[string]domain.Emoji, len(guildEmoji))
	for _, e := range guildEmoji {
		lookup[e.Name] = e
	}

	for _, name := range catalog.RequiredEmoji() {
		if _, ok := lookup[name]; !ok {
			return nil, fmt.Errorf("guild %s: %w: %s", guildID, domain.ErrMissingEmoji, name)
		}
	}
	return lookup, nil
}

// ensureCategory locates the category's embed in the fetched history,
// creating it when absent, then seeds any reactions the bot has not yet
// added. Returns the message ID to track.
func ensureCategory(ctx context.Context, chat domain.ChatService, catalog Catalog, category Category, emoji map[string]domain.Emoji, channelID string, history []*domain.Message) (string, error) {
	message := findEmbed(history, category.Title)
	if message == nil {
		created, err := chat.SendEmbed(ctx, channelID, domain.Embed{
			Title:       category.Title,
			Description: category.Description,
			Thumbnail:   category.Thumbnail,
			Color:       catalog.Color,
		})
		if err != nil {
			return "", fmt.Errorf("create embed %q: %w", category.Title, err)
		}
		metrics.BootstrapEmbedsCreatedTotal.Inc()
		slog.InfoContext(ctx, "Created role assignment embed", "title", category.Title, "channel_id", channelID)
		message = created
	}

	for _, name := range category.Emoji {
		e := emoji[name]
		if _, ok := message.ReactionFor(e.ID); ok {
			continue
		}
		if err := chat.AddReaction(ctx, channelID, message.ID, e.APIName()); err != nil {
			return "", fmt.Errorf("seed reaction %s on %q: %w", name, category.Title, err)
		}
		metrics.BootstrapReactionsAddedTotal.Inc()
	}

	return message.ID, nil
}

func findEmbed(history []*domain.Message, title string) *domain.Message {
	for _, m := range history {
		if m.HasEmbedTitle(title) {
			return m
		}
	}
	return nil
}
