// Package discord adapts the Discord client to the engine's platform ports.
// Nothing outside this package imports discordgo.
package discord

import (
	"context"
	"fmt"

	"github.com/The-Expanse-Discord/Protomolecule/internal/domain"
	"github.com/bwmarrin/discordgo"
)

// Client implements domain.ChatService and domain.DirectMessenger over a
// discordgo session. All calls hit the REST API; discordgo's own rate
// limiter and timeouts apply.
type Client struct {
	session *discordgo.Session
}

// NewClient wraps an opened discordgo session.
func NewClient(session *discordgo.Session) *Client {
	return &Client{session: session}
}

func (c *Client) Message(ctx context.Context, channelID, messageID string) (*domain.Message, error) {
	m, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch message %s: %w", messageID, err)
	}
	return toDomainMessage(m), nil
}

func (c *Client) User(ctx context.Context, userID string) (*domain.User, error) {
	u, err := c.session.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", userID, err)
	}
	return &domain.User{ID: u.ID, Username: u.Username, Bot: u.Bot}, nil
}

func (c *Client) Member(ctx context.Context, guildID, userID string) (*domain.Member, error) {
	m, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch member %s in guild %s: %w", userID, guildID, err)
	}
	display := m.Nick
	if display == "" && m.User != nil {
		display = m.User.Username
	}
	return &domain.Member{
		GuildID:     guildID,
		UserID:      userID,
		DisplayName: display,
		RoleIDs:     m.Roles,
	}, nil
}

func (c *Client) GuildRoles(ctx context.Context, guildID string) ([]domain.Role, error) {
	guildRoles, err := c.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch roles for guild %s: %w", guildID, err)
	}
	roles := make([]domain.Role, 0, len(guildRoles))
	for _, r := range guildRoles {
		roles = append(roles, domain.Role{ID: r.ID, Name: r.Name})
	}
	return roles, nil
}

func (c *Client) GuildEmojis(ctx context.Context, guildID string) ([]domain.Emoji, error) {
	guildEmoji, err := c.session.GuildEmojis(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch emoji for guild %s: %w", guildID, err)
	}
	emoji := make([]domain.Emoji, 0, len(guildEmoji))
	for _, e := range guildEmoji {
		emoji = append(emoji, domain.Emoji{ID: e.ID, Name: e.Name})
	}
	return emoji, nil
}

func (c *Client) ChannelMessages(ctx context.Context, channelID string, limit int) ([]*domain.Message, error) {
	history, err := c.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch history for channel %s: %w", channelID, err)
	}
	messages := make([]*domain.Message, 0, len(history))
	for _, m := range history {
		messages = append(messages, toDomainMessage(m))
	}
	return messages, nil
}

func (c *Client) SendEmbed(ctx context.Context, channelID string, embed domain.Embed) (*domain.Message, error) {
	out := &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
	}
	if embed.Thumbnail != "" {
		out.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: embed.Thumbnail}
	}
	m, err := c.session.ChannelMessageSendEmbed(channelID, out, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("send embed to channel %s: %w", channelID, err)
	}
	return toDomainMessage(m), nil
}

func (c *Client) AddReaction(ctx context.Context, channelID, messageID, emojiKey string) error {
	if err := c.session.MessageReactionAdd(channelID, messageID, emojiKey, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("add reaction %s to message %s: %w", emojiKey, messageID, err)
	}
	return nil
}

func (c *Client) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := c.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("add role %s to member %s: %w", roleID, userID, err)
	}
	return nil
}

func (c *Client) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := c.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("remove role %s from member %s: %w", roleID, userID, err)
	}
	return nil
}

func (c *Client) SendDirectMessage(ctx context.Context, userID, content string) error {
	channel, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open DM channel for user %s: %w", userID, err)
	}
	if _, err := c.session.ChannelMessageSend(channel.ID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send DM to user %s: %w", userID, err)
	}
	return nil
}

func toDomainMessage(m *discordgo.Message) *domain.Message {
	out := &domain.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
	}
	for _, e := range m.Embeds {
		out.EmbedTitles = append(out.EmbedTitles, e.Title)
	}
	for _, r := range m.Reactions {
		out.Reactions = append(out.Reactions, domain.ReactionCount{
			EmojiID:   r.Emoji.ID,
			EmojiName: r.Emoji.Name,
			Count:     r.Count,
			Me:        r.Me,
		})
	}
	return out
}
