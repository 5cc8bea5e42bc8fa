package domain

import (
	"context"
)

// --- Model types ---

// Direction is the kind of role mutation a reaction event asks for.
type Direction int

const (
	// Grant assigns the resolved role to the reacting member.
	Grant Direction = iota
	// Revoke removes the resolved role from the reacting member.
	Revoke
)

func (d Direction) String() string {
	if d == Grant {
		return "grant"
	}
	return "revoke"
}

// ReactionEvent is a single reaction add/remove delivered by the gateway.
// Events are transient: consumed once by the coordinator, never stored.
type ReactionEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	// EmojiID is empty for unicode emoji; EmojiName is always set.
	EmojiID   string
	EmojiName string
	Direction Direction
}

// EmojiKey returns the identifier used to look a reaction up on a message:
// the custom-emoji ID when present, the unicode name otherwise.
func (e ReactionEvent) EmojiKey() string {
	if e.EmojiID != "" {
		return e.EmojiID
	}
	return e.EmojiName
}

// User is a platform account. Bot accounts never trigger role mutations.
type User struct {
	ID       string
	Username string
	Bot      bool
}

// Member is a user's membership in one guild.
type Member struct {
	GuildID     string
	UserID      string
	DisplayName string
	RoleIDs     []string
}

// Role is a guild role as reported by the platform, in platform order.
type Role struct {
	ID   string
	Name string
}

// Emoji is a guild custom emoji.
type Emoji struct {
	ID   string
	Name string
}

// APIName returns the identifier the platform expects when reacting with
// this emoji: "name:id" for custom emoji, the bare name for unicode.
func (e Emoji) APIName() string {
	if e.ID == "" {
		return e.Name
	}
	return e.Name + ":" + e.ID
}

// ReactionCount is one emoji's aggregate reaction entry on a message.
type ReactionCount struct {
	EmojiID   string
	EmojiName string
	Count     int
	Me        bool
}

// Message is the subset of a platform message the engine cares about:
// identity, embed titles (for bootstrap matching) and reaction entries.
type Message struct {
	ID          string
	ChannelID   string
	GuildID     string
	EmbedTitles []string
	Reactions   []ReactionCount
}

// HasEmbedTitle reports whether any embed on the message carries the title.
func (m *Message) HasEmbedTitle(title string) bool {
	for _, t := range m.EmbedTitles {
		if t == title {
			return true
		}
	}
	return false
}

// ReactionFor returns the reaction entry matching the given emoji key
// (custom-emoji ID or unicode name), if one exists on the message.
func (m *Message) ReactionFor(key string) (ReactionCount, bool) {
	for _, r := range m.Reactions {
		if r.EmojiID == key || (r.EmojiID == "" && r.EmojiName == key) {
			return r, true
		}
	}
	return ReactionCount{}, false
}

// Embed is an outgoing rich message, the only message shape bootstrap sends.
type Embed struct {
	Title       string
	Description string
	Thumbnail   string
	Color       int
}

// --- Ports ---

// ChatService is the narrow platform contract the engine consumes. The real
// implementation wraps the Discord client; tests substitute fakes.
type ChatService interface {
	Message(ctx context.Context, channelID, messageID string) (*Message, error)
	User(ctx context.Context, userID string) (*User, error)
	Member(ctx context.Context, guildID, userID string) (*Member, error)

	GuildRoles(ctx context.Context, guildID string) ([]Role, error)
	GuildEmojis(ctx context.Context, guildID string) ([]Emoji, error)
	ChannelMessages(ctx context.Context, channelID string, limit int) ([]*Message, error)

	SendEmbed(ctx context.Context, channelID string, embed Embed) (*Message, error)
	AddReaction(ctx context.Context, channelID, messageID, emojiKey string) error

	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
}

// DirectMessenger sends a private message to a user. Split out of
// ChatService because the notifier is its only consumer.
type DirectMessenger interface {
	SendDirectMessage(ctx context.Context, userID, content string) error
}
