package roles

import (
	"sync"

	"github.com/The-Expanse-Discord/Protomolecule/internal/domain"
)

// guildEntry holds one guild's lookup tables. Entries are written only
// during bootstrap and read-only afterwards.
type guildEntry struct {
	channelID string
	emoji     map[string]domain.Emoji
	messages  map[string]struct{}
}

// Registry maps each configured guild to its role assignment messages and
// its guild emoji. It is populated once by Bootstrap and safe for
// unsynchronized concurrent reads after that; the internal mutex only guards
// the parallel build.
type Registry struct {
	mu     sync.Mutex
	guilds map[string]*guildEntry
}

// NewRegistry creates an empty registry for the configured guilds.
func NewRegistry(guildChannels map[string]string) *Registry {
	guilds := make(map[string]*guildEntry, len(guildChannels))
	for guildID, channelID := range guildChannels {
		guilds[guildID] = &guildEntry{
			channelID: channelID,
			emoji:     make(map[string]domain.Emoji),
			messages:  make(map[string]struct{}),
		}
	}
	return &Registry{guilds: guilds}
}

// GuildIDs returns the configured guilds.
func (r *Registry) GuildIDs() []string {
	ids := make([]string, 0, len(r.guilds))
	for id := range r.guilds {
		ids = append(ids, id)
	}
	return ids
}

// ChannelID returns the role assignment channel for a guild.
func (r *Registry) ChannelID(guildID string) (string, bool) {
	g, ok := r.guilds[guildID]
	if !ok {
		return "", false
	}
	return g.channelID, true
}

// IsTracked reports whether messageID is a role assignment message in guildID.
func (r *Registry) IsTracked(guildID, messageID string) bool {
	g, ok := r.guilds[guildID]
	if !ok {
		return false
	}
	_, tracked := g.messages[messageID]
	return tracked
}

// EmojiByName returns the guild's custom emoji with the given name.
func (r *Registry) EmojiByName(guildID, name string) (domain.Emoji, bool) {
	g, ok := r.guilds[guildID]
	if !ok {
		return domain.Emoji{}, false
	}
	e, ok := g.emoji[name]
	return e, ok
}

func (r *Registry) setEmoji(guildID string, emoji map[string]domain.Emoji) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.guilds[guildID]; ok {
		g.emoji = emoji
	}
}

func (r *Registry) trackMessage(guildID, messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.guilds[guildID]; ok {
		g.messages[messageID] = struct{}{}
	}
}
