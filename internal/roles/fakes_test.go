package roles

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/The-Expanse-Discord/Protomolecule/internal/domain"
)

type roleCall struct {
	guildID string
	userID  string
	roleID  string
}

// fakeChat is a stateful in-memory ChatService. Messages created through
// SendEmbed land in the channel history, and AddReaction mutates the stored
// message, so bootstrap idempotency can be exercised end to end.
type fakeChat struct {
	mu sync.Mutex

	users   map[string]*domain.User
	members map[string]*domain.Member
	roles   map[string][]domain.Role
	emoji   map[string][]domain.Emoji

	history  map[string][]*domain.Message
	messages map[string]*domain.Message

	nextMessageID int

	embedsSent     int
	reactionsAdded int
	addRoleCalls   []roleCall
	removeCalls    []roleCall

	messageErr error
	memberErr  error
	rolesErr   error
	emojiErr   error
}

func newFakeChat() *fakeChat {
	return &fakeChat{
		users:    make(map[string]*domain.User),
		members:  make(map[string]*domain.Member),
		roles:    make(map[string][]domain.Role),
		emoji:    make(map[string][]domain.Emoji),
		history:  make(map[string][]*domain.Message),
		messages: make(map[string]*domain.Message),
	}
}

func (f *fakeChat) addUser(id string, bot bool) {
	f.users[id] = &domain.User{ID: id, Username: "user-" + id, Bot: bot}
	f.members["all/"+id] = &domain.Member{UserID: id, DisplayName: "user-" + id}
}

func (f *fakeChat) addMessage(channelID, messageID string, reactions ...domain.ReactionCount) *domain.Message {
	m := &domain.Message{ID: messageID, ChannelID: channelID, Reactions: reactions}
	f.messages[messageID] = m
	f.history[channelID] = append(f.history[channelID], m)
	return m
}

func (f *fakeChat) Message(_ context.Context, _, messageID string) (*domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.messageErr != nil {
		return nil, f.messageErr
	}
	m, ok := f.messages[messageID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (f *fakeChat) User(_ context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeChat) Member(_ context.Context, _, userID string) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.memberErr != nil {
		return nil, f.memberErr
	}
	m, ok := f.members["all/"+userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (f *fakeChat) GuildRoles(_ context.Context, guildID string) ([]domain.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rolesErr != nil {
		return nil, f.rolesErr
	}
	return f.roles[guildID], nil
}

func (f *fakeChat) GuildEmojis(_ context.Context, guildID string) ([]domain.Emoji, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emojiErr != nil {
		return nil, f.emojiErr
	}
	return f.emoji[guildID], nil
}

func (f *fakeChat) ChannelMessages(_ context.Context, channelID string, _ int) ([]*domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history[channelID], nil
}

func (f *fakeChat) SendEmbed(_ context.Context, channelID string, embed domain.Embed) (*domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embedsSent++
	f.nextMessageID++
	m := &domain.Message{
		ID:          fmt.Sprintf("msg-%d", f.nextMessageID),
		ChannelID:   channelID,
		EmbedTitles: []string{embed.Title},
	}
	f.messages[m.ID] = m
	f.history[channelID] = append(f.history[channelID], m)
	return m, nil
}

func (f *fakeChat) AddReaction(_ context.Context, _, messageID, emojiKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactionsAdded++
	m, ok := f.messages[messageID]
	if !ok {
		return domain.ErrNotFound
	}
	name, id, _ := strings.Cut(emojiKey, ":")
	m.Reactions = append(m.Reactions, domain.ReactionCount{EmojiID: id, EmojiName: name, Count: 1, Me: true})
	return nil
}

func (f *fakeChat) AddRole(_ context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addRoleCalls = append(f.addRoleCalls, roleCall{guildID, userID, roleID})
	return nil
}

func (f *fakeChat) RemoveRole(_ context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls = append(f.removeCalls, roleCall{guildID, userID, roleID})
	return nil
}

// fakeNotifier records warnings on a channel so tests can wait for the
// fire-and-forget goroutine.
type fakeNotifier struct {
	warned chan time.Duration
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{warned: make(chan time.Duration, 16)}
}

func (f *fakeNotifier) WarnRateLimited(_ context.Context, _ string, wait time.Duration) {
	f.warned <- wait
}
