package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessenger struct {
	mu    sync.Mutex
	sent  []string
	err   error
	calls int
}

func (f *fakeMessenger) SendDirectMessage(_ context.Context, _, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, content)
	return nil
}

func TestWarnRateLimited_SendsWaitInSeconds(t *testing.T) {
	messenger := &fakeMessenger{}
	notifier := New(messenger)

	notifier.WarnRateLimited(context.Background(), "user-1", 5*time.Second)

	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0], "wait 5 seconds")
}

func TestWarnRateLimited_SwallowsSendFailure(t *testing.T) {
	messenger := &fakeMessenger{err: errors.New("cannot send messages to this user")}
	notifier := New(messenger)

	assert.NotPanics(t, func() {
		notifier.WarnRateLimited(context.Background(), "user-1", time.Second)
	})
}

func TestWarnRateLimited_BreakerStopsHammering(t *testing.T) {
	messenger := &fakeMessenger{err: errors.New("cannot send messages to this user")}
	notifier := New(messenger)

	for i := 0; i < 20; i++ {
		notifier.WarnRateLimited(context.Background(), "user-1", time.Second)
	}

	// The breaker opens after five consecutive failures; later warnings
	// never reach the messenger.
	messenger.mu.Lock()
	defer messenger.mu.Unlock()
	assert.Equal(t, 5, messenger.calls)
}
