// Package ratelimit provides a keyed token bucket limiter.
//
// Each key owns an independent bucket that starts at full capacity and
// refills continuously at tokensPerInterval tokens per interval, capped at
// capacity. Buckets are created lazily and never evicted; the map is bounded
// by the number of distinct keys seen during the process lifetime.
package ratelimit

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// refill advances the bucket to now. Elapsed time uses the monotonic reading
// carried by the clock's time values, so wall-clock adjustments cannot
// corrupt the token count. Caller must hold b.mu.
func (b *bucket) refill(now time.Time, interval time.Duration, perInterval, capacity float64) {
	elapsed := now.Sub(b.lastRefill)
	if elapsed <= 0 {
		return
	}
	b.tokens = math.Min(capacity, b.tokens+perInterval*float64(elapsed)/float64(interval))
	b.lastRefill = now
}

// Limiter is a token bucket limiter keyed by an arbitrary identifier.
// Operations on the same key are serialized by the bucket's own mutex;
// operations on different keys do not contend beyond the map lookup.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	interval          time.Duration
	tokensPerInterval float64
	capacity          float64
	clock             clockwork.Clock
}

// New creates a limiter. interval must be positive; tokensPerInterval and
// capacity must be positive.
func New(interval time.Duration, tokensPerInterval, capacity float64, clock clockwork.Clock) *Limiter {
	if interval <= 0 || tokensPerInterval <= 0 || capacity <= 0 {
		panic(fmt.Sprintf("ratelimit: invalid configuration (interval=%v, tokens=%v, capacity=%v)",
			interval, tokensPerInterval, capacity))
	}
	return &Limiter{
		buckets:           make(map[string]*bucket),
		interval:          interval,
		tokensPerInterval: tokensPerInterval,
		capacity:          capacity,
		clock:             clock,
	}
}

// bucketFor returns the bucket for key, creating it at full capacity on
// first use.
func (l *Limiter) bucketFor(key string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.capacity, lastRefill: l.clock.Now()}
		l.buckets[key] = b
	}
	return b
}

// TryRemoveTokens refills the key's bucket, then withdraws cost tokens if
// available. It returns false, leaving the bucket untouched beyond the
// refill, when the bucket holds fewer than cost tokens. A cost that a full
// bucket could never satisfy is a caller bug.
func (l *Limiter) TryRemoveTokens(key string, cost float64) bool {
	if cost < 0 || cost > l.capacity {
		panic(fmt.Sprintf("ratelimit: cost %v outside [0, %v]", cost, l.capacity))
	}

	b := l.bucketFor(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(l.clock.Now(), l.interval, l.tokensPerInterval, l.capacity)
	if b.tokens < cost {
		return false
	}
	b.tokens -= cost
	return true
}

// IntervalsUntil reports how many whole refill intervals must elapse before
// the key's bucket could satisfy a withdrawal of cost tokens. It refills the
// bucket for accuracy but never withdraws. Zero means the withdrawal would
// succeed right now.
func (l *Limiter) IntervalsUntil(key string, cost float64) int64 {
	if cost < 0 || cost > l.capacity {
		panic(fmt.Sprintf("ratelimit: cost %v outside [0, %v]", cost, l.capacity))
	}

	b := l.bucketFor(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(l.clock.Now(), l.interval, l.tokensPerInterval, l.capacity)
	if b.tokens >= cost {
		return 0
	}
	return int64(math.Ceil((cost - b.tokens) / l.tokensPerInterval))
}

// Interval returns the configured refill interval.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Len returns the number of buckets currently tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
