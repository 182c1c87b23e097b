// Package ratelimit provides per-command token-bucket rate limiting keyed by
// guild, channel, user, or composite identities. Each bucket enforces every
// configured bandwidth at once; check and consumption are a single atomic
// step, so a passed check is never retroactively invalidated.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Strategy selects how a bucket key is derived from the invocation identity.
type Strategy int

const (
	// None never rejects.
	None Strategy = iota
	// Guild buckets per guild, falling back to the user in DMs.
	Guild
	// Channel buckets per channel everywhere.
	Channel
	// User buckets per user everywhere.
	User
	// Member buckets per (guild, user), falling back to the user in DMs.
	Member
	// UserChannel buckets per (channel, user) everywhere.
	UserChannel
)

// Bandwidth is one rate-limit rule: Capacity tokens available at full,
// refilled at Refill tokens per Window, continuously rather than in window
// steps.
type Bandwidth struct {
	Capacity int
	Refill   int
	Window   time.Duration
}

// Simple returns a bandwidth that refills its full capacity over window.
func Simple(capacity int, window time.Duration) Bandwidth {
	return Bandwidth{Capacity: capacity, Refill: capacity, Window: window}
}

func (bw Bandwidth) newLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(float64(bw.Refill)/bw.Window.Seconds()), bw.Capacity)
}

// Limiter is the per-command rate limiter. Buckets are created lazily on
// first use of a key and retained for the process lifetime; a warm bucket
// keeps its token state for as long as the process runs.
type Limiter struct {
	strategy   Strategy
	bandwidths []Bandwidth

	mu      sync.Mutex
	buckets map[string]*bucket
}

// New builds a limiter for the given strategy. With strategy None or no
// bandwidths the limiter never rejects.
func New(strategy Strategy, bandwidths ...Bandwidth) *Limiter {
	return &Limiter{
		strategy:   strategy,
		bandwidths: bandwidths,
		buckets:    make(map[string]*bucket),
	}
}

// Check consumes one token from every bandwidth of the bucket the identity
// tuple maps to. It returns true when the request must be rejected; in that
// case no tokens are consumed from any bandwidth. guildID is empty in DMs.
func (l *Limiter) Check(guildID, channelID, userID string) bool {
	if l.strategy == None || len(l.bandwidths) == 0 {
		return false
	}
	key, ok := l.key(guildID, channelID, userID)
	if !ok {
		return false
	}
	return !l.bucket(key).tryConsume(time.Now())
}

func (l *Limiter) key(guildID, channelID, userID string) (string, bool) {
	switch l.strategy {
	case Guild:
		if guildID == "" {
			return userID, true
		}
		return guildID, true
	case Channel:
		return channelID, true
	case User:
		return userID, true
	case Member:
		if guildID == "" {
			return userID, true
		}
		return guildID + "/" + userID, true
	case UserChannel:
		return channelID + "/" + userID, true
	default:
		return "", false
	}
}

func (l *Limiter) bucket(key string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(l.bandwidths)
		l.buckets[key] = b
	}
	return b
}

// bucket holds one token limiter per configured bandwidth. All limiters are
// checked under one lock so that a multi-bandwidth consume is all-or-nothing.
type bucket struct {
	mu       sync.Mutex
	limiters []*rate.Limiter
}

func newBucket(bandwidths []Bandwidth) *bucket {
	b := &bucket{limiters: make([]*rate.Limiter, 0, len(bandwidths))}
	for _, bw := range bandwidths {
		b.limiters = append(b.limiters, bw.newLimiter())
	}
	return b
}

// tryConsume takes one token from every bandwidth, or none at all. A failed
// reservation cancels every reservation already taken, restoring its tokens.
func (b *bucket) tryConsume(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	taken := make([]*rate.Reservation, 0, len(b.limiters))
	for _, lim := range b.limiters {
		res := lim.ReserveN(now, 1)
		if !res.OK() || res.DelayFrom(now) > 0 {
			res.CancelAt(now)
			for _, prev := range taken {
				prev.CancelAt(now)
			}
			return false
		}
		taken = append(taken, res)
	}
	return true
}
