// Package ratelimit implements a fixed-window counter over Redis.
//
// Each key gets an atomic INCR; the first hit of a window sets the expiry.
// The limiter is a defense-in-depth layer, not a correctness boundary: when
// Redis is unconfigured or unreachable it fails open and lets the request
// through.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of a window check. Derived per call, never stored.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Key composes the counter key so limits are scoped per action, per
// authenticated identity and per originating address at the same time.
func Key(action, userID, ip string) string {
	return action + ":" + userID + ":" + ip
}

// counterStore is the subset of redis.Client the limiter needs.
type counterStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// Limiter checks fixed-window counters against a Redis store.
// A nil Limiter or a Limiter without a store always allows.
type Limiter struct {
	store counterStore
}

// New returns a Limiter over the given Redis client. client may be nil when
// no counter store is configured; every check then fails open.
func New(client *redis.Client) *Limiter {
	if client == nil {
		return &Limiter{}
	}
	return &Limiter{store: client}
}

// Check increments the counter for key and decides whether the request is
// within maxCount for the current window. Never returns an error: any store
// failure yields the permissive decision.
func (l *Limiter) Check(ctx context.Context, key string, window time.Duration, maxCount int) Decision {
	open := Decision{Allowed: true, Remaining: maxCount, ResetAt: time.Now().Add(window)}
	if l == nil || l.store == nil {
		return open
	}

	count, err := l.store.Incr(ctx, key).Result()
	if err != nil {
		return open
	}

	if count == 1 {
		// First hit of a fresh window. A crash between INCR and EXPIRE
		// leaves a key with no expiry; accepted edge case.
		l.store.Expire(ctx, key, window)
	}

	remaining := maxCount - int(count)
	if remaining < 0 {
		remaining = 0
	}

	resetAt := time.Now().Add(window)
	if ttl, err := l.store.TTL(ctx, key).Result(); err == nil && ttl > 0 {
		resetAt = time.Now().Add(ttl)
	}

	return Decision{
		Allowed:   int(count) <= maxCount,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}
