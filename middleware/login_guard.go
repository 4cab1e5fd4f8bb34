package middleware

import (
	"context"
	"strings"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// freeLoginAttempts is how many wrong passwords are tolerated before the
// first lock.
const freeLoginAttempts = 2

const failureMemory = 30 * time.Minute

// lockoutFor returns the lock duration after the given number of
// consecutive failures: 1, 5, 15 then 30 minutes.
func lockoutFor(failures int64) time.Duration {
	switch n := failures - freeLoginAttempts; {
	case n <= 0:
		return 0
	case n == 1:
		return time.Minute
	case n == 2:
		return 5 * time.Minute
	case n == 3:
		return 15 * time.Minute
	default:
		return 30 * time.Minute
	}
}

// LoginGuard tracks failed logins per account key and locks the account with
// progressive durations. Redis is used when configured so that every
// instance sees the same state.
type LoginGuard struct {
	redis *redis.Client
	now   func() time.Time

	mu     sync.Mutex
	failed map[string]int64
	locked map[string]time.Time
}

func NewLoginGuard(rc *redis.Client) *LoginGuard {
	return &LoginGuard{
		redis:  rc,
		now:    time.Now,
		failed: make(map[string]int64),
		locked: make(map[string]time.Time),
	}
}

// LoginKey normalizes an email into a guard key.
func LoginKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func failKey(key string) string { return "login:fail:" + key }
func lockKey(key string) string { return "login:lock:" + key }

// IsLocked reports whether key is locked and for how long.
func (g *LoginGuard) IsLocked(ctx context.Context, key string) (bool, time.Duration) {
	if g.redis != nil {
		ttl, err := g.redis.TTL(ctx, lockKey(key)).Result()
		if err == nil {
			return ttl > 0, max(ttl, 0)
		}
		// fall through to memory on redis errors
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	until, ok := g.locked[key]
	if !ok {
		return false, 0
	}
	if left := until.Sub(g.now()); left > 0 {
		return true, left
	}
	delete(g.locked, key)
	return false, 0
}

func (g *LoginGuard) RecordFailure(ctx context.Context, key string) {
	if g.redis != nil {
		failures, err := g.redis.Incr(ctx, failKey(key)).Result()
		if err == nil {
			_ = g.redis.Expire(ctx, failKey(key), failureMemory).Err()
			if d := lockoutFor(failures); d > 0 {
				_ = g.redis.Set(ctx, lockKey(key), "1", d).Err()
			}
			return
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failed[key]++
	if d := lockoutFor(g.failed[key]); d > 0 {
		g.locked[key] = g.now().Add(d)
	}
}

func (g *LoginGuard) Reset(ctx context.Context, key string) {
	if g.redis != nil {
		if err := g.redis.Del(ctx, failKey(key), lockKey(key)).Err(); err == nil {
			return
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.failed, key)
	delete(g.locked, key)
}
