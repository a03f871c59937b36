package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrLimited is returned by Allow when the attempt budget is exhausted.
	ErrLimited = errors.New("rate limited")
	// ErrRedisUnavailable wraps every Redis transport failure.
	ErrRedisUnavailable = errors.New("redis unavailable")
)

// Policy names a fixed-window budget for one action.
type Policy struct {
	Action      string
	MaxAttempts int
	Window      time.Duration
}

// Limiter enforces per-identity fixed-window rate limits using Redis
// counters. Correctness under concurrent bursts relies on INCR being
// atomic; the limiter keeps no in-process state.
type Limiter struct {
	redis  redis.UniversalClient
	prefix string
}

// New creates a Limiter backed by the given Redis client.
func New(redisClient redis.UniversalClient, prefix string) *Limiter {
	if prefix == "" {
		prefix = "arl"
	}
	return &Limiter{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (l *Limiter) key(action, identity string) string {
	return l.prefix + ":" + action + ":" + identity
}

// Allow counts one attempt against the policy and reports whether it is
// within budget. When the budget is exhausted it returns ErrLimited and a
// retry-after hint derived from the window key's remaining TTL. A Redis
// failure returns ErrRedisUnavailable with a zero hint; the caller decides
// whether to fail open.
func (l *Limiter) Allow(ctx context.Context, policy Policy, identity string) (time.Duration, error) {
	if policy.MaxAttempts <= 0 || policy.Window <= 0 {
		return 0, nil
	}

	key := l.key(policy.Action, identity)

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: the TTL is set only by the first hit.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, policy.Window).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	if count > int64(policy.MaxAttempts) {
		retryAfter := policy.Window
		if pttl, err := l.redis.PTTL(ctx, key).Result(); err == nil && pttl > 0 {
			retryAfter = pttl
		}
		return retryAfter, ErrLimited
	}

	return 0, nil
}

// Reset clears the counter for (action, identity). Used by tests and by
// callers that forgive an identity after a successful operation.
func (l *Limiter) Reset(ctx context.Context, action, identity string) error {
	if err := l.redis.Del(ctx, l.key(action, identity)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
