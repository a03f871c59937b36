package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(rdb, "arl"), mr, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func TestAllowWithinBudget(t *testing.T) {
	limiter, _, done := newTestLimiter(t)
	defer done()

	policy := Policy{Action: "login", MaxAttempts: 3, Window: time.Minute}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := limiter.Allow(ctx, policy, "alice"); err != nil {
			t.Fatalf("attempt %d denied: %v", i+1, err)
		}
	}
}

func TestAllowDeniesOverBudget(t *testing.T) {
	limiter, _, done := newTestLimiter(t)
	defer done()

	policy := Policy{Action: "login", MaxAttempts: 3, Window: time.Minute}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := limiter.Allow(ctx, policy, "alice"); err != nil {
			t.Fatalf("attempt %d denied: %v", i+1, err)
		}
	}

	retryAfter, err := limiter.Allow(ctx, policy, "alice")
	if !errors.Is(err, ErrLimited) {
		t.Fatalf("expected ErrLimited, got %v", err)
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Fatalf("expected retry-after within window, got %s", retryAfter)
	}
}

func TestAllowIdentitiesIsolated(t *testing.T) {
	limiter, _, done := newTestLimiter(t)
	defer done()

	policy := Policy{Action: "login", MaxAttempts: 1, Window: time.Minute}
	ctx := context.Background()

	if _, err := limiter.Allow(ctx, policy, "alice"); err != nil {
		t.Fatalf("alice denied: %v", err)
	}
	if _, err := limiter.Allow(ctx, policy, "alice"); !errors.Is(err, ErrLimited) {
		t.Fatalf("expected ErrLimited for alice, got %v", err)
	}
	if _, err := limiter.Allow(ctx, policy, "bob"); err != nil {
		t.Fatalf("bob must have his own budget: %v", err)
	}
}

func TestAllowWindowExpiryResets(t *testing.T) {
	limiter, mr, done := newTestLimiter(t)
	defer done()

	policy := Policy{Action: "register", MaxAttempts: 1, Window: time.Minute}
	ctx := context.Background()

	if _, err := limiter.Allow(ctx, policy, "alice"); err != nil {
		t.Fatalf("first attempt denied: %v", err)
	}
	if _, err := limiter.Allow(ctx, policy, "alice"); !errors.Is(err, ErrLimited) {
		t.Fatalf("expected ErrLimited, got %v", err)
	}

	mr.FastForward(time.Minute + time.Second)

	if _, err := limiter.Allow(ctx, policy, "alice"); err != nil {
		t.Fatalf("expected fresh window after expiry, got %v", err)
	}
}

func TestResetClearsCounter(t *testing.T) {
	limiter, _, done := newTestLimiter(t)
	defer done()

	policy := Policy{Action: "login", MaxAttempts: 1, Window: time.Minute}
	ctx := context.Background()

	if _, err := limiter.Allow(ctx, policy, "alice"); err != nil {
		t.Fatalf("first attempt denied: %v", err)
	}
	if err := limiter.Reset(ctx, "login", "alice"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := limiter.Allow(ctx, policy, "alice"); err != nil {
		t.Fatalf("expected allow after reset, got %v", err)
	}
}

func TestAllowZeroPolicyIsUnlimited(t *testing.T) {
	limiter, _, done := newTestLimiter(t)
	defer done()

	ctx := context.Background()
	for i := 0; i < 50; i++ {
		if _, err := limiter.Allow(ctx, Policy{Action: "noop"}, "alice"); err != nil {
			t.Fatalf("zero policy must never limit: %v", err)
		}
	}
}

func TestAllowRedisDownReturnsUnavailable(t *testing.T) {
	limiter, mr, done := newTestLimiter(t)
	defer done()

	mr.Close()

	policy := Policy{Action: "login", MaxAttempts: 3, Window: time.Minute}
	_, err := limiter.Allow(context.Background(), policy, "alice")
	if !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
}
