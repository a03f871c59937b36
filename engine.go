package sessionkit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/sessionkit/internal/fingerprint"
	"github.com/MrEthical07/sessionkit/internal/rate"
	"github.com/MrEthical07/sessionkit/password"
	"github.com/MrEthical07/sessionkit/token"
)

// Engine orchestrates the session credential lifecycle: Register, Login,
// Refresh, and Logout. Construct it through [Builder.Build]; the zero
// value is not usable.
type Engine struct {
	config       Config
	identity     IdentityStore
	secrets      *password.Hasher
	tokens       *token.Manager
	fingerprints *fingerprint.Store
	limiter      *rate.Limiter
	audit        *auditDispatcher
	metrics      *Metrics
}

// Close flushes the audit dispatcher. The engine must not be used after
// Close returns.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were dropped because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() bool {
	return e != nil &&
		e.identity != nil &&
		e.secrets != nil &&
		e.tokens != nil &&
		e.fingerprints != nil
}

// storeCtx bounds a single store round-trip. Every Redis call the engine
// makes goes through this.
func (e *Engine) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, e.config.Store.OpTimeout)
}

// checkRate applies one named policy. Redis failures fail OPEN: the
// request is allowed and the fail-open counter is incremented — a
// documented trade-off favoring availability of the authentication path.
func (e *Engine) checkRate(ctx context.Context, policy rate.Policy, identity string, limitErr error) error {
	if e.limiter == nil {
		return nil
	}

	opCtx, cancel := e.storeCtx(ctx)
	defer cancel()

	retryAfter, err := e.limiter.Allow(opCtx, policy, identity)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, rate.ErrLimited):
		return &RateLimitError{
			Action:     policy.Action,
			RetryAfter: retryAfter,
			err:        limitErr,
		}
	default:
		e.metricInc(MetricRateLimitFailOpen)
		e.emitAudit(ctx, auditEventRateLimitFailOpen, false, identity, "", err, func() map[string]string {
			return map[string]string{
				"action": policy.Action,
			}
		})
		return nil
	}
}

func (e *Engine) registerPolicy() rate.Policy {
	return rate.Policy{
		Action:      "register",
		MaxAttempts: e.config.RateLimit.Register.MaxAttempts,
		Window:      e.config.RateLimit.Register.Window,
	}
}

func (e *Engine) loginPolicy() rate.Policy {
	return rate.Policy{
		Action:      "login",
		MaxAttempts: e.config.RateLimit.Login.MaxAttempts,
		Window:      e.config.RateLimit.Login.Window,
	}
}

// issuePair computes a fresh access+refresh pair (pure, in-memory) and
// then persists the refresh token's fingerprint. Ordering is fail-safe:
// the caller receives the refresh token only after the fingerprint write
// succeeds, so a crash in between at worst leaves an orphaned fingerprint
// that expires on its own — never a live token the store cannot verify.
func (e *Engine) issuePair(ctx context.Context, subject string) (*TokenPair, error) {
	access, err := e.tokens.Issue(subject, token.KindAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := e.tokens.Issue(subject, token.KindRefresh)
	if err != nil {
		return nil, err
	}

	refreshTTL := e.tokens.TTL(token.KindRefresh)

	opCtx, cancel := e.storeCtx(ctx)
	defer cancel()

	if err := e.fingerprints.Save(opCtx, subject, fingerprint.Digest(refresh), refreshTTL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &TokenPair{
		AccessToken:  access,
		AccessTTL:    int64(e.tokens.TTL(token.KindAccess) / time.Second),
		RefreshToken: refresh,
		RefreshTTL:   int64(refreshTTL / time.Second),
	}, nil
}
