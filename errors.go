package sessionkit

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEngineNotReady is returned when a method is called on an engine
	// that was not constructed through Builder.Build.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrInvalidCredentials covers a bad secret and an unknown identity
	// key; the two are intentionally indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid covers every invalid-token cause: bad signature,
	// expiry, malformed input, wrong type, and missing or revoked
	// fingerprint. Callers never learn which check failed.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrAccountInactive is the authorization failure for soft-disabled
	// accounts. It is returned only after the credential or token has
	// verified, never instead of an authentication failure.
	ErrAccountInactive = errors.New("account inactive")
	// ErrAccountExists is returned by Register for an already-taken key.
	ErrAccountExists = errors.New("account already exists")
	// ErrIdentityKeyInvalid rejects empty or oversized identity keys.
	ErrIdentityKeyInvalid = errors.New("invalid identity key")
	// ErrSecretPolicy rejects secrets that fail the hashing policy.
	ErrSecretPolicy = errors.New("secret policy violation")
	// ErrRegisterRateLimited is returned when the registration budget for
	// an identity key is exhausted.
	ErrRegisterRateLimited = errors.New("registration rate limited")
	// ErrLoginRateLimited is returned when the login budget for an
	// identity key is exhausted.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrIdentityUnavailable wraps identity store failures.
	ErrIdentityUnavailable = errors.New("identity store unavailable")
	// ErrStoreUnavailable wraps key/value store failures that cannot be
	// resolved by a component's fail-open/fail-closed policy.
	ErrStoreUnavailable = errors.New("key/value store unavailable")
	// ErrDuplicateKey must be returned (or wrapped) by IdentityStore.Create
	// when the identity key is already taken.
	ErrDuplicateKey = errors.New("identity key already exists")
)

// RateLimitError wraps ErrRegisterRateLimited or ErrLoginRateLimited and
// carries a retry-after hint. Extract it with errors.As.
type RateLimitError struct {
	Action     string
	RetryAfter time.Duration
	err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: retry after %s", e.err, e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Unwrap() error {
	return e.err
}
