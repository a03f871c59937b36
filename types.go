package sessionkit

import (
	"context"
	"time"
)

// TokenPair is the result of every successful Register, Login, and Refresh
// call: one access token for authorizing individual requests and one
// refresh token for obtaining the next pair. TTLs are reported in whole
// seconds, matching the expiry embedded in the tokens themselves.
type TokenPair struct {
	AccessToken  string
	AccessTTL    int64
	RefreshToken string
	RefreshTTL   int64
}

// Credential is the identity record as seen by the engine. The engine
// only ever reads and creates credentials; disabling one (Active=false)
// is the identity store owner's concern.
type Credential struct {
	ID         string
	Key        string
	SecretHash string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IdentityStore is the contract callers must implement to integrate
// sessionkit with their user database. Lookups return a nil Credential
// (and nil error) when no record exists; Create returns ErrDuplicateKey
// when the key is already taken.
type IdentityStore interface {
	GetByKey(ctx context.Context, key string) (*Credential, error)
	GetByID(ctx context.Context, id string) (*Credential, error)
	Create(ctx context.Context, key, secretHash string) (*Credential, error)
}

// SecretHashUpdater is an optional extension of IdentityStore. When the
// store implements it and Secret.UpgradeOnLogin is enabled, the engine
// transparently re-hashes secrets whose stored digest was produced with
// weaker parameters. Upgrade failures are ignored; login still succeeds.
type SecretHashUpdater interface {
	UpdateSecretHash(ctx context.Context, id, secretHash string) error
}
