package fingerprint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps every Redis transport failure.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Digest returns the deterministic one-way derivation of a token: the
// SHA-256 hex of its raw bytes. The same token always yields the same
// digest, which makes the digest usable as a lookup key.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Store persists refresh-token fingerprints with expiration.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a fingerprint Store backed by the given Redis client.
func NewStore(redisClient redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "rfp"
	}
	return &Store{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *Store) key(subject, digest string) string {
	return s.prefix + ":" + subject + ":" + digest
}

// Save records a fingerprint for subject with the given TTL. The write is
// an idempotent upsert: re-saving an existing fingerprint only refreshes
// its expiry.
func (s *Store) Save(ctx context.Context, subject, digest string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("fingerprint ttl must be positive")
	}
	if err := s.redis.Set(ctx, s.key(subject, digest), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Verify reports whether an unexpired fingerprint record exists. A Redis
// failure returns an error; callers must treat it as not-found.
func (s *Store) Verify(ctx context.Context, subject, digest string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.key(subject, digest)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n == 1, nil
}

// Revoke deletes a fingerprint immediately. Deleting a missing record is
// not an error, so revocation is idempotent.
func (s *Store) Revoke(ctx context.Context, subject, digest string) error {
	if err := s.redis.Del(ctx, s.key(subject, digest)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
