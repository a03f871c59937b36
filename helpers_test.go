package sessionkit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

// testConfig keeps the argon2 cost at the package minimums so the suite
// stays fast.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.PrivateKey = []byte("test-secret")
	cfg.Secret.Memory = 8 * 1024
	cfg.Secret.Time = 1
	cfg.Secret.Parallelism = 1
	cfg.Secret.KeyLength = 16
	cfg.Metrics.Enabled = true
	return cfg
}

func newTestEngine(t *testing.T, cfg Config) (*Engine, *mockIdentityStore, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, rdb := newTestRedis(t)
	store := newMockIdentityStore()

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithIdentityStore(store).
		Build()
	if err != nil {
		mr.Close()
		t.Fatalf("Build failed: %v", err)
	}

	return engine, store, mr, func() {
		engine.Close()
		_ = rdb.Close()
		mr.Close()
	}
}

// seedCredential creates an active credential through the engine's own
// hasher so the stored digest matches the engine configuration.
func seedCredential(t *testing.T, engine *Engine, store *mockIdentityStore, key, secret string) *Credential {
	t.Helper()

	hash, err := engine.secrets.Hash(secret)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	cred, err := store.Create(context.Background(), key, hash)
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	return cred
}

// ---------------------------------------------------------------------------
// mockIdentityStore — in-memory IdentityStore + SecretHashUpdater.
// ---------------------------------------------------------------------------

type mockIdentityStore struct {
	mu      sync.Mutex
	byID    map[string]Credential
	byKey   map[string]string
	next    int
	updates int

	failLookups bool
}

func newMockIdentityStore() *mockIdentityStore {
	return &mockIdentityStore{
		byID:  make(map[string]Credential),
		byKey: make(map[string]string),
	}
}

func (s *mockIdentityStore) Create(_ context.Context, key, secretHash string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failLookups {
		return nil, fmt.Errorf("store down")
	}
	if _, taken := s.byKey[key]; taken {
		return nil, ErrDuplicateKey
	}

	s.next++
	now := time.Now()
	cred := Credential{
		ID:         fmt.Sprintf("u%d", s.next),
		Key:        key,
		SecretHash: secretHash,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.byID[cred.ID] = cred
	s.byKey[key] = cred.ID

	out := cred
	return &out, nil
}

func (s *mockIdentityStore) GetByKey(_ context.Context, key string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failLookups {
		return nil, fmt.Errorf("store down")
	}
	id, ok := s.byKey[key]
	if !ok {
		return nil, nil
	}
	cred := s.byID[id]
	return &cred, nil
}

func (s *mockIdentityStore) GetByID(_ context.Context, id string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failLookups {
		return nil, fmt.Errorf("store down")
	}
	cred, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &cred, nil
}

func (s *mockIdentityStore) UpdateSecretHash(_ context.Context, id, secretHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("credential %s not found", id)
	}
	cred.SecretHash = secretHash
	cred.UpdatedAt = time.Now()
	s.byID[id] = cred
	s.updates++
	return nil
}

func (s *mockIdentityStore) setActive(id string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred := s.byID[id]
	cred.Active = active
	s.byID[id] = cred
}

func (s *mockIdentityStore) secretHash(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id].SecretHash
}

func (s *mockIdentityStore) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

func (s *mockIdentityStore) setFailLookups(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLookups = fail
}
