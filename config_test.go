package sessionkit

import (
	"context"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "defaults with key",
			mutate:    func(c *Config) {},
			wantValid: true,
		},
		{
			name: "missing signing key",
			mutate: func(c *Config) {
				c.Token.PrivateKey = nil
			},
			wantValid: false,
		},
		{
			name: "zero access ttl",
			mutate: func(c *Config) {
				c.Token.AccessTTL = 0
			},
			wantValid: false,
		},
		{
			name: "refresh not longer than access",
			mutate: func(c *Config) {
				c.Token.RefreshTTL = c.Token.AccessTTL
			},
			wantValid: false,
		},
		{
			name: "unsupported signing method",
			mutate: func(c *Config) {
				c.Token.SigningMethod = "rs256"
			},
			wantValid: false,
		},
		{
			name: "ed25519 accepted",
			mutate: func(c *Config) {
				c.Token.SigningMethod = "ed25519"
			},
			wantValid: true,
		},
		{
			name: "zero register budget",
			mutate: func(c *Config) {
				c.RateLimit.Register.MaxAttempts = 0
			},
			wantValid: false,
		},
		{
			name: "zero login window",
			mutate: func(c *Config) {
				c.RateLimit.Login.Window = 0
			},
			wantValid: false,
		},
		{
			name: "bad policy ignored when limiter disabled",
			mutate: func(c *Config) {
				c.RateLimit.Enabled = false
				c.RateLimit.Login.Window = 0
			},
			wantValid: true,
		},
		{
			name: "zero op timeout",
			mutate: func(c *Config) {
				c.Store.OpTimeout = 0
			},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Token.PrivateKey = []byte("test-secret")
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantValid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.wantValid && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Token.AccessTTL != 15*time.Minute {
		t.Fatalf("unexpected access TTL %s", cfg.Token.AccessTTL)
	}
	if cfg.Token.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("unexpected refresh TTL %s", cfg.Token.RefreshTTL)
	}
	if cfg.RateLimit.Register.MaxAttempts != 5 || cfg.RateLimit.Register.Window != time.Hour {
		t.Fatal("unexpected register policy")
	}
	if cfg.RateLimit.Login.MaxAttempts != 10 || cfg.RateLimit.Login.Window != 10*time.Minute {
		t.Fatal("unexpected login policy")
	}
}

func TestBuilderRequiresDependencies(t *testing.T) {
	cfg := testConfig()

	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("expected error without redis")
	}

	mr, rdb := newTestRedis(t)
	defer mr.Close()

	if _, err := New().WithConfig(cfg).WithRedis(rdb).Build(); err == nil {
		t.Fatal("expected error without identity store")
	}

	builder := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithIdentityStore(newMockIdentityStore())

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	engine.Close()

	if _, err := builder.Build(); err == nil {
		t.Fatal("expected error on builder reuse")
	}
}

func TestBuilderCopiesKeyMaterial(t *testing.T) {
	cfg := testConfig()
	key := []byte("test-secret")
	cfg.Token.PrivateKey = key

	mr, rdb := newTestRedis(t)
	defer mr.Close()

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithIdentityStore(newMockIdentityStore()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	// Mutating the caller's slice must not affect the engine.
	key[0] = 'X'

	pair, err := engine.Register(context.Background(), "alice@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := engine.Refresh(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
}
