package sessionkit

import (
	"errors"
	"time"
)

// Config is the explicit configuration value constructed once at process
// start and passed into Builder. Components hold no ambient global state;
// everything tunable flows through here.
type Config struct {
	Token     TokenConfig
	Secret    SecretConfig
	RateLimit RateLimitConfig
	Store     StoreConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

// TokenConfig mirrors token.Config. Key material is deployment
// configuration, never generated by the engine.
type TokenConfig struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

// SecretConfig holds argon2id cost parameters for credential hashing.
type SecretConfig struct {
	Memory         uint32 // KiB
	Time           uint32
	Parallelism    uint8
	SaltLength     uint32
	KeyLength      uint32
	UpgradeOnLogin bool
}

// PolicyConfig is one fixed-window rate-limit budget.
type PolicyConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// RateLimitConfig names the per-action budgets. Disabling the limiter
// skips the Redis round-trip entirely.
type RateLimitConfig struct {
	Enabled     bool
	RedisPrefix string
	Register    PolicyConfig
	Login       PolicyConfig
}

// StoreConfig tunes the Redis-backed stores. OpTimeout bounds every
// store round-trip made by the engine.
type StoreConfig struct {
	FingerprintPrefix string
	OpTimeout         time.Duration
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the baseline configuration: 15-minute access
// tokens, 7-day refresh tokens, registration capped at 5/hour and login
// at 10 per 10 minutes per identity key.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
			SigningMethod: "hs256",
		},
		Secret: SecretConfig{
			Memory:         65536,
			Time:           3,
			Parallelism:    2,
			SaltLength:     16,
			KeyLength:      32,
			UpgradeOnLogin: true,
		},
		RateLimit: RateLimitConfig{
			Enabled:     true,
			RedisPrefix: "arl",
			Register: PolicyConfig{
				MaxAttempts: 5,
				Window:      time.Hour,
			},
			Login: PolicyConfig{
				MaxAttempts: 10,
				Window:      10 * time.Minute,
			},
		},
		Store: StoreConfig{
			FingerprintPrefix: "rfp",
			OpTimeout:         500 * time.Millisecond,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// Validate rejects configurations the engine cannot run with. It is
// called by Builder.Build; callers normally never invoke it directly.
func (c Config) Validate() error {
	if c.Token.AccessTTL <= 0 || c.Token.RefreshTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.Token.RefreshTTL <= c.Token.AccessTTL {
		return errors.New("refresh TTL must exceed access TTL")
	}
	switch c.Token.SigningMethod {
	case "hs256", "ed25519":
	default:
		return errors.New("unsupported signing method")
	}
	if len(c.Token.PrivateKey) == 0 {
		return errors.New("token private key required")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Register.MaxAttempts <= 0 || c.RateLimit.Register.Window <= 0 {
			return errors.New("invalid registration rate policy")
		}
		if c.RateLimit.Login.MaxAttempts <= 0 || c.RateLimit.Login.Window <= 0 {
			return errors.New("invalid login rate policy")
		}
	}
	if c.Store.OpTimeout <= 0 {
		return errors.New("store op timeout must be positive")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.PrivateKey = cloneBytes(cfg.Token.PrivateKey)
	out.Token.PublicKey = cloneBytes(cfg.Token.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
