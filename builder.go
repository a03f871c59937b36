package sessionkit

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/sessionkit/internal/fingerprint"
	"github.com/MrEthical07/sessionkit/internal/rate"
	"github.com/MrEthical07/sessionkit/password"
	"github.com/MrEthical07/sessionkit/token"
)

// Builder assembles an Engine. Construction is allocation-only; no I/O
// happens until the first Engine method call.
type Builder struct {
	config    Config
	redis     redis.UniversalClient
	identity  IdentityStore
	auditSink AuditSink

	built bool
}

// New returns a Builder preloaded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the key/value store client used for fingerprint tracking
// and rate limiting.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithIdentityStore sets the caller's credential store.
func (b *Builder) WithIdentityStore(store IdentityStore) *Builder {
	b.identity = store
	return b
}

// WithAuditSink sets the sink receiving audit events. Ignored unless
// Audit.Enabled is set.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and wires the engine. A builder can
// be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.identity == nil {
		return nil, errors.New("identity store required")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(password.Config{
		Memory:      cfg.Secret.Memory,
		Time:        cfg.Secret.Time,
		Parallelism: cfg.Secret.Parallelism,
		SaltLength:  cfg.Secret.SaltLength,
		KeyLength:   cfg.Secret.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	tokens, err := token.NewManager(token.Config{
		AccessTTL:     cfg.Token.AccessTTL,
		RefreshTTL:    cfg.Token.RefreshTTL,
		SigningMethod: token.SigningMethod(cfg.Token.SigningMethod),
		PrivateKey:    cloneBytes(cfg.Token.PrivateKey),
		PublicKey:     cloneBytes(cfg.Token.PublicKey),
		Issuer:        cfg.Token.Issuer,
		Leeway:        cfg.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:       cfg,
		identity:     b.identity,
		secrets:      hasher,
		tokens:       tokens,
		fingerprints: fingerprint.NewStore(b.redis, cfg.Store.FingerprintPrefix),
		metrics:      NewMetrics(cfg.Metrics),
		audit:        newAuditDispatcher(cfg.Audit, b.auditSink),
	}
	if cfg.RateLimit.Enabled {
		engine.limiter = rate.New(b.redis, cfg.RateLimit.RedisPrefix)
	}

	b.built = true

	return engine, nil
}
