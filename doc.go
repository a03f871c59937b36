// Package sessionkit provides an embeddable session-credential engine:
// registration, authentication, and refresh-token rotation backed by
// Redis-based fingerprint tracking and brute-force rate limiting.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build]. The engine holds no long-lived mutable state; all
// durable state lives in the caller's [IdentityStore] and in Redis.
//
// # Architecture boundaries
//
// sessionkit is the public surface. It exposes [Engine], [Builder],
// [Config], and value types (TokenPair, Credential, audit sinks). Internal
// coordination — fingerprint tracking, rate limiting — lives under
// internal/ and is never exported. Token and secret-hashing primitives are
// reusable and live in the token and password sub-packages.
//
// # What this package must NOT do
//
//   - Own identity storage. Credentials are consumed only through the
//     narrow [IdentityStore] lookup/create contract.
//   - Expose Redis clients or key layouts in its public API.
//   - Leak which verification check failed: token failures collapse to a
//     single invalid-token outcome at the boundary.
//
// # Failure policies
//
// When Redis is unreachable the two store-backed components diverge on
// purpose: fingerprint verification fails closed (deny), rate limiting
// fails open (allow). The trade-offs are documented on the respective
// packages and are not tunable through a shared switch.
package sessionkit
