// Package fingerprint tracks liveness of issued refresh tokens in Redis
// without ever storing the token itself.
//
// # Key layout
//
// One key per live refresh token: <prefix>:<subject>:<digest>, where the
// digest is the SHA-256 hex of the raw token. The value is a bare liveness
// marker; the TTL equals the refresh token's remaining lifetime, so records
// clean themselves up.
//
// # Failure policy
//
// Verify is the security-critical read and fails CLOSED: if Redis is
// unreachable the caller gets an error and must deny. This is the opposite
// of the rate limiter's fail-open policy; the two are deliberately
// independent.
package fingerprint
