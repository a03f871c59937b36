// Package token issues and verifies the signed, self-contained session
// tokens used by sessionkit: short-lived access tokens and long-lived
// refresh tokens.
//
// # Claims
//
// Every token carries {sub, type, exp, iat, jti}. The type claim is what
// keeps the two token kinds from being interchangeable: a token signed for
// one kind never verifies as the other. The jti is a random UUID so two
// tokens with otherwise identical claims remain distinguishable.
//
// # Failure collapsing
//
// Parse reports every failure — bad signature, expiry, malformed input,
// wrong kind — as [ErrInvalid]. Callers must not branch on the cause; the
// wrapped detail exists for diagnostics only.
package token
