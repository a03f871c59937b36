// Package rate provides Redis-backed fixed-window counters for bounding
// sensitive operations per identity.
//
// # Window semantics
//
// Fixed-window counters: INCR + EXPIRE on the first hit of the window.
// Keys are <prefix>:<action>:<identity>. Each Allow call counts as an
// attempt whether or not it is ultimately allowed.
//
// # Failure policy
//
// The limiter itself only reports Redis failures (ErrRedisUnavailable);
// the decision to fail open on them belongs to the caller. The engine
// fails OPEN here, trading strict throttling for availability of the
// authentication path — the inverse of the fingerprint store's policy.
package rate
