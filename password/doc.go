// Package password provides one-way hashing and constant-time verification
// of shared secrets using argon2id.
//
// Hash embeds a fresh random salt on every call, so hashing the same secret
// twice produces two different digests. Digests use the standard PHC string
// format ($argon2id$v=...$m=...,t=...,p=...$salt$hash) so parameters travel
// with the digest and can be raised later without invalidating stored
// credentials.
package password
