// Package authgate implements stateless JWT authentication with
// Redis-backed revocation, account-lock, soft-deletion, and forced-refresh
// semantics that a pure stateless token cannot express on its own.
//
// # Overview
//
// A [Gate] runs the full request-time pipeline: header token → ordered
// credential checks against revocation markers → signature and expiry
// validation → role/permission resolution (embedded claims, cache, or a
// fresh [AuthorityProvider] lookup when an administrator forced a refresh) →
// a structured [Decision].
//
// Build a Gate with the fluent builder:
//
//	gate, err := authgate.New().
//		WithConfig(cfg).
//		WithRedis(rdb).
//		WithAuthorityProvider(provider).
//		Build()
//
// Revocation state is a set of Redis markers whose mere presence
// invalidates something: an account (lock, soft-delete), a single token
// (logout blacklist), or the trust in a token's embedded claims (forced
// refresh). Marker key prefixes are fixed for interop with existing store
// contents; see keys.go.
//
// Infrastructure failures (Redis down, timeouts) surface as Go errors
// distinct from authentication rejections, which are carried inside the
// [Decision] with a stable client-facing code.
package authgate
