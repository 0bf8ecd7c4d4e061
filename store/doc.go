// Package store provides the Redis-backed revocation key-value substrate
// shared by the credential validator and the authorization cache.
//
// # Semantics
//
// Every operation is a single-key Redis command and therefore atomic per
// key. ScanPrefix is a cursored SCAN and yields an eventually-consistent
// snapshot, which is acceptable because revocation checks are re-evaluated
// on every request.
//
// # Error classification
//
// Redis transport failures are wrapped in [ErrUnavailable] or [ErrTimeout]
// so callers can surface infrastructure degradation separately from
// authentication rejections. A missing key is never an error.
//
// # What this package must NOT do
//
//   - Interpret tokens or key prefixes.
//   - Make authentication or authorization decisions.
package store
