// Package jwt signs, parses, and inspects the HS256 access and refresh
// tokens used by authgate.
//
// # Claim layout
//
// Role and permission names travel inside the token under the claim keys
// "jwt-roles-key" and "jwt-per-key". These keys are shared with pre-existing
// deployments and must not change.
//
// # Architecture boundaries
//
// This package owns token encoding and verification only. It does NOT
// consult Redis, evaluate revocation markers, or make allow/deny
// decisions — those responsibilities belong to the root package.
//
// # What this package must NOT do
//
//   - Import authgate or store (no upward imports).
//   - Perform I/O of any kind.
package jwt
