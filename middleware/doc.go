// Package middleware integrates authgate with net/http.
//
// [Guard] extracts the token from the configured header, runs the gate,
// and either forwards the request with the [authgate.Decision] in the
// request context or answers with a JSON error body carrying the stable
// rejection code. [RequireRole] and [RequirePermission] layer coarse
// authorization checks on top of a guarded route.
package middleware
