// Package internaldefs holds the shared metric naming tables used by the
// Prometheus and OTel exporters. It exists so the two exporters cannot
// drift apart on names or bucket bounds.
package internaldefs

import (
	authgate "github.com/MrEthical07/authgate"
)

// CounterDef binds a metric id to its exported name and help text.
type CounterDef struct {
	ID   authgate.MetricID
	Name string
	Help string
}

// HistogramDef binds a histogram metric id to its exported name and help text.
type HistogramDef struct {
	ID   authgate.MetricID
	Name string
	Help string
}

// CounterDefs enumerates every exported counter.
var CounterDefs = []CounterDef{
	{ID: authgate.MetricAllow, Name: "authgate_allow_total", Help: "Requests accepted by the gate."},
	{ID: authgate.MetricRejectMissing, Name: "authgate_reject_token_missing_total", Help: "Requests rejected for a missing token."},
	{ID: authgate.MetricRejectLocked, Name: "authgate_reject_account_locked_total", Help: "Requests rejected by an account-lock marker."},
	{ID: authgate.MetricRejectDeleted, Name: "authgate_reject_account_deleted_total", Help: "Requests rejected by a soft-delete marker."},
	{ID: authgate.MetricRejectRevoked, Name: "authgate_reject_token_revoked_total", Help: "Requests rejected by the logout blacklist."},
	{ID: authgate.MetricRejectInvalid, Name: "authgate_reject_token_invalid_total", Help: "Requests rejected for an expired or invalid token."},
	{ID: authgate.MetricRejectStale, Name: "authgate_reject_token_stale_total", Help: "Requests rejected by a forced-refresh marker."},
	{ID: authgate.MetricCacheHit, Name: "authgate_cache_hit_total", Help: "Authorization cache hits."},
	{ID: authgate.MetricCacheMiss, Name: "authgate_cache_miss_total", Help: "Authorization cache misses."},
	{ID: authgate.MetricFreshResolve, Name: "authgate_fresh_resolve_total", Help: "Fresh role/permission lookups."},
	{ID: authgate.MetricStoreError, Name: "authgate_store_error_total", Help: "Requests failed by revocation-store errors."},
	{ID: authgate.MetricLogout, Name: "authgate_logout_total", Help: "Logout operations."},
	{ID: authgate.MetricForcedRefresh, Name: "authgate_forced_refresh_total", Help: "Forced-refresh marker writes."},
	{ID: authgate.MetricTokenRefreshed, Name: "authgate_token_refreshed_total", Help: "Refresh-token exchanges."},
}

// HistogramDefs enumerates every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: authgate.MetricCheckLatency, Name: "authgate_check_latency_seconds", Help: "CheckRequest latency histogram."},
}

// HistogramBounds are the bucket upper bounds in seconds, Prometheus style.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with characters legal in
// OTel instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates raw snapshot buckets to exactly 8.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to cumulative counts.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
