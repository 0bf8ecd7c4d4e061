package authgate

import (
	"sync/atomic"
	"time"
)

// MetricID identifies a specific counter or histogram bucket in the
// in-process metrics system.
type MetricID uint16

const (
	// MetricAllow counts accepted requests.
	MetricAllow MetricID = iota
	// MetricRejectMissing counts requests with no token.
	MetricRejectMissing
	// MetricRejectLocked counts rejections by account-lock marker.
	MetricRejectLocked
	// MetricRejectDeleted counts rejections by soft-delete marker.
	MetricRejectDeleted
	// MetricRejectRevoked counts rejections by logout blacklist.
	MetricRejectRevoked
	// MetricRejectInvalid counts signature/expiry rejections.
	MetricRejectInvalid
	// MetricRejectStale counts forced-refresh staleness rejections.
	MetricRejectStale
	// MetricCacheHit counts authorization-cache hits.
	MetricCacheHit
	// MetricCacheMiss counts authorization-cache misses.
	MetricCacheMiss
	// MetricFreshResolve counts fresh role/permission lookups.
	MetricFreshResolve
	// MetricStoreError counts requests failed by store errors.
	MetricStoreError
	// MetricLogout counts logout operations.
	MetricLogout
	// MetricForcedRefresh counts refresh-marker writes.
	MetricForcedRefresh
	// MetricTokenRefreshed counts refresh-token exchanges.
	MetricTokenRefreshed
	// MetricCheckLatency is the CheckRequest latency histogram.
	MetricCheckLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds atomic counters and an optional latency histogram. All
// operations are allocation-free and safe for concurrent use; a nil or
// disabled Metrics is a no-op.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a [Metrics] instance configured by cfg. When Enabled
// is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether the metrics system records anything.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc increments the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a latency sample. Only MetricCheckLatency has a
// histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id != MetricCheckLatency {
		return
	}
	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value reads a single counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot returns a deep copy of every counter and histogram.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricCheckLatency].buckets[i])
		}
		s.Histograms[MetricCheckLatency] = buckets
	}

	return s
}

func rejectMetric(r RejectReason) MetricID {
	switch r {
	case RejectTokenMissing:
		return MetricRejectMissing
	case RejectAccountLocked:
		return MetricRejectLocked
	case RejectAccountDeleted:
		return MetricRejectDeleted
	case RejectTokenRevoked:
		return MetricRejectRevoked
	case RejectTokenInvalid:
		return MetricRejectInvalid
	case RejectTokenStale:
		return MetricRejectStale
	default:
		return metricIDCount
	}
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
