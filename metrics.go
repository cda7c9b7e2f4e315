package goBasket

import "sync/atomic"

// MetricID defines a public type used by goBasket APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricLoginSuccess is an exported constant or variable used by the engine.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure is an exported constant or variable used by the engine.
	MetricLoginFailure
	// MetricRegisterSuccess is an exported constant or variable used by the engine.
	MetricRegisterSuccess
	// MetricRegisterDuplicate is an exported constant or variable used by the engine.
	MetricRegisterDuplicate
	// MetricLogout is an exported constant or variable used by the engine.
	MetricLogout
	// MetricSessionCreated is an exported constant or variable used by the engine.
	MetricSessionCreated
	// MetricSessionLookupHit is an exported constant or variable used by the engine.
	MetricSessionLookupHit
	// MetricSessionLookupMiss is an exported constant or variable used by the engine.
	MetricSessionLookupMiss
	// MetricSessionLookupCorrupt is an exported constant or variable used by the engine.
	MetricSessionLookupCorrupt
	// MetricTenantCacheHit is an exported constant or variable used by the engine.
	MetricTenantCacheHit
	// MetricTenantCacheMiss is an exported constant or variable used by the engine.
	MetricTenantCacheMiss
	// MetricTenantNegativeHit is an exported constant or variable used by the engine.
	MetricTenantNegativeHit
	// MetricTenantDBRead is an exported constant or variable used by the engine.
	MetricTenantDBRead
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed table of atomic counters. Incrementing a counter on the
// request hot path is a single atomic add on its own cache line.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot defines a public type used by goBasket APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
func NewMetrics(enabled bool) *Metrics {
	return &Metrics{enabled: enabled}
}

// Enabled reports whether counters are being recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc increments a counter. No-op when metrics are disabled or the ID is out
// of range.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Add increments a counter by delta.
func (m *Metrics) Add(id MetricID, delta uint64) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, delta)
}

// Value returns the current value of a single counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot returns a point-in-time copy of all counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}

	s := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	return s
}
