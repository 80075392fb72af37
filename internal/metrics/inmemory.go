package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// KindSnapshot holds the counters of one report kind.
type KindSnapshot struct {
	Succeeded               uint64
	Failed                  uint64
	Rows                    uint64
	UpstreamDurationCount   uint64
	UpstreamDurationTotalNs int64
}

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Kinds        map[string]KindSnapshot
	AuthRejected uint64
}

// InMemoryRecorder stores metrics in memory and backs the /metrics endpoint.
type InMemoryRecorder struct {
	mu           sync.Mutex
	kinds        map[string]*KindSnapshot
	authRejected uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{kinds: make(map[string]*KindSnapshot)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	kinds := make(map[string]KindSnapshot, len(m.kinds))
	for kind, k := range m.kinds {
		kinds[kind] = *k
	}

	return Snapshot{
		Kinds:        kinds,
		AuthRejected: atomic.LoadUint64(&m.authRejected),
	}
}

// IncReportRun increments the success or failure counter of kind.
func (m *InMemoryRecorder) IncReportRun(kind, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.kind(kind)
	if status == "success" {
		k.Succeeded++
	} else {
		k.Failed++
	}
}

// ObserveUpstreamDuration records the duration of an upstream call.
func (m *InMemoryRecorder) ObserveUpstreamDuration(kind string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.kind(kind)
	k.UpstreamDurationCount++
	k.UpstreamDurationTotalNs += duration.Nanoseconds()
}

// ObserveReportRows adds the number of rows returned for kind.
func (m *InMemoryRecorder) ObserveReportRows(kind string, rows int) {
	if rows <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.kind(kind).Rows += uint64(rows)
}

// IncAuthRejected increments the rejected request counter.
func (m *InMemoryRecorder) IncAuthRejected() {
	atomic.AddUint64(&m.authRejected, 1)
}

// kind returns the counters for kind. Caller must hold mu.
func (m *InMemoryRecorder) kind(kind string) *KindSnapshot {
	k, ok := m.kinds[kind]
	if !ok {
		k = &KindSnapshot{}
		m.kinds[kind] = k
	}
	return k
}
