// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Report pipeline metrics
	IncReportRun(kind, status string) // status: "success" or "failed"
	ObserveUpstreamDuration(kind string, duration time.Duration)
	ObserveReportRows(kind string, rows int)

	// Gate metrics
	IncAuthRejected()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
