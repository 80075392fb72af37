package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncReportRun is a no-op.
func (n *NoopRecorder) IncReportRun(kind, status string) {}

// ObserveUpstreamDuration is a no-op.
func (n *NoopRecorder) ObserveUpstreamDuration(kind string, duration time.Duration) {}

// ObserveReportRows is a no-op.
func (n *NoopRecorder) ObserveReportRows(kind string, rows int) {}

// IncAuthRejected is a no-op.
func (n *NoopRecorder) IncAuthRejected() {}
