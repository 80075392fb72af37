package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/adsproxy/adsproxy/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	kinds := make([]string, 0, len(snap.Kinds))
	for kind := range snap.Kinds {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	for _, kind := range kinds {
		k := snap.Kinds[kind]
		writeMetric(w, "adsproxy_report_runs_total{kind=%q,status=\"success\"} %d\n", kind, k.Succeeded)
		writeMetric(w, "adsproxy_report_runs_total{kind=%q,status=\"failed\"} %d\n", kind, k.Failed)
		writeMetric(w, "adsproxy_report_rows_total{kind=%q} %d\n", kind, k.Rows)
		writeMetric(w, "adsproxy_upstream_duration_seconds_count{kind=%q} %d\n", kind, k.UpstreamDurationCount)
		writeMetric(w, "adsproxy_upstream_duration_seconds_sum{kind=%q} %.6f\n", kind, float64(k.UpstreamDurationTotalNs)/1e9)
	}

	writeMetric(w, "adsproxy_auth_rejected_total %d\n", snap.AuthRejected)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
