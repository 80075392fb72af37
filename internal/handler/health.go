package handler

import (
	"context"
	"net/http"
	"time"
)

// readyTimeout bounds the dependency checks of /readyz.
const readyTimeout = 5 * time.Second

// timestampLayout is RFC 3339 with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	db  HealthChecker
	now func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
// db is nil when the run log is disabled.
func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db, now: time.Now}
}

// HealthResponse is the liveness response.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ReadyResponse is the readiness response.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health is the liveness probe. It checks nothing beyond the process.
//
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(timestampLayout),
	})
}

// Readyz is the readiness probe. It fails only when a configured
// dependency is unreachable.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			checks["postgres"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["postgres"] = "ok"
		}
	} else {
		checks["postgres"] = "not configured"
	}

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, ReadyResponse{Status: status, Checks: checks})
}
