package middleware

import (
	"log/slog"
	"net/http"

	"github.com/adsproxy/adsproxy/internal/auth"
	"github.com/adsproxy/adsproxy/internal/metrics"
)

// APIKeyHeader carries the shared secret on every protected request.
const APIKeyHeader = "x-api-key"

// unauthorizedBody is identical for every rejection.
const unauthorizedBody = `{"success":false,"error":"Unauthorized","details":[]}`

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger  *slog.Logger
	Gate    *auth.Gate
	Metrics metrics.Recorder
}

// Auth returns a middleware that rejects requests whose x-api-key header
// does not match the configured secret. Rejected requests never reach next.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)

			reason := ""
			switch {
			case key == "":
				reason = "missing_key"
			case !cfg.Gate.Allow(key):
				reason = "invalid_key"
			}

			if reason != "" {
				recorder.IncAuthRejected()
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same body for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(unauthorizedBody))
}
