package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adsproxy/adsproxy/internal/auth"
	"github.com/adsproxy/adsproxy/internal/metrics"
)

const testAPIKey = "ak_test_secret_value"

func newAuthHandler(t *testing.T, gate *auth.Gate, recorder metrics.Recorder, logs io.Writer) (http.Handler, *bool) {
	t.Helper()

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	mw := Auth(AuthConfig{
		Logger:  slog.New(slog.NewJSONHandler(logs, nil)),
		Gate:    gate,
		Metrics: recorder,
	})
	return mw(next), &called
}

func TestAuth(t *testing.T) {
	t.Parallel()

	gate, err := auth.NewGate(testAPIKey, "")
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}

	tests := []struct {
		name       string
		key        string
		setKey     bool
		wantStatus int
		wantCalled bool
		wantReason string
	}{
		{"valid key", testAPIKey, true, http.StatusOK, true, ""},
		{"missing header", "", false, http.StatusUnauthorized, false, "missing_key"},
		{"empty header", "", true, http.StatusUnauthorized, false, "missing_key"},
		{"wrong key", "ak_wrong", true, http.StatusUnauthorized, false, "invalid_key"},
		{"key prefix", testAPIKey[:5], true, http.StatusUnauthorized, false, "invalid_key"},
		{"key with suffix", testAPIKey + "x", true, http.StatusUnauthorized, false, "invalid_key"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var logs bytes.Buffer
			recorder := metrics.NewInMemory()
			handler, called := newAuthHandler(t, gate, recorder, &logs)

			req := httptest.NewRequest(http.MethodPost, "/api/keywords", strings.NewReader(`{}`))
			if tt.setKey {
				req.Header.Set("X-Api-Key", tt.key)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if *called != tt.wantCalled {
				t.Errorf("next called = %v, want %v", *called, tt.wantCalled)
			}

			if tt.wantStatus != http.StatusUnauthorized {
				return
			}

			if got := rec.Body.String(); got != unauthorizedBody {
				t.Errorf("body = %s, want %s", got, unauthorizedBody)
			}
			if got := rec.Header().Get("Content-Type"); got != "application/json" {
				t.Errorf("Content-Type = %q", got)
			}
			if !strings.Contains(logs.String(), `"reason":"`+tt.wantReason+`"`) {
				t.Errorf("expected reason %s in logs: %s", tt.wantReason, logs.String())
			}
			if tt.key != "" && strings.Contains(logs.String(), tt.key) {
				t.Error("presented key must not be logged")
			}
			if recorder.Snapshot().AuthRejected != 1 {
				t.Errorf("expected 1 rejection recorded, got %d", recorder.Snapshot().AuthRejected)
			}
		})
	}
}

func TestAuth_HashedSecret(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashKey(testAPIKey)
	if err != nil {
		t.Fatalf("hash key: %v", err)
	}
	gate, err := auth.NewGate("", hash)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}

	handler, called := newAuthHandler(t, gate, nil, io.Discard)

	req := httptest.NewRequest(http.MethodPost, "/api/demographics", nil)
	req.Header.Set(APIKeyHeader, testAPIKey)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !*called {
		t.Errorf("expected hashed secret to authorize, got status %d", rec.Code)
	}
}

func TestAuth_BearerNotAccepted(t *testing.T) {
	t.Parallel()

	gate, err := auth.NewGate(testAPIKey, "")
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	handler, called := newAuthHandler(t, gate, nil, io.Discard)

	req := httptest.NewRequest(http.MethodPost, "/api/geographic", nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized || *called {
		t.Errorf("expected 401 for Authorization header, got %d", rec.Code)
	}
}
