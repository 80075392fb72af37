package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/adsproxy/adsproxy/internal/handler/dto"
	"github.com/adsproxy/adsproxy/internal/metrics"
)

func TestHandler_Hello(t *testing.T) {
	h := New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.Hello(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["name"] != ServiceName {
		t.Errorf("unexpected name: %s", response["name"])
	}

	if response["version"] != Version {
		t.Errorf("unexpected version: %s", response["version"])
	}
}

func TestHandler_NotFound(t *testing.T) {
	h := New()

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	rec := httptest.NewRecorder()

	h.NotFound(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}

	var response dto.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Success || response.Error != "Not found" {
		t.Errorf("unexpected error envelope: %+v", response)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := New()

	req := httptest.NewRequest(http.MethodGet, "/api/keywords", nil)
	rec := httptest.NewRecorder()

	h.MethodNotAllowed(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}

	var response dto.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Error != "Method not allowed" {
		t.Errorf("unexpected error message: %s", response.Error)
	}
}

func TestMetricsHandler_Metrics(t *testing.T) {
	recorder := metrics.NewInMemory()
	recorder.IncReportRun("keywords", "success")
	recorder.IncReportRun("keywords", "failed")
	recorder.ObserveReportRows("keywords", 12)
	recorder.ObserveUpstreamDuration("keywords", 1500*time.Millisecond)
	recorder.IncAuthRejected()

	h := NewMetricsHandler(recorder)

	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, line := range []string{
		`adsproxy_report_runs_total{kind="keywords",status="success"} 1`,
		`adsproxy_report_runs_total{kind="keywords",status="failed"} 1`,
		`adsproxy_report_rows_total{kind="keywords"} 12`,
		`adsproxy_upstream_duration_seconds_count{kind="keywords"} 1`,
		`adsproxy_upstream_duration_seconds_sum{kind="keywords"} 1.500000`,
		`adsproxy_auth_rejected_total 1`,
	} {
		if !strings.Contains(body, line+"\n") {
			t.Errorf("expected line %q in:\n%s", line, body)
		}
	}
}

func TestMetricsHandler_NoRecorder(t *testing.T) {
	h := NewMetricsHandler(nil)

	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}
