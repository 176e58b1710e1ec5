package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
)

func TestRequestLogging_WritesAccessEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf})

	handler := RequestLogging(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/live", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status passthrough, got=%d", rec.Code)
	}

	var entry map[string]any
	if err := sonic.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("decode entry: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "http request" || entry["path"] != "/v1/matches/live" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Fatalf("unexpected status field: %v", entry["status"])
	}
	if entry["client_ip"] != "203.0.113.7" {
		t.Fatalf("unexpected client ip: %v", entry["client_ip"])
	}
}

func TestRequestLogging_SkipsHealthChecks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf})

	handler := RequestLogging(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if buf.Len() != 0 {
		t.Fatalf("expected no access log for health check, got %q", buf.String())
	}
}

func TestRequestLogging_ServerErrorAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf})

	handler := RequestID(RequestLogging(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"x":1}`))
	})))

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/101", nil)
	req.Header.Set("X-Request-ID", "trace-me-01")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var entry map[string]any
	if err := sonic.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("decode entry: %v (%q)", err, buf.String())
	}
	if entry["level"] != "ERROR" {
		t.Fatalf("expected ERROR level, got %v", entry["level"])
	}
	if entry["request_id"] != "trace-me-01" {
		t.Fatalf("expected caller request id, got %v", entry["request_id"])
	}
	if entry["bytes"] != float64(7) {
		t.Fatalf("unexpected bytes field: %v", entry["bytes"])
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestID(r.Context())
	}))

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "caller id kept", incoming: "abc-123_x.y", keep: true},
		{name: "missing id minted", incoming: ""},
		{name: "unsafe id replaced", incoming: "abc\nInjected: 1"},
		{name: "oversized id replaced", incoming: strings.Repeat("a", maxRequestIDLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/series", nil)
			if tt.incoming != "" {
				req.Header.Set(requestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			got := rec.Header().Get(requestIDHeader)
			if got == "" || got != seen {
				t.Fatalf("header %q and context %q disagree", got, seen)
			}
			if tt.keep && got != tt.incoming {
				t.Fatalf("expected %q kept, got %q", tt.incoming, got)
			}
			if !tt.keep && got == tt.incoming {
				t.Fatalf("expected a fresh id, got %q", got)
			}
		})
	}
}
