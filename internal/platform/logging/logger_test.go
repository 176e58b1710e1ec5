package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
)

func TestLogger_WritesKeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Output: &buf, Fields: []any{"service", "cricket-hub"}})

	logger.Warn("innings attributed by position", "match_id", "101", "innings", 2, "error", errors.New("no name match"))
	logger.Debug("dropped by level")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one entry, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := sonic.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry["level"] != "WARN" || entry["msg"] != "innings attributed by position" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["service"] != "cricket-hub" || entry["match_id"] != "101" {
		t.Fatalf("missing fields: %v", entry)
	}
	if entry["error"] != "no name match" {
		t.Fatalf("unexpected error field: %v", entry["error"])
	}
}

func TestLogger_NilReceiverFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.InfoContext(context.Background(), "no panic")
	if logger.With("k", "v") == nil {
		t.Fatalf("expected non-nil logger from nil receiver")
	}
}

func TestLogger_ContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Output: &buf})

	ctx := WithRequestID(context.Background(), "req-42")
	logger.InfoContext(ctx, "scorecard served", "match_id", "101")

	var entry map[string]any
	if err := sonic.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry["request_id"] != "req-42" {
		t.Fatalf("expected request_id field, got %v", entry)
	}
	if _, ok := entry["trace_id"]; ok {
		t.Fatalf("unexpected trace_id without a span: %v", entry)
	}
}

func TestWithRequestID_EmptyIsIgnored(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	if got := RequestID(ctx); got != "" {
		t.Fatalf("expected empty request id, got %q", got)
	}
}
