package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestStartUsecaseSpan_NoParent(t *testing.T) {
	ctx := context.Background()
	got, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	require.Equal(t, ctx, got)
	require.False(t, span.SpanContext().IsValid())

	// ending the noop span must be safe for every outcome
	endSpan(span, nil)
	endSpan(span, notFound("match", "101"))
	endSpan(span, errors.New("boom"))
}

func TestStartUsecaseSpan_InheritsTrace(t *testing.T) {
	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10},
		SpanID:     trace.SpanID{0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10, 0x11},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), parent)

	_, span := startUsecaseSpan(ctx, "usecase.SyncService.Run")
	defer span.End()
	require.Equal(t, parent.TraceID(), span.SpanContext().TraceID())
}

func TestOutcome(t *testing.T) {
	require.Equal(t, "invalid_input", outcome(invalidInputf("bad limit")))
	require.Equal(t, "not_found", outcome(notFound("series", "s-9")))
	require.Equal(t, "dependency_unavailable", outcome(unavailablef("upstream series")))
	require.Equal(t, "internal", outcome(errors.New("boom")))
}
