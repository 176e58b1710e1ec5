package ratelimit

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type instruments struct {
	attempts metric.Int64Counter
}

func newInstruments() *instruments {
	meter := otel.Meter("cricket-hub/internal/platform/ratelimit")
	attempts, err := meter.Int64Counter("upstream_attempts_total",
		metric.WithDescription("Upstream request attempts by outcome."),
	)
	if err != nil {
		attempts = noop.Int64Counter{}
	}
	return &instruments{attempts: attempts}
}

func (i *instruments) record(ctx context.Context, outcome string) {
	if i == nil || i.attempts == nil {
		return
	}
	i.attempts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
