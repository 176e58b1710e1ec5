package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var (
	apiTracer = otel.Tracer("cricket-hub/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// Probe endpoints hit by the platform every few seconds.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/health":  {},
	"/livez":   {},
	"/readyz":  {},
}

// startSpan opens a child span for handler entry points only, and only when
// the request already carries a server span from RequestTracing.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !isHandlerSpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix) && len(name) > len(handlerSpanPrefix)
}

func isProbe(path string) bool {
	_, ok := probePaths[strings.ToLower(strings.TrimSpace(path))]
	return ok
}

// RequestTracing opens the server span. Probes are not traced.
func RequestTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "cricket-hub-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return !isProbe(r.URL.Path)
		}),
	)
}
