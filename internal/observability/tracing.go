package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/cricket-hub/internal/config"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// startUptrace installs the global OpenTelemetry providers. The limiter
// counters and the otelhttp spans are only exported while this is on.
func startUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	dsn := strings.TrimSpace(cfg.UptraceDSN)
	switch {
	case !cfg.UptraceEnabled:
		logger.Info("tracing off", "reason", "UPTRACE_ENABLED=false")
		return nil, nil
	case dsn == "":
		logger.Warn("tracing off", "reason", "UPTRACE_DSN empty")
		return nil, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(dsn),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(attribute.String("cricket_hub.store", cfg.StoreDriver)),
		uptrace.WithLoggingEnabled(false),
	)
	logger.Info("tracing on", "environment", cfg.AppEnv, "store", cfg.StoreDriver)
	return uptrace.Shutdown, nil
}
