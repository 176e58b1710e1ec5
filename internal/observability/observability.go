package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/cricket-hub/internal/config"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
)

// Stack holds whatever telemetry components the config switched on.
// Components are stopped in reverse start order.
type Stack struct {
	logger  *logging.Logger
	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

// Start brings up tracing and metrics export, continuous profiling and the
// pprof listener. On failure anything already started is stopped again.
func Start(cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Stack{logger: logger}

	steps := []struct {
		name  string
		start func(config.Config, *logging.Logger) (func(context.Context) error, error)
	}{
		{name: "uptrace", start: startUptrace},
		{name: "pyroscope", start: startPyroscope},
		{name: "pprof", start: startPprof},
	}
	for _, step := range steps {
		stop, err := step.start(cfg, logger.Named(step.name))
		if err != nil {
			_ = s.Shutdown(context.Background())
			return nil, fmt.Errorf("start %s: %w", step.name, err)
		}
		if stop != nil {
			s.closers = append(s.closers, closer{name: step.name, fn: stop})
		}
	}
	return s, nil
}

// Enabled lists the running components, in start order.
func (s *Stack) Enabled() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.closers))
	for _, c := range s.closers {
		out = append(out, c.name)
	}
	return out
}

func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		c := s.closers[i]
		if err := c.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", c.name, err))
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
