package ratelimit

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
)

const (
	minuteWindow = time.Minute
	hourWindow   = time.Hour
	maxBodyBytes = 6 << 20

	defaultMaxPerMinute   = 8
	defaultMaxPerHour     = 400
	defaultRetryDelay     = 8 * time.Second
	defaultMaxRetries     = 2
	defaultConnRetryDelay = time.Second
	defaultTimeout        = 15 * time.Second
)

type Config struct {
	MaxPerMinute   int
	MaxPerHour     int
	RetryDelay     time.Duration
	MaxRetries     int
	ConnRetryDelay time.Duration
	Timeout        time.Duration
	// AllowedHosts restricts which hosts may be called. Empty allows any host.
	AllowedHosts []string
}

func (c Config) withDefaults() Config {
	if c.MaxPerMinute <= 0 {
		c.MaxPerMinute = defaultMaxPerMinute
	}
	if c.MaxPerHour <= 0 {
		c.MaxPerHour = defaultMaxPerHour
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = defaultRetryDelay
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.ConnRetryDelay <= 0 {
		c.ConnRetryDelay = defaultConnRetryDelay
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// Request describes one upstream GET.
type Request struct {
	URL    string
	Header http.Header
}

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Status is a point-in-time view of both windows.
type Status struct {
	RequestsThisMinute int
	RequestsThisHour   int
	MaxPerMinute       int
	MaxPerHour         int
	CanMakeRequest     bool
}

type outcome string

const (
	outcomeOK        outcome = "ok"
	outcomeThrottled outcome = "throttled"
	outcomeForbidden outcome = "forbidden"
	outcomeTransient outcome = "transient"
	outcomeFailed    outcome = "failed"
)

// Limiter gates upstream calls behind a per-minute and per-hour sliding
// window and absorbs retryable failures. It is safe for concurrent use.
type Limiter struct {
	cfg          Config
	client       Doer
	logger       *logging.Logger
	allowedHosts map[string]struct{}
	metrics      *instruments

	mu     sync.Mutex
	minute []time.Time
	hour   []time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(cfg Config, client Doer, logger *logging.Logger) *Limiter {
	if logger == nil {
		logger = logging.Default()
	}
	cfg = cfg.withDefaults()
	if client == nil {
		client = &http.Client{}
	}

	hosts := make(map[string]struct{}, len(cfg.AllowedHosts))
	for _, host := range cfg.AllowedHosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			hosts[host] = struct{}{}
		}
	}

	return &Limiter{
		cfg:          cfg,
		client:       client,
		logger:       logger,
		allowedHosts: hosts,
		metrics:      newInstruments(),
		now:          time.Now,
		sleep:        sleepContext,
	}
}

// Execute performs req once admitted and returns the decoded JSON object.
// Every failure collapses to nil; callers treat nil as "no fresh data".
func (l *Limiter) Execute(ctx context.Context, req Request) map[string]any {
	if err := l.checkTarget(req.URL); err != nil {
		l.logger.WarnContext(ctx, "upstream request rejected", "url", req.URL, "error", err)
		l.metrics.record(ctx, "rejected")
		return nil
	}

	for attempt := 0; ; attempt++ {
		if !l.admit() {
			l.metrics.record(ctx, "window_full")
			if attempt >= l.cfg.MaxRetries {
				l.logger.WarnContext(ctx, "rate limit reached, giving up", "url", req.URL, "retries", attempt)
				return nil
			}
			l.logger.InfoContext(ctx, "rate limit reached, waiting", "url", req.URL, "delay", l.cfg.RetryDelay)
			if err := l.sleep(ctx, l.cfg.RetryDelay); err != nil {
				return nil
			}
			continue
		}

		body, result, err := l.send(ctx, req)
		l.metrics.record(ctx, string(result))
		switch result {
		case outcomeOK:
			return body
		case outcomeForbidden:
			l.logger.WarnContext(ctx, "upstream access forbidden, endpoint not entitled", "url", req.URL)
			return nil
		case outcomeThrottled:
			if attempt >= l.cfg.MaxRetries {
				l.logger.WarnContext(ctx, "upstream throttled request, retries exhausted", "url", req.URL, "retries", attempt)
				return nil
			}
			delay := 2 * l.cfg.RetryDelay
			l.logger.WarnContext(ctx, "upstream throttled request, backing off", "url", req.URL, "delay", delay)
			if err := l.sleep(ctx, delay); err != nil {
				return nil
			}
		case outcomeTransient:
			if attempt >= l.cfg.MaxRetries {
				l.logger.WarnContext(ctx, "upstream connection failed, retries exhausted", "url", req.URL, "error", err)
				return nil
			}
			l.logger.InfoContext(ctx, "upstream connection failed, retrying", "url", req.URL, "error", err)
			if err := l.sleep(ctx, l.cfg.ConnRetryDelay); err != nil {
				return nil
			}
		default:
			l.logger.ErrorContext(ctx, "upstream request failed", "url", req.URL, "error", err)
			return nil
		}
	}
}

// Status reports window usage and whether a request would be admitted now.
func (l *Limiter) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(l.now())
	return Status{
		RequestsThisMinute: len(l.minute),
		RequestsThisHour:   len(l.hour),
		MaxPerMinute:       l.cfg.MaxPerMinute,
		MaxPerHour:         l.cfg.MaxPerHour,
		CanMakeRequest:     l.admissibleLocked(),
	}
}

func (l *Limiter) Config() Config {
	return l.cfg
}

// admit prunes, checks and records under one lock.
func (l *Limiter) admit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)
	if !l.admissibleLocked() {
		return false
	}
	l.minute = append(l.minute, now)
	l.hour = append(l.hour, now)
	return true
}

func (l *Limiter) admissibleLocked() bool {
	return len(l.minute) < l.cfg.MaxPerMinute && len(l.hour) < l.cfg.MaxPerHour
}

func (l *Limiter) pruneLocked(now time.Time) {
	l.minute = pruneBefore(l.minute, now.Add(-minuteWindow))
	l.hour = pruneBefore(l.hour, now.Add(-hourWindow))
}

func pruneBefore(times []time.Time, cutoff time.Time) []time.Time {
	idx := 0
	for idx < len(times) && !times[idx].After(cutoff) {
		idx++
	}
	if idx == 0 {
		return times
	}
	return append(times[:0], times[idx:]...)
}

func (l *Limiter) send(ctx context.Context, req Request) (map[string]any, outcome, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, outcomeFailed, fmt.Errorf("build request: %w", err)
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(ctx, err), crerr.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classifyTransport(ctx, err), crerr.Wrap(err, "read response body")
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, outcomeThrottled, nil
	case resp.StatusCode == http.StatusForbidden:
		return nil, outcomeForbidden, nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, outcomeFailed, crerr.Newf("upstream status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}

	var body map[string]any
	if err := sonic.Unmarshal(raw, &body); err != nil {
		return nil, outcomeFailed, crerr.Wrap(err, "decode upstream payload")
	}
	return body, outcomeOK, nil
}

// classifyTransport separates connection resets and per-attempt timeouts
// from caller cancellation and other failures.
func classifyTransport(ctx context.Context, err error) outcome {
	if ctx.Err() != nil {
		return outcomeFailed
	}
	if crerr.Is(err, syscall.ECONNRESET) ||
		crerr.Is(err, syscall.ECONNABORTED) ||
		crerr.Is(err, context.DeadlineExceeded) ||
		crerr.Is(err, os.ErrDeadlineExceeded) ||
		crerr.Is(err, io.ErrUnexpectedEOF) {
		return outcomeTransient
	}
	var netErr net.Error
	if crerr.As(err, &netErr) && netErr.Timeout() {
		return outcomeTransient
	}
	return outcomeFailed
}

func (l *Limiter) checkTarget(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if len(l.allowedHosts) == 0 {
		return nil
	}
	if _, ok := l.allowedHosts[strings.ToLower(parsed.Hostname())]; !ok {
		return fmt.Errorf("host %q is not an upstream provider host", parsed.Hostname())
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
