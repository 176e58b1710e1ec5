package usecase

import (
	"math"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/platform/ratelimit"
)

// RateLimitStatusReader exposes the shared limiter's counters.
type RateLimitStatusReader interface {
	Status() ratelimit.Status
	Config() ratelimit.Config
}

type CacheTTLs struct {
	Enabled       bool
	SeriesList    time.Duration
	SeriesDetails time.Duration
	MatchDetails  time.Duration
	LiveMatches   time.Duration
}

type AdminOverview struct {
	Features    []FlagState
	RateLimits  ratelimit.Config
	Cache       CacheTTLs
	LastUpdated time.Time
}

type RateLimitRecommendations struct {
	CanMakeRequest           bool
	RemainingThisMinute      int
	RemainingThisHour        int
	MinuteUtilizationPercent int
	HourUtilizationPercent   int
}

type RateLimitReport struct {
	Status          ratelimit.Status
	Recommendations RateLimitRecommendations
	Timestamp       time.Time
}

// AdminService serves feature toggles and limiter diagnostics.
type AdminService struct {
	flags   *FeatureFlags
	limiter RateLimitStatusReader
	cache   CacheTTLs
	now     func() time.Time
}

func NewAdminService(flags *FeatureFlags, limiter RateLimitStatusReader, cache CacheTTLs) *AdminService {
	return &AdminService{flags: flags, limiter: limiter, cache: cache, now: time.Now}
}

func (s *AdminService) Overview() AdminOverview {
	return AdminOverview{
		Features:    s.flags.List(),
		RateLimits:  s.limiter.Config(),
		Cache:       s.cache,
		LastUpdated: s.flags.LastUpdated(),
	}
}

func (s *AdminService) SetFlag(name string, enabled bool) (FlagState, error) {
	return s.flags.Set(name, enabled)
}

func (s *AdminService) RateLimit() RateLimitReport {
	status := s.limiter.Status()
	return RateLimitReport{
		Status: status,
		Recommendations: RateLimitRecommendations{
			CanMakeRequest:           status.CanMakeRequest,
			RemainingThisMinute:      max(status.MaxPerMinute-status.RequestsThisMinute, 0),
			RemainingThisHour:        max(status.MaxPerHour-status.RequestsThisHour, 0),
			MinuteUtilizationPercent: utilization(status.RequestsThisMinute, status.MaxPerMinute),
			HourUtilizationPercent:   utilization(status.RequestsThisHour, status.MaxPerHour),
		},
		Timestamp: s.now().UTC(),
	}
}

func utilization(used, ceiling int) int {
	if ceiling <= 0 {
		return 0
	}
	return int(math.Round(float64(used) / float64(ceiling) * 100))
}
