package usecase

import (
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
)

type Flag string

const (
	FlagLiveMatches     Flag = "ENABLE_LIVE_MATCHES_API"
	FlagRecentMatches   Flag = "ENABLE_RECENT_MATCHES_API"
	FlagUpcomingMatches Flag = "ENABLE_UPCOMING_MATCHES_API"
	FlagMatchDetails    Flag = "ENABLE_MATCH_DETAILS_API"
	FlagSeries          Flag = "ENABLE_SERIES_API"
	FlagAutoSync        Flag = "ENABLE_AUTO_SYNC"
)

var flagOrder = []Flag{
	FlagLiveMatches,
	FlagRecentMatches,
	FlagUpcomingMatches,
	FlagMatchDetails,
	FlagSeries,
	FlagAutoSync,
}

var flagDescriptions = map[Flag]string{
	FlagLiveMatches:     "Fetch live matches from the upstream feed",
	FlagRecentMatches:   "Fetch recently completed matches from the upstream feed",
	FlagUpcomingMatches: "Fetch upcoming matches from the upstream feed",
	FlagMatchDetails:    "Fetch single match details and scorecards from the upstream feed",
	FlagSeries:          "Sync the series schedule from the upstream feed",
	FlagAutoSync:        "Refresh stored matches and series in the background",
}

// ViewFlag is the flag gating upstream fetches for a list view.
func ViewFlag(view match.View) Flag {
	switch view {
	case match.ViewLive:
		return FlagLiveMatches
	case match.ViewRecent:
		return FlagRecentMatches
	default:
		return FlagUpcomingMatches
	}
}

type FlagState struct {
	Name        Flag
	Enabled     bool
	Description string
}

// FeatureFlags holds runtime toggles seeded from configuration.
type FeatureFlags struct {
	mu          sync.RWMutex
	values      map[Flag]bool
	lastUpdated time.Time
	now         func() time.Time
}

// NewFeatureFlags seeds known flags; unknown keys in initial are ignored.
func NewFeatureFlags(initial map[Flag]bool) *FeatureFlags {
	values := make(map[Flag]bool, len(flagOrder))
	for _, flag := range flagOrder {
		values[flag] = initial[flag]
	}
	f := &FeatureFlags{values: values, now: time.Now}
	f.lastUpdated = f.now().UTC()
	return f
}

func (f *FeatureFlags) Enabled(flag Flag) bool {
	if f == nil {
		return false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values[flag]
}

// Set toggles a flag by name.
func (f *FeatureFlags) Set(name string, enabled bool) (FlagState, error) {
	flag := Flag(strings.ToUpper(strings.TrimSpace(name)))
	if flag == "" {
		return FlagState{}, invalidInputf("flag name is required")
	}
	if _, known := flagDescriptions[flag]; !known {
		return FlagState{}, notFound("feature flag", string(flag))
	}

	f.mu.Lock()
	f.values[flag] = enabled
	f.lastUpdated = f.now().UTC()
	f.mu.Unlock()

	return FlagState{Name: flag, Enabled: enabled, Description: flagDescriptions[flag]}, nil
}

func (f *FeatureFlags) List() []FlagState {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]FlagState, 0, len(flagOrder))
	for _, flag := range flagOrder {
		out = append(out, FlagState{Name: flag, Enabled: f.values[flag], Description: flagDescriptions[flag]})
	}
	return out
}

func (f *FeatureFlags) LastUpdated() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastUpdated
}
