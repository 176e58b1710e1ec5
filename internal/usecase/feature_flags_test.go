package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/stretchr/testify/require"
)

func TestFeatureFlags_Set(t *testing.T) {
	t.Parallel()

	flags := NewFeatureFlags(map[Flag]bool{FlagMatchDetails: true})
	later := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	flags.now = func() time.Time { return later }

	require.True(t, flags.Enabled(FlagMatchDetails))
	require.False(t, flags.Enabled(FlagLiveMatches))

	state, err := flags.Set("enable_live_matches_api", true)
	require.NoError(t, err)
	require.Equal(t, FlagLiveMatches, state.Name)
	require.True(t, flags.Enabled(FlagLiveMatches))
	require.Equal(t, later, flags.LastUpdated())

	_, err = flags.Set("ENABLE_TELEPORT", true)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = flags.Set("  ", true)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFeatureFlags_ListKeepsDeclaredOrder(t *testing.T) {
	t.Parallel()

	list := NewFeatureFlags(nil).List()
	require.Len(t, list, len(flagOrder))
	for i, state := range list {
		require.Equal(t, flagOrder[i], state.Name)
		require.NotEmpty(t, state.Description)
		require.False(t, state.Enabled)
	}
}

func TestViewFlag(t *testing.T) {
	t.Parallel()

	require.Equal(t, FlagLiveMatches, ViewFlag(match.ViewLive))
	require.Equal(t, FlagRecentMatches, ViewFlag(match.ViewRecent))
	require.Equal(t, FlagUpcomingMatches, ViewFlag(match.ViewUpcoming))
}
