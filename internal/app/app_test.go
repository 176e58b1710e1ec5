package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/config"
	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/cricket-hub/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
	"github.com/stretchr/testify/require"

	basecache "github.com/riskibarqy/cricket-hub/internal/platform/cache"
)

type fakeRunner struct {
	report usecase.SyncReport
	err    error
	calls  int
}

func (f *fakeRunner) Run(context.Context) (usecase.SyncReport, error) {
	f.calls++
	return f.report, f.err
}

func testConfig() config.Config {
	return config.Config{
		HTTPAddr:              ":0",
		StoreDriver:           config.StoreMemory,
		CORSAllowedOrigins:    []string{"*"},
		CacheEnabled:          true,
		CacheSeriesListTTL:    time.Hour,
		CacheSeriesDetailsTTL: time.Hour,
		CacheMatchDetailsTTL:  time.Minute,
		CacheLiveMatchTTL:     time.Minute,
		RateLimitMaxPerMinute: 8,
		RateLimitMaxPerHour:   400,
		FeatureMatchDetails:   true,
		SyncInterval:          time.Minute,
	}
}

func TestOpenStores_MemoryWithCache(t *testing.T) {
	repos, err := openStores(context.Background(), testConfig(), logging.NewNop())
	require.NoError(t, err)
	defer repos.Close()

	_, ok := repos.matches.(*cache.MatchRepository)
	require.True(t, ok, "expected cached match repository")
	_, ok = repos.series.(*cache.SeriesRepository)
	require.True(t, ok, "expected cached series repository")
	require.NotNil(t, repos.cache)
}

func TestOpenStores_MemoryWithoutCache(t *testing.T) {
	cfg := testConfig()
	cfg.CacheEnabled = false

	repos, err := openStores(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)

	_, ok := repos.matches.(*memory.MatchRepository)
	require.True(t, ok, "expected bare memory repository")
	require.Nil(t, repos.cache)
	require.NoError(t, repos.Close())
}

func TestNew_ServesHealthAndStoredMatches(t *testing.T) {
	application, err := New(context.Background(), testConfig(), logging.NewNop())
	require.NoError(t, err)
	defer application.Close()

	rec := httptest.NewRecorder()
	application.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	application.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches/live", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestNew_RejectsEmptyAddr(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = ""

	_, err := New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestFeatureFlagsFromConfig(t *testing.T) {
	cfg := config.Config{FeatureLiveMatches: true, FeatureAutoSync: true}
	flags := usecase.NewFeatureFlags(featureFlagsFromConfig(cfg))

	require.True(t, flags.Enabled(usecase.FlagLiveMatches))
	require.True(t, flags.Enabled(usecase.FlagAutoSync))
	require.False(t, flags.Enabled(usecase.FlagSeries))
	require.False(t, flags.Enabled(usecase.ViewFlag(match.ViewRecent)))
}

func TestRunSync_LogsEachTask(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf})
	runner := &fakeRunner{report: usecase.SyncReport{Tasks: []usecase.SyncTaskResult{
		{Task: "live", Status: "success", Records: 3},
		{Task: "series", Status: "skipped"},
	}}}

	runSync(context.Background(), runner, time.Second, logger)

	require.Equal(t, 1, runner.calls)
	require.Equal(t, 2, strings.Count(buf.String(), "sync task finished"))
}

func TestRunSync_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf})
	runner := &fakeRunner{err: errors.New("create worker pool: boom")}

	runSync(context.Background(), runner, time.Second, logger)

	require.Contains(t, buf.String(), "sync run failed")
	require.Contains(t, buf.String(), "boom")
}

func TestRunSync_SkipsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &fakeRunner{}

	runSync(ctx, runner, time.Second, logging.NewNop())

	require.Zero(t, runner.calls)
}

func TestSweepCache_LogsStats(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelDebug, Output: &buf})

	store := basecache.NewStore(0)
	store.SetWithTTL(context.Background(), "match:id:101", "stale", time.Nanosecond)
	time.Sleep(time.Millisecond)

	sweepCache(context.Background(), store, logger)

	require.Zero(t, store.Len())
	require.Contains(t, buf.String(), "cache swept")
	require.Contains(t, buf.String(), `"removed":1`)
}
