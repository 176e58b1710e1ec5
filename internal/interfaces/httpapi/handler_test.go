package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	"github.com/riskibarqy/cricket-hub/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/platform/ratelimit"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
	"github.com/stretchr/testify/require"
)

// offlineFeed reports every upstream endpoint as unconfigured.
type offlineFeed struct{}

func (offlineFeed) ListConfigured(match.View) bool { return false }
func (offlineFeed) FetchList(context.Context, match.View) ([]match.Match, bool) {
	return nil, false
}
func (offlineFeed) DetailConfigured() bool { return false }
func (offlineFeed) FetchDetail(context.Context, string) (match.Match, bool) {
	return match.Match{}, false
}
func (offlineFeed) FetchScorecard(context.Context, string) ([]match.Innings, bool) {
	return nil, false
}
func (offlineFeed) SeriesConfigured() bool { return false }
func (offlineFeed) FetchSeries(context.Context) ([]series.Series, bool) {
	return nil, false
}

type fixedLimiter struct{}

func (fixedLimiter) Status() ratelimit.Status {
	return ratelimit.Status{RequestsThisMinute: 2, RequestsThisHour: 100, MaxPerMinute: 8, MaxPerHour: 400, CanMakeRequest: true}
}

func (fixedLimiter) Config() ratelimit.Config {
	return ratelimit.Config{MaxPerMinute: 8, MaxPerHour: 400, RetryDelay: 8 * time.Second, MaxRetries: 2}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	now := time.Now().UTC()
	matches := memory.NewMatchRepository([]match.Match{
		{ID: "m-1", MatchID: "101", Title: "India vs Australia", Status: match.StatusLive, IsLive: true, StartDate: now.Add(-time.Hour)},
		{ID: "m-2", MatchID: "102", Title: "England vs Pakistan", Status: match.StatusUpcoming, StartDate: now.Add(24 * time.Hour)},
		{ID: "m-3", MatchID: "103", Title: "New Zealand vs South Africa", Status: match.StatusUpcoming, StartDate: now.Add(48 * time.Hour)},
	})
	seriesRepo := memory.NewSeriesRepository([]series.Series{
		{
			SeriesID:   "s-1",
			Name:       "Border-Gavaskar Trophy",
			SeriesType: "INTERNATIONAL",
			StartDate:  now.AddDate(0, 0, -3),
			EndDate:    now.AddDate(0, 0, 10),
			Standings: []series.TeamStanding{
				{TeamID: "aus", TeamName: "Australia", Points: 4, NetRunRate: 0.2},
				{TeamID: "ind", TeamName: "India", Points: 6, NetRunRate: 0.5},
			},
		},
		{SeriesID: "s-2", Name: "Big Bash League", SeriesType: "LEAGUE", StartDate: now.AddDate(0, 0, 30)},
	})

	flags := usecase.NewFeatureFlags(map[usecase.Flag]bool{usecase.FlagMatchDetails: true})
	logger := logging.NewNop()
	matchService := usecase.NewMatchService(offlineFeed{}, matches, flags, nil, logger)
	seriesService := usecase.NewSeriesService(seriesRepo, offlineFeed{}, flags, logger)
	adminService := usecase.NewAdminService(flags, fixedLimiter{}, usecase.CacheTTLs{Enabled: true, LiveMatches: 2 * time.Minute})

	return NewRouter(NewHandler(matchService, seriesService, adminService, logger), logger, []string{"*"})
}

func serve(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHandler_Healthz(t *testing.T) {
	rec := serve(t, newTestRouter(t), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeBody[map[string]string](t, rec)["status"])
}

func TestHandler_ListMatchesFallsBackToStore(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(t, router, http.MethodGet, "/v1/matches/live", "")
	require.Equal(t, http.StatusOK, rec.Code)
	live := decodeBody[[]matchDTO](t, rec)
	require.Len(t, live, 1)
	require.Equal(t, "101", live[0].MatchID)
	require.True(t, live[0].IsLive)
	require.Len(t, live[0].Teams, 2)

	rec = serve(t, router, http.MethodGet, "/v1/matches/upcoming?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	upcoming := decodeBody[[]matchDTO](t, rec)
	require.Len(t, upcoming, 1)
	require.Equal(t, "102", upcoming[0].MatchID)
}

func TestHandler_ListMatchesRejectsBadLimit(t *testing.T) {
	router := newTestRouter(t)

	for _, target := range []string{"/v1/matches/recent?limit=0", "/v1/matches/recent?limit=101", "/v1/matches/recent?limit=ten"} {
		rec := serve(t, router, http.MethodGet, target, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
		body := decodeBody[map[string]any](t, rec)
		require.Equal(t, "2.0", body["apiVersion"])
	}
}

func TestHandler_GetMatch(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(t, router, http.MethodGet, "/v1/matches/m-2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "102", decodeBody[matchDTO](t, rec).MatchID)

	rec = serve(t, router, http.MethodGet, "/v1/matches/999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ScorecardWithoutUpstreamHasEmptyInnings(t *testing.T) {
	rec := serve(t, newTestRouter(t), http.MethodGet, "/v1/matches/101/scorecard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"innings":[]`)
	require.Equal(t, "101", decodeBody[scorecardDTO](t, rec).Match.MatchID)
}

func TestHandler_SyncMatchReturnsStoredCopy(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(t, router, http.MethodPost, "/v1/matches/101/sync", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "m-1", decodeBody[matchDTO](t, rec).ID)

	rec = serve(t, router, http.MethodPost, "/v1/matches/404/sync", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_SeriesRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(t, router, http.MethodGet, "/v1/series", "")
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeBody[[]seriesDTO](t, rec)
	require.Len(t, all, 2)
	require.Equal(t, "s-2", all[0].SeriesID)
	require.Equal(t, "UPCOMING", all[0].Status)

	rec = serve(t, router, http.MethodGet, "/v1/series/active", "")
	require.Equal(t, http.StatusOK, rec.Code)
	active := decodeBody[[]seriesDTO](t, rec)
	require.Len(t, active, 1)
	require.True(t, active[0].IsActive)

	rec = serve(t, router, http.MethodGet, "/v1/series/active?type=international", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody[[]seriesDTO](t, rec), 1)

	rec = serve(t, router, http.MethodGet, "/v1/series/active?type=league", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeBody[[]seriesDTO](t, rec))

	rec = serve(t, router, http.MethodGet, "/v1/series/s-1/standings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	standings := decodeBody[seriesStandingsDTO](t, rec)
	require.Equal(t, "Border-Gavaskar Trophy", standings.SeriesName)
	require.Equal(t, "ind", standings.Standings[0].TeamID)

	rec = serve(t, router, http.MethodGet, "/v1/series/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_FeatureFlags(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(t, router, http.MethodPut, "/v1/admin/feature-flags", `{"flagName":"enable_live_matches_api","enabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[flagDTO](t, rec)
	require.Equal(t, "ENABLE_LIVE_MATCHES_API", updated.Name)
	require.True(t, updated.Enabled)

	rec = serve(t, router, http.MethodGet, "/v1/admin/feature-flags", "")
	require.Equal(t, http.StatusOK, rec.Code)
	overview := decodeBody[adminOverviewDTO](t, rec)
	require.Len(t, overview.Features, 6)
	require.Equal(t, 8, overview.RateLimits.MaxPerMinute)
	require.Equal(t, int64(120), overview.Cache.LiveMatchesTTLSecs)
	require.NotEmpty(t, overview.LastUpdated)

	rec = serve(t, router, http.MethodPut, "/v1/admin/feature-flags", `{"flagName":"ENABLE_TIME_TRAVEL","enabled":true}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, router, http.MethodPut, "/v1/admin/feature-flags", `{"flagName":"ENABLE_SERIES_API"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, router, http.MethodPut, "/v1/admin/feature-flags", `{"flagName":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_RateLimit(t *testing.T) {
	rec := serve(t, newTestRouter(t), http.MethodGet, "/v1/admin/rate-limit", "")
	require.Equal(t, http.StatusOK, rec.Code)

	report := decodeBody[rateLimitReportDTO](t, rec)
	require.Equal(t, 2, report.RateLimitStatus.RequestsThisMinute)
	require.Equal(t, 6, report.Recommendations.RequestsRemaining.ThisMinute)
	require.Equal(t, 300, report.Recommendations.RequestsRemaining.ThisHour)
	require.Equal(t, 25, report.Recommendations.UtilizationPercentage.Minute)
	require.Equal(t, 25, report.Recommendations.UtilizationPercentage.Hour)
}

func TestRecoverPanic(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/series", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), internalErrorMsg)
}
