package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches/live", handler.ListLiveMatches)
	mux.HandleFunc("GET /v1/matches/recent", handler.ListRecentMatches)
	mux.HandleFunc("GET /v1/matches/upcoming", handler.ListUpcomingMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/scorecard", handler.GetMatchScorecard)
	mux.HandleFunc("POST /v1/matches/{matchID}/sync", handler.SyncMatch)
}

func registerSeriesRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/series", handler.ListSeries)
	mux.HandleFunc("GET /v1/series/active", handler.ListActiveSeries)
	mux.HandleFunc("GET /v1/series/{seriesID}", handler.GetSeries)
	mux.HandleFunc("GET /v1/series/{seriesID}/standings", handler.GetSeriesStandings)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/admin/feature-flags", handler.GetFeatureFlags)
	mux.HandleFunc("PUT /v1/admin/feature-flags", handler.UpdateFeatureFlag)
	mux.HandleFunc("GET /v1/admin/rate-limit", handler.GetRateLimit)
}
