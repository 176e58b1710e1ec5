package httpapi

import (
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

type scoreDTO struct {
	Runs            int     `json:"runs"`
	Wickets         int     `json:"wickets"`
	Overs           float64 `json:"overs"`
	Balls           int     `json:"balls"`
	RunRate         float64 `json:"runRate"`
	RequiredRunRate float64 `json:"requiredRunRate"`
}

type teamEntryDTO struct {
	TeamID        string   `json:"teamId"`
	TeamName      string   `json:"teamName"`
	TeamShortName string   `json:"teamShortName"`
	Score         scoreDTO `json:"score"`
	IsWinner      bool     `json:"isWinner"`
}

type venueDTO struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type seriesRefDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SeriesType string `json:"seriesType"`
}

type matchDTO struct {
	ID         string         `json:"id"`
	MatchID    string         `json:"matchId"`
	Title      string         `json:"title"`
	ShortTitle string         `json:"shortTitle"`
	Format     string         `json:"format"`
	Status     string         `json:"status"`
	IsLive     bool           `json:"isLive"`
	Teams      []teamEntryDTO `json:"teams"`
	Venue      venueDTO       `json:"venue"`
	Series     seriesRefDTO   `json:"series"`
	StartDate  string         `json:"startDate"`
	UpdatedAt  string         `json:"updatedAt,omitempty"`
}

type inningsDTO struct {
	InningsID   int     `json:"inningsId"`
	BattingTeam string  `json:"battingTeam"`
	Runs        int     `json:"runs"`
	Wickets     int     `json:"wickets"`
	Overs       float64 `json:"overs"`
	RunRate     float64 `json:"runRate"`
}

type scorecardDTO struct {
	Match   matchDTO     `json:"match"`
	Innings []inningsDTO `json:"innings"`
}

type standingDTO struct {
	TeamID     string  `json:"teamId"`
	TeamName   string  `json:"teamName"`
	Played     int     `json:"played"`
	Won        int     `json:"won"`
	Lost       int     `json:"lost"`
	NoResult   int     `json:"noResult"`
	Points     int     `json:"points"`
	NetRunRate float64 `json:"netRunRate"`
}

type seriesDTO struct {
	SeriesID   string        `json:"seriesId"`
	Name       string        `json:"name"`
	ShortName  string        `json:"shortName"`
	SeriesType string        `json:"seriesType"`
	StartDate  string        `json:"startDate"`
	EndDate    string        `json:"endDate,omitempty"`
	Status     string        `json:"status"`
	IsActive   bool          `json:"isActive"`
	Priority   int           `json:"priority"`
	Standings  []standingDTO `json:"standings"`
}

type seriesStandingsDTO struct {
	SeriesID   string        `json:"seriesId"`
	SeriesName string        `json:"seriesName"`
	Standings  []standingDTO `json:"standings"`
}

type flagDTO struct {
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description"`
}

type rateLimitConfigDTO struct {
	MaxPerMinute     int   `json:"maxPerMinute"`
	MaxPerHour       int   `json:"maxPerHour"`
	RetryDelayMs     int64 `json:"retryDelayMs"`
	MaxRetries       int   `json:"maxRetries"`
	ConnRetryDelayMs int64 `json:"connRetryDelayMs"`
	TimeoutMs        int64 `json:"timeoutMs"`
}

type cacheConfigDTO struct {
	Enabled              bool  `json:"enabled"`
	SeriesListTTLSeconds int64 `json:"seriesListTtlSeconds"`
	SeriesDetailsTTLSecs int64 `json:"seriesDetailsTtlSeconds"`
	MatchDetailsTTLSecs  int64 `json:"matchDetailsTtlSeconds"`
	LiveMatchesTTLSecs   int64 `json:"liveMatchesTtlSeconds"`
}

type adminOverviewDTO struct {
	Features    []flagDTO          `json:"features"`
	RateLimits  rateLimitConfigDTO `json:"rateLimits"`
	Cache       cacheConfigDTO     `json:"cache"`
	LastUpdated string             `json:"lastUpdated"`
}

type rateLimitStatusDTO struct {
	RequestsThisMinute int  `json:"requestsThisMinute"`
	RequestsThisHour   int  `json:"requestsThisHour"`
	MaxPerMinute       int  `json:"maxPerMinute"`
	MaxPerHour         int  `json:"maxPerHour"`
	CanMakeRequest     bool `json:"canMakeRequest"`
}

type requestsRemainingDTO struct {
	ThisMinute int `json:"thisMinute"`
	ThisHour   int `json:"thisHour"`
}

type utilizationDTO struct {
	Minute int `json:"minute"`
	Hour   int `json:"hour"`
}

type recommendationsDTO struct {
	CanMakeRequest        bool                 `json:"canMakeRequest"`
	RequestsRemaining     requestsRemainingDTO `json:"requestsRemaining"`
	UtilizationPercentage utilizationDTO       `json:"utilizationPercentage"`
}

type rateLimitReportDTO struct {
	RateLimitStatus rateLimitStatusDTO `json:"rateLimitStatus"`
	Recommendations recommendationsDTO `json:"recommendations"`
	Timestamp       string             `json:"timestamp"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func matchToDTO(m match.Match) matchDTO {
	teams := make([]teamEntryDTO, 0, len(m.Teams))
	for _, t := range m.Teams {
		teams = append(teams, teamEntryDTO{
			TeamID:        t.TeamID,
			TeamName:      t.TeamName,
			TeamShortName: t.TeamShortName,
			Score: scoreDTO{
				Runs:            t.Score.Runs,
				Wickets:         t.Score.Wickets,
				Overs:           t.Score.Overs,
				Balls:           t.Score.Balls,
				RunRate:         t.Score.RunRate,
				RequiredRunRate: t.Score.RequiredRunRate,
			},
			IsWinner: t.IsWinner,
		})
	}

	return matchDTO{
		ID:         m.ID,
		MatchID:    m.MatchID,
		Title:      m.Title,
		ShortTitle: m.ShortTitle,
		Format:     string(m.Format),
		Status:     string(m.Status),
		IsLive:     m.Status == match.StatusLive,
		Teams:      teams,
		Venue:      venueDTO(m.Venue),
		Series:     seriesRefDTO(m.Series),
		StartDate:  formatTime(m.StartDate),
		UpdatedAt:  formatTime(m.UpdatedAt),
	}
}

func matchesToDTO(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, m := range items {
		out = append(out, matchToDTO(m))
	}
	return out
}

func scorecardToDTO(v usecase.Scorecard) scorecardDTO {
	innings := make([]inningsDTO, 0, len(v.Innings))
	for _, in := range v.Innings {
		innings = append(innings, inningsDTO(in))
	}
	return scorecardDTO{Match: matchToDTO(v.Match), Innings: innings}
}

func standingsToDTO(items []series.TeamStanding) []standingDTO {
	out := make([]standingDTO, 0, len(items))
	for _, st := range items {
		out = append(out, standingDTO(st))
	}
	return out
}

func seriesToDTO(s series.Series) seriesDTO {
	return seriesDTO{
		SeriesID:   s.SeriesID,
		Name:       s.Name,
		ShortName:  s.ShortName,
		SeriesType: s.SeriesType,
		StartDate:  formatTime(s.StartDate),
		EndDate:    formatTime(s.EndDate),
		Status:     string(s.Status),
		IsActive:   s.IsActive,
		Priority:   s.Priority,
		Standings:  standingsToDTO(s.Standings),
	}
}

func seriesListToDTO(items []series.Series) []seriesDTO {
	out := make([]seriesDTO, 0, len(items))
	for _, s := range items {
		out = append(out, seriesToDTO(s))
	}
	return out
}

func flagToDTO(f usecase.FlagState) flagDTO {
	return flagDTO{Name: string(f.Name), Enabled: f.Enabled, Description: f.Description}
}

func adminOverviewToDTO(v usecase.AdminOverview) adminOverviewDTO {
	features := make([]flagDTO, 0, len(v.Features))
	for _, f := range v.Features {
		features = append(features, flagToDTO(f))
	}

	return adminOverviewDTO{
		Features: features,
		RateLimits: rateLimitConfigDTO{
			MaxPerMinute:     v.RateLimits.MaxPerMinute,
			MaxPerHour:       v.RateLimits.MaxPerHour,
			RetryDelayMs:     v.RateLimits.RetryDelay.Milliseconds(),
			MaxRetries:       v.RateLimits.MaxRetries,
			ConnRetryDelayMs: v.RateLimits.ConnRetryDelay.Milliseconds(),
			TimeoutMs:        v.RateLimits.Timeout.Milliseconds(),
		},
		Cache: cacheConfigDTO{
			Enabled:              v.Cache.Enabled,
			SeriesListTTLSeconds: int64(v.Cache.SeriesList.Seconds()),
			SeriesDetailsTTLSecs: int64(v.Cache.SeriesDetails.Seconds()),
			MatchDetailsTTLSecs:  int64(v.Cache.MatchDetails.Seconds()),
			LiveMatchesTTLSecs:   int64(v.Cache.LiveMatches.Seconds()),
		},
		LastUpdated: formatTime(v.LastUpdated),
	}
}

func rateLimitReportToDTO(v usecase.RateLimitReport) rateLimitReportDTO {
	return rateLimitReportDTO{
		RateLimitStatus: rateLimitStatusDTO(v.Status),
		Recommendations: recommendationsDTO{
			CanMakeRequest: v.Recommendations.CanMakeRequest,
			RequestsRemaining: requestsRemainingDTO{
				ThisMinute: v.Recommendations.RemainingThisMinute,
				ThisHour:   v.Recommendations.RemainingThisHour,
			},
			UtilizationPercentage: utilizationDTO{
				Minute: v.Recommendations.MinuteUtilizationPercent,
				Hour:   v.Recommendations.HourUtilizationPercent,
			},
		},
		Timestamp: v.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}
