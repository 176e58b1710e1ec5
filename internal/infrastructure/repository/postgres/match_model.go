package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
)

type matchTableModel struct {
	ID         int64     `db:"id"`
	PublicID   string    `db:"public_id"`
	MatchID    string    `db:"match_id"`
	Title      string    `db:"title"`
	ShortTitle string    `db:"short_title"`
	Format     string    `db:"format"`
	Status     string    `db:"status"`
	IsLive     bool      `db:"is_live"`
	Teams      []byte    `db:"teams"`
	Venue      []byte    `db:"venue"`
	Series     []byte    `db:"series"`
	StartDate  time.Time `db:"start_date"`
	Raw        []byte    `db:"raw"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID   string         `db:"public_id"`
	MatchID    string         `db:"match_id"`
	Title      string         `db:"title"`
	ShortTitle string         `db:"short_title"`
	Format     string         `db:"format"`
	Status     string         `db:"status"`
	IsLive     bool           `db:"is_live"`
	Teams      string         `db:"teams"`
	Venue      string         `db:"venue"`
	Series     string         `db:"series"`
	StartDate  time.Time      `db:"start_date"`
	Raw        sql.NullString `db:"raw"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

type teamDocument struct {
	TeamID          string  `json:"teamId"`
	TeamName        string  `json:"teamName"`
	TeamShortName   string  `json:"teamShortName"`
	Runs            int     `json:"runs"`
	Wickets         int     `json:"wickets"`
	Overs           float64 `json:"overs"`
	Balls           int     `json:"balls"`
	RunRate         float64 `json:"runRate"`
	RequiredRunRate float64 `json:"requiredRunRate"`
	ScoreSource     string  `json:"scoreSource,omitempty"`
	IsWinner        bool    `json:"isWinner"`
}

type venueDocument struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type seriesRefDocument struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SeriesType string `json:"seriesType"`
}

func newMatchInsertModel(m match.Match, now time.Time) (matchInsertModel, error) {
	teams := make([]teamDocument, 0, len(m.Teams))
	for _, t := range m.Teams {
		teams = append(teams, teamDocument{
			TeamID:          t.TeamID,
			TeamName:        t.TeamName,
			TeamShortName:   t.TeamShortName,
			Runs:            t.Score.Runs,
			Wickets:         t.Score.Wickets,
			Overs:           t.Score.Overs,
			Balls:           t.Score.Balls,
			RunRate:         t.Score.RunRate,
			RequiredRunRate: t.Score.RequiredRunRate,
			ScoreSource:     string(t.ScoreSource),
			IsWinner:        t.IsWinner,
		})
	}

	teamsDoc, err := jsonDocument(teams)
	if err != nil {
		return matchInsertModel{}, fmt.Errorf("encode teams: %w", err)
	}
	venueDoc, err := jsonDocument(venueDocument(m.Venue))
	if err != nil {
		return matchInsertModel{}, fmt.Errorf("encode venue: %w", err)
	}
	seriesDoc, err := jsonDocument(seriesRefDocument(m.Series))
	if err != nil {
		return matchInsertModel{}, fmt.Errorf("encode series: %w", err)
	}

	updatedAt := m.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	return matchInsertModel{
		PublicID:   m.ID,
		MatchID:    m.MatchID,
		Title:      m.Title,
		ShortTitle: m.ShortTitle,
		Format:     string(m.Format),
		Status:     string(m.Status),
		IsLive:     m.IsLive,
		Teams:      teamsDoc,
		Venue:      venueDoc,
		Series:     seriesDoc,
		StartDate:  m.StartDate.UTC(),
		Raw:        nullableJSON(m.Raw),
		CreatedAt:  now,
		UpdatedAt:  updatedAt.UTC(),
	}, nil
}

func (row matchTableModel) toDomain() (match.Match, error) {
	var teams []teamDocument
	if err := decodeDocument(row.Teams, &teams); err != nil {
		return match.Match{}, fmt.Errorf("decode teams match=%s: %w", row.MatchID, err)
	}
	var venue venueDocument
	if err := decodeDocument(row.Venue, &venue); err != nil {
		return match.Match{}, fmt.Errorf("decode venue match=%s: %w", row.MatchID, err)
	}
	var ref seriesRefDocument
	if err := decodeDocument(row.Series, &ref); err != nil {
		return match.Match{}, fmt.Errorf("decode series match=%s: %w", row.MatchID, err)
	}

	out := match.Match{
		ID:         row.PublicID,
		MatchID:    row.MatchID,
		Title:      row.Title,
		ShortTitle: row.ShortTitle,
		Format:     match.Format(row.Format),
		Status:     match.Status(row.Status),
		IsLive:     row.IsLive,
		Venue:      match.Venue(venue),
		Series:     match.SeriesRef(ref),
		StartDate:  row.StartDate,
		UpdatedAt:  row.UpdatedAt,
	}
	if len(row.Raw) > 0 {
		out.Raw = append([]byte(nil), row.Raw...)
	}
	for i := 0; i < len(teams) && i < len(out.Teams); i++ {
		t := teams[i]
		out.Teams[i] = match.TeamEntry{
			TeamID:        t.TeamID,
			TeamName:      t.TeamName,
			TeamShortName: t.TeamShortName,
			Score: match.ScoreLine{
				Runs:            t.Runs,
				Wickets:         t.Wickets,
				Overs:           t.Overs,
				Balls:           t.Balls,
				RunRate:         t.RunRate,
				RequiredRunRate: t.RequiredRunRate,
			},
			ScoreSource: match.ScoreSource(t.ScoreSource),
			IsWinner:    t.IsWinner,
		}
	}
	return out, nil
}
