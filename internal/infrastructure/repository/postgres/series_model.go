package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/series"
)

type seriesTableModel struct {
	ID         int64        `db:"id"`
	SeriesID   string       `db:"series_id"`
	Name       string       `db:"name"`
	ShortName  string       `db:"short_name"`
	SeriesType string       `db:"series_type"`
	StartDate  time.Time    `db:"start_date"`
	EndDate    sql.NullTime `db:"end_date"`
	Priority   int          `db:"priority"`
	Standings  []byte       `db:"standings"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
}

type seriesInsertModel struct {
	SeriesID   string       `db:"series_id"`
	Name       string       `db:"name"`
	ShortName  string       `db:"short_name"`
	SeriesType string       `db:"series_type"`
	StartDate  time.Time    `db:"start_date"`
	EndDate    sql.NullTime `db:"end_date"`
	Priority   int          `db:"priority"`
	Standings  string       `db:"standings"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
}

type standingDocument struct {
	TeamID     string  `json:"teamId"`
	TeamName   string  `json:"teamName"`
	Played     int     `json:"played"`
	Won        int     `json:"won"`
	Lost       int     `json:"lost"`
	NoResult   int     `json:"noResult"`
	Points     int     `json:"points"`
	NetRunRate float64 `json:"netRunRate"`
}

func newSeriesInsertModel(s series.Series, now time.Time) (seriesInsertModel, error) {
	standings := make([]standingDocument, 0, len(s.Standings))
	for _, st := range s.Standings {
		standings = append(standings, standingDocument(st))
	}
	doc, err := jsonDocument(standings)
	if err != nil {
		return seriesInsertModel{}, fmt.Errorf("encode standings: %w", err)
	}

	updatedAt := s.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	return seriesInsertModel{
		SeriesID:   s.SeriesID,
		Name:       s.Name,
		ShortName:  s.ShortName,
		SeriesType: s.SeriesType,
		StartDate:  s.StartDate.UTC(),
		EndDate:    sql.NullTime{Time: s.EndDate.UTC(), Valid: !s.EndDate.IsZero()},
		Priority:   s.Priority,
		Standings:  doc,
		CreatedAt:  now,
		UpdatedAt:  updatedAt.UTC(),
	}, nil
}

func (row seriesTableModel) toDomain() (series.Series, error) {
	var standings []standingDocument
	if err := decodeDocument(row.Standings, &standings); err != nil {
		return series.Series{}, fmt.Errorf("decode standings series=%s: %w", row.SeriesID, err)
	}

	out := series.Series{
		SeriesID:   row.SeriesID,
		Name:       row.Name,
		ShortName:  row.ShortName,
		SeriesType: row.SeriesType,
		StartDate:  row.StartDate,
		Priority:   row.Priority,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.EndDate.Valid {
		out.EndDate = row.EndDate.Time
	}
	for _, st := range standings {
		out.Standings = append(out.Standings, series.TeamStanding(st))
	}
	return out, nil
}
