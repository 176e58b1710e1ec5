package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get match: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(fmt.Errorf("pq: relation matches does not exist")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestBuildFindMatchesQuery(t *testing.T) {
	t.Run("live includes flag", func(t *testing.T) {
		query, args, err := buildFindMatchesQuery(match.ViewLive.StoreQuery(10))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(query, "WHERE (status ILIKE $1 OR is_live = TRUE)") {
			t.Fatalf("unexpected where clause: %s", query)
		}
		if !strings.HasSuffix(query, "ORDER BY start_date DESC, id LIMIT 10") {
			t.Fatalf("unexpected order clause: %s", query)
		}
		if len(args) != 1 || args[0] != "%live%" {
			t.Fatalf("unexpected args: %v", args)
		}
	})

	t.Run("upcoming ascending", func(t *testing.T) {
		query, _, err := buildFindMatchesQuery(match.ViewUpcoming.StoreQuery(3))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(query, "WHERE status ILIKE $1 ORDER BY") {
			t.Fatalf("unexpected where clause: %s", query)
		}
		if strings.Contains(query, "is_live = TRUE") {
			t.Fatalf("upcoming should not filter on the live flag: %s", query)
		}
		if !strings.HasSuffix(query, "ORDER BY start_date ASC, id LIMIT 3") {
			t.Fatalf("unexpected order clause: %s", query)
		}
	})

	t.Run("empty keyword has no filter", func(t *testing.T) {
		query, args, err := buildFindMatchesQuery(match.Query{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(query, "WHERE") || len(args) != 0 {
			t.Fatalf("expected no filter, got %s %v", query, args)
		}
	})
}

func TestMatchUpsertSuffix(t *testing.T) {
	if !strings.HasPrefix(matchUpsertSuffix, "ON CONFLICT (match_id) DO UPDATE SET ") {
		t.Fatalf("unexpected suffix: %s", matchUpsertSuffix)
	}
	for _, col := range []string{"public_id =", "match_id =", "created_at ="} {
		if strings.Contains(matchUpsertSuffix, col) {
			t.Fatalf("suffix must not overwrite %s: %s", col, matchUpsertSuffix)
		}
	}
	if !strings.Contains(matchUpsertSuffix, "status = EXCLUDED.status") {
		t.Fatalf("suffix must refresh status: %s", matchUpsertSuffix)
	}
	if !strings.HasSuffix(matchUpsertSuffix, "RETURNING public_id") {
		t.Fatalf("suffix must return stored id: %s", matchUpsertSuffix)
	}
}

func TestMatchModelRoundTrip(t *testing.T) {
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	in := match.Match{
		ID:      "m-1",
		MatchID: "88",
		Title:   "India vs West Indies",
		Format:  match.FormatT20,
		Status:  match.StatusCompleted,
		Teams: [2]match.TeamEntry{
			{TeamID: "2", TeamName: "India", Score: match.ScoreLine{Runs: 181, Wickets: 5, Overs: 20, RunRate: 9.05}, ScoreSource: match.ScoreSourceName, IsWinner: true},
			{TeamID: "10", TeamName: "West Indies", Score: match.ScoreLine{Runs: 160, Wickets: 9, Overs: 20, RunRate: 8}},
		},
		Venue:     match.Venue{Name: "Eden Gardens", City: "Kolkata"},
		Series:    match.SeriesRef{ID: "9", Name: "Tour", SeriesType: "INTERNATIONAL"},
		StartDate: now.Add(-4 * time.Hour),
		Raw:       []byte(`{"matchInfo":{}}`),
	}

	model, err := newMatchInsertModel(in, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !model.UpdatedAt.Equal(now) || !model.Raw.Valid {
		t.Fatalf("unexpected model: %+v", model)
	}

	row := matchTableModel{
		PublicID:   model.PublicID,
		MatchID:    model.MatchID,
		Title:      model.Title,
		ShortTitle: model.ShortTitle,
		Format:     model.Format,
		Status:     model.Status,
		IsLive:     model.IsLive,
		Teams:      []byte(model.Teams),
		Venue:      []byte(model.Venue),
		Series:     []byte(model.Series),
		StartDate:  model.StartDate,
		Raw:        []byte(model.Raw.String),
		UpdatedAt:  model.UpdatedAt,
	}
	out, err := row.toDomain()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Teams[0].Score.Runs != 181 || !out.Teams[0].IsWinner || out.Teams[0].ScoreSource != match.ScoreSourceName {
		t.Fatalf("unexpected team one: %+v", out.Teams[0])
	}
	if out.Teams[1].TeamName != "West Indies" || out.Teams[1].Score.Wickets != 9 {
		t.Fatalf("unexpected team two: %+v", out.Teams[1])
	}
	if out.Venue.Name != "Eden Gardens" || out.Series.ID != "9" {
		t.Fatalf("unexpected venue or series: %+v %+v", out.Venue, out.Series)
	}
	if string(out.Raw) != `{"matchInfo":{}}` {
		t.Fatalf("unexpected raw: %s", out.Raw)
	}
}

func TestSeriesModelOpenEnded(t *testing.T) {
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	model, err := newSeriesInsertModel(series.Series{SeriesID: "s1", StartDate: now}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.EndDate.Valid {
		t.Fatalf("expected null end date")
	}
	if model.Standings != "[]" {
		t.Fatalf("expected empty standings document, got %s", model.Standings)
	}

	out, err := seriesTableModel{SeriesID: "s1", StartDate: now, Standings: []byte(model.Standings)}.toDomain()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.EndDate.IsZero() || len(out.Standings) != 0 {
		t.Fatalf("unexpected series: %+v", out)
	}
}
