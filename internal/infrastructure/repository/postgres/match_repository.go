package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	qb "github.com/riskibarqy/cricket-hub/internal/platform/querybuilder"
)

const matchesTable = "matches"

var matchUpsertSuffix = "ON CONFLICT (match_id) DO UPDATE SET " +
	qb.ExcludedSet(matchInsertModel{}, "public_id", "match_id", "created_at") +
	" RETURNING public_id"

type MatchRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db, now: time.Now}
}

func (r *MatchRepository) Find(ctx context.Context, q match.Query) ([]match.Match, error) {
	query, args, err := buildFindMatchesQuery(q)
	if err != nil {
		return nil, fmt.Errorf("build find matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select(qb.Columns(matchTableModel{})...).From(matchesTable).
		Where(qb.Expr("(public_id = ? OR match_id = ?)", id, id)).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match id=%s: %w", id, err)
	}

	item, err := row.toDomain()
	if err != nil {
		return match.Match{}, false, err
	}
	return item, true, nil
}

func (r *MatchRepository) UpsertMany(ctx context.Context, items []match.Match) ([]match.Match, error) {
	if len(items) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx upsert matches: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := r.now().UTC()
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.MatchID) == "" {
			continue
		}
		model, err := newMatchInsertModel(item, now)
		if err != nil {
			return nil, fmt.Errorf("map match=%s: %w", item.MatchID, err)
		}
		query, args, err := qb.InsertModel(matchesTable, model, matchUpsertSuffix)
		if err != nil {
			return nil, fmt.Errorf("build upsert match query: %w", err)
		}

		var publicID string
		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&publicID); err != nil {
			return nil, fmt.Errorf("upsert match=%s: %w", item.MatchID, err)
		}
		item.ID = publicID
		item.UpdatedAt = model.UpdatedAt
		out = append(out, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit upsert matches tx: %w", err)
	}
	return out, nil
}

func buildFindMatchesQuery(q match.Query) (string, []any, error) {
	builder := qb.Select(qb.Columns(matchTableModel{})...).From(matchesTable)

	if keyword := strings.TrimSpace(q.StatusKeyword); keyword != "" {
		if q.IncludeLiveFlag {
			builder.Where(qb.Or(qb.ILike("status", keyword), qb.IsTrue("is_live")))
		} else {
			builder.Where(qb.ILike("status", keyword))
		}
	}

	order := "start_date DESC"
	if q.Ascending {
		order = "start_date ASC"
	}
	return builder.OrderBy(order, "id").Limit(q.Limit).ToSQL()
}
