package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	qb "github.com/riskibarqy/cricket-hub/internal/platform/querybuilder"
)

const seriesTable = "series"

var seriesUpsertSuffix = "ON CONFLICT (series_id) DO UPDATE SET " +
	qb.ExcludedSet(seriesInsertModel{}, "series_id", "created_at")

type SeriesRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSeriesRepository(db *sqlx.DB) *SeriesRepository {
	return &SeriesRepository{db: db, now: time.Now}
}

func (r *SeriesRepository) List(ctx context.Context, limit int) ([]series.Series, error) {
	query, args, err := qb.Select(qb.Columns(seriesTableModel{})...).From(seriesTable).
		OrderBy("start_date DESC", "series_id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list series query: %w", err)
	}

	var rows []seriesTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}

	out := make([]series.Series, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *SeriesRepository) GetByID(ctx context.Context, seriesID string) (series.Series, bool, error) {
	query, args, err := qb.Select(qb.Columns(seriesTableModel{})...).From(seriesTable).
		Where(qb.Eq("series_id", seriesID)).
		ToSQL()
	if err != nil {
		return series.Series{}, false, fmt.Errorf("build get series query: %w", err)
	}

	var row seriesTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return series.Series{}, false, nil
		}
		return series.Series{}, false, fmt.Errorf("get series id=%s: %w", seriesID, err)
	}

	item, err := row.toDomain()
	if err != nil {
		return series.Series{}, false, err
	}
	return item, true, nil
}

func (r *SeriesRepository) UpsertMany(ctx context.Context, items []series.Series) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert series: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := r.now().UTC()
	for _, item := range items {
		if strings.TrimSpace(item.SeriesID) == "" {
			continue
		}
		model, err := newSeriesInsertModel(item, now)
		if err != nil {
			return fmt.Errorf("map series=%s: %w", item.SeriesID, err)
		}
		query, args, err := qb.InsertModel(seriesTable, model, seriesUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert series query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert series=%s: %w", item.SeriesID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert series tx: %w", err)
	}
	return nil
}
