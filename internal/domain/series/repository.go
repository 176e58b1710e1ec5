package series

import "context"

// Repository stores series keyed by SeriesID.
type Repository interface {
	// List returns series ordered by start date, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Series, error)
	GetByID(ctx context.Context, seriesID string) (Series, bool, error)
	UpsertMany(ctx context.Context, items []Series) error
}

// Feed is the upstream series schedule.
type Feed interface {
	SeriesConfigured() bool
	FetchSeries(ctx context.Context) ([]Series, bool)
}
