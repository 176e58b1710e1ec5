package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	seriesListLimit   = 100
	activeSeriesLimit = 10
)

type SeriesStandings struct {
	SeriesID   string
	SeriesName string
	Standings  []series.TeamStanding
}

type SeriesService struct {
	repo   series.Repository
	feed   series.Feed
	flags  *FeatureFlags
	logger *logging.Logger
	now    func() time.Time
}

func NewSeriesService(repo series.Repository, feed series.Feed, flags *FeatureFlags, logger *logging.Logger) *SeriesService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SeriesService{
		repo:   repo,
		feed:   feed,
		flags:  flags,
		logger: logger,
		now:    time.Now,
	}
}

// List returns the newest series first with status derived for now.
func (s *SeriesService) List(ctx context.Context) (_ []series.Series, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeriesService.List")
	defer func() { endSpan(span, err) }()

	items, err := s.repo.List(ctx, seriesListLimit)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	return s.derive(items), nil
}

func (s *SeriesService) Get(ctx context.Context, seriesID string) (_ series.Series, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeriesService.Get", attribute.String("series_id", seriesID))
	defer func() { endSpan(span, err) }()

	seriesID = strings.TrimSpace(seriesID)
	if seriesID == "" {
		return series.Series{}, invalidInputf("series id is required")
	}

	item, exists, err := s.repo.GetByID(ctx, seriesID)
	if err != nil {
		return series.Series{}, fmt.Errorf("get series id=%s: %w", seriesID, err)
	}
	if !exists {
		return series.Series{}, notFound("series", seriesID)
	}
	return item.Derive(s.now()), nil
}

func (s *SeriesService) Standings(ctx context.Context, seriesID string) (SeriesStandings, error) {
	item, err := s.Get(ctx, seriesID)
	if err != nil {
		return SeriesStandings{}, err
	}
	return SeriesStandings{
		SeriesID:   item.SeriesID,
		SeriesName: item.Name,
		Standings:  series.SortStandings(item.Standings),
	}, nil
}

// Active lists ongoing series, highest priority first, earliest start first.
func (s *SeriesService) Active(ctx context.Context) (_ []series.Series, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeriesService.Active")
	defer func() { endSpan(span, err) }()

	items, err := s.repo.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}

	active := make([]series.Series, 0, len(items))
	for _, item := range s.derive(items) {
		if item.IsActive {
			active = append(active, item)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Priority != active[j].Priority {
			return active[i].Priority > active[j].Priority
		}
		return active[i].StartDate.Before(active[j].StartDate)
	})
	return limitSeries(active, activeSeriesLimit), nil
}

// ByType lists active series of one type, highest priority first, newest first.
func (s *SeriesService) ByType(ctx context.Context, seriesType string, limit int) (_ []series.Series, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeriesService.ByType", attribute.String("series_type", seriesType))
	defer func() { endSpan(span, err) }()

	seriesType = series.NormalizeType(seriesType)
	if seriesType == "" {
		return nil, invalidInputf("series type is required")
	}
	if limit < 1 || limit > MaxListLimit {
		return nil, invalidInputf("limit must be between 1 and %d", MaxListLimit)
	}

	items, err := s.repo.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}

	out := make([]series.Series, 0, len(items))
	for _, item := range s.derive(items) {
		if item.IsActive && series.NormalizeType(item.SeriesType) == seriesType {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].StartDate.After(out[j].StartDate)
	})
	return limitSeries(out, limit), nil
}

// Sync stores the upstream series schedule. Standings and priority of
// already stored series are kept.
func (s *SeriesService) Sync(ctx context.Context) (_ int, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeriesService.Sync")
	defer func() { endSpan(span, err) }()

	if !s.flags.Enabled(FlagSeries) || s.feed == nil || !s.feed.SeriesConfigured() {
		return 0, nil
	}

	items, ok := s.feed.FetchSeries(ctx)
	if !ok {
		return 0, unavailablef("upstream series")
	}
	if len(items) == 0 {
		return 0, nil
	}

	now := s.now().UTC()
	merged := make([]series.Series, 0, len(items))
	for _, item := range items {
		existing, exists, err := s.repo.GetByID(ctx, item.SeriesID)
		if err != nil {
			return 0, fmt.Errorf("get series id=%s: %w", item.SeriesID, err)
		}
		if exists {
			item.Standings = existing.Standings
			item.Priority = existing.Priority
			if item.SeriesType == "" {
				item.SeriesType = existing.SeriesType
			}
		}
		item.UpdatedAt = now
		merged = append(merged, item.Derive(now))
	}

	if err := s.repo.UpsertMany(ctx, merged); err != nil {
		return 0, fmt.Errorf("upsert series: %w", err)
	}
	s.logger.InfoContext(ctx, "series synced", "count", len(merged))
	return len(merged), nil
}

func (s *SeriesService) derive(items []series.Series) []series.Series {
	now := s.now()
	out := make([]series.Series, 0, len(items))
	for _, item := range items {
		out = append(out, item.Derive(now))
	}
	return out
}

func limitSeries(items []series.Series, limit int) []series.Series {
	if limit <= 0 || len(items) <= limit {
		return items
	}
	return items[:limit]
}
