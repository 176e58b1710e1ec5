package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	basecache "github.com/riskibarqy/cricket-hub/internal/platform/cache"
)

const (
	matchQueryPrefix = "match:query:"
	matchIDPrefix    = "match:id:"
	seriesListPrefix = "series:list:"
	seriesIDPrefix   = "series:id:"
)

// MatchTTLs sets how long each kind of match read stays cached.
type MatchTTLs struct {
	Query  time.Duration
	Detail time.Duration
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
	ttls  MatchTTLs
}

func NewMatchRepository(next match.Repository, cache *basecache.Store, ttls MatchTTLs) *MatchRepository {
	return &MatchRepository{next: next, cache: cache, ttls: ttls}
}

func (r *MatchRepository) Find(ctx context.Context, q match.Query) ([]match.Match, error) {
	v, err := r.cache.GetOrLoadTTL(ctx, matchQueryKey(q), r.ttls.Query, func(ctx context.Context) (any, error) {
		items, err := r.next.Find(ctx, q)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	v, err := r.cache.GetOrLoadTTL(ctx, matchIDPrefix+id, r.ttls.Detail, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedMatchByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatchByID)
	return cached.value, cached.exists, nil
}

// UpsertMany writes through and drops every cached match read.
func (r *MatchRepository) UpsertMany(ctx context.Context, items []match.Match) ([]match.Match, error) {
	stored, err := r.next.UpsertMany(ctx, items)
	r.cache.DeletePrefix(ctx, matchQueryPrefix)
	r.cache.DeletePrefix(ctx, matchIDPrefix)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}

func matchQueryKey(q match.Query) string {
	return matchQueryPrefix + strings.Join([]string{
		strings.ToLower(strings.TrimSpace(q.StatusKeyword)),
		strconv.FormatBool(q.IncludeLiveFlag),
		strconv.FormatBool(q.Ascending),
		strconv.Itoa(q.Limit),
	}, ":")
}

// SeriesTTLs sets how long each kind of series read stays cached.
type SeriesTTLs struct {
	List   time.Duration
	Detail time.Duration
}

type SeriesRepository struct {
	next  series.Repository
	cache *basecache.Store
	ttls  SeriesTTLs
}

func NewSeriesRepository(next series.Repository, cache *basecache.Store, ttls SeriesTTLs) *SeriesRepository {
	return &SeriesRepository{next: next, cache: cache, ttls: ttls}
}

func (r *SeriesRepository) List(ctx context.Context, limit int) ([]series.Series, error) {
	key := seriesListPrefix + strconv.Itoa(limit)
	v, err := r.cache.GetOrLoadTTL(ctx, key, r.ttls.List, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, limit)
		if err != nil {
			return nil, err
		}
		return cloneSeriesList(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]series.Series)
	return cloneSeriesList(items), nil
}

func (r *SeriesRepository) GetByID(ctx context.Context, seriesID string) (series.Series, bool, error) {
	v, err := r.cache.GetOrLoadTTL(ctx, seriesIDPrefix+seriesID, r.ttls.Detail, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, seriesID)
		if err != nil {
			return nil, err
		}
		return cachedSeriesByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return series.Series{}, false, err
	}

	cached, _ := v.(cachedSeriesByID)
	item := cached.value
	item.Standings = append([]series.TeamStanding(nil), item.Standings...)
	return item, cached.exists, nil
}

func (r *SeriesRepository) UpsertMany(ctx context.Context, items []series.Series) error {
	err := r.next.UpsertMany(ctx, items)
	r.cache.DeletePrefix(ctx, seriesListPrefix)
	r.cache.DeletePrefix(ctx, seriesIDPrefix)
	return err
}

type cachedSeriesByID struct {
	value  series.Series
	exists bool
}

func cloneSeriesList(items []series.Series) []series.Series {
	out := make([]series.Series, 0, len(items))
	for _, s := range items {
		s.Standings = append([]series.TeamStanding(nil), s.Standings...)
		out = append(out, s)
	}
	return out
}
