package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/cricket-hub/internal/domain/series"
)

type SeriesRepository struct {
	mu    sync.RWMutex
	items map[string]series.Series
}

func NewSeriesRepository(seed []series.Series) *SeriesRepository {
	items := make(map[string]series.Series, len(seed))
	for _, s := range seed {
		if s.SeriesID == "" {
			continue
		}
		items[s.SeriesID] = cloneSeries(s)
	}
	return &SeriesRepository{items: items}
}

func (r *SeriesRepository) List(_ context.Context, limit int) ([]series.Series, error) {
	r.mu.RLock()
	out := make([]series.Series, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, cloneSeries(s))
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].SeriesID < out[j].SeriesID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *SeriesRepository) GetByID(_ context.Context, seriesID string) (series.Series, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[seriesID]
	if !ok {
		return series.Series{}, false, nil
	}
	return cloneSeries(s), true, nil
}

func (r *SeriesRepository) UpsertMany(_ context.Context, items []series.Series) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range items {
		if s.SeriesID == "" {
			continue
		}
		r.items[s.SeriesID] = cloneSeries(s)
	}
	return nil
}

func cloneSeries(s series.Series) series.Series {
	s.Standings = append([]series.TeamStanding(nil), s.Standings...)
	return s
}
