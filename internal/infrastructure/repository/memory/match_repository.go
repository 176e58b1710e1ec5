package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
)

type MatchRepository struct {
	mu     sync.RWMutex
	items  map[string]match.Match
	orders []string
}

func NewMatchRepository(seed []match.Match) *MatchRepository {
	r := &MatchRepository{
		items:  make(map[string]match.Match, len(seed)),
		orders: make([]string, 0, len(seed)),
	}
	for _, m := range seed {
		r.put(m)
	}
	return r
}

func (r *MatchRepository) Find(_ context.Context, query match.Query) ([]match.Match, error) {
	r.mu.RLock()
	out := make([]match.Match, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, cloneMatch(r.items[id]))
	}
	r.mu.RUnlock()

	return query.Apply(out), nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if m, ok := r.items[id]; ok {
		return cloneMatch(m), true, nil
	}
	for _, key := range r.orders {
		if m := r.items[key]; m.ID != "" && m.ID == id {
			return cloneMatch(m), true, nil
		}
	}
	return match.Match{}, false, nil
}

func (r *MatchRepository) UpsertMany(_ context.Context, items []match.Match) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		if item.MatchID == "" {
			continue
		}
		out = append(out, cloneMatch(r.put(item)))
	}
	return out, nil
}

// put stores m keyed by MatchID. Callers hold the write lock.
func (r *MatchRepository) put(m match.Match) match.Match {
	m = cloneMatch(m)
	if existing, ok := r.items[m.MatchID]; ok {
		if existing.ID != "" {
			m.ID = existing.ID
		}
	} else {
		r.orders = append(r.orders, m.MatchID)
	}
	r.items[m.MatchID] = m
	return m
}

func cloneMatch(m match.Match) match.Match {
	if m.Raw != nil {
		m.Raw = append([]byte(nil), m.Raw...)
	}
	return m
}
