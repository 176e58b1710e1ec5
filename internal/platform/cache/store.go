package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/platform/resilience"
)

var errNilLoader = errors.New("cache: loader is required")

type entry struct {
	value     any
	expiresAt time.Time
}

// live reports whether e is still servable at now. A zero expiry never lapses.
func (e entry) live(now time.Time) bool {
	return e.expiresAt.IsZero() || e.expiresAt.After(now)
}

// Stats is a point-in-time view of cache effectiveness.
type Stats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// Store is an in-process TTL cache shared by the repository decorators.
// Expired entries are dropped lazily on read and in bulk by Sweep.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	flight     resilience.SingleFlight
	now        func() time.Time

	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewStore(defaultTTL time.Duration) *Store {
	return &Store{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	value, ok := s.lookup(key)
	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return value, ok
}

func (s *Store) lookup(key string) (any, bool) {
	if key == "" {
		return nil, false
	}
	now := s.now()

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	switch {
	case !ok:
		return nil, false
	case e.live(now):
		return e.value, true
	}

	s.mu.Lock()
	if cur, still := s.entries[key]; still && !cur.live(now) {
		delete(s.entries, key)
	}
	s.mu.Unlock()
	return nil, false
}

func (s *Store) Set(ctx context.Context, key string, value any) {
	s.SetWithTTL(ctx, key, value, s.defaultTTL)
}

// SetWithTTL stores value for ttl; ttl <= 0 keeps it until deleted.
func (s *Store) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	if key == "" {
		return
	}
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// DeletePrefix drops every key under prefix, e.g. all cached list pages
// after an upsert.
func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}
	s.deleteWhere(func(k string) bool { return strings.HasPrefix(k, prefix) })
}

func (s *Store) deleteWhere(match func(string) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if match(key) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Sweep removes expired entries and returns how many were dropped.
func (s *Store) Sweep(_ context.Context) int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if !e.live(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len counts stored entries, including expired ones not yet swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) Stats() Stats {
	return Stats{Entries: s.Len(), Hits: s.hits.Load(), Misses: s.misses.Load()}
}

func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	return s.GetOrLoadTTL(ctx, key, s.defaultTTL, loader)
}

// GetOrLoadTTL serves key from cache or runs loader once for all concurrent
// callers of the same key. Only successful loads are stored.
func (s *Store) GetOrLoadTTL(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, errNilLoader
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.lookup(key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.SetWithTTL(ctx, key, loaded, ttl)
		return loaded, nil
	})
	return value, err
}
