package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "match:live:10", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoadTTL_ExpiresPerKey(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(time.Hour)
	store.now = func() time.Time { return now }

	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "scorecard", nil
	}

	ctx := context.Background()
	if _, err := store.GetOrLoadTTL(ctx, "match:live", 2*time.Minute, loader); err != nil {
		t.Fatalf("first load: %v", err)
	}
	store.Set(ctx, "series:list", "long lived")

	now = now.Add(time.Minute)
	if _, err := store.GetOrLoadTTL(ctx, "match:live", 2*time.Minute, loader); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times before expiry, want 1", got)
	}

	now = now.Add(90 * time.Second)
	if _, err := store.GetOrLoadTTL(ctx, "match:live", 2*time.Minute, loader); err != nil {
		t.Fatalf("third load: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times after expiry, want 2", got)
	}
	if _, ok := store.Get(ctx, "series:list"); !ok {
		t.Fatalf("default ttl entry expired early")
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("store unavailable")
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err == nil {
		t.Fatalf("expected loader error")
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || v != "ok" {
		t.Fatalf("unexpected retry result: %v %v", v, err)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(0)
	store.Set(ctx, "match:list:live:10", 1)
	store.Set(ctx, "match:list:recent:10", 2)
	store.Set(ctx, "series:id:s1", 3)

	store.DeletePrefix(ctx, "match:list:")

	if store.Len() != 1 {
		t.Fatalf("expected one entry left, got %d", store.Len())
	}
	if _, ok := store.Get(ctx, "series:id:s1"); !ok {
		t.Fatalf("unrelated key was removed")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")

func TestStore_SweepAndStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(0)
	store.now = func() time.Time { return now }

	store.SetWithTTL(ctx, "match:id:101", "live", 2*time.Minute)
	store.SetWithTTL(ctx, "series:list", "all", 6*time.Hour)
	store.Set(ctx, "series:id:s1", "pinned")

	if _, ok := store.Get(ctx, "match:id:101"); !ok {
		t.Fatalf("expected hit before expiry")
	}
	if _, ok := store.Get(ctx, "match:id:999"); ok {
		t.Fatalf("expected miss for unknown key")
	}

	now = now.Add(time.Hour)
	if removed := store.Sweep(ctx); removed != 1 {
		t.Fatalf("expected one expired entry swept, got %d", removed)
	}

	stats := store.Stats()
	if stats.Entries != 2 || stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestStore_NilLoader(t *testing.T) {
	t.Parallel()

	if _, err := NewStore(time.Minute).GetOrLoad(context.Background(), "k", nil); !errors.Is(err, errNilLoader) {
		t.Fatalf("expected errNilLoader, got %v", err)
	}
}
