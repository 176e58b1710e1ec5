package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight
	var counter int32
	var sharedCount int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			_, err, shared := g.Do("match:101", func() (any, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if shared {
				atomic.AddInt32(&sharedCount, 1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
	if got := atomic.LoadInt32(&sharedCount); got != workers-1 {
		t.Fatalf("expected %d shared results, got %d", workers-1, got)
	}
	if g.InFlight() != 0 {
		t.Fatalf("expected no calls in flight")
	}
}

func TestSingleFlight_PanicBecomesError(t *testing.T) {
	var g SingleFlight

	_, err, _ := g.Do("boom", func() (any, error) {
		panic("bad payload")
	})
	if err == nil {
		t.Fatalf("expected error from panicking call")
	}

	val, err, _ := g.Do("boom", func() (any, error) {
		return 1, nil
	})
	if err != nil || val != 1 {
		t.Fatalf("key not released after panic: %v %v", val, err)
	}
}

func TestSingleFlight_ErrorsAreShared(t *testing.T) {
	var g SingleFlight
	want := errors.New("upstream down")

	_, err, shared := g.Do("k", func() (any, error) { return nil, want })
	if !errors.Is(err, want) || shared {
		t.Fatalf("unexpected result: %v shared=%v", err, shared)
	}
}
