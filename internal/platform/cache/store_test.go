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

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "bootstrap", nil
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
			v, err := store.GetOrLoad(context.Background(), "fpl:bootstrap", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "bootstrap" {
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

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	now := time.Date(2025, 5, 25, 15, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", 1)
	if got, ok := store.Get(context.Background(), "k"); !ok || got != 1 {
		t.Fatalf("unexpected cached value: got=%d ok=%v", got, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected entry to expire")
	}
	if got := store.Len(); got != 0 {
		t.Fatalf("unexpected len after expiry: got=%d want=0", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	boom := errors.New("boom")

	if _, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 9, nil })
	if err != nil || got != 9 {
		t.Fatalf("unexpected reload: got=%d err=%v", got, err)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore[int](0)
	ctx := context.Background()
	store.Set(ctx, "fpl:element-summary:1", 1)
	store.Set(ctx, "fpl:element-summary:2", 2)
	store.Set(ctx, "fpl:bootstrap", 3)

	store.DeletePrefix(ctx, "fpl:element-summary:")
	if got := store.Len(); got != 1 {
		t.Fatalf("unexpected len: got=%d want=1", got)
	}
	if _, err := store.GetOrLoad(ctx, "", nil); !errors.Is(err, ErrLoaderRequired) {
		t.Fatalf("expected loader required error, got %v", err)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")

func TestStore_GetOrLoad_CancelledCallerDoesNotFailOthers(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	loader := func(ctx context.Context) (string, error) {
		started <- struct{}{}
		select {
		case <-release:
			return "bootstrap", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := store.GetOrLoad(ctxA, "fpl:bootstrap", loader)
		errA <- err
	}()
	<-started

	type result struct {
		val string
		err error
	}
	resB := make(chan result, 1)
	go func() {
		v, err := store.GetOrLoad(context.Background(), "fpl:bootstrap", loader)
		resB <- result{v, err}
	}()

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller: got err=%v want context.Canceled", err)
	}

	close(release)
	got := <-resB
	if got.err != nil || got.val != "bootstrap" {
		t.Fatalf("live caller: got val=%q err=%v", got.val, got.err)
	}
	if v, ok := store.Get(context.Background(), "fpl:bootstrap"); !ok || v != "bootstrap" {
		t.Fatalf("expected value cached after shared load, got %q ok=%v", v, ok)
	}
}
