package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight[string]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			got, err, _ := g.Do("/fpl/bootstrap", func() (string, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if got != "ok" {
				t.Errorf("unexpected value: got=%q want=%q", got, "ok")
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	var g SingleFlight[int]
	boom := errors.New("boom")

	if _, err, shared := g.Do("k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) || shared {
		t.Fatalf("unexpected first result: err=%v shared=%v", err, shared)
	}
	got, err, _ := g.Do("k", func() (int, error) { return 7, nil })
	if err != nil || got != 7 {
		t.Fatalf("unexpected second result: got=%d err=%v", got, err)
	}
}

func waitForWaiters[T any](t *testing.T, g *SingleFlight[T], key string, want int) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		g.mu.Lock()
		f, ok := g.calls[key]
		got := 0
		if ok {
			got = f.waiters
		}
		g.mu.Unlock()
		if got == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d waiters on %q", want, key)
}

func TestSingleFlight_DoContext_CancelledCallerDoesNotFailOthers(t *testing.T) {
	t.Parallel()

	var g SingleFlight[string]
	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(ctx context.Context) (string, error) {
		calls.Add(1)
		select {
		case <-release:
			return "standings", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err, _ := g.DoContext(ctxA, "/fpl/league/1", fn)
		errA <- err
	}()
	waitForWaiters(t, &g, "/fpl/league/1", 1)

	type result struct {
		val    string
		err    error
		shared bool
	}
	resB := make(chan result, 1)
	go func() {
		v, err, shared := g.DoContext(context.Background(), "/fpl/league/1", fn)
		resB <- result{v, err, shared}
	}()
	waitForWaiters(t, &g, "/fpl/league/1", 2)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller: got err=%v want context.Canceled", err)
	}

	close(release)
	got := <-resB
	if got.err != nil {
		t.Fatalf("live caller: unexpected err=%v", got.err)
	}
	if got.val != "standings" || !got.shared {
		t.Fatalf("live caller: got val=%q shared=%v", got.val, got.shared)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected one execution, got %d", n)
	}
}

func TestSingleFlight_DoContext_LastWaiterCancelsCall(t *testing.T) {
	t.Parallel()

	var g SingleFlight[int]
	stopped := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err, _ := g.DoContext(ctx, "k", func(ctx context.Context) (int, error) {
			<-ctx.Done()
			stopped <- ctx.Err()
			return 0, ctx.Err()
		})
		errCh <- err
	}()
	waitForWaiters(t, &g, "k", 1)
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("got err=%v want context.Canceled", err)
	}
	select {
	case err := <-stopped:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("shared call stopped with %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("shared call kept running after every caller left")
	}

	got, err, _ := g.DoContext(context.Background(), "k", func(context.Context) (int, error) { return 9, nil })
	if err != nil || got != 9 {
		t.Fatalf("fresh call after abandon: got=%d err=%v", got, err)
	}
}

func TestSingleFlight_DoContext_AlreadyCancelled(t *testing.T) {
	t.Parallel()

	var g SingleFlight[int]
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err, _ := g.DoContext(ctx, "k", func(context.Context) (int, error) {
		t.Error("fn must not run for a cancelled caller")
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got err=%v want context.Canceled", err)
	}
}
