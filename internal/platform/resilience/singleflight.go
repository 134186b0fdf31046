package resilience

import (
	"context"
	"sync"
)

// SingleFlight collapses concurrent calls that share a key into one execution.
// The zero value is ready to use.
type SingleFlight[T any] struct {
	mu    sync.Mutex
	calls map[string]*flight[T]
}

type flight[T any] struct {
	done    chan struct{}
	val     T
	err     error
	dups    int
	waiters int
	cancel  context.CancelFunc
}

// Do runs fn once per in-flight key. shared reports whether the result was
// handed to more than one caller.
func (g *SingleFlight[T]) Do(key string, fn func() (T, error)) (val T, err error, shared bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flight[T])
	}

	if f, ok := g.calls[key]; ok {
		f.dups++
		g.mu.Unlock()
		<-f.done
		return f.val, f.err, true
	}

	f := &flight[T]{done: make(chan struct{})}
	g.calls[key] = f
	g.mu.Unlock()

	func() {
		defer close(f.done)
		f.val, f.err = fn()
	}()

	g.mu.Lock()
	delete(g.calls, key)
	shared = f.dups > 0
	g.mu.Unlock()

	return f.val, f.err, shared
}

// DoContext is Do for blocking work. fn runs on a context that keeps the
// first caller's values but none of its cancellation, and each caller waits
// on its own ctx. A caller that gives up gets its own ctx.Err(); the shared
// call is cancelled only after every waiter has left.
func (g *SingleFlight[T]) DoContext(ctx context.Context, key string, fn func(context.Context) (T, error)) (val T, err error, shared bool) {
	if err := ctx.Err(); err != nil {
		return val, err, false
	}

	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flight[T])
	}

	f, joined := g.calls[key]
	if joined {
		f.dups++
		f.waiters++
	} else {
		flightCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight[T]{done: make(chan struct{}), waiters: 1, cancel: cancel}
		g.calls[key] = f
		go g.run(flightCtx, key, f, fn)
	}
	g.mu.Unlock()

	select {
	case <-f.done:
		g.mu.Lock()
		shared = f.dups > 0
		g.mu.Unlock()
		return f.val, f.err, shared
	case <-ctx.Done():
		g.mu.Lock()
		f.waiters--
		if f.waiters == 0 {
			f.cancel()
			if g.calls[key] == f {
				delete(g.calls, key)
			}
		}
		g.mu.Unlock()
		return val, ctx.Err(), joined
	}
}

func (g *SingleFlight[T]) run(ctx context.Context, key string, f *flight[T], fn func(context.Context) (T, error)) {
	defer f.cancel()

	v, err := fn(ctx)

	g.mu.Lock()
	f.val, f.err = v, err
	if g.calls[key] == f {
		delete(g.calls, key)
	}
	g.mu.Unlock()
	close(f.done)
}
