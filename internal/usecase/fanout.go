package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/fpl-pulse/internal/platform/logging"
	"github.com/riskibarqy/fpl-pulse/internal/platform/metrics"
)

// fanOut runs task for every item on a pool of at most workers goroutines and
// returns once all submitted tasks finished. Tasks record their own results.
// A cancelled ctx stops submission and is returned as ctx.Err().
func fanOut[T any](ctx context.Context, workers int, items []T, task func(ctx context.Context, item T)) error {
	if len(items) == 0 {
		return ctx.Err()
	}
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(min(workers, len(items)))
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		item := item
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			task(ctx, item)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	wg.Wait()
	return ctx.Err()
}

// degrader replaces failed sub-fetches with neutral values. Cancellation is
// never reported as a degradation.
type degrader struct {
	logger  *logging.Logger
	metrics *metrics.Manager
}

func (d degrader) record(ctx context.Context, resource string, err error, args ...any) {
	if err == nil || isCanceled(err) || ctx.Err() != nil {
		return
	}
	d.metrics.IncDegradedFetch(resource)
	d.logger.WarnContext(ctx, "upstream fetch degraded", append([]any{"resource", resource, "error", err}, args...)...)
}
