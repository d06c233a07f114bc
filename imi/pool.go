package imi

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WorkerPool bounds how many batches run concurrently for a query. It
// replaces the source's per-query ThreadPoolExecutor(max_workers=2) and
// the teacher's ad hoc per-call goroutine fan-out in core/pq.go's
// KNearestConcurrent (one goroutine per CPU, a shared mutex-guarded heap)
// with an explicit, engine-level pool sized once by the caller and shared
// across queries.
type WorkerPool interface {
	// Run executes tasks concurrently, bounded by the pool's size. It
	// stops dispatching new tasks as soon as ctx is done or a task
	// returns an error, and returns the first error encountered (if any).
	Run(ctx context.Context, tasks []func(ctx context.Context) error) error
}

type fixedPool struct {
	size int
}

// NewFixedPool returns a WorkerPool that runs at most n tasks at a time.
// The reference implementation uses two workers; callers size this to
// their host and share one instance across queries.
func NewFixedPool(n int) WorkerPool {
	if n < 1 {
		n = 1
	}
	return &fixedPool{size: n}
}

func (p *fixedPool) Run(ctx context.Context, tasks []func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return task(gctx)
		})
	}
	return g.Wait()
}
