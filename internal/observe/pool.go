package observe

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool runs submitted functions on background goroutines, at most size at a
// time.
type Pool struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// NewPool returns a pool running up to size functions concurrently. size
// below 1 is treated as 1.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

// Submit schedules fn and returns immediately. fn runs exactly once; if ctx
// is done before a worker frees up it runs without a worker so it can observe
// ctx.Err() and finish.
func (p *Pool) Submit(ctx context.Context, fn func(ctx context.Context)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.sem.Acquire(ctx, 1); err != nil {
			fn(ctx)
			return
		}
		defer p.sem.Release(1)
		fn(ctx)
	}()
}

// Wait blocks until every submitted function has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}
