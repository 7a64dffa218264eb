package sessions

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// DefaultPoolSize bounds concurrently running agent loops.
const DefaultPoolSize = 40

// WorkerPool admits at most Size concurrent agent runs. Callers beyond that
// wait for a slot or for their context to end.
type WorkerPool struct {
	Size int64
	sem  *semaphore.Weighted
}

func NewWorkerPool(size int) *WorkerPool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	return &WorkerPool{Size: int64(size), sem: semaphore.NewWeighted(int64(size))}
}

// Go runs fn in its own goroutine once a slot is free. The slot is released
// when fn returns or panics.
func (p *WorkerPool) Go(ctx context.Context, fn func()) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("waiting for a free worker: %w", err)
	}
	go func() {
		defer p.sem.Release(1)
		fn()
	}()
	return nil
}

// Drain blocks until every running job has finished or ctx ends.
func (p *WorkerPool) Drain(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, p.Size); err != nil {
		return err
	}
	p.sem.Release(p.Size)
	return nil
}
