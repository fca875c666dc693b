package resilience

import (
	"context"
	"fmt"
	"time"
)

// Future is the pending result of a submitted job. It is completed exactly
// once, by the goroutine that ran the job.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) complete(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Done is closed once the job has finished or was rejected.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the job finishes and returns its outcome.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// Submit runs fn on its own goroutine inside a slot of b and returns
// immediately. The job receives a context derived from ctx, bounded by
// timeout when it is positive. Slot rejection (ErrBulkheadFull,
// ErrBulkheadTimeout or ctx.Err()) completes the future without calling fn.
// A panic in fn completes the future with an error.
func Submit[T any](ctx context.Context, b *Bulkhead, timeout time.Duration, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		var (
			value T
			err   error
		)
		defer func() { f.complete(value, err) }()

		if err = b.Acquire(ctx); err != nil {
			return
		}
		defer b.Release()

		runCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		value, err = run(runCtx, fn)
	}()
	return f
}

func run[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (value T, err error) {
	defer func() {
		if p := recover(); p != nil {
			var zero T
			value, err = zero, fmt.Errorf("job panicked: %v", p)
		}
	}()
	return fn(ctx)
}
