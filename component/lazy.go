package component

import (
	"context"
	"fmt"
	"sync/atomic"
)

// LazyState is the observable phase of a Lazy cell.
type LazyState string

const (
	LazyIdle    LazyState = "idle"
	LazyLoading LazyState = "loading"
	LazyReady   LazyState = "ready"
	LazyFailed  LazyState = "failed"
)

type lazyResult[T any] struct {
	value T
	err   error
}

// Lazy holds a value that is built on first use and never rebuilt.
//
// The outcome of the first completed initialization is final: a value is
// returned to every later caller, and so is an error. Failed builds are not
// retried. Readers after completion pay one atomic load.
type Lazy[T any] struct {
	name    string
	init    func(ctx context.Context) (T, error)
	result  atomic.Pointer[lazyResult[T]]
	loading atomic.Bool
	guard   chan struct{}
}

// NewLazy creates a cell that builds its value with init.
func NewLazy[T any](name string, init func(ctx context.Context) (T, error)) *Lazy[T] {
	return &Lazy[T]{
		name:  name,
		init:  init,
		guard: make(chan struct{}, 1),
	}
}

// Name returns the cell name.
func (l *Lazy[T]) Name() string {
	return l.name
}

// Get returns the value, building it if no build has completed yet.
//
// Callers that arrive while a build is running wait for it. A waiting caller
// whose ctx ends gives up with ctx.Err() and leaves the build untouched. The
// build itself runs with ctx's values but without its cancellation, so a
// departing caller cannot turn into a memoized failure.
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	if r := l.result.Load(); r != nil {
		return r.value, r.err
	}

	select {
	case l.guard <- struct{}{}:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
	defer func() { <-l.guard }()

	// Another caller may have finished while we waited for the guard.
	if r := l.result.Load(); r != nil {
		return r.value, r.err
	}

	l.loading.Store(true)
	defer l.loading.Store(false)

	r := l.build(context.WithoutCancel(ctx))
	l.result.Store(r)
	return r.value, r.err
}

func (l *Lazy[T]) build(ctx context.Context) (r *lazyResult[T]) {
	r = &lazyResult[T]{}
	if l.init == nil {
		r.err = fmt.Errorf("no initializer for %s", l.name)
		return r
	}
	defer func() {
		if p := recover(); p != nil {
			var zero T
			r.value = zero
			r.err = fmt.Errorf("initializer for %s panicked: %v", l.name, p)
		}
	}()
	r.value, r.err = l.init(ctx)
	return r
}

// State reports the current phase without blocking.
func (l *Lazy[T]) State() LazyState {
	if r := l.result.Load(); r != nil {
		if r.err != nil {
			return LazyFailed
		}
		return LazyReady
	}
	if l.loading.Load() {
		return LazyLoading
	}
	return LazyIdle
}

// Err returns the memoized initialization error, or nil if no build has
// failed.
func (l *Lazy[T]) Err() error {
	if r := l.result.Load(); r != nil {
		return r.err
	}
	return nil
}
