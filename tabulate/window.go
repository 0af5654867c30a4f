package tabulate

import (
	"context"
	"fmt"
)

// WindowStep computes the next entry from the last len(base) entries, oldest
// first. The slice is reused between steps and must not be retained.
type WindowStep[V any] func(window []V) V

// Window returns entry n keeping only the last len(base) entries.
func Window[V any](n int, base []V, rec WindowStep[V]) (V, error) {
	var last V
	if err := validate(n, base); err != nil {
		return last, err
	}
	err := reduce(context.Background(), n, base, rec, func(v V) bool {
		last = v
		return true
	})
	return last, err
}

// Feed is a running Stream. C is closed once the producer stops; Err then
// reports why.
type Feed[V any] struct {
	C    <-chan V
	err  error
	done chan struct{}
}

// Err blocks until the producer stops and returns nil when every entry was
// emitted, the context error on cancellation, or an ErrStepPanicked error.
func (f *Feed[V]) Err() error {
	<-f.done
	return f.err
}

// Stream emits entries 0 through n on Feed.C in order, then closes it.
//
// The producer blocks until each entry is received. A consumer that stops
// reading before C is closed must cancel ctx, or the producer goroutine
// leaks. A panic in rec stops the stream and is reported by Err.
func Stream[V any](ctx context.Context, n int, base []V, rec WindowStep[V]) (*Feed[V], error) {
	if err := validate(n, base); err != nil {
		return nil, err
	}
	out := make(chan V)
	feed := &Feed[V]{C: out, done: make(chan struct{})}
	go func() {
		defer close(feed.done)
		defer close(out)
		defer func() {
			if r := recover(); r != nil {
				feed.err = fmt.Errorf("%w: %v", ErrStepPanicked, r)
			}
		}()
		feed.err = reduce(ctx, n, base, rec, func(v V) bool {
			select {
			case out <- v:
				return true
			case <-ctx.Done():
				return false
			}
		})
	}()
	return feed, nil
}

// reduce hands every entry up to n to emit, stopping when emit returns false.
func reduce[V any](ctx context.Context, n int, base []V, rec WindowStep[V], emit func(V) bool) error {
	for i := 0; i < len(base) && i <= n; i++ {
		if !emit(base[i]) {
			return ctx.Err()
		}
	}
	window := make([]V, len(base))
	copy(window, base)
	for i := len(base); i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := rec(window)
		copy(window, window[1:])
		window[len(window)-1] = next
		if !emit(next) {
			return ctx.Err()
		}
	}
	return nil
}
