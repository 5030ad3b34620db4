package pipe

import (
	"context"

	"github.com/youwol/httpclients/pkg/api"
)

// Future runs a call in the background. The outcome is computed once and
// replayed to every waiter.
type Future[T any] struct {
	done chan struct{}
	res  api.Result[T]
	err  error
}

// Go starts fn in a new goroutine.
func Go[T any](fn func() (api.Result[T], error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.res, f.err = fn()
	}()
	return f
}

// Done is closed when the outcome is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the outcome is available or ctx is done. Abandoning a
// wait does not stop the underlying call.
func (f *Future[T]) Wait(ctx context.Context) (api.Result[T], error) {
	select {
	case <-f.done:
		return f.res, f.err
	case <-ctx.Done():
		var zero api.Result[T]
		return zero, ctx.Err()
	}
}

// Stream returns a one-element stream that blocks on the outcome when iterated.
func (f *Future[T]) Stream() Stream[T] {
	return func(yield func(api.Result[T], error) bool) {
		<-f.done
		yield(f.res, f.err)
	}
}
