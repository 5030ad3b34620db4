package pipe

import (
	"iter"

	"github.com/youwol/httpclients/pkg/api"
)

// ErrorSink receives HTTP errors removed from a stream by Dispatch.
type ErrorSink interface {
	PublishError(*api.HTTPError)
}

// ErrorSinkFunc adapts a function to ErrorSink.
type ErrorSinkFunc func(*api.HTTPError)

// PublishError calls f(e).
func (f ErrorSinkFunc) PublishError(e *api.HTTPError) { f(e) }

// Mute drops HTTP errors and passes successes through.
func Mute[T any](s Stream[T]) Stream[T] {
	return func(yield func(api.Result[T], error) bool) {
		for r, err := range s {
			if err == nil && r.IsError() {
				continue
			}
			if !yield(r, err) {
				return
			}
		}
	}
}

// Raise unwraps successes and turns an HTTP error into a yielded error, after
// which the sequence ends. Transport failures are forwarded unchanged.
func Raise[T any](s Stream[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for r, err := range s {
			if err != nil {
				if !yield(r.Value(), err) {
					return
				}
				continue
			}
			if r.IsError() {
				var zero T
				yield(zero, r.Err())
				return
			}
			if !yield(r.Value(), nil) {
				return
			}
		}
	}
}

// Dispatch forwards HTTP errors to sink and removes them from the stream.
// Each error reaches the sink once, when the stream is iterated.
func Dispatch[T any](s Stream[T], sink ErrorSink) Stream[T] {
	return func(yield func(api.Result[T], error) bool) {
		for r, err := range s {
			if err == nil && r.IsError() {
				if sink != nil {
					sink.PublishError(r.Err())
				}
				continue
			}
			if !yield(r, err) {
				return
			}
		}
	}
}

// Either holds a success value or a value recovered from an HTTP error.
type Either[T, V any] struct {
	value     T
	recovered V
	isRight   bool
}

// Left wraps a success value.
func Left[T, V any](v T) Either[T, V] {
	return Either[T, V]{value: v}
}

// Right wraps a recovered value.
func Right[T, V any](v V) Either[T, V] {
	return Either[T, V]{recovered: v, isRight: true}
}

// IsRecovered reports whether e holds a recovered value.
func (e Either[T, V]) IsRecovered() bool { return e.isRight }

// Value returns the success value; ok is false when e is recovered.
func (e Either[T, V]) Value() (v T, ok bool) { return e.value, !e.isRight }

// Recovered returns the recovered value; ok is false when e is a success.
func (e Either[T, V]) Recovered() (v V, ok bool) { return e.recovered, e.isRight }

// OnError replaces each HTTP error by fn(err) and leaves successes untouched.
func OnError[T, V any](s Stream[T], fn func(*api.HTTPError) V) iter.Seq2[Either[T, V], error] {
	return func(yield func(Either[T, V], error) bool) {
		for r, err := range s {
			var out Either[T, V]
			switch {
			case err != nil:
			case r.IsError():
				out = Right[T](fn(r.Err()))
			default:
				out = Left[T, V](r.Value())
			}
			if !yield(out, err) {
				return
			}
		}
	}
}

// Recover is OnError for a recovery of the same type: the output is a plain
// stream of successes.
func Recover[T any](s Stream[T], fn func(*api.HTTPError) T) Stream[T] {
	return func(yield func(api.Result[T], error) bool) {
		for r, err := range s {
			if err == nil && r.IsError() {
				r = api.Ok(fn(r.Err()))
			}
			if !yield(r, err) {
				return
			}
		}
	}
}
