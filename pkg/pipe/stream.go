package pipe

import (
	"errors"
	"iter"

	"github.com/youwol/httpclients/pkg/api"
)

// ErrEmpty is returned by First when the stream yields nothing.
var ErrEmpty = errors.New("pipe: empty stream")

// Stream is a sequence of request results. A non-nil error is a transport
// failure; the paired Result is then the zero value.
type Stream[T any] = iter.Seq2[api.Result[T], error]

// Of returns a stream over the given results.
func Of[T any](results ...api.Result[T]) Stream[T] {
	return func(yield func(api.Result[T], error) bool) {
		for _, r := range results {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// Single returns a one-element stream from the outcome of a blocking call.
func Single[T any](r api.Result[T], err error) Stream[T] {
	return func(yield func(api.Result[T], error) bool) {
		yield(r, err)
	}
}

// Failed returns a stream holding a single transport failure.
func Failed[T any](err error) Stream[T] {
	return func(yield func(api.Result[T], error) bool) {
		var zero api.Result[T]
		yield(zero, err)
	}
}

// Concat yields the elements of each stream in turn.
func Concat[T any](streams ...Stream[T]) Stream[T] {
	return func(yield func(api.Result[T], error) bool) {
		for _, s := range streams {
			for r, err := range s {
				if !yield(r, err) {
					return
				}
			}
		}
	}
}

// First returns the first element of s. It returns ErrEmpty when s yields
// nothing, for example after Mute dropped its only element.
func First[T any](s Stream[T]) (api.Result[T], error) {
	for r, err := range s {
		return r, err
	}
	var zero api.Result[T]
	return zero, ErrEmpty
}

// Collect gathers the results of s, stopping at the first transport failure.
func Collect[T any](s Stream[T]) ([]api.Result[T], error) {
	var out []api.Result[T]
	for r, err := range s {
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Values gathers the success values of s. HTTP errors and transport
// failures both stop the iteration and are returned as the error.
func Values[T any](s Stream[T]) ([]T, error) {
	var out []T
	for v, err := range Raise(s) {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
