package api

import (
	"encoding/json"
	"fmt"
)

// HTTPError is a non-2xx response: the status code and the decoded JSON body.
// It travels through the same channel as success values. It implements error
// so that callers can raise it.
type HTTPError struct {
	Status int `json:"status"`
	Body   any `json:"body"`

	raw json.RawMessage
}

// NewHTTPError builds an HTTPError from a status code and a raw JSON body.
// An empty body decodes to a nil Body.
func NewHTTPError(status int, raw []byte) (*HTTPError, error) {
	e := &HTTPError{Status: status}
	if len(raw) == 0 {
		return e, nil
	}
	if err := json.Unmarshal(raw, &e.Body); err != nil {
		return nil, err
	}
	e.raw = append(json.RawMessage(nil), raw...)
	return e, nil
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if len(e.raw) > 0 {
		return fmt.Sprintf("http error %d: %s", e.Status, e.raw)
	}
	return fmt.Sprintf("http error %d", e.Status)
}

// Decode unmarshals the error body into v, for backends that return a
// structured error document.
func (e *HTTPError) Decode(v any) error {
	if len(e.raw) > 0 {
		return json.Unmarshal(e.raw, v)
	}
	data, err := json.Marshal(e.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Result is either a decoded success value or an HTTPError.
type Result[T any] struct {
	value T
	err   *HTTPError
}

// Ok wraps a success value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps an HTTP error. A nil error is replaced by a zero-status one so
// that the result still reports IsError.
func Fail[T any](err *HTTPError) Result[T] {
	if err == nil {
		err = &HTTPError{}
	}
	return Result[T]{err: err}
}

// IsError reports whether r holds an HTTP error.
func (r Result[T]) IsError() bool {
	return r.err != nil
}

// Value returns the success value; it is the zero value when r is an error.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the HTTP error, or nil for a success.
func (r Result[T]) Err() *HTTPError {
	return r.err
}

// Unwrap converts r to the conventional (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}
