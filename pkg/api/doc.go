// Package api defines the core value types shared by the youwol HTTP clients.
//
// The package performs no I/O. It provides:
//   - [Command]: the kind of backend operation, which selects the default HTTP verb
//   - [HTTPError]: a non-2xx response carried as a value rather than a failure
//   - [Result]: the tagged union of a decoded success value and an [HTTPError]
//   - [RequestEvent]: one lifecycle notification of a monitored request
//
// HTTP-level errors are values: a dispatcher returns them inside a [Result]
// with a nil error. Transport-level failures (connection refused, aborted
// reads, undecodable bodies) are returned as ordinary Go errors. Callers
// choose how to treat the value side with the combinators in package pipe.
package api
