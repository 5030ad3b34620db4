// Package monitor reports the lifecycle of individual requests to one or more
// event sinks.
//
// A request is monitored when the caller supplies a [Monitoring] with at least
// one channel. The transport then drives a [Follower], which guarantees the
// per-request event order: one started event, zero or more transferring (or
// processing) events with non-decreasing counts, and one finished event.
// Nothing is emitted after finished.
//
// Events of different requests that share a sink may interleave freely.
package monitor
