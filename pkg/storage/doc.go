// Package storage persists request events so that transfers can be
// inspected after the fact.
//
// EventStore is implemented by the memory and postgres subpackages. Journal
// adapts an EventStore to monitor.Sink: pass it as a monitoring channel and
// every event of the monitored requests is recorded.
package storage
