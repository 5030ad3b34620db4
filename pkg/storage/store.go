package storage

import (
	"context"
	"time"

	"github.com/youwol/httpclients/pkg/api"
)

// Record is a stored request event.
type Record struct {
	// Seq orders records of a store; it increases with each Append.
	Seq        int64
	Event      api.RequestEvent
	RecordedAt time.Time
}

// EventStore records request events.
type EventStore interface {
	// Append stores an event. Seq is assigned by the store.
	Append(ctx context.Context, event api.RequestEvent, at time.Time) error

	// Events returns the records of one request in append order, or
	// ErrNotFound when there are none.
	Events(ctx context.Context, requestID string) ([]Record, error)

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)

	Close() error
}
