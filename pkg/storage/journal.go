package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/debug"
	"github.com/youwol/httpclients/pkg/monitor"
	"github.com/youwol/httpclients/pkg/observability"
)

// DefaultJournalBuffer is the queue size of a journal.
const DefaultJournalBuffer = 256

// Journal is a monitor.Sink that appends events to an EventStore from a
// background goroutine, so that publishing never waits on the store.
// Progress events published while the queue is full are dropped and counted;
// started and finished events are always queued.
type Journal struct {
	store  EventStore
	logger *slog.Logger
	now    func() time.Time
	limit  int

	mu      sync.Mutex
	pending []api.RequestEvent
	closed  bool

	wake chan struct{}
	done chan struct{}
}

var _ monitor.Sink = (*Journal)(nil)

// NewJournal starts a journal over store. A nil logger uses slog.Default().
func NewJournal(store EventStore, buffer int, logger *slog.Logger) *Journal {
	if buffer <= 0 {
		buffer = DefaultJournalBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	j := &Journal{
		store:  store,
		logger: logger,
		now:    time.Now,
		limit:  buffer,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go j.run()
	return j
}

// Publish queues event for storage.
func (j *Journal) Publish(event api.RequestEvent) {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return
	}
	if event.Droppable() && len(j.pending) >= j.limit {
		j.mu.Unlock()
		observability.EventsDroppedTotal.WithLabelValues("journal").Inc()
		debug.Log("storage", "journal queue full, event dropped", "request_id", event.RequestID, "step", event.Step)
		return
	}
	j.pending = append(j.pending, event)
	j.mu.Unlock()
	j.signal()
}

func (j *Journal) signal() {
	select {
	case j.wake <- struct{}{}:
	default:
	}
}

func (j *Journal) run() {
	defer close(j.done)
	for {
		j.mu.Lock()
		batch, closed := j.pending, j.closed
		j.pending = nil
		j.mu.Unlock()

		if len(batch) == 0 {
			if closed {
				return
			}
			<-j.wake
			continue
		}
		for _, event := range batch {
			j.append(event)
		}
	}
}

func (j *Journal) append(event api.RequestEvent) {
	if err := j.store.Append(context.Background(), event, j.now()); err != nil {
		observability.JournalWritesTotal.WithLabelValues("error").Inc()
		j.logger.Error("journal append failed", "request_id", event.RequestID, "error", err)
		return
	}
	observability.JournalWritesTotal.WithLabelValues("ok").Inc()
}

// Close stops accepting events, waits until the queued ones are stored or
// ctx is done, then closes the store.
func (j *Journal) Close(ctx context.Context) error {
	j.mu.Lock()
	j.closed = true
	j.mu.Unlock()
	j.signal()

	select {
	case <-j.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return j.store.Close()
}
