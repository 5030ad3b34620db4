package monitor

import (
	"sync"

	"github.com/youwol/httpclients/pkg/api"
)

// Sink receives request events. Implementations must be safe for concurrent
// use when shared between requests.
type Sink interface {
	Publish(event api.RequestEvent)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(event api.RequestEvent)

// Publish calls f(event).
func (f SinkFunc) Publish(event api.RequestEvent) {
	f(event)
}

// Recorder is a Sink that keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []api.RequestEvent
}

// Publish appends the event.
func (r *Recorder) Publish(event api.RequestEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []api.RequestEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]api.RequestEvent, len(r.events))
	copy(out, r.events)
	return out
}

// For returns the recorded events of one request.
func (r *Recorder) For(requestID string) []api.RequestEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []api.RequestEvent
	for _, e := range r.events {
		if e.RequestID == requestID {
			out = append(out, e)
		}
	}
	return out
}

// Reset discards the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
