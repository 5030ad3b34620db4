package monitor

import (
	"sync"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/debug"
	"github.com/youwol/httpclients/pkg/observability"
)

// DefaultBuffer is the per-subscriber buffer used when Subscribe is given a
// non-positive size.
const DefaultBuffer = 64

type subscriber[E any] struct {
	ch     chan E
	accept func(E) bool

	// overflow holds values that could not be dropped while ch was full.
	// While it is not empty every value goes through it to keep order.
	mu       sync.Mutex
	overflow []E
	flushing bool
	closed   bool
	done     chan struct{}
}

// Broadcaster fans values out to any number of subscribers. Each subscriber
// has its own buffered channel and sees values in publish order. Publish
// never blocks: a value is dropped for a subscriber whose buffer is full,
// unless the broadcaster keeps it, in which case it is queued and delivered
// once the subscriber catches up.
//
// All methods are safe for concurrent use.
type Broadcaster[E any] struct {
	name string
	keep func(E) bool

	mu     sync.RWMutex
	subs   map[*subscriber[E]]struct{}
	closed bool
}

// NewBroadcaster creates a broadcaster. The name labels dropped-value metrics.
func NewBroadcaster[E any](name string) *Broadcaster[E] {
	return &Broadcaster[E]{
		name: name,
		subs: make(map[*subscriber[E]]struct{}),
	}
}

// Subscribe registers a subscriber and returns its channel together with a
// function that unsubscribes and closes the channel. The cancel function may
// be called more than once.
func (b *Broadcaster[E]) Subscribe(buffer int) (<-chan E, func()) {
	return b.SubscribeFunc(buffer, nil)
}

// SubscribeFunc is Subscribe for a subscriber that only receives the values
// accept returns true for. A nil accept receives everything.
func (b *Broadcaster[E]) SubscribeFunc(buffer int, accept func(E) bool) (<-chan E, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	s := &subscriber[E]{ch: make(chan E, buffer), accept: accept, done: make(chan struct{})}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(s.ch)
		return s.ch, func() {}
	}
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return s.ch, func() {
		once.Do(func() { b.remove(s) })
	}
}

func (b *Broadcaster[E]) remove(s *subscriber[E]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[s]; !ok {
		return
	}
	delete(b.subs, s)
	s.close()
}

// Publish delivers v to every current subscriber.
func (b *Broadcaster[E]) Publish(v E) {
	keep := b.keep != nil && b.keep(v)

	b.mu.RLock()
	defer b.mu.RUnlock()
	for s := range b.subs {
		if s.accept != nil && !s.accept(v) {
			continue
		}
		if !s.offer(v, keep) {
			observability.EventsDroppedTotal.WithLabelValues(b.name).Inc()
			debug.Log("monitor", "subscriber buffer full, value dropped", "broadcaster", b.name)
		}
	}
}

// offer hands v to the subscriber without blocking and reports whether it
// was delivered or queued.
func (s *subscriber[E]) offer(v E, keep bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if len(s.overflow) == 0 {
		select {
		case s.ch <- v:
			return true
		default:
		}
	}
	if !keep {
		return false
	}
	s.overflow = append(s.overflow, v)
	if !s.flushing {
		s.flushing = true
		go s.flush()
	}
	return true
}

// flush moves the overflow into the channel, waiting on the consumer.
func (s *subscriber[E]) flush() {
	for {
		s.mu.Lock()
		if s.closed {
			s.flushing = false
			s.overflow = nil
			close(s.ch)
			s.mu.Unlock()
			return
		}
		if len(s.overflow) == 0 {
			s.flushing = false
			s.mu.Unlock()
			return
		}
		v := s.overflow[0]
		s.mu.Unlock()

		select {
		case s.ch <- v:
			s.mu.Lock()
			s.overflow = s.overflow[1:]
			s.mu.Unlock()
		case <-s.done:
		}
	}
}

// close closes the channel, or leaves it to a running flush.
func (s *subscriber[E]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	if !s.flushing {
		close(s.ch)
	}
}

// Len returns the number of subscribers.
func (b *Broadcaster[E]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close unsubscribes everyone and closes their channels. Later Subscribe calls
// return an already closed channel.
func (b *Broadcaster[E]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		delete(b.subs, s)
		s.close()
	}
}

// Channel is a request-event broadcaster usable as a Sink.
type Channel = Broadcaster[api.RequestEvent]

// NewChannel creates a Channel. Progress events may be dropped for a lagging
// subscriber; started and finished always reach it.
func NewChannel() *Channel {
	c := NewBroadcaster[api.RequestEvent]("request_events")
	c.keep = func(e api.RequestEvent) bool { return !e.Droppable() }
	return c
}

var _ Sink = (*Channel)(nil)
