// Package memory provides an in-memory EventStore for tests and short-lived
// processes. Records are lost when the process exits. When a maximum size is
// set, the oldest record is evicted to make room for a new one.
package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/storage"
)

// Store is an in-memory EventStore.
type Store struct {
	mu        sync.RWMutex
	records   *list.List // front = oldest
	byRequest map[string][]*list.Element
	maxSize   int // 0 = unlimited
	seq       int64
	closed    bool
}

// Ensure Store implements storage.EventStore at compile time.
var _ storage.EventStore = (*Store)(nil)

// New creates a new in-memory store. If maxSize is 0, the store grows
// without limit.
func New(maxSize int) *Store {
	return &Store{
		records:   list.New(),
		byRequest: make(map[string][]*list.Element),
		maxSize:   maxSize,
	}
}

// Append stores an event.
func (s *Store) Append(_ context.Context, event api.RequestEvent, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}

	if s.maxSize > 0 && s.records.Len() >= s.maxSize {
		s.evictOldest()
	}

	s.seq++
	elem := s.records.PushBack(storage.Record{Seq: s.seq, Event: event, RecordedAt: at})
	s.byRequest[event.RequestID] = append(s.byRequest[event.RequestID], elem)
	return nil
}

// Events returns the records of one request in append order.
func (s *Store) Events(_ context.Context, requestID string) ([]storage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elems := s.byRequest[requestID]
	if len(elems) == 0 {
		return nil, storage.ErrNotFound
	}
	out := make([]storage.Record, len(elems))
	for i, e := range elems {
		out[i] = e.Value.(storage.Record)
	}
	return out, nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(_ context.Context, limit int) ([]storage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > s.records.Len() {
		limit = s.records.Len()
	}
	out := make([]storage.Record, 0, limit)
	for e := s.records.Back(); e != nil && len(out) < limit; e = e.Prev() {
		out = append(out, e.Value.(storage.Record))
	}
	return out, nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records.Len()
}

// Close marks the store closed. Stored records stay readable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// evictOldest removes the oldest record. Must be called with mu held.
func (s *Store) evictOldest() {
	front := s.records.Front()
	if front == nil {
		return
	}
	s.records.Remove(front)

	id := front.Value.(storage.Record).Event.RequestID
	elems := s.byRequest[id][1:]
	if len(elems) == 0 {
		delete(s.byRequest, id)
		return
	}
	s.byRequest[id] = elems
}
