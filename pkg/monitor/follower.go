package monitor

import (
	"sync"

	"github.com/youwol/httpclients/pkg/api"
)

// Monitoring enables event emission for one request. A nil Monitoring, or one
// without channels, disables it.
type Monitoring struct {
	// RequestID labels the emitted events. When empty the transport falls back
	// to a request-specific default (the path, file id or file name).
	RequestID string

	Channels []Sink
}

// Enabled reports whether m has at least one channel.
func (m *Monitoring) Enabled() bool {
	return m != nil && len(m.Channels) > 0
}

// Follow returns a follower for a request, or nil when monitoring is disabled.
// fallbackID is used when m.RequestID is empty.
func (m *Monitoring) Follow(cmd api.Command, fallbackID string) *Follower {
	if !m.Enabled() {
		return nil
	}
	id := m.RequestID
	if id == "" {
		id = fallbackID
	}
	return NewFollower(id, cmd, m.Channels...)
}

type followerState int

const (
	stateIdle followerState = iota
	stateRunning
	stateDone
)

// Follower emits the events of a single request. Its methods are no-ops on a
// nil receiver, so callers do not need to check whether monitoring is on.
//
// Follower enforces the event sequence: Start is honored once, ProgressTo is
// honored only between Start and End with non-decreasing counts, and End is
// honored once. Calls outside that order are ignored.
type Follower struct {
	requestID string
	command   api.Command
	channels  []Sink

	mu          sync.Mutex
	state       followerState
	total       int64
	transferred int64
}

// NewFollower creates a follower publishing to the given channels.
func NewFollower(requestID string, cmd api.Command, channels ...Sink) *Follower {
	return &Follower{
		requestID: requestID,
		command:   cmd,
		channels:  channels,
		total:     api.UnknownTotal,
	}
}

// RequestID returns the label of the followed request.
func (f *Follower) RequestID() string {
	if f == nil {
		return ""
	}
	return f.requestID
}

// Start emits the started event. total is the expected size, or
// api.UnknownTotal.
func (f *Follower) Start(total int64) {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != stateIdle {
		return
	}
	f.state = stateRunning
	f.total = total
	f.transferred = 0
	f.emit(api.StepStarted)
}

// ProgressTo emits a transferring event for the cumulative count n, or a
// processing event when n has reached the known total.
func (f *Follower) ProgressTo(n int64) {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != stateRunning || n < f.transferred {
		return
	}
	f.transferred = n
	step := api.StepTransferring
	if f.total >= 0 && n == f.total {
		step = api.StepProcessing
	}
	f.emit(step)
}

// End emits the finished event. The transferred count is set to the total
// when the total is known.
func (f *Follower) End() {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != stateRunning {
		return
	}
	f.state = stateDone
	if f.total >= 0 {
		f.transferred = f.total
	}
	f.emit(api.StepFinished)
}

func (f *Follower) emit(step api.Step) {
	event := api.RequestEvent{
		RequestID:        f.requestID,
		CommandType:      f.command,
		Step:             step,
		TransferredCount: f.transferred,
		TotalCount:       f.total,
	}
	for _, ch := range f.channels {
		ch.Publish(event)
	}
}
