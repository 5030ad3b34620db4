package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/youwol/httpclients/pkg/debug"
	"github.com/youwol/httpclients/pkg/monitor"
	"github.com/youwol/httpclients/pkg/observability"
)

// DefaultReconnectDelay is the pause between two connection attempts.
const DefaultReconnectDelay = time.Second

var (
	// ErrAlreadyRunning is returned by Run while another Run is active.
	ErrAlreadyRunning = errors.New("live connection already running")

	// ErrDisconnected is returned by a session the server ended.
	ErrDisconnected = errors.New("live connection lost")

	// ErrClosed is returned by Run after Close.
	ErrClosed = errors.New("live connection closed")
)

// State is the connection state of a Conn.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Options configures a Conn.
type Options struct {
	// URL is the ws:// or wss:// endpoint.
	URL string

	// Header is sent with the handshake.
	Header http.Header

	// ReconnectDelay defaults to DefaultReconnectDelay.
	ReconnectDelay time.Duration

	// Dialer defaults to a copy of websocket.DefaultDialer.
	Dialer *websocket.Dialer

	Logger *slog.Logger
}

// Conn is a reconnecting websocket fanning context messages out to
// subscribers.
type Conn struct {
	id     string
	opts   Options
	dialer *websocket.Dialer
	logger *slog.Logger

	messages *monitor.Broadcaster[ContextMessage]
	running  atomic.Bool
	state    atomic.Int32

	mu        sync.Mutex
	listeners []func(State)
	cancel    context.CancelFunc
	closed    bool
}

// NewConn creates a disconnected Conn. Nothing is dialed before Run.
func NewConn(opts Options) (*Conn, error) {
	if opts.URL == "" {
		return nil, errors.New("live: url is required")
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	dialer := opts.Dialer
	if dialer == nil {
		d := *websocket.DefaultDialer
		dialer = &d
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Conn{
		id:       id,
		opts:     opts,
		dialer:   dialer,
		logger:   logger.With("live_connection", id),
		messages: monitor.NewBroadcaster[ContextMessage]("live"),
	}, nil
}

// ID identifies c in logs.
func (c *Conn) ID() string { return c.id }

// URL returns the endpoint c dials.
func (c *Conn) URL() string { return c.opts.URL }

// State returns the current state.
func (c *Conn) State() State { return State(c.state.Load()) }

// OnState registers fn to be called on every state transition. fn runs on
// the goroutine of Run and must not block.
func (c *Conn) OnState(fn func(State)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Subscribe returns the messages matching f and a cancel function. Slow
// subscribers lose messages once buffer is full.
func (c *Conn) Subscribe(f Filter, buffer int) (<-chan ContextMessage, func()) {
	if f.IsZero() {
		return c.messages.Subscribe(buffer)
	}
	return c.messages.SubscribeFunc(buffer, f.Match)
}

// Run connects and keeps c connected until ctx is done or Close is called.
// A dropped or refused connection is retried after the reconnect delay,
// without limit. Run returns nil once ctx is done.
func (c *Conn) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	policy := retrypolicy.NewBuilder[any]().
		WithMaxRetries(-1).
		WithDelay(c.opts.ReconnectDelay).
		AbortOnErrors(context.Canceled, context.DeadlineExceeded).
		OnRetry(func(e failsafe.ExecutionEvent[any]) {
			observability.LiveReconnectsTotal.Inc()
			c.logger.Info("reconnecting", "url", c.opts.URL, "attempt", e.Attempts(), "error", e.LastError())
		}).
		Build()

	err := failsafe.With(policy).WithContext(ctx).Run(func() error {
		return c.session(ctx)
	})
	c.setState(StateDisconnected)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// session runs one connection until it drops. It never returns nil.
func (c *Conn) session(ctx context.Context) error {
	c.setState(StateConnecting)
	ws, _, err := c.dialer.DialContext(ctx, c.opts.URL, c.opts.Header)
	if err != nil {
		c.setState(StateDisconnected)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("dialing %s: %w", c.opts.URL, err)
	}
	defer ws.Close()
	stop := context.AfterFunc(ctx, func() { ws.Close() })
	defer stop()

	c.setState(StateConnected)
	observability.LiveConnected.Set(1)
	defer observability.LiveConnected.Set(0)
	c.logger.Info("connected", "url", c.opts.URL)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			c.setState(StateDisconnected)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return ErrDisconnected
			}
			return fmt.Errorf("%w: %v", ErrDisconnected, err)
		}
		c.dispatch(data)
	}
}

func (c *Conn) dispatch(data []byte) {
	if empty(data) {
		observability.LiveMessagesTotal.WithLabelValues("skipped").Inc()
		return
	}
	m, err := ParseMessage(data)
	if err != nil {
		observability.LiveMessagesTotal.WithLabelValues("malformed").Inc()
		debug.Log("live", "dropping frame", "error", err, "bytes", len(data))
		return
	}
	observability.LiveMessagesTotal.WithLabelValues("dispatched").Inc()
	debug.Log("live", "message", "context_id", m.ContextID, "labels", m.Labels)
	c.messages.Publish(m)
}

func (c *Conn) setState(s State) {
	if State(c.state.Swap(int32(s))) == s {
		return
	}
	debug.Log("live", "state", "state", s)
	c.mu.Lock()
	listeners := append([]func(State){}, c.listeners...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}

// Close stops Run and closes every subscription. It is idempotent.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.messages.Close()
	return nil
}
