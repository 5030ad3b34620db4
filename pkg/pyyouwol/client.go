// Package pyyouwol is the client of the local youwol server: its health
// check, the admin routers and the live connection streaming the server's
// context messages.
package pyyouwol

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/live"
	"github.com/youwol/httpclients/pkg/transport"
)

// Options configures a Client.
type Options struct {
	Headers map[string]string

	// Live configures the connection returned by Client.Live. An empty URL
	// is derived from the host name of the client defaults.
	Live live.Options
}

// Client is the root router of the youwol server.
type Client struct {
	router *transport.Router
	Admin  *Admin

	liveOpts live.Options
	liveMu   sync.Mutex
	live     *live.Conn
}

// New creates a Client. The defaults of c are read here.
func New(c *transport.Client, opts Options) *Client {
	router := transport.NewRootRouter(c, "", opts.Headers)
	client := &Client{router: router, liveOpts: opts.Live}
	client.Admin = newAdmin(router, client.Live)
	return client
}

// Router returns the root router.
func (c *Client) Router() *transport.Router { return c.router }

// Healthz queries the health of the server.
func (c *Client) Healthz(ctx context.Context, opts ...transport.CallOption) (api.Result[HealthzResponse], error) {
	return transport.Send[HealthzResponse](ctx, c.router, api.CommandQuery, "/healthz", nil, opts...)
}

// Live returns the live connection of c, creating it on first use. Every
// caller shares the same connection; it is connected by Conn.Run.
func (c *Client) Live() (*live.Conn, error) {
	c.liveMu.Lock()
	defer c.liveMu.Unlock()
	if c.live != nil {
		return c.live, nil
	}

	opts := c.liveOpts
	if opts.URL == "" {
		host := c.router.Client().Defaults().HostName
		if host == "" {
			return nil, errors.New("pyyouwol: no live url and no default host name")
		}
		u, err := live.EndpointFor(host)
		if err != nil {
			return nil, fmt.Errorf("pyyouwol: %w", err)
		}
		opts.URL = u
	}
	if opts.Header == nil {
		opts.Header = make(http.Header)
		for k, v := range c.router.Headers() {
			opts.Header.Set(k, v)
		}
	}
	conn, err := live.NewConn(opts)
	if err != nil {
		return nil, err
	}
	c.live = conn
	return conn, nil
}

// watch subscribes to the messages of the shared live connection matching f.
func watch(conn func() (*live.Conn, error), f live.Filter, buffer int) (<-chan live.ContextMessage, func(), error) {
	c, err := conn()
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := c.Subscribe(f, buffer)
	return ch, cancel, nil
}
