package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/youwol/httpclients/pkg/observability"
)

// Options configures a Client.
type Options struct {
	// HTTPClient performs the requests. Its transport is wrapped with
	// round-trip metrics. Defaults to a client built from Timeout.
	HTTPClient *http.Client

	// Defaults, when set, is used instead of the process-wide defaults by
	// root routers of this client. It is copied by New.
	Defaults *Defaults

	// Logger receives request logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Timeout bounds whole requests when HTTPClient is nil. Zero means no
	// timeout; cancellation then relies on the request context.
	Timeout time.Duration

	// BaseURL resolves relative targets, the way a browser resolves them
	// against the page origin. Required when the host name is empty.
	BaseURL string
}

// Client performs HTTP requests for routers and the blob helpers.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	defaults   *Defaults
	baseURL    *url.URL
}

// New creates a Client. It fails only when BaseURL does not parse.
func New(opts Options) (*Client, error) {
	hc := &http.Client{Timeout: opts.Timeout}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		hc = &copied
	}
	hc.Transport = observability.InstrumentRoundTripper(hc.Transport)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{httpClient: hc, logger: logger}
	if opts.Defaults != nil {
		d := opts.Defaults.clone()
		c.defaults = &d
	}
	if opts.BaseURL != "" {
		u, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing base url: %w", err)
		}
		c.baseURL = u
	}
	return c, nil
}

// resolve turns target into an absolute URL when a base URL is configured.
func (c *Client) resolve(target string) (string, error) {
	if c.baseURL == nil {
		return target, nil
	}
	ref, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return target, nil
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

// Defaults returns the defaults root routers of c are built with: the
// injected ones, or a snapshot of the process-wide defaults taken now.
func (c *Client) Defaults() Defaults {
	if c.defaults != nil {
		return c.defaults.clone()
	}
	return CurrentDefaults()
}
