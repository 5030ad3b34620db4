package transport

import (
	"maps"
	"net/url"

	"github.com/youwol/httpclients/pkg/monitor"
)

// Request holds the native options of a JSON call.
type Request struct {
	// Method overrides the default method of the command.
	Method string

	Headers map[string]string

	// JSON, when non-nil, is serialized as the request body.
	JSON any

	Query url.Values
}

// CallOption customizes a single call.
type CallOption func(*callOptions)

type callOptions struct {
	monitoring *monitor.Monitoring
	headers    map[string]string
	query      url.Values
	total      int64
	hasTotal   bool
}

func collect(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMonitoring reports the events of the call to channels. An empty
// requestID falls back to the target URL (JSON calls), the file id (downloads) or
// the file name (uploads).
func WithMonitoring(requestID string, channels ...monitor.Sink) CallOption {
	return WithMonitor(&monitor.Monitoring{RequestID: requestID, Channels: channels})
}

// WithMonitor reports the events of the call as configured by m. A nil m
// disables monitoring.
func WithMonitor(m *monitor.Monitoring) CallOption {
	return func(o *callOptions) { o.monitoring = m }
}

// WithHeaders adds headers that take precedence over router and request
// headers.
func WithHeaders(headers map[string]string) CallOption {
	return func(o *callOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string, len(headers))
		}
		maps.Copy(o.headers, headers)
	}
}

// WithQuery adds query parameters to the target of the call, after those of
// the Request.
func WithQuery(query url.Values) CallOption {
	return func(o *callOptions) {
		if o.query == nil {
			o.query = make(url.Values, len(query))
		}
		for k, vs := range query {
			o.query[k] = append(o.query[k], vs...)
		}
	}
}

// WithTotal sets the expected size of a download when the response does not
// advertise a Content-Length, or overrides the advertised one. A size <= 0
// is ignored.
func WithTotal(n int64) CallOption {
	return func(o *callOptions) {
		if n <= 0 {
			return
		}
		o.total = n
		o.hasTotal = true
	}
}

func withQuery(rawURL string, queries ...url.Values) (string, error) {
	n := 0
	for _, query := range queries {
		n += len(query)
	}
	if n == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for _, query := range queries {
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
