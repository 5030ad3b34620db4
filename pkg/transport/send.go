package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"time"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/debug"
)

// Send issues one JSON request for cmd at path under r.
//
// The method defaults to cmd.DefaultMethod(). A 2xx response is decoded into
// T; an empty body yields the zero T. Any other status yields a Result
// holding an *api.HTTPError with a nil error. The returned error reports
// transport failures only.
func Send[T any](ctx context.Context, r *Router, cmd api.Command, path string, req *Request, opts ...CallOption) (api.Result[T], error) {
	native := Request{}
	if req != nil {
		native = *req
	}
	headers := maps.Clone(native.Headers)
	if headers == nil {
		headers = make(map[string]string, len(r.headers))
	}
	maps.Copy(headers, r.headers)
	native.Headers = headers
	return SendURL[T](ctx, r.client, cmd, r.URL(path), &native, opts...)
}

// SendURL is Send for a target that does not go through a router.
func SendURL[T any](ctx context.Context, c *Client, cmd api.Command, target string, req *Request, opts ...CallOption) (api.Result[T], error) {
	var zero api.Result[T]
	o := collect(opts)
	if req == nil {
		req = &Request{}
	}

	method := req.Method
	if method == "" {
		method = cmd.DefaultMethod()
	}

	full, err := c.resolve(target)
	if err == nil {
		full, err = withQuery(full, req.Query, o.query)
	}
	if err != nil {
		return zero, fmt.Errorf("invalid url %q: %w", target, err)
	}

	var body io.Reader
	var payload []byte
	if req.JSON != nil {
		payload, err = json.Marshal(req.JSON)
		if err != nil {
			return zero, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, full, body)
	if err != nil {
		return zero, fmt.Errorf("creating request: %w", err)
	}
	applyHeaders(httpReq.Header, req.Headers, o.headers)
	if req.JSON != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	setRequestID(ctx, httpReq)

	debug.Log("transport", "send", "command", cmd, "method", method, "url", full, "body_bytes", len(payload))

	follower := o.monitoring.Follow(cmd, target)
	follower.Start(1)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		err = networkError(method, full, err)
		c.record(ctx, outcome{command: cmd, method: method, url: full, start: start, err: err})
		return zero, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err = networkError(method, full, err)
		c.record(ctx, outcome{command: cmd, method: method, url: full, status: resp.StatusCode, start: start, err: err})
		return zero, err
	}
	follower.End()
	traceBody("response", resp.StatusCode, data)

	res, err := decodeResult[T](resp.StatusCode, data)
	if err != nil {
		err = malformed(method, full, err)
	}
	c.record(ctx, outcome{command: cmd, method: method, url: full, status: resp.StatusCode, start: start, err: err})
	return res, err
}

// applyHeaders sets each layer in order; later layers win.
func applyHeaders(dst http.Header, layers ...map[string]string) {
	for _, layer := range layers {
		for k, v := range layer {
			dst.Set(k, v)
		}
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// decodeResult maps a status code and raw body to a Result. The error is
// non-nil only when the body is not valid JSON.
func decodeResult[T any](status int, data []byte) (api.Result[T], error) {
	data = bytes.TrimSpace(data)
	if !isSuccess(status) {
		httpErr, err := api.NewHTTPError(status, data)
		if err != nil {
			return api.Result[T]{}, err
		}
		return api.Fail[T](httpErr), nil
	}
	var v T
	if len(data) == 0 {
		return api.Ok(v), nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return api.Result[T]{}, err
	}
	return api.Ok(v), nil
}
