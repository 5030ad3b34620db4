package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"net/http"
	"slices"
	"time"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/debug"
	"github.com/youwol/httpclients/pkg/observability"
)

// Blob is a downloaded payload.
type Blob struct {
	Data        []byte
	ContentType string

	// StatusCode is not interpreted by Download; callers that need to tell
	// an error page from a payload check it themselves.
	StatusCode int
}

// OK reports whether the blob was served with a 2xx status.
func (b Blob) OK() bool {
	return isSuccess(b.StatusCode)
}

// Download fetches path under r as a binary payload.
func (r *Router) Download(ctx context.Context, path, fileID string, opts ...CallOption) (Blob, error) {
	return r.client.Download(ctx, r.URL(path), fileID, r.headers, opts...)
}

// Download streams a GET of target into memory.
//
// With monitoring, started carries the expected size (WithTotal, else the
// Content-Length, else unknown), each read reports transferring and finished
// follows the end of the body. The response status is not mapped to an
// *api.HTTPError: a 404 yields the error page as the payload, with
// Blob.StatusCode set.
func (c *Client) Download(ctx context.Context, target, fileID string, headers map[string]string, opts ...CallOption) (Blob, error) {
	o := collect(opts)
	const method = http.MethodGet

	full, err := c.resolve(target)
	if err == nil {
		full, err = withQuery(full, o.query)
	}
	if err != nil {
		return Blob{}, fmt.Errorf("invalid url %q: %w", target, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, full, nil)
	if err != nil {
		return Blob{}, fmt.Errorf("creating request: %w", err)
	}
	applyHeaders(httpReq.Header, headers, o.headers)
	setRequestID(ctx, httpReq)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		err = networkError(method, full, err)
		c.record(ctx, outcome{command: api.CommandDownload, method: method, url: full, start: start, err: err})
		return Blob{}, err
	}
	defer resp.Body.Close()

	total := resp.ContentLength
	if o.hasTotal {
		total = o.total
	}
	follower := o.monitoring.Follow(api.CommandDownload, fileID)
	follower.Start(total)

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}
	n, err := io.Copy(&buf, &countingReader{r: resp.Body, onRead: follower.ProgressTo})
	observability.TransferredBytesTotal.WithLabelValues("download").Add(float64(n))
	if err != nil {
		err = networkError(method, full, err)
		c.record(ctx, outcome{command: api.CommandDownload, method: method, url: full, status: resp.StatusCode, start: start, err: err})
		return Blob{}, err
	}
	follower.End()

	debug.Log("transport", "download complete", "url", full, "status", resp.StatusCode, "bytes", n)
	c.record(ctx, outcome{command: api.CommandDownload, method: method, url: full, status: resp.StatusCode, start: start})
	return Blob{
		Data:        buf.Bytes(),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}

// File is the payload of an upload.
type File struct {
	// Name is the file name of the multipart part.
	Name string

	Body io.Reader

	// Size is the number of bytes Body yields, used as the total of progress
	// events. Use api.UnknownTotal when it is not known.
	Size int64

	// Fields are extra form fields written before the file part.
	Fields map[string]string
}

// UploadFieldName is the multipart field holding the file.
const UploadFieldName = "file"

var errUploadDone = errors.New("upload finished")

// Upload sends file as multipart/form-data to path under r with the given
// method (POST when empty).
func Upload[T any](ctx context.Context, r *Router, method, path string, file File, opts ...CallOption) (api.Result[T], error) {
	return UploadURL[T](ctx, r.client, method, r.URL(path), file, r.headers, opts...)
}

// UploadURL sends file as multipart/form-data to target.
//
// Headers apply over the multipart content type, and call option headers
// over headers. With monitoring, started carries file.Size and is emitted
// before the request, transferring follows the bytes read from file.Body and
// finished is emitted once a 2xx response is received. A failed upload ends
// without finished. A 2xx response is
// decoded into T; any other status yields an *api.HTTPError result.
func UploadURL[T any](ctx context.Context, c *Client, method, target string, file File, headers map[string]string, opts ...CallOption) (api.Result[T], error) {
	var zero api.Result[T]
	o := collect(opts)
	if method == "" {
		method = api.CommandUpload.DefaultMethod()
	}

	full, err := c.resolve(target)
	if err == nil {
		full, err = withQuery(full, o.query)
	}
	if err != nil {
		return zero, fmt.Errorf("invalid url %q: %w", target, err)
	}

	follower := o.monitoring.Follow(api.CommandUpload, file.Name)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	src := file.Body
	if src == nil {
		src = http.NoBody
	}
	counted := &countingReader{r: src, onRead: follower.ProgressTo}

	httpReq, err := http.NewRequestWithContext(ctx, method, full, pr)
	if err != nil {
		return zero, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	applyHeaders(httpReq.Header, headers, o.headers)
	setRequestID(ctx, httpReq)

	follower.Start(file.Size)

	written := make(chan struct{})
	go func() {
		defer close(written)
		pw.CloseWithError(writeMultipart(mw, file, counted))
	}()

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	pr.CloseWithError(errUploadDone)
	<-written
	observability.TransferredBytesTotal.WithLabelValues("upload").Add(float64(counted.n))
	if err != nil {
		err = networkError(method, full, err)
		c.record(ctx, outcome{command: api.CommandUpload, method: method, url: full, start: start, err: err})
		return zero, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err = networkError(method, full, err)
		c.record(ctx, outcome{command: api.CommandUpload, method: method, url: full, status: resp.StatusCode, start: start, err: err})
		return zero, err
	}
	if isSuccess(resp.StatusCode) {
		follower.End()
	}
	traceBody("response", resp.StatusCode, data)

	res, err := decodeResult[T](resp.StatusCode, data)
	if err != nil {
		err = malformed(method, full, err)
	}
	c.record(ctx, outcome{command: api.CommandUpload, method: method, url: full, status: resp.StatusCode, start: start, err: err})
	return res, err
}

func writeMultipart(mw *multipart.Writer, file File, body io.Reader) error {
	for _, k := range slices.Sorted(maps.Keys(file.Fields)) {
		if err := mw.WriteField(k, file.Fields[k]); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile(UploadFieldName, file.Name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, body); err != nil {
		return err
	}
	return mw.Close()
}
