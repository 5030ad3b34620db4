package transport

import (
	"context"
	"net/http"
)

// RequestIDHeader carries the correlation id of an outgoing request.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// ContextWithRequestID returns a context whose requests carry id in the
// X-Request-ID header.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// setRequestID copies the context request id onto req unless the caller
// already set the header explicitly.
func setRequestID(ctx context.Context, req *http.Request) {
	id := RequestIDFromContext(ctx)
	if id == "" || req.Header.Get(RequestIDHeader) != "" {
		return
	}
	req.Header.Set(RequestIDHeader, id)
}
