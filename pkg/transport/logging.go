package transport

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/debug"
	"github.com/youwol/httpclients/pkg/observability"
)

// outcome describes one finished call for logging and metrics. status is 0
// when the call failed before a response was received.
type outcome struct {
	command api.Command
	method  string
	url     string
	status  int
	start   time.Time
	err     error
}

// record emits the structured log entry and the request metrics of a call.
func (c *Client) record(ctx context.Context, o outcome) {
	elapsed := time.Since(o.start)

	label := "transport_error"
	if o.status != 0 && o.err == nil {
		label = observability.StatusClass(o.status)
	}
	observability.RequestsTotal.WithLabelValues(string(o.command), o.method, label).Inc()
	observability.RequestDuration.WithLabelValues(string(o.command)).Observe(elapsed.Seconds())

	attrs := []slog.Attr{
		slog.String("command", string(o.command)),
		slog.String("method", o.method),
		slog.String("url", o.url),
		slog.Duration("duration", elapsed),
	}
	if id := RequestIDFromContext(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if o.status != 0 {
		attrs = append(attrs, slog.Int("status", o.status))
	}

	if o.err != nil {
		attrs = append(attrs, slog.String("error", o.err.Error()))
		c.logger.LogAttrs(ctx, slog.LevelError, "request failed", attrs...)
		return
	}
	if debug.Enabled("transport") {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "request completed", append(attrs, slog.String("debug", "transport"))...)
	}
}

func traceBody(direction string, status int, body []byte) {
	if !debug.TraceIsEnabled("transport") {
		return
	}
	debug.Trace("transport", direction+" body", "status", strconv.Itoa(status), "body", debug.Truncate(string(body), 4096))
}
