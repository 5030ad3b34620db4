package observability

import (
	"log/slog"
	"strconv"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/pipe"
)

// ErrorSink returns a pipe.ErrorSink that logs each HTTP error and counts it
// in youwol_client_http_errors_total. It is the centralized reporting target
// for pipe.Dispatch. A nil logger uses slog.Default().
func ErrorSink(logger *slog.Logger) pipe.ErrorSink {
	if logger == nil {
		logger = slog.Default()
	}
	return pipe.ErrorSinkFunc(func(e *api.HTTPError) {
		HTTPErrorsTotal.WithLabelValues(strconv.Itoa(e.Status)).Inc()
		logger.Warn("http error", "status", e.Status, "body", e.Body)
	})
}
