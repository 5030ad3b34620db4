// Package observability provides Prometheus metrics and HTTP instrumentation
// for the youwol clients.
package observability

import "github.com/prometheus/client_golang/prometheus"

// TransferBuckets defines histogram buckets suited for backend calls, from
// small JSON queries (10ms) to large blob transfers (5min).
var TransferBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120, 300}

var (
	// RequestsTotal counts dispatched requests by command, method and outcome
	// ("2xx", "4xx", "5xx" or "transport_error").
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youwol_client_requests_total",
			Help: "Dispatched requests",
		},
		[]string{"command", "method", "status"},
	)

	// RequestDuration records request duration in seconds by command.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "youwol_client_request_duration_seconds",
			Help:    "Request duration",
			Buckets: TransferBuckets,
		},
		[]string{"command"},
	)

	// InFlightRequests tracks HTTP round trips currently in progress.
	InFlightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "youwol_client_inflight_requests",
			Help: "In-flight HTTP round trips",
		},
	)

	// RoundTripsTotal counts HTTP round trips by method and status class, as
	// seen by the instrumented http.RoundTripper.
	RoundTripsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youwol_client_roundtrips_total",
			Help: "HTTP round trips",
		},
		[]string{"method", "status"},
	)

	// TransferredBytesTotal counts blob bytes by direction (upload/download).
	TransferredBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youwol_client_transferred_bytes_total",
			Help: "Blob bytes transferred",
		},
		[]string{"direction"},
	)

	// HTTPErrorsTotal counts HTTP errors reported through ErrorSink.
	HTTPErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youwol_client_http_errors_total",
			Help: "HTTP errors dispatched to the error sink",
		},
		[]string{"status"},
	)

	// EventsDroppedTotal counts values dropped for slow broadcast subscribers.
	EventsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youwol_client_events_dropped_total",
			Help: "Broadcast values dropped for full subscribers",
		},
		[]string{"broadcaster"},
	)

	// LiveReconnectsTotal counts reconnect attempts of live connections.
	LiveReconnectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "youwol_client_live_reconnects_total",
			Help: "Live connection reconnect attempts",
		},
	)

	// LiveConnected is 1 while a live connection is established.
	LiveConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "youwol_client_live_connected",
			Help: "Live connection established",
		},
	)

	// LiveMessagesTotal counts frames read from live connections by outcome
	// ("dispatched", "skipped" or "malformed").
	LiveMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youwol_client_live_messages_total",
			Help: "Live connection frames",
		},
		[]string{"outcome"},
	)

	// JournalWritesTotal counts request events written to the journal by
	// outcome ("ok" or "error").
	JournalWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youwol_client_journal_writes_total",
			Help: "Journal writes",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		InFlightRequests,
		RoundTripsTotal,
		TransferredBytesTotal,
		HTTPErrorsTotal,
		EventsDroppedTotal,
		LiveReconnectsTotal,
		LiveConnected,
		LiveMessagesTotal,
		JournalWritesTotal,
	)
}
