package observability

import (
	"net/http"
	"strconv"
)

// InstrumentRoundTripper wraps an http.RoundTripper to record round-trip
// metrics.
//
// It captures:
//   - youwol_client_roundtrips_total (counter): method and status class ("2xx", "4xx", ..., or "error")
//   - youwol_client_inflight_requests (gauge): incremented while a round trip is in flight
//
// A nil next uses http.DefaultTransport.
func InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		InFlightRequests.Inc()
		defer InFlightRequests.Dec()

		resp, err := next.RoundTrip(r)
		if err != nil {
			RoundTripsTotal.WithLabelValues(r.Method, "error").Inc()
			return nil, err
		}
		RoundTripsTotal.WithLabelValues(r.Method, StatusClass(resp.StatusCode)).Inc()
		return resp, nil
	})
}

// StatusClass returns a status class label like "2xx", "4xx", "5xx".
func StatusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
