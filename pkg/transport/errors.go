package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrMalformedBody reports a response body that is not valid JSON for the
// expected type. It is a transport failure, never an *api.HTTPError.
var ErrMalformedBody = errors.New("malformed response body")

// networkError wraps a failure of the underlying http.Client with the method
// and URL of the request. Context errors stay matchable with errors.Is; a
// context deadline implements net.Error too but is not reported as a
// connection timeout.
func networkError(method, url string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: timed out: %w", method, url, err)
	}
	return fmt.Errorf("%s %s: %w", method, url, err)
}

func malformed(method, url string, err error) error {
	return fmt.Errorf("%s %s: %w: %v", method, url, ErrMalformedBody, err)
}
