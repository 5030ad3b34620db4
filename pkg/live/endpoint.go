package live

import (
	"fmt"
	"net/url"
)

// Path is the path of the live endpoint on a youwol host.
const Path = "/ws"

// EndpointFor returns the live endpoint of an http(s) host: the same host
// under ws or wss, at Path.
func EndpointFor(host string) (string, error) {
	u, err := url.Parse(host)
	if err != nil {
		return "", fmt.Errorf("parsing host %q: %w", host, err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("host %q: scheme must be http or https", host)
	}
	u.Path = Path
	u.RawQuery = ""
	return u.String(), nil
}
