package config

import (
	"maps"

	"github.com/youwol/httpclients/pkg/live"
	"github.com/youwol/httpclients/pkg/transport"
)

// TransportDefaults converts the client section into the defaults root
// routers are built with. A token becomes a bearer Authorization header
// unless the configured headers already carry one.
func (c *Config) TransportDefaults() transport.Defaults {
	headers := maps.Clone(c.Client.Headers)
	if c.Auth.Token != "" {
		if headers == nil {
			headers = make(map[string]string, 1)
		}
		if _, ok := headers["Authorization"]; !ok {
			headers["Authorization"] = "Bearer " + c.Auth.Token
		}
	}
	return transport.Defaults{Headers: headers, HostName: c.Client.Host}
}

// LiveURL returns live.url, or the live endpoint of client.host.
func (c *Config) LiveURL() string {
	if c.Live.URL != "" {
		return c.Live.URL
	}
	u, err := live.EndpointFor(c.Client.Host)
	if err != nil {
		return ""
	}
	return u
}
