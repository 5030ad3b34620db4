package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// client.host must be an absolute http(s) URL.
	if u, err := url.Parse(c.Client.Host); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("client.host must be an http(s) URL, got %q", c.Client.Host))
	}

	if c.Client.Timeout < 0 {
		errs = append(errs, fmt.Errorf("client.timeout must be >= 0, got %s", c.Client.Timeout))
	}

	if c.Live.URL != "" {
		if u, err := url.Parse(c.Live.URL); err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			errs = append(errs, fmt.Errorf("live.url must be a ws(s) URL, got %q", c.Live.URL))
		}
	}
	if c.Live.ReconnectDelay <= 0 {
		errs = append(errs, fmt.Errorf("live.reconnect_delay must be > 0, got %s", c.Live.ReconnectDelay))
	}

	switch c.Journal.Type {
	case "none", "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("journal.type must be \"none\", \"memory\" or \"postgres\", got %q", c.Journal.Type))
	}
	if c.Journal.Type == "memory" && c.Journal.MaxSize <= 0 {
		errs = append(errs, fmt.Errorf("journal.max_size must be > 0, got %d", c.Journal.MaxSize))
	}
	if c.Journal.Type == "postgres" && c.Journal.Postgres.DSN == "" && c.Journal.Postgres.DSNFile == "" {
		errs = append(errs, fmt.Errorf("journal.postgres.dsn or journal.postgres.dsn_file is required when journal.type is \"postgres\""))
	}

	if c.Metrics.Addr != "" && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with \"/\", got %q", c.Metrics.Path))
	}

	return errors.Join(errs...)
}
