// Package config provides unified configuration for the youwol clients.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (YOUWOL_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the youwol clients and the CLI.
type Config struct {
	Client  ClientConfig  `yaml:"client"`
	Auth    AuthConfig    `yaml:"auth"`
	Live    LiveConfig    `yaml:"live"`
	Journal JournalConfig `yaml:"journal"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ClientConfig holds the settings shared by every service client.
type ClientConfig struct {
	Host    string            `yaml:"host"`    // scheme + host, default: "http://localhost:2000"
	Headers map[string]string `yaml:"headers"` // default headers of every request
	Timeout time.Duration     `yaml:"timeout"` // default: 0 (none)
}

// AuthConfig holds the bearer token sent to the backends.
type AuthConfig struct {
	Token     string `yaml:"token"`
	TokenFile string `yaml:"token_file"` // _file variant for token
}

// LiveConfig holds the live connection settings.
type LiveConfig struct {
	URL            string        `yaml:"url"`             // default: derived from client.host
	ReconnectDelay time.Duration `yaml:"reconnect_delay"` // default: 1s
}

// JournalConfig holds request event journal settings.
type JournalConfig struct {
	Type     string         `yaml:"type"`     // "none", "memory" or "postgres", default: "memory"
	MaxSize  int            `yaml:"max_size"` // for memory journal, default: 10000
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 5
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: true
}

// LogConfig holds logging settings. YOUWOL_DEBUG and YOUWOL_LOG_LEVEL are
// read by package debug and take precedence.
type LogConfig struct {
	Level     string `yaml:"level"` // default: "INFO"
	Debug     string `yaml:"debug"` // comma-separated debug categories
	File      string `yaml:"file"`  // optional rotating log file
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the endpoint
	Path string `yaml:"path"` // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Client: ClientConfig{
			Host: "http://localhost:2000",
		},
		Live: LiveConfig{
			ReconnectDelay: time.Second,
		},
		Journal: JournalConfig{
			Type:    "memory",
			MaxSize: 10000,
			Postgres: PostgresConfig{
				MaxConns:       5,
				MigrateOnStart: true,
			},
		},
		Log: LogConfig{
			Level:     "INFO",
			MaxSizeMB: 10,
		},
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
	}
}
