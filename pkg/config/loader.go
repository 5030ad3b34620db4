package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, YOUWOL_CONFIG env, ./youwol.yaml, ~/.config/youwol/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. YOUWOL_CONFIG environment variable
// 3. ./youwol.yaml in the current directory
// 4. $HOME/.config/youwol/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("YOUWOL_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{"youwol.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "youwol", "config.yaml"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps YOUWOL_* environment variables to config fields.
// Malformed numeric or JSON values are reported rather than ignored.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("YOUWOL_HOST"); v != "" {
		cfg.Client.Host = v
	}
	if v := os.Getenv("YOUWOL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("YOUWOL_TIMEOUT: %w", err)
		}
		cfg.Client.Timeout = d
	}
	// YOUWOL_HEADERS: JSON object merged over the configured headers.
	if v := os.Getenv("YOUWOL_HEADERS"); v != "" {
		var headers map[string]string
		if err := json.Unmarshal([]byte(v), &headers); err != nil {
			return fmt.Errorf("YOUWOL_HEADERS: %w", err)
		}
		if cfg.Client.Headers == nil {
			cfg.Client.Headers = make(map[string]string, len(headers))
		}
		for k, h := range headers {
			cfg.Client.Headers[k] = h
		}
	}
	if v := os.Getenv("YOUWOL_TOKEN"); v != "" {
		cfg.Auth.Token = v
	}
	if v := os.Getenv("YOUWOL_LIVE_URL"); v != "" {
		cfg.Live.URL = v
	}
	if v := os.Getenv("YOUWOL_JOURNAL"); v != "" {
		cfg.Journal.Type = v
	}
	if v := os.Getenv("YOUWOL_JOURNAL_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("YOUWOL_JOURNAL_SIZE: %w", err)
		}
		cfg.Journal.MaxSize = size
	}
	if v := os.Getenv("YOUWOL_JOURNAL_DSN"); v != "" {
		cfg.Journal.Postgres.DSN = v
	}
	if v := os.Getenv("YOUWOL_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("YOUWOL_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	return nil
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// For each field ending in _file, if the value field is empty and the file field is set,
// the file is read, whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// auth.token_file -> auth.token
	if cfg.Auth.TokenFile != "" && cfg.Auth.Token == "" {
		val, err := readSecretFile(cfg.Auth.TokenFile)
		if err != nil {
			return fmt.Errorf("auth.token_file: %w", err)
		}
		cfg.Auth.Token = val
	}

	// journal.postgres.dsn_file -> journal.postgres.dsn
	if cfg.Journal.Postgres.DSNFile != "" && cfg.Journal.Postgres.DSN == "" {
		val, err := readSecretFile(cfg.Journal.Postgres.DSNFile)
		if err != nil {
			return fmt.Errorf("journal.postgres.dsn_file: %w", err)
		}
		cfg.Journal.Postgres.DSN = val
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
