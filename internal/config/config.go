package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitsuggest/internal/search"
	"gitsuggest/internal/version"
)

// EnvPrefix prefixes every environment override, e.g. GITSUGGEST_SEARCH__MIN_LENGTH
const EnvPrefix = "GITSUGGEST_"

// EnvConfigPath names the variable that points at a config file
const EnvConfigPath = EnvPrefix + "CONFIG"

// Config represents the application configuration
type Config struct {
	API     APIConfig     `koanf:"api"`
	Search  SearchConfig  `koanf:"search"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// APIConfig describes the two search endpoints
type APIConfig struct {
	PersonEndpoint     string        `koanf:"person_endpoint"`
	RepositoryEndpoint string        `koanf:"repository_endpoint"`
	Timeout            time.Duration `koanf:"timeout"`
	UserAgent          string        `koanf:"user_agent"`
}

// SearchConfig tunes the widget behaviour
type SearchConfig struct {
	MinLength  int           `koanf:"min_length"`  // characters needed to trigger a fetch
	MaxRecords int           `koanf:"max_records"` // cap of the merged list, at most search.MaxRecords
	ClearDelay time.Duration `koanf:"clear_delay"` // blur -> clear delay
}

// LogConfig controls the log file
type LogConfig struct {
	File  string `koanf:"file"`
	Level string `koanf:"level"`
}

// MetricsConfig controls the Prometheus collectors and endpoint.
// Empty Addr disables the endpoint; empty Buckets keeps the defaults.
type MetricsConfig struct {
	Addr      string    `koanf:"addr"`
	Namespace string    `koanf:"namespace"`
	Subsystem string    `koanf:"subsystem"`
	Buckets   []float64 `koanf:"buckets"` // latency histogram buckets, seconds
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			PersonEndpoint:     "https://api.github.com/search/users",
			RepositoryEndpoint: "https://api.github.com/search/repositories",
			Timeout:            15 * time.Second,
			UserAgent:          version.UserAgent(),
		},
		Search: SearchConfig{
			MinLength:  3,
			MaxRecords: 50,
			ClearDelay: 100 * time.Millisecond,
		},
		Log: LogConfig{
			File:  "gitsuggest.log",
			Level: "info",
		},
		Metrics: MetricsConfig{
			Namespace: "gitsuggest",
			Subsystem: "search",
		},
	}
}

// DefaultPath returns <user config dir>/gitsuggest/config.toml
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "gitsuggest", "config.toml")
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if err := validateEndpoint("api.person_endpoint", c.API.PersonEndpoint); err != nil {
		return err
	}
	if err := validateEndpoint("api.repository_endpoint", c.API.RepositoryEndpoint); err != nil {
		return err
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Search.MinLength < 1 {
		return fmt.Errorf("search.min_length must be at least 1, got %d", c.Search.MinLength)
	}
	if c.Search.MaxRecords < 1 || c.Search.MaxRecords > search.MaxRecords {
		return fmt.Errorf("search.max_records must be between 1 and %d, got %d", search.MaxRecords, c.Search.MaxRecords)
	}
	if c.Search.ClearDelay < 0 {
		return fmt.Errorf("search.clear_delay must not be negative, got %s", c.Search.ClearDelay)
	}
	if c.Metrics.Namespace == "" {
		return fmt.Errorf("metrics.namespace must not be empty")
	}
	for i := 1; i < len(c.Metrics.Buckets); i++ {
		if c.Metrics.Buckets[i] <= c.Metrics.Buckets[i-1] {
			return fmt.Errorf("metrics.buckets must be strictly increasing, got %v", c.Metrics.Buckets)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

func validateEndpoint(key, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%s must not be empty", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}

// toMap flattens the config into the nested map written to files.
// Durations are written in their string form so they read back through
// the same path as hand-written files.
func (c *Config) toMap() map[string]interface{} {
	metrics := map[string]interface{}{
		"addr":      c.Metrics.Addr,
		"namespace": c.Metrics.Namespace,
		"subsystem": c.Metrics.Subsystem,
	}
	if len(c.Metrics.Buckets) > 0 {
		metrics["buckets"] = c.Metrics.Buckets
	}

	return map[string]interface{}{
		"api": map[string]interface{}{
			"person_endpoint":     c.API.PersonEndpoint,
			"repository_endpoint": c.API.RepositoryEndpoint,
			"timeout":             c.API.Timeout.String(),
			"user_agent":          c.API.UserAgent,
		},
		"search": map[string]interface{}{
			"min_length":  c.Search.MinLength,
			"max_records": c.Search.MaxRecords,
			"clear_delay": c.Search.ClearDelay.String(),
		},
		"log": map[string]interface{}{
			"file":  c.Log.File,
			"level": c.Log.Level,
		},
		"metrics": metrics,
	}
}

// String renders the config as TOML
func (c *Config) String() string {
	data, err := TOMLParser().Marshal(c.toMap())
	if err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return string(data)
}

// SaveToPath saves configuration to a specific path as TOML
func SaveToPath(config *Config, path string) error {
	// Ensure config directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := TOMLParser().Marshal(config.toMap())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
