package config

import (
	"fmt"
	"os"
	"time"
)

// EnvServerURL overrides the server address.
const EnvServerURL = "CREDKEEPER_SERVER_URL"

// Config holds runtime settings for the credkeeper CLI.
//
// Fields:
//   - ServerURL: base URL of the credkeeper HTTP API.
//   - RequestTimeout: upper bound for a single API call.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3000"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the JSON file at jsonPath (skipped when empty) and the environment. Command
// flags are applied by the caller on top of the result.
func LoadConfig(jsonPath string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, jsonPath); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if v := os.Getenv(EnvServerURL); v != "" {
		cfg.ServerURL = v
	}
	return cfg, nil
}
