// Package config handles configuration for the server component: defaults,
// an optional JSON file, environment variables (optionally seeded from a
// .env file) and command-line flags, applied in that order.
package config

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the credkeeper server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP/JSON API.
//   - EndpointAddrGRPC: bind address for the gRPC health endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Required.
//   - SecretKey: HMAC secret for signing access tokens (HS256). Required.
//   - AccessTokenValidityDuration: lifetime of issued access tokens.
//   - BcryptCost: work factor used when hashing new passwords.
//   - RequestTimeout: upper bound for repository and hashing work per request.
//   - CORSAllowedOrigins: origins allowed by the CORS middleware.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP            string
	EndpointAddrGRPC            string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	BcryptCost                  int
	RequestTimeout              time.Duration
	CORSAllowedOrigins          []string
	LogLevel                    string
}

// LoadDefaults populates Config with defaults for everything except the
// database DSN and the secret key, which have no safe default.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3000"
	c.EndpointAddrGRPC = ":50051"
	c.AccessTokenValidityDuration = time.Hour
	c.BcryptCost = bcrypt.DefaultCost
	c.RequestTimeout = 5 * time.Second
	c.CORSAllowedOrigins = []string{"http://localhost:3000"}
	c.LogLevel = "info"
}

// Validate reports every setting that would make the server unsafe or
// unable to start.
func (c *Config) Validate() error {
	var errs []error

	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required (JWT_SECRET or -s)"))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is required (DATABASE_URL or -d)"))
	}
	if c.EndpointAddrHTTP == "" {
		errs = append(errs, errors.New("http address is required"))
	}
	if c.AccessTokenValidityDuration <= 0 {
		errs = append(errs, fmt.Errorf("access token validity must be positive, got %s", c.AccessTokenValidityDuration))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("bcrypt cost must be within [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}

	return errors.Join(errs...)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line
// flags. The result is validated before it is returned.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
