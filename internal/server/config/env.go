package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/credkeeper/internal/flagx"
)

// Environment variable names.
const (
	EnvPort               = "PORT"
	EnvDatabaseURL        = "DATABASE_URL"
	EnvJWTSecret          = "JWT_SECRET"
	EnvAccessTokenTTL     = "ACCESS_TOKEN_TTL"
	EnvBcryptCost         = "BCRYPT_COST"
	EnvRequestTimeout     = "REQUEST_TIMEOUT"
	EnvGRPCHealthAddr     = "GRPC_HEALTH_ADDR"
	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"
	EnvLogLevel           = "LOG_LEVEL"
)

const defaultEnvFile = ".env"

// loadEnvFile seeds the process environment from the file named by
// -env/-env-file, or from ./.env when present. Variables already set in the
// environment are not overridden.
func loadEnvFile() error {
	path := flagx.EnvFileFlags()
	if path != "" {
		return godotenv.Load(path)
	}

	err := godotenv.Load(defaultEnvFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// parseEnv overlays config with values from the environment.
func parseEnv(config *Config) error {
	if err := loadEnvFile(); err != nil {
		return fmt.Errorf("env file: %w", err)
	}

	if v := os.Getenv(EnvPort); v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv(EnvGRPCHealthAddr); v != "" {
		config.EndpointAddrGRPC = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv(EnvCORSAllowedOrigins); v != "" {
		config.CORSAllowedOrigins = splitCSV(v)
	}

	var err error
	if config.AccessTokenValidityDuration, err = durationFromEnv(EnvAccessTokenTTL, config.AccessTokenValidityDuration); err != nil {
		return err
	}
	if config.RequestTimeout, err = durationFromEnv(EnvRequestTimeout, config.RequestTimeout); err != nil {
		return err
	}
	if v := os.Getenv(EnvBcryptCost); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBcryptCost, err)
		}
		config.BcryptCost = cost
	}
	return nil
}

func durationFromEnv(name string, current time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return current, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// splitCSV splits a comma-separated list, trimming blanks and dropping
// empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
