// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Server  ServerConfig
	Auth    AuthConfig
	Storage StorageConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string      // Allowed CORS origins (default: *)
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// Session durations
	AccessTokenDuration  time.Duration // e.g., 15m
	RefreshTokenDuration time.Duration // e.g., 720h (30 days)
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	// DataPath is the directory holding the Badger database and the auth key.
	DataPath string
}

// Defaults.
const (
	defaultEnvironment     = "development"
	defaultLogLevel        = "info"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultAccessDuration  = 15 * time.Minute
	defaultRefreshDuration = 720 * time.Hour
	defaultDataPath        = "./data"
)

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file in the working directory.
// 4. Built-in defaults.
func LoadConfig() (*Config, error) {
	// Load .env first so the environment lookups below can see it.
	// A missing .env file is not an error.
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: envOr("READCIRCLE_ENV", defaultEnvironment),
		},
		Logger: LoggerConfig{
			Level: envOr("READCIRCLE_LOG_LEVEL", defaultLogLevel),
		},
		Server: ServerConfig{
			Port:         envOr("READCIRCLE_PORT", defaultPort),
			ReadTimeout:  envDurationOr("READCIRCLE_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: envDurationOr("READCIRCLE_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  envDurationOr("READCIRCLE_IDLE_TIMEOUT", defaultIdleTimeout),
			CORSOrigins:  envListOr("READCIRCLE_CORS_ORIGINS", []string{"*"}),
		},
		Auth: AuthConfig{
			AccessTokenDuration:  envDurationOr("READCIRCLE_ACCESS_TOKEN_DURATION", defaultAccessDuration),
			RefreshTokenDuration: envDurationOr("READCIRCLE_REFRESH_TOKEN_DURATION", defaultRefreshDuration),
		},
		Storage: StorageConfig{
			DataPath: envOr("READCIRCLE_DATA_PATH", defaultDataPath),
		},
	}

	// Flags override everything. Only parse when running the real binary,
	// never under `go test` (the test runner owns its own flags).
	if !isTestRun() && !flag.Parsed() {
		flag.StringVar(&cfg.App.Environment, "env", cfg.App.Environment, "environment (development|production)")
		flag.StringVar(&cfg.Logger.Level, "log-level", cfg.Logger.Level, "log level (debug|info|warn|error)")
		flag.StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "HTTP server port")
		flag.StringVar(&cfg.Storage.DataPath, "data", cfg.Storage.DataPath, "data directory")
		flag.Parse()
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate performs basic sanity checks on the loaded configuration.
func (c *Config) validate() error {
	if c.App.Environment != "development" && c.App.Environment != "production" {
		return fmt.Errorf("invalid environment %q: must be development or production", c.App.Environment)
	}
	if c.Server.Port == "" {
		return errors.New("server port cannot be empty")
	}
	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty")
	}
	if c.Auth.AccessTokenDuration <= 0 || c.Auth.RefreshTokenDuration <= 0 {
		return errors.New("token durations must be positive")
	}
	return nil
}

// loadDotEnv reads KEY=VALUE pairs from a file into the process environment.
// Existing environment variables are not overwritten.
func loadDotEnv(path string) error {
	f, err := os.Open(path) //#nosec G304 -- fixed relative path
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}

	return scanner.Err()
}

// envOr returns the environment variable value or a default.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDurationOr returns the environment variable parsed as a duration, or a default.
func envDurationOr(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// envListOr returns a comma-separated environment variable as a slice, or a default.
func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// isTestRun reports whether the process is a `go test` binary.
func isTestRun() bool {
	return strings.HasSuffix(os.Args[0], ".test") || flag.Lookup("test.v") != nil
}
