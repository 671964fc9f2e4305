// Package config provides environment-driven configuration for the career counselor services.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers understood by the store dialer.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DefaultDatabase is the document database used when MONGODB_DATABASE is unset.
const DefaultDatabase = "career_counselor"

// Config represents the runtime configuration read from the environment.
// Every field is optional; a missing value disables only the capability that needs it.
type Config struct {
	Store    Store
	Identity Identity
	Gemini   Gemini

	LogMode string `env:"LOG_MODE" envDefault:"development"`
}

// Store holds document store settings.
type Store struct {
	Driver           string        `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURI         string        `env:"MONGODB_CONNECTION_STRING"`
	Database         string        `env:"MONGODB_DATABASE" envDefault:"career_counselor"`
	PostgresURL      string        `env:"DATABASE_URL"`
	ConnectTimeout   time.Duration `env:"STORE_CONNECT_TIMEOUT" envDefault:"10s"`
	OperationTimeout time.Duration `env:"STORE_OPERATION_TIMEOUT" envDefault:"5s"`
}

// Identity holds identity provider settings.
type Identity struct {
	URL       string `env:"SUPABASE_URL"`
	AnonKey   string `env:"SUPABASE_ANON_KEY"`
	JWTSecret string `env:"SUPABASE_JWT_SECRET"`
}

// Gemini holds generative service settings.
type Gemini struct {
	APIKey string `env:"GEMINI_API_KEY"`
	Model  string `env:"GEMINI_MODEL"`
}

// Source yields the configuration in effect for a single request.
type Source func() (*Config, error)

// Load parses the configuration from the process environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv returns a Source that re-reads the environment on every call.
func FromEnv() Source {
	return Load
}

// Static returns a Source that always yields cfg.
func Static(cfg *Config) Source {
	return func() (*Config, error) {
		return cfg, nil
	}
}

// Validate checks that the configuration has usable values.
// Absent connection settings are not errors here; callers decide how to degrade.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("config error: unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Store.ConnectTimeout <= 0 {
		return fmt.Errorf("config error: STORE_CONNECT_TIMEOUT must be positive")
	}
	if c.Store.OperationTimeout <= 0 {
		return fmt.Errorf("config error: STORE_OPERATION_TIMEOUT must be positive")
	}
	return nil
}

// ConnectionString returns the connection string for the selected driver.
func (s Store) ConnectionString() string {
	switch s.Driver {
	case DriverPostgres:
		return s.PostgresURL
	case DriverMemory:
		return "memory://"
	default:
		return s.MongoURI
	}
}

// Configured reports whether the store can be dialed at all.
func (s Store) Configured() bool {
	return s.ConnectionString() != ""
}

// DatabaseName returns the document database name, falling back to DefaultDatabase.
func (s Store) DatabaseName() string {
	if s.Database == "" {
		return DefaultDatabase
	}
	return s.Database
}

// UsesLocalJWT reports whether access tokens are verified locally instead of
// through the identity provider's user endpoint.
func (i Identity) UsesLocalJWT() bool {
	return i.JWTSecret != ""
}
