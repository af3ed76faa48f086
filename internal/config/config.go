// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

// Package config defines the Replayed configuration model and its koanf-based
// loader. Configuration is layered: built-in defaults, then an optional YAML
// file, then environment variables (highest priority).
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the Replayed server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Ingest   IngestConfig   `koanf:"ingest"`
	Session  SessionConfig  `koanf:"session"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host" validate:"required"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`

	// Timeout applies to reads and writes of a single request. Uploads of
	// large archives must complete within it.
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`

	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=1s"`

	Environment string `koanf:"environment" validate:"oneof=development production"`
}

// DatabaseConfig tunes the per-session in-memory DuckDB instances.
type DatabaseConfig struct {
	// MaxMemory is the DuckDB memory limit per session, e.g. "512MB".
	MaxMemory string `koanf:"max_memory" validate:"required"`

	// Threads is the DuckDB thread count; 0 means runtime.NumCPU().
	Threads int `koanf:"threads" validate:"min=0"`
}

// IngestConfig bounds the upload pipeline.
type IngestConfig struct {
	// MaxArchiveBytes caps the size of an uploaded ZIP archive.
	MaxArchiveBytes int64 `koanf:"max_archive_bytes" validate:"min=1"`

	// MaxFileBytes caps a single decompressed JSON file inside the archive.
	// Guards against zip bombs.
	MaxFileBytes int64 `koanf:"max_file_bytes" validate:"min=1"`

	// DefaultMinSeconds is the default playback threshold: plays shorter
	// than this are excluded from aggregates unless the client overrides it.
	DefaultMinSeconds int `koanf:"default_min_seconds" validate:"min=0"`
}

// SessionConfig controls dashboard session lifetime.
type SessionConfig struct {
	// TTL is how long a session survives after its last access.
	TTL time.Duration `koanf:"ttl" validate:"min=1m"`

	// MaxSessions caps concurrently live sessions. Uploads beyond the cap
	// are rejected until a session expires or is deleted.
	MaxSessions int `koanf:"max_sessions" validate:"min=1"`

	// JanitorInterval is how often expired sessions are reaped.
	JanitorInterval time.Duration `koanf:"janitor_interval" validate:"min=1s"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	DefaultLimit int `koanf:"default_limit" validate:"min=1"`
	MaxLimit     int `koanf:"max_limit" validate:"min=1"`

	RateLimitReqs   int           `koanf:"rate_limit_requests" validate:"min=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"min=1s"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.API.DefaultLimit > c.API.MaxLimit {
		return fmt.Errorf("invalid configuration: api.default_limit (%d) exceeds api.max_limit (%d)",
			c.API.DefaultLimit, c.API.MaxLimit)
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction reports whether the server runs in production mode.
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}
