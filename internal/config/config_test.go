// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 8266 {
		t.Errorf("Server.Port = %d, want 8266", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Timeout != 120*time.Second {
		t.Errorf("Server.Timeout = %v, want 120s", cfg.Server.Timeout)
	}
	if cfg.Database.MaxMemory != "512MB" {
		t.Errorf("Database.MaxMemory = %q, want 512MB", cfg.Database.MaxMemory)
	}
	if cfg.Ingest.MaxArchiveBytes != 512<<20 {
		t.Errorf("Ingest.MaxArchiveBytes = %d, want 512MiB", cfg.Ingest.MaxArchiveBytes)
	}
	if cfg.Ingest.DefaultMinSeconds != 20 {
		t.Errorf("Ingest.DefaultMinSeconds = %d, want 20", cfg.Ingest.DefaultMinSeconds)
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Errorf("Session.TTL = %v, want 2h", cfg.Session.TTL)
	}
	if cfg.Session.MaxSessions != 16 {
		t.Errorf("Session.MaxSessions = %d, want 16", cfg.Session.MaxSessions)
	}
	if cfg.API.DefaultLimit != 10 || cfg.API.MaxLimit != 100 {
		t.Errorf("API limits = %d/%d, want 10/100", cfg.API.DefaultLimit, cfg.API.MaxLimit)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %s/%s, want info/json", cfg.Logging.Level, cfg.Logging.Format)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v, want nil", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REPLAYED_SERVER_PORT", "9000")
	t.Setenv("REPLAYED_SESSION_TTL", "30m")
	t.Setenv("REPLAYED_INGEST_DEFAULT_MIN_SECONDS", "30")
	t.Setenv("REPLAYED_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("Session.TTL = %v, want 30m", cfg.Session.TTL)
	}
	if cfg.Ingest.DefaultMinSeconds != 30 {
		t.Errorf("Ingest.DefaultMinSeconds = %d, want 30", cfg.Ingest.DefaultMinSeconds)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("REPLAYED_API_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.API.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.API.CORSOrigins, want)
	}
	for i := range want {
		if cfg.API.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.API.CORSOrigins[i], want[i])
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 8500\nsession:\n  max_sessions: 3\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8500 {
		t.Errorf("Server.Port = %d, want 8500 from file", cfg.Server.Port)
	}
	if cfg.Session.MaxSessions != 3 {
		t.Errorf("Session.MaxSessions = %d, want 3 from file", cfg.Session.MaxSessions)
	}
	// Untouched keys keep their defaults.
	if cfg.API.DefaultLimit != 10 {
		t.Errorf("API.DefaultLimit = %d, want default 10", cfg.API.DefaultLimit)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8500\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("REPLAYED_SERVER_PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100 (env beats file)", cfg.Server.Port)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"bad environment", func(c *Config) { c.Server.Environment = "staging" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"default limit over max", func(c *Config) { c.API.DefaultLimit = 500 }},
		{"zero sessions", func(c *Config) { c.Session.MaxSessions = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"REPLAYED_SERVER_PORT", "server.port"},
		{"REPLAYED_INGEST_MAX_ARCHIVE_BYTES", "ingest.max_archive_bytes"},
		{"REPLAYED_API_RATE_LIMIT_REQUESTS", "api.rate_limit_requests"},
		{"REPLAYED_UNRELATED_THING", ""},
	}
	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestServerConfigHelpers(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 8266, Environment: "production"}
	if c.Addr() != "127.0.0.1:8266" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8266", c.Addr())
	}
	if !c.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
}
