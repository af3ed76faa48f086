// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

// Package main is the entry point for the Replayed server.
//
// Replayed is a self-hosted dashboard for personal streaming history exports.
// Users upload the ZIP archive a streaming service provides on data request;
// the server parses and cleans the listening events, loads them into an
// in-memory DuckDB session and serves aggregated statistics (top artists,
// tracks, albums, temporal patterns, skip behavior) to the embedded web UI.
// Nothing is written to disk: each session lives in memory and is discarded
// on expiry, on explicit delete or at shutdown.
//
// # Startup order
//
//  1. Configuration: koanf v2 layering defaults, config.yaml and
//     REPLAYED_* environment variables
//  2. Logging: zerolog, JSON or console format
//  3. Session registry and ingest pipeline
//  4. Supervisor tree: HTTP server and session janitor under suture
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: in-flight requests get the
// configured shutdown timeout, then all live sessions are closed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/replayed/replayed/internal/api"
	"github.com/replayed/replayed/internal/config"
	"github.com/replayed/replayed/internal/ingest"
	"github.com/replayed/replayed/internal/logging"
	"github.com/replayed/replayed/internal/session"
	"github.com/replayed/replayed/internal/supervisor"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// Optional .env file for local development, ignored when absent.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("addr", cfg.Server.Addr()).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Replayed")

	registry := session.NewRegistry(&cfg.Session)
	defer registry.Close()

	ingestor := ingest.NewIngestor(&cfg.Ingest)
	handler := api.NewHandler(cfg, registry, ingestor)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.NewRouter(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), cfg.Server.ShutdownTimeout)
	tree.Add(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.Add(supervisor.NewJanitorService(registry, cfg.Session.JanitorInterval))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	logging.Info().Msg("Replayed stopped gracefully")
}
