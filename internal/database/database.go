// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

// Package database provides the per-session analytical store. Each upload
// session owns one in-memory DuckDB instance holding its cleaned listening
// events; closing the session closes the database and frees everything.
// All aggregations are plain SQL GROUP BY queries over the plays table.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/replayed/replayed/internal/config"
	"github.com/replayed/replayed/internal/metrics"
	"github.com/replayed/replayed/internal/models"
)

// DB wraps one in-memory DuckDB holding a single session's listening events.
type DB struct {
	conn *sql.DB
}

// New opens an in-memory DuckDB and creates the plays schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	// Disable extension autoloading: nothing here needs extensions and
	// autoload can hang in network-restricted environments.
	dsn := fmt.Sprintf(":memory:?threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		threads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A session serves a handful of parallel chart fetches at most.
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)

	db := &DB{conn: conn}
	if err := db.createSchema(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the in-memory database and all session data with it.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

func (db *DB) createSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// skipped/shuffle/incognito are NULL for legacy exports, which carry
	// no flags; the skips queries filter on skipped IS NOT NULL.
	const schema = `CREATE TABLE IF NOT EXISTS plays (
		played_at    TIMESTAMP NOT NULL,
		track_name   TEXT NOT NULL,
		artist_name  TEXT NOT NULL,
		album_name   TEXT,
		ms_played    BIGINT NOT NULL,
		platform     TEXT,
		country      TEXT,
		skipped      BOOLEAN,
		shuffle      BOOLEAN,
		incognito    BOOLEAN,
		reason_start TEXT,
		reason_end   TEXT
	)`

	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertEvents loads cleaned listening events into the plays table in one
// transaction with a prepared statement.
func (db *DB) InsertEvents(ctx context.Context, events []models.ListeningEvent) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO plays (
		played_at, track_name, artist_name, album_name, ms_played,
		platform, country, skipped, shuffle, incognito, reason_start, reason_end
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range events {
		e := &events[i]
		var skipped, shuffle, incognito sql.NullBool
		if e.HasFlags {
			skipped = sql.NullBool{Bool: e.Skipped, Valid: true}
			shuffle = sql.NullBool{Bool: e.Shuffle, Valid: true}
			incognito = sql.NullBool{Bool: e.Incognito, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			e.PlayedAt, e.TrackName, e.ArtistName, nullString(e.AlbumName), e.MsPlayed,
			nullString(e.Platform), nullString(e.Country),
			skipped, shuffle, incognito,
			nullString(e.ReasonStart), nullString(e.ReasonEnd),
		); err != nil {
			return fmt.Errorf("insert event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert transaction: %w", err)
	}
	return nil
}

// EventCount returns the number of rows in the plays table.
func (db *DB) EventCount(ctx context.Context) (int64, error) {
	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM plays`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count plays: %w", err)
	}
	return n, nil
}

// timedQuery runs a query and records its duration and errors under the
// given metric label.
func (db *DB) timedQuery(ctx context.Context, name, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.QueryDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.QueryErrors.WithLabelValues(name).Inc()
	}
	return rows, err
}

// timedQueryRow is the QueryRow counterpart of timedQuery.
func (db *DB) timedQueryRow(ctx context.Context, name, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx, query, args...)
	metrics.QueryDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return row
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
