// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

// Package session tracks live dashboard sessions. A session is created per
// uploaded archive and owns the in-memory DuckDB built from it. Sessions
// expire after a TTL measured from their last access; a janitor goroutine
// reaps expired ones and closes their databases.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/replayed/replayed/internal/config"
	"github.com/replayed/replayed/internal/database"
	"github.com/replayed/replayed/internal/ingest"
	"github.com/replayed/replayed/internal/logging"
	"github.com/replayed/replayed/internal/metrics"
)

// ErrTooManySessions indicates the registry is at capacity.
var ErrTooManySessions = errors.New("maximum number of live sessions reached")

// Session is one live dashboard backed by an in-memory database.
type Session struct {
	ID        uuid.UUID
	DB        *database.DB
	Summary   *ingest.Summary
	CreatedAt time.Time

	lastAccess time.Time
}

// Registry is the thread-safe set of live sessions.
type Registry struct {
	cfg *config.SessionConfig

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry(cfg *config.SessionConfig) *Registry {
	return &Registry{
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create registers a new session owning the given database.
// The caller must not close db after a successful Create; the registry owns
// it from here on.
func (r *Registry) Create(db *database.DB, summary *ingest.Summary) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.sessions) >= r.cfg.MaxSessions {
		return nil, ErrTooManySessions
	}

	now := time.Now()
	s := &Session{
		ID:         uuid.New(),
		DB:         db,
		Summary:    summary,
		CreatedAt:  now,
		lastAccess: now,
	}
	r.sessions[s.ID] = s

	metrics.SessionsCreated.Inc()
	metrics.SessionsActive.Set(float64(len(r.sessions)))
	logging.Info().Str("session_id", s.ID.String()).Int64("events", summary.Imported).Msg("Session created")
	return s, nil
}

// Get returns the session and refreshes its last-access time.
func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastAccess = time.Now()
	return s, true
}

// Delete removes a session and closes its database.
func (r *Registry) Delete(id uuid.UUID) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	metrics.SessionsActive.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	if !ok {
		return false
	}
	if err := s.DB.Close(); err != nil {
		logging.Warn().Err(err).Str("session_id", id.String()).Msg("Error closing session database")
	}
	logging.Info().Str("session_id", id.String()).Msg("Session deleted")
	return true
}

// ReapExpired removes sessions idle longer than the TTL and returns how
// many were reaped.
func (r *Registry) ReapExpired() int {
	cutoff := time.Now().Add(-r.cfg.TTL)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.lastAccess.Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	metrics.SessionsActive.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	for _, s := range expired {
		if err := s.DB.Close(); err != nil {
			logging.Warn().Err(err).Str("session_id", s.ID.String()).Msg("Error closing expired session database")
		}
		metrics.SessionsExpired.Inc()
		logging.Info().Str("session_id", s.ID.String()).Dur("ttl", r.cfg.TTL).Msg("Session expired")
	}
	return len(expired)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close tears down every session. Called on shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[uuid.UUID]*Session)
	metrics.SessionsActive.Set(0)
	r.mu.Unlock()

	for _, s := range sessions {
		if err := s.DB.Close(); err != nil {
			logging.Warn().Err(err).Str("session_id", s.ID.String()).Msg("Error closing session database")
		}
	}
}
