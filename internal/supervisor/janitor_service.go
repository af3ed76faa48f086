// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

package supervisor

import (
	"context"
	"time"

	"github.com/replayed/replayed/internal/logging"
)

// SessionReaper is the part of the session registry the janitor needs.
type SessionReaper interface {
	ReapExpired() int
}

// JanitorService periodically reaps expired sessions, freeing their
// in-memory databases.
type JanitorService struct {
	reaper   SessionReaper
	interval time.Duration
}

// NewJanitorService creates a janitor running at the given interval.
func NewJanitorService(reaper SessionReaper, interval time.Duration) *JanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &JanitorService{reaper: reaper, interval: interval}
}

// Serve implements suture.Service.
func (j *JanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := j.reaper.ReapExpired(); n > 0 {
				logging.Debug().Int("reaped", n).Msg("Expired sessions reaped")
			}
		}
	}
}

// String identifies the service in supervisor logs.
func (j *JanitorService) String() string {
	return "session-janitor"
}
