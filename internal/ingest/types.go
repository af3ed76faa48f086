// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

package ingest

import (
	"time"

	"github.com/replayed/replayed/internal/models"
)

// IngestStats holds counters for one archive ingest.
type IngestStats struct {
	// TotalEntries is the number of JSON entries seen across all files.
	TotalEntries int64

	// Imported is the number of entries that became listening events.
	Imported int64

	// Skipped is the number of entries dropped by cleaning rules.
	Skipped int64

	// Errors is the number of files that could not be decoded at all.
	Errors int64

	// StartTime is when the ingest started.
	StartTime time.Time

	// EndTime is when the ingest completed.
	EndTime time.Time
}

// Duration returns how long the ingest took.
func (s *IngestStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// EntriesPerSecond returns the ingest rate.
func (s *IngestStats) EntriesPerSecond() float64 {
	secs := s.Duration().Seconds()
	if secs == 0 {
		return 0
	}
	return float64(s.TotalEntries) / secs
}

// FileReport describes how one archive entry was handled.
type FileReport struct {
	Name     string `json:"name"`
	Entries  int64  `json:"entries"`
	Imported int64  `json:"imported"`
	Skipped  int64  `json:"skipped"`

	// Error is set when the file could not be decoded; the rest of the
	// archive is still processed.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of ingesting one archive.
type Result struct {
	Events []models.ListeningEvent
	Stats  IngestStats
	Files  []FileReport

	// HasSkipFlags reports whether the export carries skip/shuffle flags
	// (extended exports do, legacy account-data exports do not).
	HasSkipFlags bool
}

// Summary is the client-facing description of an ingest, returned from the
// upload endpoint and the session metadata endpoint.
type Summary struct {
	TotalEntries int64        `json:"total_entries"`
	Imported     int64        `json:"imported"`
	Skipped      int64        `json:"skipped"`
	Errors       int64        `json:"errors"`
	DurationMs   int64        `json:"duration_ms"`
	Files        []FileReport `json:"files"`
	HasSkipFlags bool         `json:"has_skip_flags"`

	EarliestPlay *time.Time `json:"earliest_play,omitempty"`
	LatestPlay   *time.Time `json:"latest_play,omitempty"`
}

// Summary converts the result into its client-facing form.
func (r *Result) Summary() *Summary {
	s := &Summary{
		TotalEntries: r.Stats.TotalEntries,
		Imported:     r.Stats.Imported,
		Skipped:      r.Stats.Skipped,
		Errors:       r.Stats.Errors,
		DurationMs:   r.Stats.Duration().Milliseconds(),
		Files:        r.Files,
		HasSkipFlags: r.HasSkipFlags,
	}
	for i := range r.Events {
		t := r.Events[i].PlayedAt
		if s.EarliestPlay == nil || t.Before(*s.EarliestPlay) {
			earliest := t
			s.EarliestPlay = &earliest
		}
		if s.LatestPlay == nil || t.After(*s.LatestPlay) {
			latest := t
			s.LatestPlay = &latest
		}
	}
	return s
}
