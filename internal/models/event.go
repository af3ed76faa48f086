// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

// Package models provides the data structures shared across the Replayed
// application: the normalized listening event and the analytics responses
// produced from it.
package models

import "time"

// ListeningEvent is one normalized record of a single play of a track.
// It is the uniform shape that both export formats (extended streaming
// history and legacy account data) are cleaned into.
type ListeningEvent struct {
	// PlayedAt is the end-of-play timestamp of the event (UTC).
	PlayedAt time.Time `json:"played_at"`

	TrackName  string `json:"track_name"`
	ArtistName string `json:"artist_name"`
	AlbumName  string `json:"album_name,omitempty"`

	// MsPlayed is the play duration in milliseconds.
	MsPlayed int64 `json:"ms_played"`

	Platform string `json:"platform,omitempty"`
	Country  string `json:"country,omitempty"`

	// Skipped, Shuffle and Incognito are only present in extended exports.
	// HasFlags reports whether they carry meaning for this event.
	Skipped   bool `json:"skipped,omitempty"`
	Shuffle   bool `json:"shuffle,omitempty"`
	Incognito bool `json:"incognito,omitempty"`
	HasFlags  bool `json:"-"`

	ReasonStart string `json:"reason_start,omitempty"`
	ReasonEnd   string `json:"reason_end,omitempty"`
}

// MinutesPlayed returns the play duration in minutes.
func (e *ListeningEvent) MinutesPlayed() float64 {
	return float64(e.MsPlayed) / 60000.0
}
