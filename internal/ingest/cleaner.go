// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

package ingest

import (
	"strings"
	"time"

	"github.com/replayed/replayed/internal/models"
)

// rawRecord is the union of the two export shapes. Extended streaming
// history uses ts/master_metadata_* field names; the older account-data
// export uses endTime/artistName/trackName/msPlayed. Pointer fields
// distinguish "absent" from "empty".
type rawRecord struct {
	// Extended streaming history
	TS             string  `json:"ts"`
	Platform       string  `json:"platform"`
	MsPlayed       *int64  `json:"ms_played"`
	ConnCountry    string  `json:"conn_country"`
	TrackName      *string `json:"master_metadata_track_name"`
	ArtistName     *string `json:"master_metadata_album_artist_name"`
	AlbumName      *string `json:"master_metadata_album_album_name"`
	EpisodeName    *string `json:"episode_name"`
	EpisodeShow    *string `json:"episode_show_name"`
	AudiobookTitle *string `json:"audiobook_title"`
	ReasonStart    string  `json:"reason_start"`
	ReasonEnd      string  `json:"reason_end"`
	Shuffle        *bool   `json:"shuffle"`
	Skipped        *bool   `json:"skipped"`
	IncognitoMode  *bool   `json:"incognito_mode"`

	// Legacy account data
	EndTime      string `json:"endTime"`
	LegacyArtist string `json:"artistName"`
	LegacyTrack  string `json:"trackName"`
	LegacyMs     *int64 `json:"msPlayed"`
}

// Skip reasons reported by Clean.
const (
	SkipBadTimestamp = "bad_timestamp"
	SkipNonMusic     = "non_music"
	SkipNoMetadata   = "no_metadata"
	SkipBadDuration  = "bad_duration"
)

// legacyTimeLayout is the minute-granularity layout of account-data exports.
const legacyTimeLayout = "2006-01-02 15:04"

// Clean normalizes one raw export entry into a ListeningEvent.
// It returns a non-empty skip reason (and a nil event) for entries that the
// dashboard must not count: podcast and audiobook rows, rows without track
// metadata, and rows with unparseable timestamps or negative durations.
func Clean(raw *rawRecord) (*models.ListeningEvent, string) {
	playedAt, ok := parseTimestamp(raw)
	if !ok {
		return nil, SkipBadTimestamp
	}

	event := &models.ListeningEvent{
		PlayedAt: playedAt,
		Platform: raw.Platform,
		Country:  raw.ConnCountry,
	}

	switch {
	case raw.TrackName != nil && strings.TrimSpace(*raw.TrackName) != "":
		event.TrackName = strings.TrimSpace(*raw.TrackName)
		if raw.ArtistName != nil {
			event.ArtistName = strings.TrimSpace(*raw.ArtistName)
		}
		if raw.AlbumName != nil {
			event.AlbumName = strings.TrimSpace(*raw.AlbumName)
		}
	case strings.TrimSpace(raw.LegacyTrack) != "":
		event.TrackName = strings.TrimSpace(raw.LegacyTrack)
		event.ArtistName = strings.TrimSpace(raw.LegacyArtist)
	case isNonMusic(raw):
		return nil, SkipNonMusic
	default:
		return nil, SkipNoMetadata
	}

	switch {
	case raw.MsPlayed != nil:
		event.MsPlayed = *raw.MsPlayed
	case raw.LegacyMs != nil:
		event.MsPlayed = *raw.LegacyMs
	}
	if event.MsPlayed < 0 {
		return nil, SkipBadDuration
	}

	if raw.Skipped != nil {
		event.HasFlags = true
		event.Skipped = *raw.Skipped
		if raw.Shuffle != nil {
			event.Shuffle = *raw.Shuffle
		}
		if raw.IncognitoMode != nil {
			event.Incognito = *raw.IncognitoMode
		}
	}

	event.ReasonStart = raw.ReasonStart
	event.ReasonEnd = raw.ReasonEnd

	return event, ""
}

// parseTimestamp reads the extended RFC3339 `ts` field, falling back to the
// legacy minute-granularity `endTime` field.
func parseTimestamp(raw *rawRecord) (time.Time, bool) {
	if raw.TS != "" {
		if t, err := time.Parse(time.RFC3339, raw.TS); err == nil {
			return t.UTC(), true
		}
		return time.Time{}, false
	}
	if raw.EndTime != "" {
		if t, err := time.Parse(legacyTimeLayout, raw.EndTime); err == nil {
			return t.UTC(), true
		}
		return time.Time{}, false
	}
	return time.Time{}, false
}

// isNonMusic reports whether the entry is a podcast episode or audiobook
// chapter. These carry their own metadata fields and no track name.
func isNonMusic(raw *rawRecord) bool {
	hasText := func(p *string) bool { return p != nil && strings.TrimSpace(*p) != "" }
	return hasText(raw.EpisodeName) || hasText(raw.EpisodeShow) || hasText(raw.AudiobookTitle)
}
