// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

package models

import "time"

// OverviewStats summarizes an entire session after filters are applied.
type OverviewStats struct {
	TotalPlays      int64   `json:"total_plays"`
	TotalMinutes    float64 `json:"total_minutes"`
	DistinctTracks  int64   `json:"distinct_tracks"`
	DistinctArtists int64   `json:"distinct_artists"`
	DistinctAlbums  int64   `json:"distinct_albums"`

	// DaysActive is the number of calendar days with at least one play.
	DaysActive int64 `json:"days_active"`

	FirstPlay *time.Time `json:"first_play,omitempty"`
	LastPlay  *time.Time `json:"last_play,omitempty"`
}

// TrackRank is one entry in the top-tracks ranking.
type TrackRank struct {
	Rank       int     `json:"rank"`
	TrackName  string  `json:"track_name"`
	ArtistName string  `json:"artist_name"`
	AlbumName  string  `json:"album_name,omitempty"`
	PlayCount  int64   `json:"play_count"`
	Minutes    float64 `json:"minutes"`
}

// ArtistRank is one entry in the top-artists ranking. Both play count and
// total minutes are always populated so the client can re-sort locally.
type ArtistRank struct {
	Rank       int     `json:"rank"`
	ArtistName string  `json:"artist_name"`
	PlayCount  int64   `json:"play_count"`
	Minutes    float64 `json:"minutes"`
}

// AlbumTrack is one track inside an album breakdown.
type AlbumTrack struct {
	TrackName string `json:"track_name"`
	PlayCount int64  `json:"play_count"`
}

// AlbumRank is one entry in the top-albums ranking, with its per-track
// breakdown (the expandable album details of the dashboard).
type AlbumRank struct {
	Rank       int          `json:"rank"`
	AlbumName  string       `json:"album_name"`
	ArtistName string       `json:"artist_name"`
	PlayCount  int64        `json:"play_count"`
	Minutes    float64      `json:"minutes"`
	Tracks     []AlbumTrack `json:"tracks,omitempty"`
}

// TrackSkipRank is one entry in the most/least skipped rankings.
type TrackSkipRank struct {
	Rank       int     `json:"rank"`
	TrackName  string  `json:"track_name"`
	ArtistName string  `json:"artist_name"`
	TotalPlays int64   `json:"total_plays"`
	TotalSkips int64   `json:"total_skips"`
	SkipRate   float64 `json:"skip_rate"` // 0..1
}

// SkipStats carries both ends of the skip-rate ranking.
// Available is false for sessions built from legacy exports, which do not
// record skip flags.
type SkipStats struct {
	Available    bool            `json:"available"`
	MinPlays     int64           `json:"min_plays"`
	MostSkipped  []TrackSkipRank `json:"most_skipped,omitempty"`
	LeastSkipped []TrackSkipRank `json:"least_skipped,omitempty"`
}

// MonthlyTopArtist is the single most played artist (by minutes) of one
// calendar month.
type MonthlyTopArtist struct {
	Month      string  `json:"month"` // YYYY-MM
	ArtistName string  `json:"artist_name"`
	PlayCount  int64   `json:"play_count"`
	Minutes    float64 `json:"minutes"`
}

// MonthlyArtistLeader aggregates how often an artist was a month's top artist.
type MonthlyArtistLeader struct {
	ArtistName  string  `json:"artist_name"`
	MonthsAsTop int64   `json:"months_as_top"`
	PlayCount   int64   `json:"play_count"`
	Minutes     float64 `json:"minutes"`
}

// MonthlyArtistStats combines the per-month winners with the leaderboard.
type MonthlyArtistStats struct {
	Months  []MonthlyTopArtist    `json:"months"`
	Leaders []MonthlyArtistLeader `json:"leaders"`
}

// HourlyStats holds minutes listened per hour of day, zero-filled.
type HourlyStats struct {
	Minutes [24]float64 `json:"minutes"`
	// PeakHour is the hour (0-23) with the most minutes; -1 when empty.
	PeakHour int `json:"peak_hour"`
}

// WeekdayStats holds minutes listened per day of week, Monday first,
// zero-filled.
type WeekdayStats struct {
	Days    [7]string  `json:"days"`
	Minutes [7]float64 `json:"minutes"`
	// PeakDay is the day name with the most minutes; empty when no plays.
	PeakDay string `json:"peak_day,omitempty"`
}

// HeatmapStats is the hour-by-weekday minutes matrix. Rows are hours 0-23,
// columns are days Monday..Sunday.
type HeatmapStats struct {
	Days    [7]string      `json:"days"`
	Minutes [24][7]float64 `json:"minutes"`
	Max     float64        `json:"max"`
}

// TrendBucket is one bucket of the listening trend time series.
type TrendBucket struct {
	Start     time.Time `json:"start"`
	PlayCount int64     `json:"play_count"`
	Minutes   float64   `json:"minutes"`
}

// TrendStats is the listening trend over time with uniform buckets.
// Missing buckets between Start and End are zero-filled.
type TrendStats struct {
	Interval string        `json:"interval"` // day, week or month
	Buckets  []TrendBucket `json:"buckets"`
}
