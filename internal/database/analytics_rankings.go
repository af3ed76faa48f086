// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

package database

import (
	"context"
	"fmt"

	"github.com/replayed/replayed/internal/models"
)

// Top-artist sort orders.
const (
	SortByPlays   = "plays"
	SortByMinutes = "minutes"
)

// skipStatsMinPlays is the minimum play count for a track to appear in the
// skip-rate rankings; rates over fewer plays are noise.
const skipStatsMinPlays = 5

// GetTopTracks returns the most played tracks by play count.
func (db *DB) GetTopTracks(ctx context.Context, filter Filter, limit int) ([]models.TrackRank, error) {
	whereSQL, args := filter.conditions()
	query := fmt.Sprintf(`
	SELECT
		track_name,
		MIN(artist_name) AS artist_name,
		COALESCE(MIN(album_name), '') AS album_name,
		COUNT(*) AS plays,
		SUM(ms_played) / 60000.0 AS minutes
	FROM plays
	WHERE 1=1%s
	GROUP BY track_name
	ORDER BY plays DESC, minutes DESC, track_name
	LIMIT ?`, whereSQL)
	args = append(args, limit)

	rows, err := db.timedQuery(ctx, "top_tracks", query, args...)
	if err != nil {
		return nil, fmt.Errorf("query top tracks: %w", err)
	}
	defer rows.Close()

	var out []models.TrackRank
	for rows.Next() {
		r := models.TrackRank{Rank: len(out) + 1}
		if err := rows.Scan(&r.TrackName, &r.ArtistName, &r.AlbumName, &r.PlayCount, &r.Minutes); err != nil {
			return nil, fmt.Errorf("scan top tracks row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetTopArtists returns the most played artists. Both play count and total
// minutes are populated; sort selects the ranking order.
func (db *DB) GetTopArtists(ctx context.Context, filter Filter, sort string, limit int) ([]models.ArtistRank, error) {
	orderSQL := "plays DESC, minutes DESC"
	if sort == SortByMinutes {
		orderSQL = "minutes DESC, plays DESC"
	}

	whereSQL, args := filter.conditions()
	query := fmt.Sprintf(`
	SELECT
		artist_name,
		COUNT(*) AS plays,
		SUM(ms_played) / 60000.0 AS minutes
	FROM plays
	WHERE artist_name <> ''%s
	GROUP BY artist_name
	ORDER BY %s, artist_name
	LIMIT ?`, whereSQL, orderSQL)
	args = append(args, limit)

	rows, err := db.timedQuery(ctx, "top_artists", query, args...)
	if err != nil {
		return nil, fmt.Errorf("query top artists: %w", err)
	}
	defer rows.Close()

	var out []models.ArtistRank
	for rows.Next() {
		r := models.ArtistRank{Rank: len(out) + 1}
		if err := rows.Scan(&r.ArtistName, &r.PlayCount, &r.Minutes); err != nil {
			return nil, fmt.Errorf("scan top artists row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetTopAlbums returns the most played albums with their per-track
// breakdown, the expandable album details of the dashboard.
func (db *DB) GetTopAlbums(ctx context.Context, filter Filter, limit int) ([]models.AlbumRank, error) {
	whereSQL, args := filter.conditions()
	query := fmt.Sprintf(`
	SELECT
		album_name,
		MIN(artist_name) AS artist_name,
		COUNT(*) AS plays,
		SUM(ms_played) / 60000.0 AS minutes
	FROM plays
	WHERE album_name IS NOT NULL AND album_name <> ''%s
	GROUP BY album_name
	ORDER BY plays DESC, minutes DESC, album_name
	LIMIT ?`, whereSQL)
	args = append(args, limit)

	rows, err := db.timedQuery(ctx, "top_albums", query, args...)
	if err != nil {
		return nil, fmt.Errorf("query top albums: %w", err)
	}
	defer rows.Close()

	var out []models.AlbumRank
	for rows.Next() {
		r := models.AlbumRank{Rank: len(out) + 1}
		if err := rows.Scan(&r.AlbumName, &r.ArtistName, &r.PlayCount, &r.Minutes); err != nil {
			return nil, fmt.Errorf("scan top albums row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.attachAlbumTracks(ctx, filter, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachAlbumTracks fills in the track breakdown for the ranked albums with
// a single grouped query.
func (db *DB) attachAlbumTracks(ctx context.Context, filter Filter, albums []models.AlbumRank) error {
	if len(albums) == 0 {
		return nil
	}

	names := make([]interface{}, len(albums))
	index := make(map[string]int, len(albums))
	for i := range albums {
		names[i] = albums[i].AlbumName
		index[albums[i].AlbumName] = i
	}

	whereSQL, filterArgs := filter.conditions()
	query := fmt.Sprintf(`
	SELECT album_name, track_name, COUNT(*) AS plays
	FROM plays
	WHERE album_name IN (%s)%s
	GROUP BY album_name, track_name
	ORDER BY album_name, plays DESC, track_name`,
		placeholders(len(names)), whereSQL)
	args := append(names, filterArgs...)

	rows, err := db.timedQuery(ctx, "album_tracks", query, args...)
	if err != nil {
		return fmt.Errorf("query album tracks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var album string
		var track models.AlbumTrack
		if err := rows.Scan(&album, &track.TrackName, &track.PlayCount); err != nil {
			return fmt.Errorf("scan album track row: %w", err)
		}
		if i, ok := index[album]; ok {
			albums[i].Tracks = append(albums[i].Tracks, track)
		}
	}
	return rows.Err()
}

// GetSkipStats returns the most and least skipped tracks by skip rate,
// considering only tracks with at least skipStatsMinPlays plays. Sessions
// built from legacy exports have no skip flags; those report Available=false.
func (db *DB) GetSkipStats(ctx context.Context, filter Filter, limit int) (*models.SkipStats, error) {
	var flagged int64
	if err := db.timedQueryRow(ctx, "skip_flag_check",
		`SELECT COUNT(*) FROM plays WHERE skipped IS NOT NULL`).Scan(&flagged); err != nil {
		return nil, fmt.Errorf("check skip flags: %w", err)
	}

	stats := &models.SkipStats{MinPlays: skipStatsMinPlays}
	if flagged == 0 {
		return stats, nil
	}
	stats.Available = true

	most, err := db.querySkipRanking(ctx, filter, "skip_rate DESC, total_plays DESC", limit)
	if err != nil {
		return nil, err
	}
	least, err := db.querySkipRanking(ctx, filter, "skip_rate ASC, total_plays DESC", limit)
	if err != nil {
		return nil, err
	}
	stats.MostSkipped = most
	stats.LeastSkipped = least
	return stats, nil
}

func (db *DB) querySkipRanking(ctx context.Context, filter Filter, orderSQL string, limit int) ([]models.TrackSkipRank, error) {
	whereSQL, args := filter.conditions()
	query := fmt.Sprintf(`
	SELECT
		track_name,
		MIN(artist_name) AS artist_name,
		COUNT(*) AS total_plays,
		COUNT(*) FILTER (WHERE skipped) AS total_skips,
		COUNT(*) FILTER (WHERE skipped) * 1.0 / COUNT(*) AS skip_rate
	FROM plays
	WHERE skipped IS NOT NULL%s
	GROUP BY track_name
	HAVING COUNT(*) >= %d
	ORDER BY %s, track_name
	LIMIT ?`, whereSQL, skipStatsMinPlays, orderSQL)
	args = append(args, limit)

	rows, err := db.timedQuery(ctx, "skip_ranking", query, args...)
	if err != nil {
		return nil, fmt.Errorf("query skip ranking: %w", err)
	}
	defer rows.Close()

	var out []models.TrackSkipRank
	for rows.Next() {
		r := models.TrackSkipRank{Rank: len(out) + 1}
		if err := rows.Scan(&r.TrackName, &r.ArtistName, &r.TotalPlays, &r.TotalSkips, &r.SkipRate); err != nil {
			return nil, fmt.Errorf("scan skip ranking row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListArtists returns the distinct artist names, for the filter UI.
func (db *DB) ListArtists(ctx context.Context, limit int) ([]string, error) {
	rows, err := db.timedQuery(ctx, "list_artists",
		`SELECT DISTINCT artist_name FROM plays WHERE artist_name <> '' ORDER BY artist_name LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query artists: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan artist row: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// ListYears returns the distinct calendar years present in the session.
func (db *DB) ListYears(ctx context.Context) ([]int, error) {
	rows, err := db.timedQuery(ctx, "list_years",
		`SELECT DISTINCT year(played_at) AS y FROM plays ORDER BY y`)
	if err != nil {
		return nil, fmt.Errorf("query years: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scan year row: %w", err)
		}
		out = append(out, y)
	}
	return out, rows.Err()
}
