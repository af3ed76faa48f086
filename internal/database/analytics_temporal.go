// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/replayed/replayed/internal/models"
)

// weekdayNames is Monday-first, matching isodow() ordering (1=Monday).
var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// GetOverview returns the headline numbers for a session under the filter.
func (db *DB) GetOverview(ctx context.Context, filter Filter) (*models.OverviewStats, error) {
	whereSQL, args := filter.conditions()
	query := fmt.Sprintf(`
	SELECT
		COUNT(*),
		COALESCE(SUM(ms_played), 0) / 60000.0,
		COUNT(DISTINCT track_name),
		COUNT(DISTINCT artist_name) FILTER (WHERE artist_name <> ''),
		COUNT(DISTINCT album_name) FILTER (WHERE album_name IS NOT NULL AND album_name <> ''),
		COUNT(DISTINCT CAST(played_at AS DATE)),
		MIN(played_at),
		MAX(played_at)
	FROM plays
	WHERE 1=1%s`, whereSQL)

	var stats models.OverviewStats
	var first, last sql.NullTime
	err := db.timedQueryRow(ctx, "overview", query, args...).Scan(
		&stats.TotalPlays, &stats.TotalMinutes,
		&stats.DistinctTracks, &stats.DistinctArtists, &stats.DistinctAlbums,
		&stats.DaysActive, &first, &last,
	)
	if err != nil {
		return nil, fmt.Errorf("query overview: %w", err)
	}
	stats.FirstPlay = scanNullTime(first)
	stats.LastPlay = scanNullTime(last)
	return &stats, nil
}

// GetHourlyStats returns minutes listened per hour of day, zero-filled
// across all 24 buckets.
func (db *DB) GetHourlyStats(ctx context.Context, filter Filter) (*models.HourlyStats, error) {
	whereSQL, args := filter.conditions()
	query := fmt.Sprintf(`
	SELECT hour(played_at) AS h, SUM(ms_played) / 60000.0 AS minutes
	FROM plays
	WHERE 1=1%s
	GROUP BY h`, whereSQL)

	rows, err := db.timedQuery(ctx, "hourly", query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hourly stats: %w", err)
	}
	defer rows.Close()

	stats := &models.HourlyStats{PeakHour: -1}
	for rows.Next() {
		var h int
		var minutes float64
		if err := rows.Scan(&h, &minutes); err != nil {
			return nil, fmt.Errorf("scan hourly row: %w", err)
		}
		if h >= 0 && h < 24 {
			stats.Minutes[h] = minutes
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var peak float64
	for h, m := range stats.Minutes {
		if m > peak {
			peak = m
			stats.PeakHour = h
		}
	}
	return stats, nil
}

// GetWeekdayStats returns minutes listened per day of week, Monday first.
func (db *DB) GetWeekdayStats(ctx context.Context, filter Filter) (*models.WeekdayStats, error) {
	whereSQL, args := filter.conditions()
	query := fmt.Sprintf(`
	SELECT isodow(played_at) AS d, SUM(ms_played) / 60000.0 AS minutes
	FROM plays
	WHERE 1=1%s
	GROUP BY d`, whereSQL)

	rows, err := db.timedQuery(ctx, "weekdays", query, args...)
	if err != nil {
		return nil, fmt.Errorf("query weekday stats: %w", err)
	}
	defer rows.Close()

	stats := &models.WeekdayStats{Days: weekdayNames}
	for rows.Next() {
		var d int
		var minutes float64
		if err := rows.Scan(&d, &minutes); err != nil {
			return nil, fmt.Errorf("scan weekday row: %w", err)
		}
		if d >= 1 && d <= 7 {
			stats.Minutes[d-1] = minutes
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var peak float64
	for i, m := range stats.Minutes {
		if m > peak {
			peak = m
			stats.PeakDay = stats.Days[i]
		}
	}
	return stats, nil
}

// GetHeatmap returns the hour-by-weekday minutes matrix.
func (db *DB) GetHeatmap(ctx context.Context, filter Filter) (*models.HeatmapStats, error) {
	whereSQL, args := filter.conditions()
	query := fmt.Sprintf(`
	SELECT hour(played_at) AS h, isodow(played_at) AS d, SUM(ms_played) / 60000.0 AS minutes
	FROM plays
	WHERE 1=1%s
	GROUP BY h, d`, whereSQL)

	rows, err := db.timedQuery(ctx, "heatmap", query, args...)
	if err != nil {
		return nil, fmt.Errorf("query heatmap: %w", err)
	}
	defer rows.Close()

	stats := &models.HeatmapStats{Days: weekdayNames}
	for rows.Next() {
		var h, d int
		var minutes float64
		if err := rows.Scan(&h, &d, &minutes); err != nil {
			return nil, fmt.Errorf("scan heatmap row: %w", err)
		}
		if h >= 0 && h < 24 && d >= 1 && d <= 7 {
			stats.Minutes[h][d-1] = minutes
			if minutes > stats.Max {
				stats.Max = minutes
			}
		}
	}
	return stats, rows.Err()
}

// GetTrend returns the listening trend bucketed by day, week or month.
// Gaps between the first and last bucket are zero-filled so charts render
// without holes.
func (db *DB) GetTrend(ctx context.Context, filter Filter, interval string) (*models.TrendStats, error) {
	bucketSQL, err := trendBucketSQL(interval)
	if err != nil {
		return nil, err
	}

	whereSQL, args := filter.conditions()
	query := fmt.Sprintf(`
	SELECT %s AS bucket, COUNT(*) AS plays, SUM(ms_played) / 60000.0 AS minutes
	FROM plays
	WHERE 1=1%s
	GROUP BY bucket
	ORDER BY bucket`, bucketSQL, whereSQL)

	rows, err := db.timedQuery(ctx, "trend", query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trend: %w", err)
	}
	defer rows.Close()

	var buckets []models.TrendBucket
	for rows.Next() {
		var b models.TrendBucket
		if err := rows.Scan(&b.Start, &b.PlayCount, &b.Minutes); err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.TrendStats{
		Interval: interval,
		Buckets:  fillMissingBuckets(buckets, interval),
	}, nil
}

// GetMonthlyArtistStats returns the top artist (by minutes) of each calendar
// month plus the months-as-top leaderboard derived from it.
func (db *DB) GetMonthlyArtistStats(ctx context.Context, filter Filter) (*models.MonthlyArtistStats, error) {
	whereSQL, args := filter.conditions()
	query := fmt.Sprintf(`
	WITH monthly AS (
		SELECT
			strftime(played_at, '%%Y-%%m') AS month,
			artist_name,
			COUNT(*) AS plays,
			SUM(ms_played) / 60000.0 AS minutes
		FROM plays
		WHERE artist_name <> ''%s
		GROUP BY month, artist_name
	),
	ranked AS (
		SELECT *,
			ROW_NUMBER() OVER (
				PARTITION BY month
				ORDER BY minutes DESC, plays DESC, artist_name
			) AS rn
		FROM monthly
	)
	SELECT month, artist_name, plays, minutes
	FROM ranked
	WHERE rn = 1
	ORDER BY month`, whereSQL)

	rows, err := db.timedQuery(ctx, "monthly_artists", query, args...)
	if err != nil {
		return nil, fmt.Errorf("query monthly artists: %w", err)
	}
	defer rows.Close()

	stats := &models.MonthlyArtistStats{}
	for rows.Next() {
		var m models.MonthlyTopArtist
		if err := rows.Scan(&m.Month, &m.ArtistName, &m.PlayCount, &m.Minutes); err != nil {
			return nil, fmt.Errorf("scan monthly artist row: %w", err)
		}
		stats.Months = append(stats.Months, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.Leaders = buildMonthlyLeaders(stats.Months)
	return stats, nil
}

// buildMonthlyLeaders folds per-month winners into the leaderboard, ordered
// by months-as-top, minutes as tiebreak.
func buildMonthlyLeaders(months []models.MonthlyTopArtist) []models.MonthlyArtistLeader {
	index := make(map[string]int)
	var leaders []models.MonthlyArtistLeader
	for _, m := range months {
		i, ok := index[m.ArtistName]
		if !ok {
			i = len(leaders)
			index[m.ArtistName] = i
			leaders = append(leaders, models.MonthlyArtistLeader{ArtistName: m.ArtistName})
		}
		leaders[i].MonthsAsTop++
		leaders[i].PlayCount += m.PlayCount
		leaders[i].Minutes += m.Minutes
	}

	sort.SliceStable(leaders, func(i, j int) bool {
		if leaders[i].MonthsAsTop != leaders[j].MonthsAsTop {
			return leaders[i].MonthsAsTop > leaders[j].MonthsAsTop
		}
		return leaders[i].Minutes > leaders[j].Minutes
	})
	return leaders
}

// trendBucketSQL validates the interval and returns the DATE_TRUNC
// expression for time bucketing.
func trendBucketSQL(interval string) (string, error) {
	switch interval {
	case "day":
		return "DATE_TRUNC('day', played_at)", nil
	case "week":
		return "DATE_TRUNC('week', played_at)", nil
	case "month":
		return "DATE_TRUNC('month', played_at)", nil
	default:
		return "", fmt.Errorf("invalid interval: must be day, week, or month")
	}
}

// fillMissingBuckets inserts zero buckets between the first and last bucket
// so the trend series is uniform.
func fillMissingBuckets(buckets []models.TrendBucket, interval string) []models.TrendBucket {
	if len(buckets) < 2 {
		return buckets
	}

	step := func(t time.Time) time.Time {
		switch interval {
		case "day":
			return t.AddDate(0, 0, 1)
		case "week":
			return t.AddDate(0, 0, 7)
		default: // month
			return t.AddDate(0, 1, 0)
		}
	}

	filled := make([]models.TrendBucket, 0, len(buckets))
	filled = append(filled, buckets[0])
	for _, b := range buckets[1:] {
		for next := step(filled[len(filled)-1].Start); next.Before(b.Start); next = step(next) {
			filled = append(filled, models.TrendBucket{Start: next})
		}
		filled = append(filled, b)
	}
	return filled
}

// scanNullTime converts a nullable timestamp into a *time.Time.
func scanNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
