// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

package database

import (
	"fmt"
	"strings"
	"time"
)

// Artist filter modes.
const (
	ArtistModeInclude = "include"
	ArtistModeExclude = "exclude"
)

// Filter narrows every analytics query to a subset of the session's plays.
// It mirrors the dashboard's sidebar controls: playback threshold, year
// checkboxes, custom date range and artist include/exclude selection.
type Filter struct {
	// MinSeconds excludes plays shorter than this many seconds.
	MinSeconds int

	// From and To bound the played_at timestamp (inclusive).
	From *time.Time
	To   *time.Time

	// Years restricts to the given calendar years when non-empty.
	Years []int

	// Artists restricts by artist name when non-empty; ArtistMode decides
	// whether the list is kept (include) or dropped (exclude).
	Artists    []string
	ArtistMode string
}

// conditions builds the WHERE clauses and arguments for the filter.
// The returned SQL fragment starts with " AND" when any condition exists,
// so callers can append it after "WHERE 1=1".
func (f *Filter) conditions() (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if f.MinSeconds > 0 {
		clauses = append(clauses, "ms_played >= ?")
		args = append(args, int64(f.MinSeconds)*1000)
	}
	if f.From != nil {
		clauses = append(clauses, "played_at >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		clauses = append(clauses, "played_at <= ?")
		args = append(args, *f.To)
	}
	if len(f.Years) > 0 {
		clauses = append(clauses, fmt.Sprintf("year(played_at) IN (%s)", placeholders(len(f.Years))))
		for _, y := range f.Years {
			args = append(args, y)
		}
	}
	if len(f.Artists) > 0 {
		op := "IN"
		if f.ArtistMode == ArtistModeExclude {
			op = "NOT IN"
		}
		clauses = append(clauses, fmt.Sprintf("artist_name %s (%s)", op, placeholders(len(f.Artists))))
		for _, a := range f.Artists {
			args = append(args, a)
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(clauses, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
