// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/replayed/replayed/internal/database"
	"github.com/replayed/replayed/internal/validation"
)

// statsQuery holds the raw filter parameters shared by the analytics
// endpoints before they are converted into a database.Filter.
type statsQuery struct {
	MinSeconds int    `validate:"min=0,max=86400"`
	From       string `validate:"omitempty,datetime=2006-01-02"`
	To         string `validate:"omitempty,datetime=2006-01-02"`
	ArtistMode string `validate:"omitempty,oneof=include exclude"`
	Sort       string `validate:"omitempty,oneof=plays minutes"`
	Interval   string `validate:"omitempty,oneof=day week month"`
}

// parseFilter builds a database.Filter from query parameters. Invalid
// parameters return a validation error with per-field details.
func (h *Handler) parseFilter(r *http.Request) (database.Filter, error) {
	q := r.URL.Query()

	filter := database.Filter{MinSeconds: h.cfg.Ingest.DefaultMinSeconds}

	sq := statsQuery{
		MinSeconds: filter.MinSeconds,
		From:       q.Get("from"),
		To:         q.Get("to"),
		ArtistMode: q.Get("artist_mode"),
		Sort:       q.Get("sort"),
		Interval:   q.Get("interval"),
	}

	if raw := q.Get("min_seconds"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, &validation.Error{Fields: []validation.FieldError{{
				Field:   "min_seconds",
				Message: "min_seconds must be an integer",
			}}}
		}
		sq.MinSeconds = n
	}

	if err := validation.ValidateStruct(&sq); err != nil {
		return filter, err
	}

	filter.MinSeconds = sq.MinSeconds

	if sq.From != "" {
		t, _ := time.Parse("2006-01-02", sq.From)
		filter.From = &t
	}
	if sq.To != "" {
		// Inclusive upper bound: extend to the end of the day.
		t, _ := time.Parse("2006-01-02", sq.To)
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.To = &t
	}

	years, err := parseYears(q.Get("years"))
	if err != nil {
		return filter, err
	}
	filter.Years = years

	filter.Artists = splitList(q.Get("artists"))
	if sq.ArtistMode == "exclude" {
		filter.ArtistMode = database.ArtistModeExclude
	}

	return filter, nil
}

// parseLimit reads and clamps the limit parameter against the configured
// maximum.
func (h *Handler) parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.cfg.API.DefaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &validation.Error{Fields: []validation.FieldError{{
			Field:   "limit",
			Message: "limit must be a positive integer",
		}}}
	}
	if n > h.cfg.API.MaxLimit {
		n = h.cfg.API.MaxLimit
	}
	return n, nil
}

func parseYears(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := splitList(raw)
	years := make([]int, 0, len(parts))
	for _, p := range parts {
		y, err := strconv.Atoi(p)
		if err != nil || y < 1900 || y > 2200 {
			return nil, &validation.Error{Fields: []validation.FieldError{{
				Field:   "years",
				Message: "years must be a comma-separated list of four-digit years",
			}}}
		}
		years = append(years, y)
	}
	return years, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
