// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

package api

import (
	"net/http"

	"github.com/replayed/replayed/internal/database"
)

// Overview handles GET /api/v1/sessions/{sessionID}/overview.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	filter, err := h.parseFilter(r)
	if err != nil {
		writeFilterError(w, r, err)
		return
	}

	stats, err := sess.DB.GetOverview(r.Context(), filter)
	if err != nil {
		respond(w, r).InternalError(err, "Failed to compute overview")
		return
	}
	respond(w, r).Success(stats)
}

// TopTracks handles GET /api/v1/sessions/{sessionID}/top-tracks.
func (h *Handler) TopTracks(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	filter, limit, err := h.parseFilterAndLimit(r)
	if err != nil {
		writeFilterError(w, r, err)
		return
	}

	tracks, err := sess.DB.GetTopTracks(r.Context(), filter, limit)
	if err != nil {
		respond(w, r).InternalError(err, "Failed to rank tracks")
		return
	}
	respond(w, r).Success(tracks)
}

// TopArtists handles GET /api/v1/sessions/{sessionID}/top-artists.
// The sort parameter switches the ranking between play count and minutes.
func (h *Handler) TopArtists(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	filter, limit, err := h.parseFilterAndLimit(r)
	if err != nil {
		writeFilterError(w, r, err)
		return
	}

	sort := r.URL.Query().Get("sort")
	if sort == "" {
		sort = database.SortByPlays
	}

	artists, err := sess.DB.GetTopArtists(r.Context(), filter, sort, limit)
	if err != nil {
		respond(w, r).InternalError(err, "Failed to rank artists")
		return
	}
	respond(w, r).Success(artists)
}

// TopAlbums handles GET /api/v1/sessions/{sessionID}/top-albums.
func (h *Handler) TopAlbums(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	filter, limit, err := h.parseFilterAndLimit(r)
	if err != nil {
		writeFilterError(w, r, err)
		return
	}

	albums, err := sess.DB.GetTopAlbums(r.Context(), filter, limit)
	if err != nil {
		respond(w, r).InternalError(err, "Failed to rank albums")
		return
	}
	respond(w, r).Success(albums)
}

// Skips handles GET /api/v1/sessions/{sessionID}/skips. For exports without
// skip flags the response carries available=false and empty rankings.
func (h *Handler) Skips(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	filter, limit, err := h.parseFilterAndLimit(r)
	if err != nil {
		writeFilterError(w, r, err)
		return
	}

	stats, err := sess.DB.GetSkipStats(r.Context(), filter, limit)
	if err != nil {
		respond(w, r).InternalError(err, "Failed to compute skip statistics")
		return
	}
	respond(w, r).Success(stats)
}

// MonthlyArtists handles GET /api/v1/sessions/{sessionID}/monthly-artists.
func (h *Handler) MonthlyArtists(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	filter, err := h.parseFilter(r)
	if err != nil {
		writeFilterError(w, r, err)
		return
	}

	stats, err := sess.DB.GetMonthlyArtistStats(r.Context(), filter)
	if err != nil {
		respond(w, r).InternalError(err, "Failed to compute monthly artists")
		return
	}
	respond(w, r).Success(stats)
}

// Hourly handles GET /api/v1/sessions/{sessionID}/hourly.
func (h *Handler) Hourly(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	filter, err := h.parseFilter(r)
	if err != nil {
		writeFilterError(w, r, err)
		return
	}

	stats, err := sess.DB.GetHourlyStats(r.Context(), filter)
	if err != nil {
		respond(w, r).InternalError(err, "Failed to compute hourly profile")
		return
	}
	respond(w, r).Success(stats)
}

// Weekdays handles GET /api/v1/sessions/{sessionID}/weekdays.
func (h *Handler) Weekdays(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	filter, err := h.parseFilter(r)
	if err != nil {
		writeFilterError(w, r, err)
		return
	}

	stats, err := sess.DB.GetWeekdayStats(r.Context(), filter)
	if err != nil {
		respond(w, r).InternalError(err, "Failed to compute weekday profile")
		return
	}
	respond(w, r).Success(stats)
}

// Heatmap handles GET /api/v1/sessions/{sessionID}/heatmap.
func (h *Handler) Heatmap(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	filter, err := h.parseFilter(r)
	if err != nil {
		writeFilterError(w, r, err)
		return
	}

	stats, err := sess.DB.GetHeatmap(r.Context(), filter)
	if err != nil {
		respond(w, r).InternalError(err, "Failed to compute listening heatmap")
		return
	}
	respond(w, r).Success(stats)
}

// Trend handles GET /api/v1/sessions/{sessionID}/trend. The interval
// parameter selects day, week or month buckets (default day).
func (h *Handler) Trend(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	filter, err := h.parseFilter(r)
	if err != nil {
		writeFilterError(w, r, err)
		return
	}

	interval := r.URL.Query().Get("interval")
	if interval == "" {
		interval = "day"
	}

	stats, err := sess.DB.GetTrend(r.Context(), filter, interval)
	if err != nil {
		respond(w, r).InternalError(err, "Failed to compute listening trend")
		return
	}
	respond(w, r).Success(stats)
}

// Artists handles GET /api/v1/sessions/{sessionID}/artists, returning the
// distinct artist names for filter pickers.
func (h *Handler) Artists(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	artists, err := sess.DB.ListArtists(r.Context(), h.cfg.API.MaxLimit*10)
	if err != nil {
		respond(w, r).InternalError(err, "Failed to list artists")
		return
	}
	respond(w, r).Success(artists)
}

// Years handles GET /api/v1/sessions/{sessionID}/years, returning the
// distinct calendar years present in the history.
func (h *Handler) Years(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	years, err := sess.DB.ListYears(r.Context())
	if err != nil {
		respond(w, r).InternalError(err, "Failed to list years")
		return
	}
	respond(w, r).Success(years)
}

func (h *Handler) parseFilterAndLimit(r *http.Request) (database.Filter, int, error) {
	filter, err := h.parseFilter(r)
	if err != nil {
		return filter, 0, err
	}
	limit, err := h.parseLimit(r)
	if err != nil {
		return filter, 0, err
	}
	return filter, limit, nil
}
