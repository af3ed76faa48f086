// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

package api

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	LiveSessions  int     `json:"live_sessions"`
}

// HealthLive handles GET /api/v1/health/live. It returns 200 whenever the
// process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respond(w, r).Success(healthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		LiveSessions:  h.registry.Len(),
	})
}

// HealthReady handles GET /api/v1/health/ready. All state is in-process, so
// readiness tracks liveness; the endpoint exists for orchestrators that
// probe both.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	respond(w, r).Success(healthResponse{
		Status:        "ready",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		LiveSessions:  h.registry.Len(),
	})
}
