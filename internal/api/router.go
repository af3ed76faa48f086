// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/replayed/replayed/internal/middleware"
	"github.com/replayed/replayed/web"
)

// NewRouter builds the full route tree.
func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.API.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints stay outside the rate limit so probes never starve.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(h.cfg.API.RateLimitReqs, h.cfg.API.RateLimitWindow))
		r.Use(middleware.Prometheus)

		r.Post("/import", h.Import)

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.DeleteSession)

			r.Get("/overview", h.Overview)
			r.Get("/top-tracks", h.TopTracks)
			r.Get("/top-artists", h.TopArtists)
			r.Get("/top-albums", h.TopAlbums)
			r.Get("/skips", h.Skips)
			r.Get("/monthly-artists", h.MonthlyArtists)
			r.Get("/hourly", h.Hourly)
			r.Get("/weekdays", h.Weekdays)
			r.Get("/heatmap", h.Heatmap)
			r.Get("/trend", h.Trend)
			r.Get("/artists", h.Artists)
			r.Get("/years", h.Years)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	// Embedded dashboard UI. Must be last, catches unmatched routes.
	r.Get("/*", web.ServeStatic)

	return r
}
