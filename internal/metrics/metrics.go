// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

// Package metrics defines the Prometheus instrumentation for Replayed:
// ingest throughput, analytics query latency, HTTP traffic and live
// session counts. All metrics are registered via promauto and exposed
// on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingest metrics
	IngestEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "replayed_ingest_entries_total",
			Help: "Total number of JSON entries read from uploaded archives",
		},
	)

	IngestEventsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "replayed_ingest_events_imported_total",
			Help: "Total number of entries cleaned into listening events",
		},
	)

	IngestEntriesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replayed_ingest_entries_skipped_total",
			Help: "Total number of entries dropped by cleaning rules",
		},
		[]string{"reason"},
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "replayed_ingest_duration_seconds",
			Help:    "Duration of archive ingest runs in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Analytics query metrics
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "replayed_query_duration_seconds",
			Help:    "Duration of DuckDB analytics queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replayed_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"query"},
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replayed_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "replayed_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Session metrics
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "replayed_sessions_active",
			Help: "Current number of live dashboard sessions",
		},
	)

	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "replayed_sessions_created_total",
			Help: "Total number of dashboard sessions created",
		},
	)

	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "replayed_sessions_expired_total",
			Help: "Total number of dashboard sessions reaped by TTL expiry",
		},
	)
)
