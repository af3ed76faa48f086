// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/replayed/replayed/internal/config"
	"github.com/replayed/replayed/internal/ingest"
	"github.com/replayed/replayed/internal/session"
	"github.com/replayed/replayed/internal/validation"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	cfg       *config.Config
	registry  *session.Registry
	ingestor  *ingest.Ingestor
	startTime time.Time
}

// NewHandler creates a handler backed by the given session registry.
func NewHandler(cfg *config.Config, registry *session.Registry, ingestor *ingest.Ingestor) *Handler {
	return &Handler{
		cfg:       cfg,
		registry:  registry,
		ingestor:  ingestor,
		startTime: time.Now(),
	}
}

// sessionFromRequest resolves the {sessionID} URL parameter to a live
// session, writing the appropriate error response when it cannot.
func (h *Handler) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	resp := respond(w, r)

	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		resp.BadRequest("Invalid session ID")
		return nil, false
	}

	sess, ok := h.registry.Get(id)
	if !ok {
		resp.NotFound("Session not found or expired")
		return nil, false
	}
	return sess, true
}

// writeFilterError maps filter parsing failures onto API error responses.
func writeFilterError(w http.ResponseWriter, r *http.Request, err error) {
	resp := respond(w, r)
	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.ValidationError("Invalid query parameters", verr.Fields)
		return
	}
	resp.BadRequest(err.Error())
}
