// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/replayed/replayed/internal/database"
	"github.com/replayed/replayed/internal/ingest"
	"github.com/replayed/replayed/internal/logging"
	"github.com/replayed/replayed/internal/session"
)

// importResponse is the payload returned after a successful upload.
type importResponse struct {
	SessionID string          `json:"session_id"`
	ExpiresAt time.Time       `json:"expires_at"`
	Summary   *ingest.Summary `json:"summary"`
}

// sessionResponse describes a live session.
type sessionResponse struct {
	SessionID string          `json:"session_id"`
	CreatedAt time.Time       `json:"created_at"`
	Summary   *ingest.Summary `json:"summary"`
}

// Import handles POST /api/v1/import. It accepts a multipart upload with an
// "archive" field holding the export ZIP, ingests it and creates a session
// backed by a fresh in-memory database.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	resp := respond(w, r)
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Ingest.MaxArchiveBytes)

	file, header, err := r.FormFile("archive")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			resp.Error(http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "Archive exceeds the maximum upload size")
			return
		}
		resp.BadRequest("Missing multipart field 'archive'")
		return
	}
	defer file.Close()

	logger := logging.Ctx(ctx)
	logger.Info().
		Str("filename", header.Filename).
		Int64("size", header.Size).
		Msg("Archive upload received")

	// Multipart parts over the memory threshold land in temp files which
	// implement io.ReaderAt, but small uploads may not, so buffer.
	data, err := io.ReadAll(file)
	if err != nil {
		resp.InternalError(err, "Failed to read uploaded archive")
		return
	}

	result, err := h.ingestor.IngestArchive(ctx, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrNotAnArchive):
			resp.BadRequest("Upload is not a valid ZIP archive")
		case errors.Is(err, ingest.ErrNoRecords):
			resp.Error(http.StatusUnprocessableEntity, ErrCodeUnprocessable, "Archive contains no usable listening history")
		default:
			resp.InternalError(err, "Failed to ingest archive")
		}
		return
	}

	db, err := database.New(&h.cfg.Database)
	if err != nil {
		resp.InternalError(err, "Failed to create session database")
		return
	}

	if err := db.InsertEvents(ctx, result.Events); err != nil {
		db.Close()
		resp.InternalError(err, "Failed to load listening events")
		return
	}

	sess, err := h.registry.Create(db, result.Summary())
	if err != nil {
		db.Close()
		if errors.Is(err, session.ErrTooManySessions) {
			resp.Error(http.StatusConflict, ErrCodeConflict, "Too many live sessions, retry later")
			return
		}
		resp.InternalError(err, "Failed to create session")
		return
	}

	resp.Created(importResponse{
		SessionID: sess.ID.String(),
		ExpiresAt: sess.CreatedAt.Add(h.cfg.Session.TTL),
		Summary:   sess.Summary,
	})
}

// GetSession handles GET /api/v1/sessions/{sessionID}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	respond(w, r).Success(sessionResponse{
		SessionID: sess.ID.String(),
		CreatedAt: sess.CreatedAt,
		Summary:   sess.Summary,
	})
}

// DeleteSession handles DELETE /api/v1/sessions/{sessionID}, discarding the
// session and its in-memory data immediately.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	h.registry.Delete(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}
