// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

// Package supervisor runs the long-lived parts of the server (HTTP listener,
// session janitor) under a suture supervision tree so a crashed component is
// restarted with backoff instead of taking the process down.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Tree is the root supervisor for the Replayed server.
type Tree struct {
	root *suture.Supervisor
}

// NewTree creates the supervision tree. Supervisor events are logged through
// the given slog.Logger, which the logging package bridges to zerolog.
func NewTree(logger *slog.Logger, shutdownTimeout time.Duration) *Tree {
	hook := (&sutureslog.Handler{Logger: logger}).MustHook()

	root := suture.New("replayed", suture.Spec{
		EventHook:        hook,
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		Timeout:          shutdownTimeout,
	})
	return &Tree{root: root}
}

// Add registers a service with the tree.
func (t *Tree) Add(svc suture.Service) suture.ServiceToken {
	return t.root.Add(svc)
}

// Serve runs the tree until the context is canceled.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}
