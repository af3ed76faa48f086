// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

// Package web embeds the dashboard UI so the server ships as a single binary.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed static
var staticFiles embed.FS

var staticFS = func() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}()

var fileServer = http.FileServer(http.FS(staticFS))

// ServeStatic serves the embedded UI. Unknown paths fall back to index.html
// so a reloaded dashboard URL still resolves.
func ServeStatic(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}

	if _, err := fs.Stat(staticFS, name); err != nil {
		r = r.Clone(r.Context())
		r.URL.Path = "/"
	}

	fileServer.ServeHTTP(w, r)
}
