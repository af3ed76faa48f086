// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/replayed/replayed/internal/config"
)

func testIngestConfig() *config.IngestConfig {
	return &config.IngestConfig{
		MaxArchiveBytes:   64 << 20,
		MaxFileBytes:      16 << 20,
		DefaultMinSeconds: 20,
	}
}

// buildArchive assembles an in-memory ZIP from name -> content pairs.
func buildArchive(t *testing.T, files map[string]string) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

const extendedHistory = `[
	{"ts":"2024-03-15T08:30:00Z","master_metadata_track_name":"Karma Police","master_metadata_album_artist_name":"Radiohead","master_metadata_album_album_name":"OK Computer","ms_played":215000,"skipped":false},
	{"ts":"2024-03-15T09:00:00Z","master_metadata_track_name":"Weird Fishes","master_metadata_album_artist_name":"Radiohead","master_metadata_album_album_name":"In Rainbows","ms_played":312000,"skipped":true},
	{"ts":"2024-03-15T10:00:00Z","episode_name":"Episode 1","episode_show_name":"Some Podcast","ms_played":1800000}
]`

const legacyHistory = `[
	{"endTime":"2021-11-02 21:14","artistName":"Daft Punk","trackName":"Around the World","msPlayed":182000},
	{"endTime":"2021-11-02 21:18","artistName":"Daft Punk","trackName":"One More Time","msPlayed":199000}
]`

func TestIngestArchive(t *testing.T) {
	r := buildArchive(t, map[string]string{
		"MyData/Streaming_History_Audio_2024_1.json": extendedHistory,
		"MyData/StreamingHistory0.json":              legacyHistory,
		"MyData/ReadMeFirst.pdf":                     "not json",
		"__MACOSX/._Streaming_History.json":          "resource fork",
	})

	ing := NewIngestor(testIngestConfig())
	result, err := ing.IngestArchive(context.Background(), r, r.Size())
	if err != nil {
		t.Fatalf("IngestArchive() error = %v", err)
	}

	if result.Stats.TotalEntries != 5 {
		t.Errorf("TotalEntries = %d, want 5", result.Stats.TotalEntries)
	}
	if result.Stats.Imported != 4 {
		t.Errorf("Imported = %d, want 4", result.Stats.Imported)
	}
	if result.Stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1 (podcast row)", result.Stats.Skipped)
	}
	if len(result.Events) != 4 {
		t.Errorf("len(Events) = %d, want 4", len(result.Events))
	}
	if len(result.Files) != 2 {
		t.Errorf("len(Files) = %d, want 2 (pdf and resource fork ignored)", len(result.Files))
	}
	if !result.HasSkipFlags {
		t.Error("HasSkipFlags = false, want true (extended file carries skipped)")
	}
}

func TestIngestArchiveMalformedFileContinues(t *testing.T) {
	r := buildArchive(t, map[string]string{
		"Streaming_History_Audio_2024.json": extendedHistory,
		"broken.json":                       "{this is not json",
	})

	ing := NewIngestor(testIngestConfig())
	result, err := ing.IngestArchive(context.Background(), r, r.Size())
	if err != nil {
		t.Fatalf("IngestArchive() error = %v, want nil (bad file should not abort)", err)
	}

	if result.Stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", result.Stats.Errors)
	}
	if result.Stats.Imported != 2 {
		t.Errorf("Imported = %d, want 2", result.Stats.Imported)
	}

	var reported bool
	for _, f := range result.Files {
		if f.Name == "broken.json" && f.Error != "" {
			reported = true
		}
	}
	if !reported {
		t.Error("broken.json missing from file reports or has no error")
	}
}

func TestIngestArchiveNotAZip(t *testing.T) {
	r := bytes.NewReader([]byte("definitely not a zip file"))

	ing := NewIngestor(testIngestConfig())
	_, err := ing.IngestArchive(context.Background(), r, r.Size())
	if !errors.Is(err, ErrNotAnArchive) {
		t.Errorf("IngestArchive() error = %v, want ErrNotAnArchive", err)
	}
}

func TestIngestArchiveNoRecords(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"empty archive", map[string]string{}},
		{"no json files", map[string]string{"readme.txt": "hello"}},
		{"only podcast rows", map[string]string{
			"history.json": `[{"ts":"2024-01-01T10:00:00Z","episode_name":"Ep","episode_show_name":"Show"}]`,
		}},
		{"empty json array", map[string]string{"history.json": `[]`}},
	}

	ing := NewIngestor(testIngestConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := buildArchive(t, tt.files)
			_, err := ing.IngestArchive(context.Background(), r, r.Size())
			if !errors.Is(err, ErrNoRecords) {
				t.Errorf("IngestArchive() error = %v, want ErrNoRecords", err)
			}
		})
	}
}

func TestIngestArchiveFileSizeLimit(t *testing.T) {
	cfg := testIngestConfig()
	cfg.MaxFileBytes = 64 // far below the fixture size

	r := buildArchive(t, map[string]string{
		"history.json": extendedHistory,
	})

	ing := NewIngestor(cfg)
	_, err := ing.IngestArchive(context.Background(), r, r.Size())
	if !errors.Is(err, ErrNoRecords) {
		t.Fatalf("IngestArchive() error = %v, want ErrNoRecords (oversized file rejected)", err)
	}
}

func TestIngestArchiveCanceledContext(t *testing.T) {
	r := buildArchive(t, map[string]string{
		"history.json": extendedHistory,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ing := NewIngestor(testIngestConfig())
	if _, err := ing.IngestArchive(ctx, r, r.Size()); !errors.Is(err, context.Canceled) {
		t.Errorf("IngestArchive() error = %v, want context.Canceled", err)
	}
}

func TestResultSummary(t *testing.T) {
	r := buildArchive(t, map[string]string{
		"extended.json": extendedHistory,
		"legacy.json":   legacyHistory,
	})

	ing := NewIngestor(testIngestConfig())
	result, err := ing.IngestArchive(context.Background(), r, r.Size())
	if err != nil {
		t.Fatalf("IngestArchive() error = %v", err)
	}

	s := result.Summary()
	if s.Imported != 4 {
		t.Errorf("Summary.Imported = %d, want 4", s.Imported)
	}
	if s.EarliestPlay == nil || s.LatestPlay == nil {
		t.Fatal("Summary play range not set")
	}
	if got := s.EarliestPlay.Year(); got != 2021 {
		t.Errorf("EarliestPlay year = %d, want 2021", got)
	}
	if got := s.LatestPlay.Year(); got != 2024 {
		t.Errorf("LatestPlay year = %d, want 2024", got)
	}
}
