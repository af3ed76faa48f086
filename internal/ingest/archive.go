// Replayed - Personal Streaming History Analytics
// Copyright 2026 The Replayed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/replayed/replayed

// Package ingest reads a streaming-history export archive (a ZIP of JSON
// files), decodes the records and cleans them into listening events.
//
// The pipeline is a single synchronous pass: every .json entry in the
// archive is decoded with goccy/go-json, each record is normalized by the
// cleaning rules in cleaner.go, and the surviving events are returned along
// with per-file reports. A file that fails to decode is reported and does
// not abort the rest of the archive.
package ingest

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/replayed/replayed/internal/config"
	"github.com/replayed/replayed/internal/logging"
	"github.com/replayed/replayed/internal/metrics"
)

// Sentinel errors surfaced to the upload handler.
var (
	// ErrNotAnArchive indicates the upload is not a readable ZIP file.
	ErrNotAnArchive = errors.New("upload is not a valid zip archive")

	// ErrNoRecords indicates the archive contained no usable listening events.
	ErrNoRecords = errors.New("archive contains no usable streaming-history records")
)

// Ingestor runs the archive-to-events pipeline.
type Ingestor struct {
	cfg *config.IngestConfig
}

// NewIngestor creates an ingestor with the given limits.
func NewIngestor(cfg *config.IngestConfig) *Ingestor {
	return &Ingestor{cfg: cfg}
}

// IngestArchive processes one uploaded archive. The reader must cover the
// whole archive; size is its length in bytes.
//
// It returns ErrNotAnArchive for a malformed ZIP and ErrNoRecords when no
// entry survives cleaning. Individual malformed JSON files inside a valid
// archive are reported in Result.Files, not returned as errors.
func (i *Ingestor) IngestArchive(ctx context.Context, r io.ReaderAt, size int64) (*Result, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnArchive, err)
	}

	result := &Result{
		Stats: IngestStats{StartTime: time.Now()},
	}

	for _, entry := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !isHistoryFile(entry) {
			continue
		}
		i.ingestFile(entry, result)
	}

	result.Stats.EndTime = time.Now()

	metrics.IngestEntries.Add(float64(result.Stats.TotalEntries))
	metrics.IngestEventsImported.Add(float64(result.Stats.Imported))
	metrics.IngestDuration.Observe(result.Stats.Duration().Seconds())

	logger := logging.Ctx(ctx)
	logger.Info().
		Int("files", len(result.Files)).
		Int64("entries", result.Stats.TotalEntries).
		Int64("imported", result.Stats.Imported).
		Int64("skipped", result.Stats.Skipped).
		Int64("errors", result.Stats.Errors).
		Dur("duration", result.Stats.Duration()).
		Msg("Archive ingested")

	if result.Stats.Imported == 0 {
		return nil, ErrNoRecords
	}
	return result, nil
}

// ingestFile decodes one archive entry and appends its events to the result.
// Decode failures are recorded in the file report; the caller continues with
// the next entry.
func (i *Ingestor) ingestFile(entry *zip.File, result *Result) {
	report := FileReport{Name: entry.Name}

	records, err := i.decodeFile(entry)
	if err != nil {
		report.Error = err.Error()
		result.Stats.Errors++
		result.Files = append(result.Files, report)
		logging.Warn().Str("file", entry.Name).Err(err).Msg("Skipping unreadable archive entry")
		return
	}

	report.Entries = int64(len(records))
	result.Stats.TotalEntries += report.Entries

	for idx := range records {
		event, reason := Clean(&records[idx])
		if reason != "" {
			report.Skipped++
			result.Stats.Skipped++
			metrics.IngestEntriesSkipped.WithLabelValues(reason).Inc()
			continue
		}
		if event.HasFlags {
			result.HasSkipFlags = true
		}
		result.Events = append(result.Events, *event)
		report.Imported++
		result.Stats.Imported++
	}

	result.Files = append(result.Files, report)
}

// decodeFile reads a single JSON file from the archive, bounded by the
// configured per-file size limit.
func (i *Ingestor) decodeFile(entry *zip.File) ([]rawRecord, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry: %w", err)
	}
	defer rc.Close()

	limited := io.LimitReader(rc, i.cfg.MaxFileBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read entry: %w", err)
	}
	if int64(len(data)) > i.cfg.MaxFileBytes {
		return nil, fmt.Errorf("entry exceeds limit of %d bytes", i.cfg.MaxFileBytes)
	}

	var records []rawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return records, nil
}

// isHistoryFile reports whether an archive entry looks like a streaming
// history JSON file. Directories, macOS resource forks and non-JSON files
// are ignored.
func isHistoryFile(entry *zip.File) bool {
	if entry.FileInfo().IsDir() {
		return false
	}
	name := entry.Name
	if strings.HasPrefix(name, "__MACOSX/") || strings.HasPrefix(path.Base(name), "._") {
		return false
	}
	return strings.HasSuffix(strings.ToLower(name), ".json")
}
