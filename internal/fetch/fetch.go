// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads a paper's document and extracts its text.
// Failures are reported in the returned result, never as a panic or a
// second return value, so the caller can skip the paper and continue.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/arxiv-scribe/internal/convert"
	"github.com/pdiddy/arxiv-scribe/internal/httputil"
	"github.com/pdiddy/arxiv-scribe/internal/store"
	"github.com/pdiddy/arxiv-scribe/pkg/types"
)

const (
	// DefaultTimeout bounds a single document download.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxChars is the truncation bound in characters.
	DefaultMaxChars = 50000
)

// TruncationSentinel is appended to text cut at the size bound.
const TruncationSentinel = "\n\n[... content truncated ...]"

// Fetcher downloads documents and extracts their text.
type Fetcher struct {
	client    *http.Client
	extractor convert.Extractor
	cfg       types.FetchConfig
	logger    *slog.Logger
}

// New returns a Fetcher. Zero timeout and max chars fall back to the
// defaults.
func New(cfg types.FetchConfig, ex convert.Extractor, logger *slog.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = DefaultMaxChars
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		extractor: ex,
		cfg:       cfg,
		logger:    logger,
	}
}

// Fetch downloads url, extracts its text, and truncates it to the
// configured bound. id names the raw copy when a raw directory is set.
func (f *Fetcher) Fetch(ctx context.Context, url, id string) types.FetchResult {
	data, err := httputil.Get(ctx, f.client, httputil.Request{
		URL:       url,
		UserAgent: f.cfg.UserAgent,
		Accept:    "application/pdf",
	})
	if err != nil {
		return types.FetchResult{Err: fmt.Errorf("downloading %s: %w", url, err)}
	}

	if f.cfg.RawDir != "" {
		path := filepath.Join(f.cfg.RawDir, store.SanitizeID(id)+".pdf")
		if err := writeFileAtomic(path, data); err != nil {
			f.logger.Warn("raw_document_not_kept", "paper_id", id, "path", path, "error", err)
		}
	}

	text, pages, err := f.extractor.Extract(ctx, data)
	if err != nil {
		return types.FetchResult{Err: fmt.Errorf("extracting text with %s: %w", f.extractor.Name(), err)}
	}

	text, truncated := Truncate(text, f.cfg.MaxChars)
	f.logger.Debug("document_fetched",
		"paper_id", id,
		"bytes", len(data),
		"pages", pages,
		"truncated", truncated,
	)

	return types.FetchResult{
		Content: types.ExtractedContent{
			Text:      text,
			Pages:     pages,
			Truncated: truncated,
		},
	}
}

// Truncate cuts text to max characters and appends TruncationSentinel when
// it is longer. Shorter text is returned unchanged.
func Truncate(text string, max int) (string, bool) {
	if utf8.RuneCountInString(text) <= max {
		return text, false
	}
	n := 0
	for i := range text {
		if n == max {
			return text[:i] + TruncationSentinel, true
		}
		n++
	}
	return text, false
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
