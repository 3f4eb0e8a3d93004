// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns downloaded document bytes into plain text with
// pluggable backends: an in-process PDF reader and the markitdown
// container image.
package convert

import (
	"context"
	"fmt"

	"github.com/pdiddy/arxiv-scribe/internal/container"
	"github.com/pdiddy/arxiv-scribe/pkg/types"
)

// Extractor pulls text out of a document. Implementations report the page
// count when they know it and 0 otherwise.
type Extractor interface {
	// Name identifies the backend in logs.
	Name() string

	// Extract parses data and returns its text and page count.
	Extract(ctx context.Context, data []byte) (text string, pages int, err error)
}

// New returns the extractor selected by kind. An empty kind selects the
// PDF reader. The markitdown backend needs a working docker or podman.
func New(kind types.ExtractorKind) (Extractor, error) {
	switch kind {
	case "", types.ExtractorPDF:
		return PDFExtractor{}, nil
	case types.ExtractorMarkitdown:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return NewMarkitdownExtractor(rt)
	default:
		return nil, fmt.Errorf("unknown extractor %q (want %q or %q)", kind, types.ExtractorPDF, types.ExtractorMarkitdown)
	}
}
