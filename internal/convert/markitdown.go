// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdiddy/arxiv-scribe/internal/container"
)

const imageMarkitdown = "markitdown:latest"

// MarkitdownExtractor pipes documents through the markitdown container
// image. It depends on a container.Runtime (docker or podman) injected at
// construction time.
type MarkitdownExtractor struct {
	runtime container.Runtime
}

// NewMarkitdownExtractor verifies that the markitdown image exists locally
// before returning.
func NewMarkitdownExtractor(rt container.Runtime) (*MarkitdownExtractor, error) {
	if err := rt.ImageExists(imageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownExtractor{runtime: rt}, nil
}

// Name returns the backend identifier.
func (m *MarkitdownExtractor) Name() string { return "markitdown" }

// Extract runs the container with data on stdin. markitdown does not
// report a page count, so pages is always 0.
func (m *MarkitdownExtractor) Extract(ctx context.Context, data []byte) (string, int, error) {
	var out bytes.Buffer
	if err := m.runtime.Run(ctx, imageMarkitdown, bytes.NewReader(data), &out); err != nil {
		return "", 0, fmt.Errorf("converting with markitdown: %w", err)
	}
	if out.Len() == 0 {
		return "", 0, fmt.Errorf("markitdown produced empty output")
	}
	return out.String(), 0, nil
}
