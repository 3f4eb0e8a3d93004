// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform sends extracted paper text to a hosted language model
// and returns the restructured Markdown it produces.
package transform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pdiddy/arxiv-scribe/pkg/types"
)

// ErrMissingAPIKey is returned when a provider that needs a key has none.
var ErrMissingAPIKey = errors.New("model API key is not set")

// Backend abstracts the model API so tests can supply a mock. Each
// implementation makes exactly one request per call.
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Transformer renders the instruction prompt for a paper and calls the
// backend once. The response is accepted as-is; its structure is not
// checked.
type Transformer struct {
	backend Backend
	logger  *slog.Logger
}

// New returns a Transformer that calls backend.
func New(backend Backend, logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{backend: backend, logger: logger}
}

// Transform restructures text extracted from record's document.
func (t *Transformer) Transform(ctx context.Context, record types.PaperRecord, content types.ExtractedContent) types.TransformResult {
	prompt, err := renderPrompt(record, content)
	if err != nil {
		return types.TransformResult{Err: fmt.Errorf("rendering prompt: %w", err)}
	}

	start := time.Now()
	text, err := t.backend.Generate(ctx, prompt)
	if err != nil {
		return types.TransformResult{Err: fmt.Errorf("calling %s: %w", t.backend.Name(), err)}
	}
	t.logger.Debug("model_call_finished",
		"paper_id", record.ID,
		"backend", t.backend.Name(),
		"prompt_chars", len(prompt),
		"output_chars", len(text),
		"elapsed", time.Since(start),
	)

	return types.TransformResult{
		Document: types.TransformedDocument{PaperID: record.ID, Text: text},
	}
}

// NewBackend builds the backend selected by cfg.Provider.
func NewBackend(cfg types.AIConfig) (Backend, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case "", types.ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return &AnthropicBackend{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			BaseURL:   cfg.BaseURL,
			Client:    client,
		}, nil
	case types.ProviderOllama:
		return &OllamaBackend{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
			Client:  client,
		}, nil
	default:
		return nil, fmt.Errorf("unknown model provider %q (want %q or %q)", cfg.Provider, types.ProviderAnthropic, types.ProviderOllama)
	}
}

// snippet returns at most n bytes of b for error messages.
func snippet(b []byte, n int) string {
	b = bytes.TrimSpace(b)
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
