// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultOllamaURL is where a local Ollama server listens.
const DefaultOllamaURL = "http://localhost:11434"

// OllamaBackend calls a local or remote Ollama server's generate endpoint.
type OllamaBackend struct {
	BaseURL string
	Model   string
	// APIKey is sent as a bearer token when set, for servers behind an
	// authenticating proxy. A local server needs none.
	APIKey string
	Client *http.Client
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Name reports the provider name.
func (o *OllamaBackend) Name() string { return "ollama" }

// Generate posts prompt to /api/generate with streaming disabled.
func (o *OllamaBackend) Generate(ctx context.Context, prompt string) (string, error) {
	base := strings.TrimRight(o.BaseURL, "/")
	if base == "" {
		base = DefaultOllamaURL
	}

	bodyBytes, err := json.Marshal(ollamaGenerateRequest{Model: o.Model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/api/generate", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.APIKey)
	}

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("Ollama returned %d: %s", resp.StatusCode, snippet(body, 512))
	}

	var oResp ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return "", fmt.Errorf("decoding Ollama response: %w", err)
	}
	if oResp.Error != "" {
		return "", fmt.Errorf("Ollama error: %s", oResp.Error)
	}
	if oResp.Response == "" {
		return "", fmt.Errorf("Ollama returned an empty response")
	}
	return oResp.Response, nil
}
