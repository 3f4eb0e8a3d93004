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

// anthropicAPIURL is the Messages API endpoint. Package-level var for test substitution.
var anthropicAPIURL = "https://api.anthropic.com/v1/messages"

// DefaultMaxTokens bounds the response when the config leaves it unset.
const DefaultMaxTokens = 16000

// AnthropicBackend calls the Anthropic Messages API.
type AnthropicBackend struct {
	APIKey    string
	Model     string
	MaxTokens int
	// BaseURL overrides anthropicAPIURL when set.
	BaseURL string
	Client  *http.Client
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content    []anthropicContent `json:"content"`
	StopReason string             `json:"stop_reason"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Name reports the provider name.
func (a *AnthropicBackend) Name() string { return "anthropic" }

// Generate sends prompt as a single user message and concatenates the text
// blocks of the reply.
func (a *AnthropicBackend) Generate(ctx context.Context, prompt string) (string, error) {
	if a.APIKey == "" {
		return "", ErrMissingAPIKey
	}
	maxTokens := a.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	bodyBytes, err := json.Marshal(anthropicRequest{
		Model:     a.Model,
		MaxTokens: maxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := anthropicAPIURL
	if a.BaseURL != "" {
		endpoint = a.BaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Anthropic API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("Anthropic API returned %d: %s", resp.StatusCode, snippet(body, 512))
	}

	var aResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&aResp); err != nil {
		return "", fmt.Errorf("decoding Anthropic response: %w", err)
	}

	var sb strings.Builder
	for _, block := range aResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in Anthropic API response")
	}
	return sb.String(), nil
}
