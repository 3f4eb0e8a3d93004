// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-scribe/pkg/types"
)

type mockBackend struct {
	out     string
	err     error
	prompts []string
}

func (m *mockBackend) Name() string { return "mock" }

func (m *mockBackend) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.out, m.err
}

var testRecord = types.PaperRecord{
	ID:    "2401.12345",
	Title: "Knowledge Graphs for LLM Reasoning",
}

func TestRenderPrompt(t *testing.T) {
	p, err := renderPrompt(testRecord, types.ExtractedContent{Text: "1 Introduction\nGraphs are useful."})
	require.NoError(t, err)

	assert.Contains(t, p, "Paper: Knowledge Graphs for LLM Reasoning")
	assert.Contains(t, p, "arXiv ID: 2401.12345")
	assert.Contains(t, p, "Do not summarize")
	assert.Contains(t, p, "Markdown tables")
	assert.Contains(t, p, "citation")
	assert.True(t, strings.HasSuffix(p, "1 Introduction\nGraphs are useful.\n"))
	assert.NotContains(t, p, "cut off")
}

func TestRenderPromptTruncatedAndUntitled(t *testing.T) {
	p, err := renderPrompt(types.PaperRecord{ID: "2401.00001"}, types.ExtractedContent{Text: "x", Truncated: true})
	require.NoError(t, err)

	assert.Contains(t, p, "Paper: 2401.00001")
	assert.Contains(t, p, "cut off at a size limit")
}

func TestTransformAcceptsOutputAsIs(t *testing.T) {
	backend := &mockBackend{out: "not really markdown"}
	tr := New(backend, nil)

	res := tr.Transform(context.Background(), testRecord, types.ExtractedContent{Text: "body"})
	require.False(t, res.Failed())
	assert.Equal(t, "2401.12345", res.Document.PaperID)
	assert.Equal(t, "not really markdown", res.Document.Text)
	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "body")
}

func TestTransformBackendError(t *testing.T) {
	boom := errors.New("quota exceeded")
	tr := New(&mockBackend{err: boom}, nil)

	res := tr.Transform(context.Background(), testRecord, types.ExtractedContent{Text: "body"})
	require.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, boom)
	assert.Contains(t, res.Err.Error(), "calling mock")
}

func TestAnthropicBackend(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"# Title\n"},{"type":"tool_use"},{"type":"text","text":"## Intro\n"}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	orig := anthropicAPIURL
	anthropicAPIURL = srv.URL
	defer func() { anthropicAPIURL = orig }()

	b := &AnthropicBackend{APIKey: "test-key", Model: "claude-test"}
	out, err := b.Generate(context.Background(), "convert this")
	require.NoError(t, err)

	assert.Equal(t, "# Title\n## Intro\n", out)
	assert.Equal(t, "claude-test", got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "convert this", got.Messages[0].Content)
}

func TestAnthropicBackendErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"overloaded"}`, "returned 500"},
		{"bad json", http.StatusOK, `{not json`, "decoding Anthropic response"},
		{"no text blocks", http.StatusOK, `{"content":[]}`, "no text content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			b := &AnthropicBackend{APIKey: "k", Model: "m", BaseURL: srv.URL}
			_, err := b.Generate(context.Background(), "p")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAnthropicBackendMissingKey(t *testing.T) {
	b := &AnthropicBackend{Model: "m"}
	_, err := b.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestOllamaBackend(t *testing.T) {
	var got ollamaGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"llama3","response":"# Paper\n","done":true}`))
	}))
	defer srv.Close()

	b := &OllamaBackend{BaseURL: srv.URL + "/", Model: "llama3"}
	out, err := b.Generate(context.Background(), "convert this")
	require.NoError(t, err)

	assert.Equal(t, "# Paper\n", out)
	assert.Equal(t, "llama3", got.Model)
	assert.Equal(t, "convert this", got.Prompt)
	assert.False(t, got.Stream)
}

func TestOllamaBackendSendsBearerKey(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"response":"# Paper\n","done":true}`))
	}))
	defer srv.Close()

	b, err := NewBackend(types.AIConfig{Provider: types.ProviderOllama, Model: "llama3", APIKey: "ol_secret", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = b.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "Bearer ol_secret", auth)
}

func TestOllamaBackendErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"not found", http.StatusNotFound, `model not found`, "returned 404"},
		{"error field", http.StatusOK, `{"error":"out of memory"}`, "out of memory"},
		{"empty response", http.StatusOK, `{"response":"","done":true}`, "empty response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			b := &OllamaBackend{BaseURL: srv.URL, Model: "m"}
			_, err := b.Generate(context.Background(), "p")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewBackend(t *testing.T) {
	b, err := NewBackend(types.AIConfig{Provider: types.ProviderAnthropic, APIKey: "k", Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", b.Name())

	b, err = NewBackend(types.AIConfig{Provider: types.ProviderOllama, Model: "llama3"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", b.Name())

	_, err = NewBackend(types.AIConfig{Provider: types.ProviderAnthropic})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewBackend(types.AIConfig{Provider: "openai"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown model provider "openai"`)
}
