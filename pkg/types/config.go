// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no client timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-scribe/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the paper finder.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIURL is the arXiv query endpoint.
	APIURL string `json:"api_url" yaml:"api_url" mapstructure:"api_url"`

	// PDFBase is the prefix document URLs are derived from ({PDFBase}/{id}).
	PDFBase string `json:"pdf_base" yaml:"pdf_base" mapstructure:"pdf_base"`

	// MaxResults is the maximum number of records to return (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ExtractorKind selects how downloaded documents are turned into text.
type ExtractorKind string

const (
	ExtractorPDF        ExtractorKind = "pdf"
	ExtractorMarkitdown ExtractorKind = "markitdown"
)

// FetchConfig holds settings for the document fetcher.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxChars is the truncation bound in characters (default 50000).
	MaxChars int `json:"max_chars" yaml:"max_chars" mapstructure:"max_chars"`

	// Extractor selects the text extraction backend: pdf or markitdown.
	Extractor ExtractorKind `json:"extractor" yaml:"extractor" mapstructure:"extractor"`

	// RawDir, when set, keeps each downloaded PDF as {RawDir}/{id}.pdf.
	RawDir string `json:"raw_dir,omitempty" yaml:"raw_dir,omitempty" mapstructure:"raw_dir"`
}

// Provider identifies the hosted model API used by the transformer.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// AIConfig holds settings for the content transformer.
type AIConfig struct {
	// Provider selects the model API: anthropic or ollama.
	Provider Provider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier (e.g. "claude-sonnet-4-5").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// MaxTokens bounds the length of the model response.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// Timeout bounds the model call. Zero leaves it to the provider.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// OutputConfig holds settings for persistence.
type OutputConfig struct {
	// Directory receives one {id}.md file per paper.
	Directory string `json:"directory" yaml:"directory" mapstructure:"directory"`
}

// LedgerConfig holds settings for the run ledger.
type LedgerConfig struct {
	// Path is the SQLite database file. Empty disables the ledger.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// Config groups every setting for a run. It is built once at startup and
// passed into each component constructor.
type Config struct {
	// Topic is the search string for the finder.
	Topic string `json:"topic" yaml:"topic" mapstructure:"topic"`

	// PaperURL processes a single arXiv paper instead of searching.
	PaperURL string `json:"paper_url,omitempty" yaml:"paper_url,omitempty" mapstructure:"paper_url"`

	// QueryFile processes the records of a saved search instead of searching.
	QueryFile string `json:"query_file,omitempty" yaml:"query_file,omitempty" mapstructure:"query_file"`

	Search SearchConfig `json:"search" yaml:"search" mapstructure:"search"`
	Fetch  FetchConfig  `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	AI     AIConfig     `json:"model" yaml:"model" mapstructure:"model"`
	Output OutputConfig `json:"output" yaml:"output" mapstructure:"output"`
	Ledger LedgerConfig `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
}
