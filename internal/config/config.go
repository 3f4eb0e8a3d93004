// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config assembles a types.Config from defaults, the config file,
// the environment, .env files, and the secrets directory.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-scribe/internal/fetch"
	"github.com/pdiddy/arxiv-scribe/internal/ledger"
	"github.com/pdiddy/arxiv-scribe/internal/search"
	"github.com/pdiddy/arxiv-scribe/internal/secrets"
	"github.com/pdiddy/arxiv-scribe/internal/transform"
	"github.com/pdiddy/arxiv-scribe/pkg/types"
)

// EnvPrefix namespaces environment variables (ARXIV_SCRIBE_TOPIC, ...).
const EnvPrefix = "ARXIV_SCRIBE"

const (
	DefaultOutputDir      = "./arxiv"
	DefaultAnthropicModel = "claude-sonnet-4-5"
	DefaultOllamaModel    = "llama3.1"
	DefaultUserAgent      = "arxiv-scribe/0.1 (+https://github.com/pdiddy/arxiv-scribe)"
)

// ErrMissingTopic is returned when there is nothing to search for and no
// paper URL or query file to process instead.
var ErrMissingTopic = errors.New("no topic given: set topic, paper_url, or query_file")

// SetDefaults registers every key with its default so that environment
// variables are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("topic", "")
	v.SetDefault("paper_url", "")
	v.SetDefault("query_file", "")
	v.SetDefault("secrets_dir", secrets.DefaultDir)

	v.SetDefault("search.api_url", search.DefaultAPIURL)
	v.SetDefault("search.pdf_base", search.DefaultPDFBase)
	v.SetDefault("search.max_results", search.DefaultMaxResults)
	v.SetDefault("search.timeout", fetch.DefaultTimeout)
	v.SetDefault("search.user_agent", DefaultUserAgent)

	v.SetDefault("fetch.timeout", fetch.DefaultTimeout)
	v.SetDefault("fetch.user_agent", DefaultUserAgent)
	v.SetDefault("fetch.max_chars", fetch.DefaultMaxChars)
	v.SetDefault("fetch.extractor", string(types.ExtractorPDF))
	v.SetDefault("fetch.raw_dir", "")

	v.SetDefault("model.provider", string(types.ProviderAnthropic))
	v.SetDefault("model.model", "")
	v.SetDefault("model.api_key", "")
	v.SetDefault("model.base_url", "")
	v.SetDefault("model.max_tokens", transform.DefaultMaxTokens)
	v.SetDefault("model.timeout", time.Duration(0))

	v.SetDefault("output.directory", DefaultOutputDir)
	v.SetDefault("ledger.path", ledger.DefaultPath)
}

// AnthropicKeyEnv is the conventional variable for an Anthropic key. It is
// only consulted when the provider is anthropic.
const AnthropicKeyEnv = "ANTHROPIC_API_KEY"

// BindEnv wires ARXIV_SCRIBE_* variables plus ARXIV_PAPER_URL.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("model.api_key", EnvPrefix+"_MODEL_API_KEY"); err != nil {
		return err
	}
	return v.BindEnv("paper_url", EnvPrefix+"_PAPER_URL", "ARXIV_PAPER_URL")
}

// LoadDotEnv loads .env style files into the process environment. Missing
// files are ignored and existing variables are never overridden.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Load builds the run configuration from v. Keys missing from v take their
// defaults. A model key not set through v comes from the provider's own
// source: ANTHROPIC_API_KEY then .secrets/anthropic-api-key for anthropic,
// .secrets/ollama-api-key for ollama.
func Load(v *viper.Viper) (types.Config, error) {
	SetDefaults(v)
	if err := BindEnv(v); err != nil {
		return types.Config{}, fmt.Errorf("binding environment: %w", err)
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.AI.APIKey == "" && cfg.AI.Provider == types.ProviderAnthropic {
		cfg.AI.APIKey = os.Getenv(AnthropicKeyEnv)
	}
	if cfg.AI.APIKey == "" {
		s, err := secrets.Load(v.GetString("secrets_dir"))
		if err != nil {
			return types.Config{}, err
		}
		if len(s) > 0 {
			slog.Debug("secrets_loaded", "dir", v.GetString("secrets_dir"), "names", secrets.Names(s))
		}
		switch cfg.AI.Provider {
		case types.ProviderAnthropic:
			cfg.AI.APIKey = s[secrets.AnthropicAPIKey]
		case types.ProviderOllama:
			cfg.AI.APIKey = s[secrets.OllamaAPIKey]
		}
	}

	if cfg.AI.Model == "" {
		switch cfg.AI.Provider {
		case types.ProviderOllama:
			cfg.AI.Model = DefaultOllamaModel
		default:
			cfg.AI.Model = DefaultAnthropicModel
		}
	}
	if cfg.AI.Provider == types.ProviderOllama && cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = transform.DefaultOllamaURL
	}
	cfg.Topic = strings.TrimSpace(cfg.Topic)

	return cfg, nil
}

// Validate reports the first setting that would make a run fail before it
// starts.
func Validate(cfg types.Config) error {
	if cfg.Topic == "" && cfg.PaperURL == "" && cfg.QueryFile == "" {
		return ErrMissingTopic
	}

	switch cfg.Fetch.Extractor {
	case "", types.ExtractorPDF, types.ExtractorMarkitdown:
	default:
		return fmt.Errorf("unknown extractor %q (want %q or %q)", cfg.Fetch.Extractor, types.ExtractorPDF, types.ExtractorMarkitdown)
	}

	switch cfg.AI.Provider {
	case types.ProviderAnthropic:
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("%w: set ANTHROPIC_API_KEY or %s/%s", transform.ErrMissingAPIKey, secrets.DefaultDir, secrets.AnthropicAPIKey)
		}
	case types.ProviderOllama:
	default:
		return fmt.Errorf("unknown model provider %q (want %q or %q)", cfg.AI.Provider, types.ProviderAnthropic, types.ProviderOllama)
	}

	if cfg.Output.Directory == "" {
		return errors.New("output directory is empty")
	}
	return nil
}
