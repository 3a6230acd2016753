// Package providers adapts model provider SDKs to a common interface for chat,
// inline-audio chat, and transcription requests.
package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/audioqa/core/config"
	"github.com/tailored-agentic-units/audioqa/core/response"
)

// Provider sends requests to a model service.
type Provider interface {
	Name() string
	BaseURL() string
	Chat(ctx context.Context, req ChatRequest) (*response.ChatResponse, error)
	Transcribe(ctx context.Context, req TranscriptionRequest) (*response.AudioResponse, error)
}

var knownBaseURLs = map[string]string{
	"openai":     "https://api.openai.com/v1",
	"groq":       "https://api.groq.com/openai/v1",
	"openrouter": "https://openrouter.ai/api/v1",
	"ollama":     "http://localhost:11434/v1",
}

// New creates a provider from configuration. Hosted OpenAI-style services use
// the official SDK; "ollama" and "compat" use the community client, which
// tolerates the looser response shapes of self-hosted servers. "compat"
// requires a base URL.
func New(cfg *config.ProviderConfig) (Provider, error) {
	name := strings.ToLower(cfg.Name)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = knownBaseURLs[name]
	}

	httpClient, err := NewHTTPClient(cfg.Timeout.Std(), cfg.Proxy)
	if err != nil {
		return nil, err
	}

	apiKey := cfg.ResolveAPIKey()

	switch name {
	case "openai", "groq", "openrouter":
		return NewOpenAI(name, baseURL, apiKey, httpClient), nil
	case "ollama", "compat":
		if baseURL == "" {
			return nil, fmt.Errorf("%w: %s requires base_url", ErrUnknownProvider, name)
		}
		return NewCompat(name, baseURL, apiKey, httpClient), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Name)
	}
}
