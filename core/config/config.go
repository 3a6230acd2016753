// Package config defines provider, model, and agent configuration shared by
// the agent and pipeline packages. Every section follows the same shape: a
// DefaultX constructor, and a Merge method that applies non-zero values.
package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/audioqa/core/protocol"
)

const (
	defaultProvider = "openai"
	defaultTimeout  = 120 * time.Second

	DefaultAudioModel         = "gpt-4o-mini-audio-preview"
	DefaultChatModel          = "o3-mini"
	DefaultTranscriptionModel = "whisper-1"
)

// Duration is a time.Duration that reads from "30s"-style strings in JSON and YAML.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	return d.parse(s)
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.parse(value.Value)
}

func (d *Duration) parse(s string) error {
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// ProviderConfig describes how to reach a model provider.
type ProviderConfig struct {
	Name    string   `json:"name" yaml:"name"`
	BaseURL string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	APIKey  string   `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Proxy   string   `json:"proxy,omitempty" yaml:"proxy,omitempty"` // SOCKS5 host:port
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// DefaultProviderConfig returns the OpenAI provider with a bounded timeout.
// BaseURL is left empty so the provider's own endpoint applies.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		Name:    defaultProvider,
		Timeout: Duration(defaultTimeout),
	}
}

// Merge applies non-zero values from source into c.
func (c *ProviderConfig) Merge(source *ProviderConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
	if source.Proxy != "" {
		c.Proxy = source.Proxy
	}
	if source.Timeout > 0 {
		c.Timeout = source.Timeout
	}
}

// ResolveAPIKey returns the configured key, falling back to the
// <NAME>_API_KEY environment variable and then OPENAI_API_KEY.
func (c *ProviderConfig) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if c.Name != "" {
		env := strings.ToUpper(strings.ReplaceAll(c.Name, "-", "_")) + "_API_KEY"
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return os.Getenv("OPENAI_API_KEY")
}

// ModelConfig names the default model and per-protocol capabilities. Each
// capability maps option names to values; the "model" option overrides Name
// for that protocol, and the remaining options are sent with the request.
type ModelConfig struct {
	Name         string                    `json:"name" yaml:"name"`
	Capabilities map[string]map[string]any `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
}

// DefaultModelConfig returns the model split used by the audio toolkit:
// a multimodal audio model, a text reasoning model, and whisper.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Name: DefaultAudioModel,
		Capabilities: map[string]map[string]any{
			string(protocol.Audio):         {"model": DefaultAudioModel},
			string(protocol.Chat):          {"model": DefaultChatModel},
			string(protocol.Transcription): {"model": DefaultTranscriptionModel},
		},
	}
}

// Merge applies non-zero values from source into c. Capabilities merge per
// protocol: a protocol present in source replaces the one in c.
func (c *ModelConfig) Merge(source *ModelConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}
	if len(source.Capabilities) > 0 {
		if c.Capabilities == nil {
			c.Capabilities = make(map[string]map[string]any, len(source.Capabilities))
		}
		for k, v := range source.Capabilities {
			c.Capabilities[k] = maps.Clone(v)
		}
	}
}

// Supports reports whether the model is configured for the protocol.
func (c *ModelConfig) Supports(p protocol.Protocol) bool {
	_, ok := c.Capabilities[string(p)]
	return ok
}

// ModelFor returns the model name used for the protocol.
func (c *ModelConfig) ModelFor(p protocol.Protocol) string {
	if opts, ok := c.Capabilities[string(p)]; ok {
		if name, ok := opts["model"].(string); ok && name != "" {
			return name
		}
	}
	return c.Name
}

// Options returns the request options configured for the protocol, without
// the "model" key. The returned map is a copy.
func (c *ModelConfig) Options(p protocol.Protocol) map[string]any {
	opts := maps.Clone(c.Capabilities[string(p)])
	delete(opts, "model")
	return opts
}

// AgentConfig bundles a provider and a model.
type AgentConfig struct {
	Name     string          `json:"name,omitempty" yaml:"name,omitempty"`
	Provider *ProviderConfig `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model    *ModelConfig    `json:"model,omitempty" yaml:"model,omitempty"`
}

// DefaultAgentConfig returns an OpenAI agent with the default model split.
func DefaultAgentConfig() AgentConfig {
	provider := DefaultProviderConfig()
	model := DefaultModelConfig()
	return AgentConfig{
		Name:     "audioqa",
		Provider: &provider,
		Model:    &model,
	}
}

// Merge applies non-zero values from source into c.
func (c *AgentConfig) Merge(source *AgentConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}
	if source.Provider != nil {
		if c.Provider == nil {
			c.Provider = &ProviderConfig{}
		}
		c.Provider.Merge(source.Provider)
	}
	if source.Model != nil {
		if c.Model == nil {
			c.Model = &ModelConfig{}
		}
		c.Model.Merge(source.Model)
	}
}
