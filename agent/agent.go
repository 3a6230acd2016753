// Package agent binds a provider to a model configuration and exposes the
// three calls the audio pipeline makes: text chat, inline-audio chat, and
// transcription.
package agent

import (
	"context"
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/audioqa/agent/providers"
	"github.com/tailored-agentic-units/audioqa/core/config"
	"github.com/tailored-agentic-units/audioqa/core/protocol"
	"github.com/tailored-agentic-units/audioqa/core/response"
)

// Agent sends protocol requests to a configured model.
type Agent interface {
	ID() string
	Name() string
	Provider() providers.Provider
	Model() *config.ModelConfig

	// Chat sends a text-only conversation using the chat protocol model.
	Chat(ctx context.Context, messages []protocol.Message, opts ...map[string]any) (*response.ChatResponse, error)

	// Audio sends a conversation whose user turn carries inline audio, using
	// the audio protocol model.
	Audio(ctx context.Context, messages []protocol.Message, opts ...map[string]any) (*response.ChatResponse, error)

	// Transcribe converts raw audio bytes to text using the transcription
	// protocol model. filename carries the container hint.
	Transcribe(ctx context.Context, filename string, data []byte, opts ...map[string]any) (*response.AudioResponse, error)
}

type agent struct {
	id       string
	name     string
	provider providers.Provider
	model    *config.ModelConfig
}

// New creates an agent from configuration. The provider is constructed
// eagerly; no network calls are made.
func New(cfg *config.AgentConfig) (Agent, error) {
	if cfg.Provider == nil {
		return nil, ErrMissingProvider
	}
	if cfg.Model == nil {
		return nil, ErrMissingModel
	}

	p, err := providers.New(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	return NewWithProvider(cfg.Name, p, cfg.Model), nil
}

// NewWithProvider creates an agent around an existing provider.
func NewWithProvider(name string, p providers.Provider, model *config.ModelConfig) Agent {
	return &agent{
		id:       uuid.Must(uuid.NewV7()).String(),
		name:     name,
		provider: p,
		model:    model,
	}
}

func (a *agent) ID() string                   { return a.id }
func (a *agent) Name() string                 { return a.name }
func (a *agent) Provider() providers.Provider { return a.provider }
func (a *agent) Model() *config.ModelConfig   { return a.model }

func (a *agent) Chat(ctx context.Context, messages []protocol.Message, opts ...map[string]any) (*response.ChatResponse, error) {
	return a.complete(ctx, protocol.Chat, messages, opts)
}

func (a *agent) Audio(ctx context.Context, messages []protocol.Message, opts ...map[string]any) (*response.ChatResponse, error) {
	return a.complete(ctx, protocol.Audio, messages, opts)
}

func (a *agent) Transcribe(ctx context.Context, filename string, data []byte, opts ...map[string]any) (*response.AudioResponse, error) {
	if err := a.enabled(protocol.Transcription); err != nil {
		return nil, err
	}

	return a.provider.Transcribe(ctx, providers.TranscriptionRequest{
		Model:    a.model.ModelFor(protocol.Transcription),
		Filename: filename,
		Data:     data,
		Options:  a.options(protocol.Transcription, opts),
	})
}

func (a *agent) complete(ctx context.Context, p protocol.Protocol, messages []protocol.Message, opts []map[string]any) (*response.ChatResponse, error) {
	if err := a.enabled(p); err != nil {
		return nil, err
	}

	return a.provider.Chat(ctx, providers.ChatRequest{
		Model:    a.model.ModelFor(p),
		Messages: messages,
		Options:  a.options(p, opts),
	})
}

func (a *agent) enabled(p protocol.Protocol) error {
	if !a.model.Supports(p) {
		return fmt.Errorf("%w: %s on %s", ErrProtocolDisabled, p, a.model.Name)
	}
	return nil
}

// options merges configured protocol options with per-call overrides, later
// maps winning.
func (a *agent) options(p protocol.Protocol, overrides []map[string]any) map[string]any {
	merged := a.model.Options(p)
	for _, o := range overrides {
		if len(o) == 0 {
			continue
		}
		if merged == nil {
			merged = make(map[string]any, len(o))
		}
		maps.Copy(merged, o)
	}
	return merged
}
