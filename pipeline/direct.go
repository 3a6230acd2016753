package pipeline

import (
	"context"

	"github.com/tailored-agentic-units/audioqa/agent"
	"github.com/tailored-agentic-units/audioqa/audio"
	"github.com/tailored-agentic-units/audioqa/core/protocol"
	"github.com/tailored-agentic-units/audioqa/observability"
)

// DefaultSystemPrompt is the persona sent with direct multimodal requests.
const DefaultSystemPrompt = "You are a helpful assistant specializing in audio analysis."

// DirectPrompt frames the question for the multimodal model.
func DirectPrompt(question string) string {
	return "Answer the following question based on the given audio information:\n\n" + question
}

// Direct answers with a single multimodal round trip carrying the question
// and the base64 audio.
type Direct struct {
	agent        agent.Agent
	systemPrompt string
	observer     observability.Observer
}

// NewDirect creates the direct strategy. An empty systemPrompt uses
// DefaultSystemPrompt.
func NewDirect(a agent.Agent, systemPrompt string, observer observability.Observer) *Direct {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	return &Direct{agent: a, systemPrompt: systemPrompt, observer: observer}
}

func (d *Direct) Mode() Mode { return ModeDirect }

func (d *Direct) Answer(ctx context.Context, question string, payload *audio.Payload) (*Result, error) {
	messages := []protocol.Message{
		protocol.NewMessage(protocol.RoleSystem, d.systemPrompt),
		protocol.NewMessage(protocol.RoleUser, []protocol.ContentPart{
			protocol.TextPart(DirectPrompt(question)),
			protocol.InputAudioPart(payload.Encode(), payload.Format),
		}),
	}

	emit(ctx, d.observer, EventProviderCall, observability.LevelVerbose, "pipeline.Direct", map[string]any{
		"call":   callAudio,
		"agent":  d.agent.Name(),
		"format": payload.Format,
		"bytes":  payload.Size(),
	})

	resp, err := d.agent.Audio(ctx, messages)
	if err != nil {
		return nil, &StageError{Stage: StageAnswer, Err: err}
	}

	return &Result{Mode: ModeDirect, Response: resp}, nil
}
