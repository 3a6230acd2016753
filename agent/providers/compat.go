package providers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/tailored-agentic-units/audioqa/core/response"
)

// Compat is a provider for OpenAI-compatible servers, backed by the community
// go-openai client. It cannot send inline audio, and it reports null message
// content as an empty string.
type Compat struct {
	name    string
	baseURL string
	client  *goopenai.Client
}

// NewCompat creates a provider for an OpenAI-compatible endpoint.
func NewCompat(name, baseURL, apiKey string, httpClient *http.Client) *Compat {
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}

	return &Compat{
		name:    name,
		baseURL: baseURL,
		client:  goopenai.NewClientWithConfig(cfg),
	}
}

func (p *Compat) Name() string    { return p.name }
func (p *Compat) BaseURL() string { return p.baseURL }

func (p *Compat) Chat(ctx context.Context, req ChatRequest) (*response.ChatResponse, error) {
	msgs := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.HasAudio() {
			return nil, &Error{
				Provider: p.name,
				Err:      fmt.Errorf("%w: inline audio content", ErrUnsupported),
			}
		}
		parts := m.Parts()
		if parts == nil {
			return nil, &Error{Provider: p.name, Err: fmt.Errorf("unsupported content type %T", m.Content)}
		}
		msgs = append(msgs, goopenai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: joinText(parts),
		})
	}

	creq := goopenai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: msgs,
	}
	if v, ok := floatOption(req.Options, "temperature"); ok {
		creq.Temperature = float32(v)
	}
	if v, ok := floatOption(req.Options, "max_completion_tokens"); ok {
		creq.MaxCompletionTokens = int(v)
	}

	resp, err := p.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return nil, p.wrap(err)
	}

	out := &response.ChatResponse{
		ID:      resp.ID,
		Object:  resp.Object,
		Created: resp.Created,
		Model:   resp.Model,
		Choices: make([]response.Choice, 0, len(resp.Choices)),
		Usage: &response.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	for _, ch := range resp.Choices {
		out.Choices = append(out.Choices, response.Choice{
			Index: ch.Index,
			Message: response.ChatMessage{
				Role: ch.Message.Role,
				// go-openai decodes null content as "", so this is never nil.
				Content: ch.Message.Content,
			},
			FinishReason: string(ch.FinishReason),
		})
	}

	return out, nil
}

func (p *Compat) Transcribe(ctx context.Context, req TranscriptionRequest) (*response.AudioResponse, error) {
	areq := goopenai.AudioRequest{
		Model:    req.Model,
		FilePath: req.Filename,
		Reader:   bytes.NewReader(req.Data),
		Language: stringOption(req.Options, "language"),
		Prompt:   stringOption(req.Options, "prompt"),
	}

	resp, err := p.client.CreateTranscription(ctx, areq)
	if err != nil {
		return nil, p.wrap(err)
	}

	out := &response.AudioResponse{
		Language: resp.Language,
		Duration: resp.Duration,
		Text:     resp.Text,
		Model:    req.Model,
	}
	for _, s := range resp.Segments {
		out.Segments = append(out.Segments, response.AudioSegment{
			ID:    s.ID,
			Start: s.Start,
			End:   s.End,
			Text:  s.Text,
		})
	}

	return out, nil
}

func (p *Compat) wrap(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Provider: p.name, StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{Provider: p.name, StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &Error{Provider: p.name, Err: err}
}

var (
	_ Provider = (*OpenAI)(nil)
	_ Provider = (*Compat)(nil)
)
