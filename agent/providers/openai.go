package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/tailored-agentic-units/audioqa/core/protocol"
	"github.com/tailored-agentic-units/audioqa/core/response"
)

// OpenAI is a provider backed by the official OpenAI SDK. It supports inline
// audio content parts and distinguishes null message content from empty text.
type OpenAI struct {
	name    string
	baseURL string
	client  openai.Client
}

// NewOpenAI creates an SDK-backed provider. SDK retries are disabled; a
// failed call is reported once to the caller.
func NewOpenAI(name, baseURL, apiKey string, httpClient *http.Client) *OpenAI {
	baseURL = strings.TrimSuffix(baseURL, "/") + "/"

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	return &OpenAI{
		name:    name,
		baseURL: baseURL,
		client:  openai.NewClient(opts...),
	}
}

func (p *OpenAI) Name() string    { return p.name }
func (p *OpenAI) BaseURL() string { return p.baseURL }

func (p *OpenAI) Chat(ctx context.Context, req ChatRequest) (*response.ChatResponse, error) {
	msgs, err := openAIMessages(req.Messages)
	if err != nil {
		return nil, &Error{Provider: p.name, Err: err}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: msgs,
	}

	completion, err := p.client.Chat.Completions.New(ctx, params, jsonOptions(req.Options)...)
	if err != nil {
		return nil, p.wrap(err)
	}

	return chatResponse(completion), nil
}

func (p *OpenAI) Transcribe(ctx context.Context, req TranscriptionRequest) (*response.AudioResponse, error) {
	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(req.Data), req.Filename, mimeType(req.Filename)),
		Model: openai.AudioModel(req.Model),
	}
	if lang := stringOption(req.Options, "language"); lang != "" {
		params.Language = openai.String(lang)
	}
	if prompt := stringOption(req.Options, "prompt"); prompt != "" {
		params.Prompt = openai.String(prompt)
	}

	res, err := p.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, p.wrap(err)
	}

	return &response.AudioResponse{
		Text:  res.Text,
		Model: req.Model,
	}, nil
}

func (p *OpenAI) wrap(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &Error{Provider: p.name, StatusCode: apiErr.StatusCode, Err: err}
	}
	return &Error{Provider: p.name, Err: err}
}

func openAIMessages(messages []protocol.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, m := range messages {
		parts := m.Parts()
		if parts == nil {
			return nil, fmt.Errorf("unsupported content type %T for %s message", m.Content, m.Role)
		}

		switch m.Role {
		case protocol.RoleSystem:
			out = append(out, openai.SystemMessage(joinText(parts)))
		case protocol.RoleAssistant:
			out = append(out, openai.AssistantMessage(joinText(parts)))
		case protocol.RoleUser:
			if s, ok := m.Content.(string); ok {
				out = append(out, openai.UserMessage(s))
				continue
			}
			out = append(out, openai.UserMessage(userParts(parts)))
		default:
			return nil, fmt.Errorf("unsupported role %q", m.Role)
		}
	}

	return out, nil
}

func userParts(parts []protocol.ContentPart) []openai.ChatCompletionContentPartUnionParam {
	out := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
	for _, part := range parts {
		switch part.Type {
		case protocol.PartInputAudio:
			if part.InputAudio == nil {
				continue
			}
			out = append(out, openai.InputAudioContentPart(openai.ChatCompletionContentPartInputAudioInputAudioParam{
				Data:   part.InputAudio.Data,
				Format: part.InputAudio.Format,
			}))
		default:
			out = append(out, openai.TextContentPart(part.Text))
		}
	}
	return out
}

func joinText(parts []protocol.ContentPart) string {
	var texts []string
	for _, part := range parts {
		if part.Type == protocol.PartText {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "\n")
}

func chatResponse(c *openai.ChatCompletion) *response.ChatResponse {
	resp := &response.ChatResponse{
		ID:      c.ID,
		Object:  string(c.Object),
		Created: c.Created,
		Model:   c.Model,
		Choices: make([]response.Choice, 0, len(c.Choices)),
	}

	for _, ch := range c.Choices {
		resp.Choices = append(resp.Choices, response.Choice{
			Index: int(ch.Index),
			Message: response.ChatMessage{
				Role:    string(ch.Message.Role),
				Content: messageContent(ch.Message),
			},
			FinishReason: string(ch.FinishReason),
		})
	}

	if c.JSON.Usage.Valid() {
		resp.Usage = &response.TokenUsage{
			PromptTokens:     int(c.Usage.PromptTokens),
			CompletionTokens: int(c.Usage.CompletionTokens),
			TotalTokens:      int(c.Usage.TotalTokens),
		}
	}

	return resp
}

// messageContent recovers the wire value of the content field: nil for null
// or absent, the string for text, and the decoded JSON for anything else.
func messageContent(m openai.ChatCompletionMessage) any {
	if m.JSON.Content.Valid() {
		return m.Content
	}

	raw := m.JSON.Content.Raw()
	if raw == "" || raw == "null" {
		return nil
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

func jsonOptions(opts map[string]any) []option.RequestOption {
	if len(opts) == 0 {
		return nil
	}

	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]option.RequestOption, 0, len(keys))
	for _, k := range keys {
		out = append(out, option.WithJSONSet(k, opts[k]))
	}
	return out
}

func mimeType(filename string) string {
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}
