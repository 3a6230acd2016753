// Package mock provides a configurable Agent for tests.
package mock

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tailored-agentic-units/audioqa/agent"
	"github.com/tailored-agentic-units/audioqa/agent/providers"
	"github.com/tailored-agentic-units/audioqa/core/config"
	"github.com/tailored-agentic-units/audioqa/core/protocol"
	"github.com/tailored-agentic-units/audioqa/core/response"
)

// MockAgent returns canned responses and records what it was sent.
type MockAgent struct {
	id    string
	name  string
	model *config.ModelConfig

	chatResp       *response.ChatResponse
	chatErr        error
	audioResp      *response.ChatResponse
	audioErr       error
	transcribeResp *response.AudioResponse
	transcribeErr  error

	chatCalls       atomic.Int32
	audioCalls      atomic.Int32
	transcribeCalls atomic.Int32

	mu           sync.Mutex
	lastMessages []protocol.Message
	lastAudio    []byte
	lastFilename string
}

// MockOption configures a MockAgent.
type MockOption func(*MockAgent)

// NewMockAgent creates a mock with the default model configuration and
// empty successful responses.
func NewMockAgent(opts ...MockOption) *MockAgent {
	model := config.DefaultModelConfig()
	m := &MockAgent{
		id:             "mock-agent",
		name:           "mock",
		model:          &model,
		chatResp:       ChatResponse(""),
		audioResp:      ChatResponse(""),
		transcribeResp: &response.AudioResponse{Model: "mock"},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewSimpleChatAgent creates a mock whose chat and audio calls both answer
// with content.
func NewSimpleChatAgent(id, content string) *MockAgent {
	return NewMockAgent(
		WithID(id),
		WithChatResponse(ChatResponse(content), nil),
		WithAudioResponse(ChatResponse(content), nil),
	)
}

// ChatResponse builds a single-choice response with the given content. Pass
// nil for a null content field.
func ChatResponse(content any) *response.ChatResponse {
	return &response.ChatResponse{
		Model: "mock",
		Choices: []response.Choice{{
			Message:      response.ChatMessage{Role: "assistant", Content: content},
			FinishReason: "stop",
		}},
	}
}

func WithID(id string) MockOption {
	return func(m *MockAgent) { m.id = id }
}

func WithName(name string) MockOption {
	return func(m *MockAgent) { m.name = name }
}

func WithModel(model *config.ModelConfig) MockOption {
	return func(m *MockAgent) { m.model = model }
}

func WithChatResponse(resp *response.ChatResponse, err error) MockOption {
	return func(m *MockAgent) {
		m.chatResp = resp
		m.chatErr = err
	}
}

func WithAudioResponse(resp *response.ChatResponse, err error) MockOption {
	return func(m *MockAgent) {
		m.audioResp = resp
		m.audioErr = err
	}
}

// WithTranscription sets the transcript returned by Transcribe.
func WithTranscription(text string) MockOption {
	return func(m *MockAgent) {
		m.transcribeResp = &response.AudioResponse{Text: text, Model: "mock"}
		m.transcribeErr = nil
	}
}

func WithTranscribeError(err error) MockOption {
	return func(m *MockAgent) {
		m.transcribeResp = nil
		m.transcribeErr = err
	}
}

func (m *MockAgent) ID() string                   { return m.id }
func (m *MockAgent) Name() string                 { return m.name }
func (m *MockAgent) Provider() providers.Provider { return nil }
func (m *MockAgent) Model() *config.ModelConfig   { return m.model }

func (m *MockAgent) Chat(ctx context.Context, messages []protocol.Message, opts ...map[string]any) (*response.ChatResponse, error) {
	m.chatCalls.Add(1)
	m.record(messages)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.chatResp, m.chatErr
}

func (m *MockAgent) Audio(ctx context.Context, messages []protocol.Message, opts ...map[string]any) (*response.ChatResponse, error) {
	m.audioCalls.Add(1)
	m.record(messages)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.audioResp, m.audioErr
}

func (m *MockAgent) Transcribe(ctx context.Context, filename string, data []byte, opts ...map[string]any) (*response.AudioResponse, error) {
	m.transcribeCalls.Add(1)

	m.mu.Lock()
	m.lastFilename = filename
	m.lastAudio = data
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.transcribeResp, m.transcribeErr
}

func (m *MockAgent) record(messages []protocol.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastMessages = messages
}

func (m *MockAgent) ChatCalls() int       { return int(m.chatCalls.Load()) }
func (m *MockAgent) AudioCalls() int      { return int(m.audioCalls.Load()) }
func (m *MockAgent) TranscribeCalls() int { return int(m.transcribeCalls.Load()) }

// LastMessages returns the messages of the most recent Chat or Audio call.
func (m *MockAgent) LastMessages() []protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastMessages
}

// LastAudio returns the filename and bytes of the most recent Transcribe call.
func (m *MockAgent) LastAudio() (string, []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFilename, m.lastAudio
}

var _ agent.Agent = (*MockAgent)(nil)
