package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/tailored-agentic-units/audioqa/audio"
	"github.com/tailored-agentic-units/audioqa/core/response"
)

// Mode selects how a question is answered.
type Mode string

const (
	// ModeDirect sends the question and inline audio to a multimodal model.
	ModeDirect Mode = "direct"
	// ModeReasoning transcribes the audio and answers from the transcript
	// with a text model.
	ModeReasoning Mode = "reasoning"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeDirect, ModeReasoning:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// MalformedPolicy decides what happens when a model returns no usable text.
type MalformedPolicy string

const (
	// PolicyFail surfaces response.ErrMalformedResponse.
	PolicyFail MalformedPolicy = "fail"
	// PolicyDegrade coerces the content to a string ("None" for null).
	PolicyDegrade MalformedPolicy = "degrade"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (MalformedPolicy, error) {
	switch p := MalformedPolicy(s); p {
	case PolicyFail, PolicyDegrade:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Strategy answers a question about acquired audio. Implementations fill
// Mode, Response, and for the reasoning path Transcript and CacheHit; the
// pipeline completes the rest of the Result.
type Strategy interface {
	Mode() Mode
	Answer(ctx context.Context, question string, payload *audio.Payload) (*Result, error)
}

// Result is the outcome of one Ask call.
type Result struct {
	RequestID  string        `json:"request_id"`
	Mode       Mode          `json:"mode"`
	Reference  string        `json:"reference"`
	Format     string        `json:"format"`
	Answer     string        `json:"answer"`
	Transcript string        `json:"transcript,omitempty"`
	CacheHit   bool          `json:"cache_hit,omitempty"`
	Malformed  bool          `json:"malformed,omitempty"`
	Duration   time.Duration `json:"duration"`

	Response *response.ChatResponse `json:"-"`
}
