// Package response holds the provider-neutral shapes of chat completion and
// transcription results, along with content extraction helpers.
package response

import (
	"encoding/json"
	"fmt"
)

// TokenUsage reports token accounting when the provider returns it.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatMessage is the message of a completion choice. Content is nil when the
// provider returned null or omitted it, a string for text, and any other
// decoded JSON value for structured content.
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// Choice is a single completion alternative.
type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

// ChatResponse represents the response from a chat or audio protocol request.
type ChatResponse struct {
	ID      string      `json:"id,omitempty"`
	Object  string      `json:"object,omitempty"`
	Created int64       `json:"created,omitempty"`
	Model   string      `json:"model"`
	Choices []Choice    `json:"choices"`
	Usage   *TokenUsage `json:"usage,omitempty"`
}

// ParseChat parses a chat completion response from JSON bytes.
func ParseChat(body []byte) (*ChatResponse, error) {
	var response ChatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse chat response: %w", err)
	}
	return &response, nil
}

// Content returns the first choice's text, or an empty string when there are
// no choices or the content is not text.
func (r *ChatResponse) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	s, _ := r.Choices[0].Message.Content.(string)
	return s
}

// Text returns the first choice's text content. It fails with
// ErrMalformedResponse when there are no choices or the content is null or
// structured.
func (r *ChatResponse) Text() (string, error) {
	if len(r.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	switch c := r.Choices[0].Message.Content.(type) {
	case string:
		return c, nil
	case nil:
		return "", fmt.Errorf("%w: null content", ErrMalformedResponse)
	default:
		return "", fmt.Errorf("%w: non-text content (%T)", ErrMalformedResponse, c)
	}
}

// Coerced returns the first choice's content coerced to a string with Coerce.
// A response without choices still fails with ErrMalformedResponse since
// there is nothing to coerce.
func (r *ChatResponse) Coerced() (string, error) {
	if len(r.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	return Coerce(r.Choices[0].Message.Content), nil
}

// Coerce renders completion content as a string: text is returned as-is, a
// missing value becomes "None", and structured values are rendered as JSON.
func Coerce(content any) string {
	switch c := content.(type) {
	case nil:
		return "None"
	case string:
		return c
	default:
		if b, err := json.Marshal(c); err == nil {
			return string(b)
		}
		return fmt.Sprint(c)
	}
}
