package response_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/tailored-agentic-units/audioqa/core/response"
)

func TestChatResponse_Unmarshal(t *testing.T) {
	jsonData := `{
		"id": "chatcmpl-123",
		"object": "chat.completion",
		"created": 1677652288,
		"model": "gpt-4o-mini-audio-preview",
		"choices": [{
			"index": 0,
			"message": {
				"role": "assistant",
				"content": "A violin."
			},
			"finish_reason": "stop"
		}],
		"usage": {
			"prompt_tokens": 9,
			"completion_tokens": 3,
			"total_tokens": 12
		}
	}`

	resp, err := response.ParseChat([]byte(jsonData))
	if err != nil {
		t.Fatalf("ParseChat failed: %v", err)
	}

	if resp.ID != "chatcmpl-123" {
		t.Errorf("got ID %q, want %q", resp.ID, "chatcmpl-123")
	}

	if len(resp.Choices) != 1 {
		t.Fatalf("got %d choices, want 1", len(resp.Choices))
	}

	if resp.Content() != "A violin." {
		t.Errorf("got content %q, want %q", resp.Content(), "A violin.")
	}

	if resp.Usage == nil || resp.Usage.TotalTokens != 12 {
		t.Errorf("got usage %+v, want total 12", resp.Usage)
	}
}

func TestParseChat_InvalidJSON(t *testing.T) {
	if _, err := response.ParseChat([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestChatResponse_Text(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		want      string
		malformed bool
	}{
		{
			name: "string content",
			body: `{"model":"m","choices":[{"message":{"role":"assistant","content":"ok"}}]}`,
			want: "ok",
		},
		{
			name: "empty string content is text",
			body: `{"model":"m","choices":[{"message":{"role":"assistant","content":""}}]}`,
			want: "",
		},
		{
			name:      "null content",
			body:      `{"model":"m","choices":[{"message":{"role":"assistant","content":null}}]}`,
			malformed: true,
		},
		{
			name:      "absent content",
			body:      `{"model":"m","choices":[{"message":{"role":"assistant"}}]}`,
			malformed: true,
		},
		{
			name:      "structured content",
			body:      `{"model":"m","choices":[{"message":{"role":"assistant","content":[{"type":"text","text":"x"}]}}]}`,
			malformed: true,
		},
		{
			name:      "no choices",
			body:      `{"model":"m","choices":[]}`,
			malformed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := response.ParseChat([]byte(tt.body))
			if err != nil {
				t.Fatalf("ParseChat failed: %v", err)
			}

			got, err := resp.Text()
			if tt.malformed {
				if !errors.Is(err, response.ErrMalformedResponse) {
					t.Errorf("Text() error = %v, want ErrMalformedResponse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Text() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChatResponse_Coerced(t *testing.T) {
	resp, err := response.ParseChat([]byte(`{"model":"m","choices":[{"message":{"role":"assistant","content":null}}]}`))
	if err != nil {
		t.Fatalf("ParseChat failed: %v", err)
	}

	got, err := resp.Coerced()
	if err != nil {
		t.Fatalf("Coerced() error: %v", err)
	}
	if got != "None" {
		t.Errorf("Coerced() = %q, want %q", got, "None")
	}

	empty := &response.ChatResponse{}
	if _, err := empty.Coerced(); !errors.Is(err, response.ErrMalformedResponse) {
		t.Errorf("Coerced() on empty choices error = %v, want ErrMalformedResponse", err)
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name    string
		content any
		want    string
	}{
		{"nil", nil, "None"},
		{"string", "answer", "answer"},
		{"structured", []any{map[string]any{"type": "text"}}, `[{"type":"text"}]`},
		{"number", 3.5, "3.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := response.Coerce(tt.content); got != tt.want {
				t.Errorf("Coerce(%v) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestAudioResponse_Unmarshal(t *testing.T) {
	jsonData := `{
		"language": "english",
		"duration": 3.2,
		"text": "  Hello from the recording.  ",
		"segments": [{"id": 0, "start": 0.0, "end": 3.2, "text": "Hello from the recording."}]
	}`

	resp, err := response.ParseAudio([]byte(jsonData))
	if err != nil {
		t.Fatalf("ParseAudio failed: %v", err)
	}

	if resp.Content() != "Hello from the recording." {
		t.Errorf("got content %q", resp.Content())
	}

	if resp.Language != "english" {
		t.Errorf("got language %q, want english", resp.Language)
	}

	if len(resp.Segments) != 1 || resp.Segments[0].End != 3.2 {
		t.Errorf("got segments %+v", resp.Segments)
	}
}

func TestAudioResponse_TextOnly(t *testing.T) {
	var resp response.AudioResponse
	if err := json.Unmarshal([]byte(`{"text":"short"}`), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if resp.Content() != "short" {
		t.Errorf("got content %q, want %q", resp.Content(), "short")
	}
	if resp.Segments != nil {
		t.Errorf("segments should be nil, got %v", resp.Segments)
	}
}

func TestParseAudio_InvalidJSON(t *testing.T) {
	if _, err := response.ParseAudio([]byte("{")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
