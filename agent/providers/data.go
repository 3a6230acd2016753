package providers

import "github.com/tailored-agentic-units/audioqa/core/protocol"

// ChatRequest contains the data needed for a chat or audio completion.
type ChatRequest struct {
	Model    string
	Messages []protocol.Message
	Options  map[string]any
}

// TranscriptionRequest contains the data needed for a transcription. Filename
// is sent as the multipart file name and lets the service infer the container.
// Options recognizes "language" and "prompt".
type TranscriptionRequest struct {
	Model    string
	Filename string
	Data     []byte
	Options  map[string]any
}

func stringOption(opts map[string]any, key string) string {
	s, _ := opts[key].(string)
	return s
}

func floatOption(opts map[string]any, key string) (float64, bool) {
	switch v := opts[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
