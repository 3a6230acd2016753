// Package protocol defines the canonical message, content, and tool types
// shared by providers, agents, and the answering pipeline.
package protocol

import "strings"

// Protocol identifies a model capability an agent can be asked to perform.
type Protocol string

const (
	// Chat is text-only chat completion, used for reasoning over transcripts.
	Chat Protocol = "chat"
	// Audio is multimodal chat completion with inline audio content.
	Audio Protocol = "audio"
	// Transcription is speech-to-text.
	Transcription Protocol = "transcription"
)

var validProtocols = []Protocol{Chat, Audio, Transcription}

// IsValid reports whether p names a known protocol. Matching is case-sensitive.
func IsValid(p string) bool {
	for _, v := range validProtocols {
		if string(v) == p {
			return true
		}
	}
	return false
}

// ValidProtocols returns all known protocols in declaration order.
func ValidProtocols() []Protocol {
	out := make([]Protocol, len(validProtocols))
	copy(out, validProtocols)
	return out
}

// ProtocolStrings returns the known protocols as a comma-separated list,
// suitable for error messages and flag help.
func ProtocolStrings() string {
	parts := make([]string, len(validProtocols))
	for i, p := range validProtocols {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}

// IsChatCompletion reports whether the protocol is served by the chat
// completions endpoint.
func (p Protocol) IsChatCompletion() bool {
	return p == Chat || p == Audio
}
