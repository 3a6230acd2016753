package protocol

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Content part types for multimodal user turns.
const (
	PartText       = "text"
	PartInputAudio = "input_audio"
)

// InputAudio is an inline audio payload: base64 data plus a container format
// hint such as "wav" or "mp3".
type InputAudio struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

// ContentPart is one element of a multimodal message. Exactly one of Text or
// InputAudio is meaningful, selected by Type.
type ContentPart struct {
	Type       string      `json:"type"`
	Text       string      `json:"text,omitempty"`
	InputAudio *InputAudio `json:"input_audio,omitempty"`
}

// TextPart creates a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// InputAudioPart creates an inline audio content part.
func InputAudioPart(data, format string) ContentPart {
	return ContentPart{
		Type:       PartInputAudio,
		InputAudio: &InputAudio{Data: data, Format: format},
	}
}

// Message represents a single message in a conversation.
// Content is either a string for plain text or a []ContentPart for
// multimodal turns.
type Message struct {
	Role    Role `json:"role"`
	Content any  `json:"content"`
}

// NewMessage creates a Message with the given role and content.
//
// Example:
//
//	msg := protocol.NewMessage(protocol.RoleUser, "Hello, world!")
func NewMessage(role Role, content any) Message {
	return Message{Role: role, Content: content}
}

// InitMessages creates a single-element message slice from a role and content string.
func InitMessages(role Role, content string) []Message {
	return []Message{NewMessage(role, content)}
}

// Parts returns the message content as content parts. Plain string content
// becomes a single text part; unsupported content yields nil.
func (m Message) Parts() []ContentPart {
	switch c := m.Content.(type) {
	case string:
		return []ContentPart{TextPart(c)}
	case []ContentPart:
		return c
	default:
		return nil
	}
}

// HasAudio reports whether the message carries an inline audio part.
func (m Message) HasAudio() bool {
	for _, p := range m.Parts() {
		if p.Type == PartInputAudio {
			return true
		}
	}
	return false
}
