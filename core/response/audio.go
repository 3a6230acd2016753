package response

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AudioResponse is a parsed transcription result. Language, Duration and
// Segments are only populated by providers or response formats that report them.
type AudioResponse struct {
	Language string         `json:"language,omitempty"`
	Duration float64        `json:"duration,omitempty"`
	Text     string         `json:"text"`
	Segments []AudioSegment `json:"segments,omitempty"`
	Model    string         `json:"-"`
}

// AudioSegment is a timestamped span of the transcript.
type AudioSegment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Content returns the transcript with surrounding whitespace removed.
func (r *AudioResponse) Content() string {
	return strings.TrimSpace(r.Text)
}

// ParseAudio parses a JSON transcription response body into an AudioResponse.
func ParseAudio(body []byte) (*AudioResponse, error) {
	var response AudioResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse audio response: %w", err)
	}
	return &response, nil
}
