package audio

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"path"
	"path/filepath"
)

// Payload is acquired audio: the raw bytes and the container format derived
// from the reference. It is created once per request and shared by every
// answering stage.
type Payload struct {
	Reference string
	Kind      Kind
	Data      []byte
	Format    string
}

// NewPayload creates a payload for data acquired from ref.
func NewPayload(ref string, data []byte) *Payload {
	r := Reference(ref)
	return &Payload{
		Reference: ref,
		Kind:      r.Classify(),
		Data:      data,
		Format:    Format(ref),
	}
}

// Encode returns the standard base64 encoding of the audio bytes.
func (p *Payload) Encode() string {
	return base64.StdEncoding.EncodeToString(p.Data)
}

// Digest returns the hex SHA-256 of the audio bytes.
func (p *Payload) Digest() string {
	sum := sha256.Sum256(p.Data)
	return hex.EncodeToString(sum[:])
}

// Filename returns the base name of the reference for multipart uploads,
// falling back to "audio.<format>".
func (p *Payload) Filename() string {
	var name string
	if p.Kind == KindURL {
		if u, err := url.Parse(p.Reference); err == nil {
			name = path.Base(u.Path)
		}
	} else {
		name = filepath.Base(p.Reference)
	}

	if name == "" || name == "." || name == "/" {
		name = "audio"
		if p.Format != "" {
			name += "." + p.Format
		}
	}
	return name
}

// Size returns the payload length in bytes.
func (p *Payload) Size() int {
	return len(p.Data)
}
