package memory

import "path"

// NamespaceTranscripts holds transcripts keyed by the SHA-256 of the audio.
const NamespaceTranscripts = "transcripts"

// Entry is a key-value pair. Keys are /-separated relative paths and values
// are raw bytes.
type Entry struct {
	Key   string
	Value []byte
}

// TranscriptKey returns the key under which the transcript of audio with the
// given hex digest is stored.
func TranscriptKey(digest string) string {
	return path.Join(NamespaceTranscripts, digest+".txt")
}
