// Package memory persists small derived artifacts, such as transcripts, in a
// hierarchical key-value namespace. A Store does the I/O; a Cache keeps the
// recently used entries in process.
package memory

import "context"

// Store translates between external storage and the key-value namespace.
// Implementations do not cache; every call performs I/O.
type Store interface {
	// List returns all available keys in the store.
	List(ctx context.Context) ([]string, error)
	// Load retrieves entries for the specified keys.
	Load(ctx context.Context, keys ...string) ([]Entry, error)
	// Save persists entries to storage, creating or overwriting as needed.
	Save(ctx context.Context, entries ...Entry) error
	// Delete removes entries from storage. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
