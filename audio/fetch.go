package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tailored-agentic-units/audioqa/core/config"
)

const defaultFetchTimeout = 60 * time.Second

// FetchConfig bounds remote and local reads. MaxBytes of zero means no limit.
type FetchConfig struct {
	Timeout  config.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	MaxBytes int64           `json:"max_bytes,omitempty" yaml:"max_bytes,omitempty"`
	Proxy    string          `json:"proxy,omitempty" yaml:"proxy,omitempty"`
}

// DefaultFetchConfig returns a 60s timeout with no size limit.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		Timeout: config.Duration(defaultFetchTimeout),
	}
}

// Merge applies non-zero values from source into c.
func (c *FetchConfig) Merge(source *FetchConfig) {
	if source.Timeout > 0 {
		c.Timeout = source.Timeout
	}
	if source.MaxBytes > 0 {
		c.MaxBytes = source.MaxBytes
	}
	if source.Proxy != "" {
		c.Proxy = source.Proxy
	}
}

// Fetcher resolves audio references into payloads.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewFetcher creates a fetcher. A nil client is replaced by one using the
// configured timeout.
func NewFetcher(cfg FetchConfig, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout.Std()}
	}
	return &Fetcher{client: client, maxBytes: cfg.MaxBytes}
}

// Fetch reads the referenced audio. All failures match ErrAcquisition.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (*Payload, error) {
	var (
		data []byte
		err  error
	)

	r := Reference(ref)
	switch r.Classify() {
	case KindURL:
		data, err = f.fetchRemote(ctx, ref)
	default:
		data, err = f.readLocal(ref)
		if err != nil && r.schemeOnly() {
			err = fmt.Errorf("%w %q: %w", ErrUnrecognizedReference, ref, err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAcquisition, err)
	}

	return NewPayload(ref, data), nil
}

func (f *Fetcher) fetchRemote(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, resp.ContentLength, f.maxBytes)
	}

	return f.readAll(resp.Body)
}

func (f *Fetcher) readLocal(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return f.readAll(file)
}

func (f *Fetcher) readAll(r io.Reader) ([]byte, error) {
	if f.maxBytes <= 0 {
		return io.ReadAll(r)
	}

	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.maxBytes)
	}
	return data, nil
}
