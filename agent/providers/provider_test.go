package providers_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/tailored-agentic-units/audioqa/agent/providers"
	"github.com/tailored-agentic-units/audioqa/core/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.ProviderConfig
		wantName    string
		wantBaseURL string
		wantErr     error
	}{
		{
			name:        "openai default",
			cfg:         config.DefaultProviderConfig(),
			wantName:    "openai",
			wantBaseURL: "https://api.openai.com/v1/",
		},
		{
			name:        "groq known base URL",
			cfg:         config.ProviderConfig{Name: "groq"},
			wantName:    "groq",
			wantBaseURL: "https://api.groq.com/openai/v1/",
		},
		{
			name:        "ollama via compat client",
			cfg:         config.ProviderConfig{Name: "ollama"},
			wantName:    "ollama",
			wantBaseURL: "http://localhost:11434/v1",
		},
		{
			name:    "compat without base URL",
			cfg:     config.ProviderConfig{Name: "compat"},
			wantErr: providers.ErrUnknownProvider,
		},
		{
			name:    "unknown provider",
			cfg:     config.ProviderConfig{Name: "acme"},
			wantErr: providers.ErrUnknownProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := providers.New(&tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("got name %q, want %q", p.Name(), tt.wantName)
			}
			if p.BaseURL() != tt.wantBaseURL {
				t.Errorf("got baseURL %q, want %q", p.BaseURL(), tt.wantBaseURL)
			}
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	client, err := providers.NewHTTPClient(30*time.Second, "")
	if err != nil {
		t.Fatalf("NewHTTPClient failed: %v", err)
	}
	if client.Timeout != 30*time.Second {
		t.Errorf("got timeout %v, want 30s", client.Timeout)
	}

	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatal("transport is not *http.Transport")
	}
	if transport.Proxy == nil {
		t.Error("direct client should keep environment proxy resolution")
	}
}

func TestNewHTTPClient_SOCKS(t *testing.T) {
	client, err := providers.NewHTTPClient(time.Second, "127.0.0.1:1080")
	if err != nil {
		t.Fatalf("NewHTTPClient failed: %v", err)
	}

	transport := client.Transport.(*http.Transport)
	if transport.DialContext == nil {
		t.Error("SOCKS client should set DialContext")
	}
	if transport.Proxy != nil {
		t.Error("SOCKS client should not use HTTP proxy resolution")
	}
}
